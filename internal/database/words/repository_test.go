package words

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/langportal/internal/apperr"
	"github.com/mrlokans/langportal/internal/database"
	"github.com/mrlokans/langportal/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := filepath.Join(t.TempDir(), "test_words.db")

	db, err := gorm.Open(database.SQLiteDialector(database.SQLiteDSN(dbPath, time.Second)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	repo := NewRepository(db, 100)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}

	return db, repo, cleanup
}

func createTestWord(t *testing.T, db *gorm.DB, spanish, pronunciation, english string) *entities.Word {
	w := &entities.Word{Spanish: spanish, Pronunciation: pronunciation, English: english}
	require.NoError(t, db.Create(w).Error)
	return w
}

func createTestGroup(t *testing.T, db *gorm.DB, name string, words ...*entities.Word) *entities.Group {
	g := &entities.Group{Name: name, WordsCount: len(words)}
	require.NoError(t, db.Create(g).Error)
	for _, w := range words {
		require.NoError(t, db.Create(&entities.WordGroup{WordID: w.ID, GroupID: g.ID}).Error)
	}
	return g
}

func createTestReview(t *testing.T, db *gorm.DB, wordID, groupID uint, correct bool) {
	activity := &entities.StudyActivity{Name: "Typing Tutor", URL: "http://localhost:8080"}
	require.NoError(t, db.Create(activity).Error)
	session := &entities.StudySession{GroupID: groupID, StudyActivityID: activity.ID, CreatedAt: time.Now().UTC()}
	require.NoError(t, db.Create(session).Error)
	review := &entities.WordReviewItem{WordID: wordID, StudySessionID: session.ID, Correct: correct, CreatedAt: time.Now().UTC()}
	require.NoError(t, db.Create(review).Error)
}

func seedBasicPhrases(t *testing.T, db *gorm.DB) (*entities.Group, []*entities.Word) {
	hola := createTestWord(t, db, "hola", "OH-lah", "hello")
	adios := createTestWord(t, db, "adiós", "ah-DYOHS", "goodbye")
	gracias := createTestWord(t, db, "gracias", "GRAH-see-ahs", "thank you")
	group := createTestGroup(t, db, "Basic Phrases", hola, adios, gracias)
	return group, []*entities.Word{hola, adios, gracias}
}

func ptr(s string) *string { return &s }

func TestRepository_ListWords(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	group, words := seedBasicPhrases(t, db)

	result, err := repo.ListWords(Filter{}, 1, 100)

	require.NoError(t, err)
	require.Len(t, result.Items, 3)
	assert.Equal(t, int64(3), result.Page.Total)
	assert.Equal(t, 1, result.Page.TotalPages)
	assert.Equal(t, words[0].ID, result.Items[0].ID)
	assert.Equal(t, "hola", result.Items[0].Spanish)
	assert.Equal(t, []uint{group.ID}, result.Items[0].GroupIDs)
}

func TestRepository_ListWords_Pagination(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	for i := 0; i < 101; i++ {
		createTestWord(t, db, fmt.Sprintf("word%d", i), fmt.Sprintf("pron%d", i), fmt.Sprintf("eng%d", i))
	}

	first, err := repo.ListWords(Filter{}, 1, 100)
	require.NoError(t, err)
	assert.Len(t, first.Items, 100)
	assert.Equal(t, 2, first.Page.TotalPages)
	assert.Equal(t, int64(101), first.Page.Total)

	second, err := repo.ListWords(Filter{}, 2, 100)
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "word100", second.Items[0].Spanish)

	_, err = repo.ListWords(Filter{}, 3, 100)
	assert.True(t, apperr.IsValidation(err))

	_, err = repo.ListWords(Filter{}, 0, 100)
	assert.True(t, apperr.IsValidation(err))
}

func TestRepository_ListWords_EmptyTableHasOnePage(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	result, err := repo.ListWords(Filter{}, 1, 100)

	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.NotNil(t, result.Items)
	assert.Equal(t, 1, result.Page.TotalPages)
}

func TestRepository_ListWords_ByGroup(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	group, _ := seedBasicPhrases(t, db)
	createTestWord(t, db, "uno", "OO-noh", "one")

	result, err := repo.ListWords(Filter{GroupID: &group.ID}, 1, 100)
	require.NoError(t, err)
	assert.Len(t, result.Items, 3)
	for _, item := range result.Items {
		assert.Equal(t, []uint{group.ID}, item.GroupIDs)
	}

	missing := uint(999)
	result, err = repo.ListWords(Filter{GroupID: &missing}, 1, 100)
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}

func TestRepository_ListWords_UngroupedWordHasEmptyGroupIDs(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestWord(t, db, "uno", "OO-noh", "one")

	result, err := repo.ListWords(Filter{}, 1, 100)

	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.NotNil(t, result.Items[0].GroupIDs)
	assert.Empty(t, result.Items[0].GroupIDs)
}

func TestRepository_SearchWords(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	seedBasicPhrases(t, db)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"exact spanish", "hola", []string{"hola"}},
		{"partial spanish", "grac", []string{"gracias"}},
		{"english", "thank", []string{"gracias"}},
		{"case insensitive", "HOLA", []string{"hola"}},
		{"surrounding whitespace", "  hola ", []string{"hola"}},
		{"no results", "xyz123", nil},
		{"quote injection", "x' OR '1'='1", nil},
		{"percent is literal", "%", nil},
		{"underscore is literal", "_", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := repo.SearchWords(tt.query, 1, 100)
			require.NoError(t, err)

			var got []string
			for _, item := range result.Items {
				got = append(got, item.Spanish)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepository_SearchWords_Validation(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.SearchWords("", 1, 100)
	require.Error(t, err)
	e, _ := apperr.As(err)
	assert.Equal(t, ErrQueryRequired, e.Code)

	_, err = repo.SearchWords("   ", 1, 100)
	assert.True(t, apperr.IsValidation(err))

	_, err = repo.SearchWords(strings.Repeat("a", 101), 1, 100)
	require.Error(t, err)
	e, _ = apperr.As(err)
	assert.Equal(t, ErrQueryTooLong, e.Code)

	_, err = repo.SearchWords(strings.Repeat("a", 100), 1, 100)
	assert.NoError(t, err)
}

func TestRepository_SearchWords_FoldsAccentedCapitals(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestWord(t, db, "Árbol", "AHR-bohl", "tree")
	createTestWord(t, db, "niño", "NEE-nyoh", "boy")
	createTestWord(t, db, "Él", "ehl", "he")

	tests := []struct {
		query string
		want  []string
	}{
		{"Árbol", []string{"Árbol"}},
		{"árbol", []string{"Árbol"}},
		{"ÁRBOL", []string{"Árbol"}},
		{"niño", []string{"niño"}},
		{"NIÑO", []string{"niño"}},
		{"él", []string{"Él"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			result, err := repo.SearchWords(tt.query, 1, 100)
			require.NoError(t, err)

			var got []string
			for _, item := range result.Items {
				got = append(got, item.Spanish)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepository_ListWords_QueryIsValidated(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	seedBasicPhrases(t, db)

	_, err := repo.ListWords(Filter{Query: strings.Repeat("a", 5000)}, 1, 100)
	require.Error(t, err)
	e, _ := apperr.As(err)
	assert.Equal(t, ErrQueryTooLong, e.Code)

	result, err := repo.ListWords(Filter{Query: "  HOLA "}, 1, 100)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "hola", result.Items[0].Spanish)

	result, err = repo.ListWords(Filter{Query: "   "}, 1, 100)
	require.NoError(t, err)
	assert.Len(t, result.Items, 3)
}

func TestRepository_GetWord(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	group, words := seedBasicPhrases(t, db)
	createTestReview(t, db, words[0].ID, group.ID, true)
	createTestReview(t, db, words[0].ID, group.ID, false)
	createTestReview(t, db, words[0].ID, group.ID, true)

	detail, err := repo.GetWord(words[0].ID)

	require.NoError(t, err)
	assert.Equal(t, "hola", detail.Spanish)
	assert.Equal(t, "OH-lah", detail.Pronunciation)
	assert.Equal(t, []GroupRef{{ID: group.ID, Name: "Basic Phrases"}}, detail.Groups)
	assert.Equal(t, int64(2), detail.CorrectCount)
	assert.Equal(t, int64(1), detail.WrongCount)
}

func TestRepository_GetWord_WithoutGroups(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	word := createTestWord(t, db, "uno", "OO-noh", "one")

	detail, err := repo.GetWord(word.ID)

	require.NoError(t, err)
	assert.NotNil(t, detail.Groups)
	assert.Empty(t, detail.Groups)
	assert.Zero(t, detail.CorrectCount)
	assert.Zero(t, detail.WrongCount)
}

func TestRepository_GetWord_NotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetWord(999)

	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	e, _ := apperr.As(err)
	assert.Equal(t, ErrWordNotFound, e.Code)
}

func TestRepository_CreateWord(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	word, err := repo.CreateWord(Input{
		Spanish:       ptr("nuevo"),
		Pronunciation: ptr("noo-EH-voh"),
		English:       ptr("new"),
	})

	require.NoError(t, err)
	assert.NotZero(t, word.ID)
	assert.Equal(t, "nuevo", word.Spanish)

	fetched, err := repo.GetWord(word.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", fetched.English)
}

func TestRepository_CreateWord_Validation(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	tests := []struct {
		name     string
		input    Input
		wantCode string
	}{
		{"missing spanish", Input{Pronunciation: ptr("p"), English: ptr("e")}, "Missing required field: spanish"},
		{"missing pronunciation", Input{Spanish: ptr("s"), English: ptr("e")}, "Missing required field: pronunciation"},
		{"missing english", Input{Spanish: ptr("s"), Pronunciation: ptr("p")}, "Missing required field: english"},
		{"missing all reports spanish first", Input{}, "Missing required field: spanish"},
		{"missing beats empty", Input{Spanish: ptr(""), Pronunciation: ptr("p")}, "Missing required field: english"},
		{"empty spanish", Input{Spanish: ptr(""), Pronunciation: ptr("p"), English: ptr("e")}, ErrFieldsEmpty},
		{"blank english", Input{Spanish: ptr("s"), Pronunciation: ptr("p"), English: ptr("   ")}, ErrFieldsEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.CreateWord(tt.input)
			require.Error(t, err)
			e, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, apperr.KindValidation, e.Kind)
			assert.Equal(t, tt.wantCode, e.Code)
		})
	}
}

func TestRepository_UpdateWord(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	word := createTestWord(t, db, "hola", "OH-lah", "hello")

	updated, err := repo.UpdateWord(word.ID, Input{
		Spanish:       ptr("hola updated"),
		Pronunciation: ptr("OH-lah updated"),
		English:       ptr("hello updated"),
	})

	require.NoError(t, err)
	assert.Equal(t, word.ID, updated.ID)
	assert.Equal(t, "hola updated", updated.Spanish)
	assert.Equal(t, "OH-lah updated", updated.Pronunciation)
	assert.Equal(t, "hello updated", updated.English)
}

func TestRepository_UpdateWord_Partial(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	word := createTestWord(t, db, "hola", "OH-lah", "hello")

	updated, err := repo.UpdateWord(word.ID, Input{Spanish: ptr("hola nuevo")})

	require.NoError(t, err)
	assert.Equal(t, "hola nuevo", updated.Spanish)
	assert.Equal(t, "OH-lah", updated.Pronunciation)
	assert.Equal(t, "hello", updated.English)
}

func TestRepository_UpdateWord_Errors(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	word := createTestWord(t, db, "hola", "OH-lah", "hello")

	_, err := repo.UpdateWord(999, Input{Spanish: ptr("x")})
	assert.True(t, apperr.IsNotFound(err))

	_, err = repo.UpdateWord(word.ID, Input{English: ptr("")})
	assert.True(t, apperr.IsValidation(err))

	var stored entities.Word
	require.NoError(t, db.First(&stored, word.ID).Error)
	assert.Equal(t, "hello", stored.English)
}

func TestRepository_DeleteWord(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	group, words := seedBasicPhrases(t, db)
	other := createTestGroup(t, db, "Greetings", words[0])

	err := repo.DeleteWord(words[0].ID)
	require.NoError(t, err)

	_, err = repo.GetWord(words[0].ID)
	assert.True(t, apperr.IsNotFound(err))

	for _, g := range []*entities.Group{group, other} {
		var stored entities.Group
		require.NoError(t, db.First(&stored, g.ID).Error)

		var memberships int64
		db.Model(&entities.WordGroup{}).Where("group_id = ?", g.ID).Count(&memberships)
		assert.Equal(t, int64(stored.WordsCount), memberships, stored.Name)
	}
}

func TestRepository_DeleteWord_NotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.DeleteWord(999)

	assert.True(t, apperr.IsNotFound(err))
}

func TestRepository_DeleteWord_WithReviews(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	group, words := seedBasicPhrases(t, db)
	createTestReview(t, db, words[0].ID, group.ID, true)

	err := repo.DeleteWord(words[0].ID)

	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	e, _ := apperr.As(err)
	assert.Equal(t, ErrHasReviewHistory, e.Code)

	_, err = repo.GetWord(words[0].ID)
	assert.NoError(t, err)

	var stored entities.Group
	require.NoError(t, db.First(&stored, group.ID).Error)
	assert.Equal(t, 3, stored.WordsCount)
}
