// Package words provides database operations for vocabulary words.
//
// This package implements the WordStore interface defined in internal/http/words.go.
//
// # Interface Implementation
//
//	var _ http.WordStore = (*Repository)(nil)
//
// # Usage
//
//	repo := words.NewRepository(db, cfg.API.SearchMaxLength)
//	result, err := repo.SearchWords("hola", 1, 100)
package words

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/langportal/internal/apperr"
	"github.com/mrlokans/langportal/internal/database"
	"github.com/mrlokans/langportal/internal/entities"
	"github.com/mrlokans/langportal/internal/pagination"
)

const (
	ErrWordNotFound     = "Word not found"
	ErrHasReviewHistory = "Cannot delete word with review history"
	ErrFieldsEmpty      = "Fields cannot be empty"
	ErrQueryRequired    = "Search query required"
	ErrQueryTooLong     = "Search query too long"
)

// Filter narrows ListWords. A nil GroupID and an empty Query match every word.
type Filter struct {
	GroupID *uint
	Query   string
}

// Item is a word as it appears in listings.
type Item struct {
	entities.Word
	GroupIDs []uint `json:"group_ids"`
}

type GroupRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Detail is a single word with its groups and review counters.
type Detail struct {
	entities.Word
	Groups       []GroupRef `json:"groups"`
	CorrectCount int64      `json:"correct_count"`
	WrongCount   int64      `json:"wrong_count"`
}

// Input carries word fields from a request body. A nil field was not supplied.
type Input struct {
	Spanish       *string `json:"spanish"`
	Pronunciation *string `json:"pronunciation"`
	English       *string `json:"english"`
}

type field struct {
	name   string
	column string
	value  *string
}

func (in Input) fields() []field {
	return []field{
		{"spanish", "spanish", in.Spanish},
		{"pronunciation", "pronunciation", in.Pronunciation},
		{"english", "english", in.English},
	}
}

// Repository handles all word database operations.
type Repository struct {
	db              *gorm.DB
	searchMaxLength int
}

// NewRepository creates a new words repository. Search queries longer than
// searchMaxLength characters are rejected.
func NewRepository(db *gorm.DB, searchMaxLength int) *Repository {
	return &Repository{db: db, searchMaxLength: searchMaxLength}
}

// ListWords returns one page of words ordered by id. A non-blank Query is
// trimmed and length-checked like a search before the database is touched.
func (r *Repository) ListWords(filter Filter, page, perPage int) (*pagination.Result[Item], error) {
	filter.Query = strings.TrimSpace(filter.Query)
	if filter.Query != "" {
		if _, err := r.validateQuery(filter.Query); err != nil {
			return nil, err
		}
	}

	lower := database.LowerFunc(r.db)
	scope := func(tx *gorm.DB) *gorm.DB {
		if filter.GroupID != nil {
			tx = tx.Joins("JOIN word_groups ON word_groups.word_id = words.id AND word_groups.group_id = ?", *filter.GroupID)
		}
		if filter.Query != "" {
			pattern := database.LikePattern(filter.Query)
			tx = tx.Where(fmt.Sprintf(`(%[1]s(words.spanish) LIKE ? ESCAPE '\' OR %[1]s(words.english) LIKE ? ESCAPE '\')`, lower),
				pattern, pattern)
		}
		return tx
	}

	var total int64
	if err := r.db.Model(&entities.Word{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, database.Classify(err)
	}

	p, err := pagination.New(page, total, perPage)
	if err != nil {
		return nil, err
	}

	var words []entities.Word
	err = r.db.Model(&entities.Word{}).
		Scopes(scope).
		Select("words.*").
		Order("words.id").
		Offset(p.Offset()).
		Limit(p.Limit()).
		Find(&words).Error
	if err != nil {
		return nil, database.Classify(err)
	}

	items, err := r.withGroupIDs(words)
	if err != nil {
		return nil, err
	}
	return &pagination.Result[Item]{Items: items, Page: p}, nil
}

// SearchWords matches q against spanish and english, case-insensitively.
// The query is validated before the database is touched.
func (r *Repository) SearchWords(q string, page, perPage int) (*pagination.Result[Item], error) {
	q, err := r.validateQuery(q)
	if err != nil {
		return nil, err
	}
	return r.ListWords(Filter{Query: q}, page, perPage)
}

func (r *Repository) validateQuery(q string) (string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", apperr.Validation(ErrQueryRequired, "Please provide a search term with the q parameter")
	}
	if r.searchMaxLength > 0 && len([]rune(q)) > r.searchMaxLength {
		return "", apperr.Validation(ErrQueryTooLong,
			fmt.Sprintf("Search query must not exceed %d characters", r.searchMaxLength))
	}
	return q, nil
}

func (r *Repository) withGroupIDs(words []entities.Word) ([]Item, error) {
	items := make([]Item, len(words))
	if len(words) == 0 {
		return items, nil
	}

	ids := make([]uint, len(words))
	for i, w := range words {
		ids[i] = w.ID
	}

	var memberships []entities.WordGroup
	err := r.db.Where("word_id IN ?", ids).Order("group_id").Find(&memberships).Error
	if err != nil {
		return nil, database.Classify(err)
	}

	byWord := make(map[uint][]uint, len(words))
	for _, m := range memberships {
		byWord[m.WordID] = append(byWord[m.WordID], m.GroupID)
	}

	for i, w := range words {
		groupIDs := byWord[w.ID]
		if groupIDs == nil {
			groupIDs = []uint{}
		}
		items[i] = Item{Word: w, GroupIDs: groupIDs}
	}
	return items, nil
}

// GetWord retrieves a word with its groups and review counters.
func (r *Repository) GetWord(id uint) (*Detail, error) {
	word, err := findWord(r.db, id)
	if err != nil {
		return nil, err
	}

	groups := []GroupRef{}
	err = r.db.Model(&entities.Group{}).
		Select("groups.id, groups.name").
		Joins("JOIN word_groups ON word_groups.group_id = groups.id").
		Where("word_groups.word_id = ?", id).
		Order("groups.id").
		Scan(&groups).Error
	if err != nil {
		return nil, database.Classify(err)
	}

	var counts struct {
		CorrectCount int64
		WrongCount   int64
	}
	err = r.db.Model(&entities.WordReviewItem{}).
		Select("COALESCE(SUM(CASE WHEN correct THEN 1 ELSE 0 END), 0) AS correct_count, "+
			"COALESCE(SUM(CASE WHEN correct THEN 0 ELSE 1 END), 0) AS wrong_count").
		Where("word_id = ?", id).
		Scan(&counts).Error
	if err != nil {
		return nil, database.Classify(err)
	}

	return &Detail{
		Word:         *word,
		Groups:       groups,
		CorrectCount: counts.CorrectCount,
		WrongCount:   counts.WrongCount,
	}, nil
}

// CreateWord validates and inserts a new word. Fields are checked for presence
// in the order spanish, pronunciation, english before any is checked for
// emptiness.
func (r *Repository) CreateWord(in Input) (*entities.Word, error) {
	for _, f := range in.fields() {
		if f.value == nil {
			return nil, apperr.Validation("Missing required field: "+f.name,
				fmt.Sprintf("The %s field is required", f.name))
		}
	}
	for _, f := range in.fields() {
		if strings.TrimSpace(*f.value) == "" {
			return nil, apperr.Validation(ErrFieldsEmpty, f.name+" must not be empty")
		}
	}

	word := &entities.Word{
		Spanish:       strings.TrimSpace(*in.Spanish),
		Pronunciation: strings.TrimSpace(*in.Pronunciation),
		English:       strings.TrimSpace(*in.English),
	}
	if err := r.db.Create(word).Error; err != nil {
		return nil, database.Classify(err)
	}
	return word, nil
}

// UpdateWord applies the supplied fields of in. Fields left nil keep their
// current value.
func (r *Repository) UpdateWord(id uint, in Input) (*entities.Word, error) {
	updates := map[string]any{}
	for _, f := range in.fields() {
		if f.value == nil {
			continue
		}
		v := strings.TrimSpace(*f.value)
		if v == "" {
			return nil, apperr.Validation(ErrFieldsEmpty, f.name+" must not be empty")
		}
		updates[f.column] = v
	}

	var word *entities.Word
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		word, err = findWord(tx, id)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(word).Updates(updates).Error; err != nil {
			return err
		}
		word, err = findWord(tx, id)
		return err
	})
	if err != nil {
		return nil, database.Classify(err)
	}
	return word, nil
}

// DeleteWord removes a word and its group memberships, keeping every affected
// group's words_count in step. Words with review history cannot be deleted.
func (r *Repository) DeleteWord(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := findWord(tx, id); err != nil {
			return err
		}

		var reviews int64
		if err := tx.Model(&entities.WordReviewItem{}).Where("word_id = ?", id).Count(&reviews).Error; err != nil {
			return err
		}
		if reviews > 0 {
			return apperr.Conflict(ErrHasReviewHistory,
				fmt.Sprintf("Word %d has %d review(s) and cannot be deleted", id, reviews))
		}

		memberGroups := tx.Model(&entities.WordGroup{}).Select("group_id").Where("word_id = ?", id)
		err := tx.Model(&entities.Group{}).
			Where("id IN (?)", memberGroups).
			UpdateColumn("words_count", gorm.Expr("words_count - 1")).Error
		if err != nil {
			return err
		}

		if err := tx.Where("word_id = ?", id).Delete(&entities.WordGroup{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Word{}, id).Error
	})
	return database.Classify(err)
}

func findWord(db *gorm.DB, id uint) (*entities.Word, error) {
	var word entities.Word
	err := db.First(&word, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(ErrWordNotFound, fmt.Sprintf("Word with ID %d does not exist", id))
	}
	if err != nil {
		return nil, database.Classify(err)
	}
	return &word, nil
}
