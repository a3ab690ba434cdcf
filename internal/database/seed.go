package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/mrlokans/langportal/internal/entities"
)

// ActivitiesFile is the seed file holding study activities. Every other *.json
// file in a seed directory is a word list named after its group.
const ActivitiesFile = "study_activities.json"

type SeedResult struct {
	Activities int `json:"activities"`
	Groups     int `json:"groups"`
	Words      int `json:"words"`
}

type seedActivity struct {
	Name       string  `json:"name"`
	URL        string  `json:"url"`
	PreviewURL *string `json:"preview_url"`
}

type seedWord struct {
	Spanish       string `json:"spanish"`
	Pronunciation string `json:"pronunciation"`
	English       string `json:"english"`
}

// Seed imports dir in a single transaction.
func (d *Database) Seed(dir string) (*SeedResult, error) {
	var result *SeedResult
	err := d.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = SeedDir(tx, dir)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SeedDir imports activities and word lists from dir using tx. The caller owns
// the transaction. Groups, activities and words that already exist are reused
// so running the import twice does not duplicate rows.
func SeedDir(tx *gorm.DB, dir string) (*SeedResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed directory: %w", err)
	}

	result := &SeedResult{}

	activitiesPath := filepath.Join(dir, ActivitiesFile)
	if _, err := os.Stat(activitiesPath); err == nil {
		n, err := seedActivities(tx, activitiesPath)
		if err != nil {
			return nil, err
		}
		result.Activities = n
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var wordFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == ActivitiesFile || filepath.Ext(name) != ".json" {
			continue
		}
		wordFiles = append(wordFiles, name)
	}
	sort.Strings(wordFiles)

	for _, name := range wordFiles {
		n, err := seedGroup(tx, filepath.Join(dir, name), GroupNameFromFile(name))
		if err != nil {
			return nil, err
		}
		result.Groups++
		result.Words += n
	}

	return result, nil
}

// GroupNameFromFile turns "core_verbs.json" into "Core Verbs".
func GroupNameFromFile(name string) string {
	slug := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	slug = strings.NewReplacer("_", " ", "-", " ").Replace(slug)
	return cases.Title(language.Und).String(strings.Join(strings.Fields(slug), " "))
}

func seedActivities(tx *gorm.DB, path string) (int, error) {
	var activities []seedActivity
	if err := readJSON(path, &activities); err != nil {
		return 0, err
	}

	for _, a := range activities {
		activity := entities.StudyActivity{Name: a.Name, URL: a.URL, PreviewURL: a.PreviewURL}
		err := tx.Where(entities.StudyActivity{Name: a.Name}).
			Assign(entities.StudyActivity{URL: a.URL, PreviewURL: a.PreviewURL}).
			FirstOrCreate(&activity).Error
		if err != nil {
			return 0, fmt.Errorf("failed to seed activity %q: %w", a.Name, err)
		}
	}
	return len(activities), nil
}

func seedGroup(tx *gorm.DB, path, groupName string) (int, error) {
	var words []seedWord
	if err := readJSON(path, &words); err != nil {
		return 0, err
	}

	group := entities.Group{Name: groupName}
	if err := tx.Where("name = ?", groupName).FirstOrCreate(&group).Error; err != nil {
		return 0, fmt.Errorf("failed to seed group %q: %w", groupName, err)
	}

	for _, w := range words {
		word := entities.Word{Spanish: w.Spanish, Pronunciation: w.Pronunciation, English: w.English}
		err := tx.Where("spanish = ? AND english = ?", w.Spanish, w.English).
			Attrs(entities.Word{Pronunciation: w.Pronunciation}).
			FirstOrCreate(&word).Error
		if err != nil {
			return 0, fmt.Errorf("failed to seed word %q: %w", w.Spanish, err)
		}

		membership := entities.WordGroup{WordID: word.ID, GroupID: group.ID}
		err = tx.Where("word_id = ? AND group_id = ?", word.ID, group.ID).
			FirstOrCreate(&membership).Error
		if err != nil {
			return 0, fmt.Errorf("failed to link word %q to group %q: %w", w.Spanish, groupName, err)
		}
	}

	err := tx.Model(&entities.Group{}).
		Where("id = ?", group.ID).
		Update("words_count", tx.Model(&entities.WordGroup{}).Select("COUNT(*)").Where("group_id = ?", group.ID)).
		Error
	if err != nil {
		return 0, fmt.Errorf("failed to recount group %q: %w", groupName, err)
	}

	return len(words), nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
