// Package groups provides database operations for word groups and their
// memberships.
//
// This package implements the GroupStore interface defined in internal/http/groups.go.
//
// Every membership change runs in one transaction together with the matching
// words_count adjustment, so the counter always equals the number of
// word_groups rows for the group.
//
// # Interface Implementation
//
//	var _ http.GroupStore = (*Repository)(nil)
//
// # Usage
//
//	repo := groups.NewRepository(db)
//	group, err := repo.AddWord(groupID, wordID)
package groups

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
	ErrGroupNotFound    = "Group not found"
	ErrWordNotFound     = "Word not found"
	ErrAlreadyInGroup   = "Word already in group"
	ErrNotInGroup       = "Word not in group"
	ErrGroupNotEmpty    = "Group is not empty"
	ErrGroupHasSessions = "Group has study sessions"
	ErrNameRequired     = "Missing required field: name"
)

// Repository handles all group database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new groups repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListGroups returns one page of groups ordered by id.
func (r *Repository) ListGroups(page, perPage int) (*pagination.Result[entities.Group], error) {
	var total int64
	if err := r.db.Model(&entities.Group{}).Count(&total).Error; err != nil {
		return nil, database.Classify(err)
	}

	p, err := pagination.New(page, total, perPage)
	if err != nil {
		return nil, err
	}

	groups := []entities.Group{}
	err = r.db.Order("id").Offset(p.Offset()).Limit(p.Limit()).Find(&groups).Error
	if err != nil {
		return nil, database.Classify(err)
	}
	return &pagination.Result[entities.Group]{Items: groups, Page: p}, nil
}

// GetGroup retrieves a group by ID.
func (r *Repository) GetGroup(id uint) (*entities.Group, error) {
	return findGroup(r.db, id)
}

// CreateGroup creates an empty group.
func (r *Repository) CreateGroup(name string) (*entities.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation(ErrNameRequired, "A group needs a non-empty name")
	}

	group := &entities.Group{Name: name}
	if err := r.db.Create(group).Error; err != nil {
		return nil, database.Classify(err)
	}
	return group, nil
}

// DeleteGroup removes an empty group that no study session refers to.
func (r *Repository) DeleteGroup(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		group, err := findGroup(tx, id)
		if err != nil {
			return err
		}
		if group.WordsCount > 0 {
			return apperr.Conflict(ErrGroupNotEmpty,
				fmt.Sprintf("Group %d still has %d word(s)", id, group.WordsCount))
		}

		var sessions int64
		if err := tx.Model(&entities.StudySession{}).Where("group_id = ?", id).Count(&sessions).Error; err != nil {
			return err
		}
		if sessions > 0 {
			return apperr.Conflict(ErrGroupHasSessions,
				fmt.Sprintf("Group %d is referenced by %d study session(s)", id, sessions))
		}

		return tx.Delete(&entities.Group{}, id).Error
	})
	return database.Classify(err)
}

// ListGroupWords returns one page of the group's words ordered by id.
func (r *Repository) ListGroupWords(id uint, page, perPage int) (*pagination.Result[entities.Word], error) {
	if _, err := findGroup(r.db, id); err != nil {
		return nil, err
	}

	members := func(tx *gorm.DB) *gorm.DB {
		return tx.Joins("JOIN word_groups ON word_groups.word_id = words.id").
			Where("word_groups.group_id = ?", id)
	}

	var total int64
	if err := r.db.Model(&entities.Word{}).Scopes(members).Count(&total).Error; err != nil {
		return nil, database.Classify(err)
	}

	p, err := pagination.New(page, total, perPage)
	if err != nil {
		return nil, err
	}

	words := []entities.Word{}
	err = r.db.Model(&entities.Word{}).
		Scopes(members).
		Select("words.*").
		Order("words.id").
		Offset(p.Offset()).
		Limit(p.Limit()).
		Find(&words).Error
	if err != nil {
		return nil, database.Classify(err)
	}
	return &pagination.Result[entities.Word]{Items: words, Page: p}, nil
}

// AddWord puts a word into a group and increments the group's words_count.
// A missing group is reported before a missing word, and both before a
// duplicate membership.
func (r *Repository) AddWord(groupID, wordID uint) (*entities.Group, error) {
	var group *entities.Group
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := findGroup(tx, groupID); err != nil {
			return err
		}

		var words int64
		if err := tx.Model(&entities.Word{}).Where("id = ?", wordID).Count(&words).Error; err != nil {
			return err
		}
		if words == 0 {
			return apperr.NotFound(ErrWordNotFound, fmt.Sprintf("Word with ID %d does not exist", wordID))
		}

		var existing int64
		err := tx.Model(&entities.WordGroup{}).
			Where("word_id = ? AND group_id = ?", wordID, groupID).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return alreadyInGroup(groupID, wordID)
		}

		if err := tx.Create(&entities.WordGroup{WordID: wordID, GroupID: groupID}).Error; err != nil {
			if database.IsConstraintViolation(err) {
				return alreadyInGroup(groupID, wordID)
			}
			return err
		}

		err = tx.Model(&entities.Group{}).
			Where("id = ?", groupID).
			UpdateColumn("words_count", gorm.Expr("words_count + 1")).Error
		if err != nil {
			return err
		}

		group, err = findGroup(tx, groupID)
		return err
	})
	if err != nil {
		return nil, database.Classify(err)
	}
	return group, nil
}

// RemoveWord takes a word out of a group and decrements the group's
// words_count. The counter only moves when a membership row was deleted.
func (r *Repository) RemoveWord(groupID, wordID uint) (*entities.Group, error) {
	var group *entities.Group
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := findGroup(tx, groupID); err != nil {
			return err
		}

		result := tx.Where("word_id = ? AND group_id = ?", wordID, groupID).Delete(&entities.WordGroup{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound(ErrNotInGroup,
				fmt.Sprintf("Word %d is not a member of group %d", wordID, groupID))
		}

		err := tx.Model(&entities.Group{}).
			Where("id = ?", groupID).
			UpdateColumn("words_count", gorm.Expr("words_count - ?", result.RowsAffected)).Error
		if err != nil {
			return err
		}

		group, err = findGroup(tx, groupID)
		return err
	})
	if err != nil {
		return nil, database.Classify(err)
	}
	return group, nil
}

func alreadyInGroup(groupID, wordID uint) error {
	return apperr.Conflict(ErrAlreadyInGroup, fmt.Sprintf("Word %d is already a member of group %d", wordID, groupID))
}

func findGroup(db *gorm.DB, id uint) (*entities.Group, error) {
	var group entities.Group
	err := db.First(&group, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(ErrGroupNotFound, fmt.Sprintf("Group with ID %d does not exist", id))
	}
	if err != nil {
		return nil, database.Classify(err)
	}
	return &group, nil
}
