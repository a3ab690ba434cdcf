package entities

import "time"

type Word struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Spanish       string `gorm:"type:text;not null" json:"spanish"`
	Pronunciation string `gorm:"type:text;not null" json:"pronunciation"`
	English       string `gorm:"type:text;not null" json:"english"`
}

// Group tags a set of words. WordsCount is denormalized and must always equal
// the number of WordGroup rows that reference the group; the groups
// repository maintains it in the same transaction as every membership change.
type Group struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"type:text;not null;index" json:"name"`
	WordsCount int    `gorm:"not null;default:0" json:"words_count"`
}

type WordGroup struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	WordID  uint   `gorm:"not null;uniqueIndex:idx_word_group" json:"word_id"`
	GroupID uint   `gorm:"not null;uniqueIndex:idx_word_group;index" json:"group_id"`
	Word    *Word  `gorm:"foreignKey:WordID;constraint:OnDelete:CASCADE" json:"-"`
	Group   *Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
}

type StudyActivity struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	Name       string  `gorm:"type:text;not null" json:"name"`
	URL        string  `gorm:"column:url;type:text;not null" json:"url"`
	PreviewURL *string `gorm:"column:preview_url;type:text" json:"preview_url"`
}

// StudySession is pending while CompletedAt is nil. CompletedAt is set once.
type StudySession struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	GroupID         uint           `gorm:"not null;index" json:"group_id"`
	StudyActivityID uint           `gorm:"not null;index" json:"study_activity_id"`
	CreatedAt       time.Time      `gorm:"not null;index" json:"created_at"`
	CompletedAt     *time.Time     `json:"completed_at"`
	Group           *Group         `gorm:"foreignKey:GroupID;constraint:OnDelete:RESTRICT" json:"-"`
	StudyActivity   *StudyActivity `gorm:"foreignKey:StudyActivityID;constraint:OnDelete:RESTRICT" json:"-"`
}

// WordReviewItem is append-only.
type WordReviewItem struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	WordID         uint          `gorm:"not null;index" json:"word_id"`
	StudySessionID uint          `gorm:"not null;index" json:"study_session_id"`
	Correct        bool          `gorm:"not null" json:"correct"`
	CreatedAt      time.Time     `gorm:"not null" json:"created_at"`
	Word           *Word         `gorm:"foreignKey:WordID;constraint:OnDelete:RESTRICT" json:"-"`
	StudySession   *StudySession `gorm:"foreignKey:StudySessionID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Word) TableName() string {
	return "words"
}

func (Group) TableName() string {
	return "groups"
}

func (WordGroup) TableName() string {
	return "word_groups"
}

func (StudyActivity) TableName() string {
	return "study_activities"
}

func (StudySession) TableName() string {
	return "study_sessions"
}

func (WordReviewItem) TableName() string {
	return "word_review_items"
}

// All lists every model in foreign-key order, for migrations.
func All() []any {
	return []any{
		&Word{},
		&Group{},
		&WordGroup{},
		&StudyActivity{},
		&StudySession{},
		&WordReviewItem{},
	}
}
