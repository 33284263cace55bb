package record

import "time"

// Priority is the task priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// EventType classifies an important date.
type EventType string

const (
	EventAnniversary EventType = "anniversary"
	EventBirthday    EventType = "birthday"
	EventMilestone   EventType = "milestone"
	EventOther       EventType = "other"
)

func (t EventType) Valid() bool {
	switch t {
	case EventAnniversary, EventBirthday, EventMilestone, EventOther:
		return true
	}
	return false
}

// Memory is a saved moment, optionally backed by an uploaded media URL.
type Memory struct {
	ID          uint64  `gorm:"primaryKey"`
	UserID      uint64  `gorm:"index;not null"`
	Title       string  `gorm:"type:text;not null"`
	Description *string `gorm:"type:text"`
	MediaURL    *string `gorm:"type:text"`

	Date      time.Time `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// Task carries a 0/1 completed flag rather than a bool to match the
// wire format the client partitions on.
type Task struct {
	ID          uint64   `gorm:"primaryKey"`
	UserID      uint64   `gorm:"index;not null"`
	Title       string   `gorm:"type:text;not null"`
	Description *string  `gorm:"type:text"`
	Completed   int      `gorm:"not null;default:0"`
	Priority    Priority `gorm:"type:text;not null;default:'medium'"`

	DueDate   *time.Time
	CreatedAt time.Time `gorm:"index;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// Event is an important date (anniversary, birthday, ...).
type Event struct {
	ID          uint64    `gorm:"primaryKey"`
	UserID      uint64    `gorm:"index;not null"`
	Title       string    `gorm:"type:text;not null"`
	Description *string   `gorm:"type:text"`
	Type        EventType `gorm:"type:text;not null;default:'other'"`

	Date      time.Time `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
