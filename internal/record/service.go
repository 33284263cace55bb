package record

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")
var ErrDatabaseUnavailable = errors.New("database not available")

// Service owns all record reads and writes. Every operation is scoped to
// the owning user id; updates and deletes never cross owners.
//
// A nil DB handle means the process is running without a configured
// database: lists degrade to empty results, writes fail.
type Service struct {
	DB *gorm.DB
}

type CreateMemoryInput struct {
	Title       string
	Description *string
	MediaURL    *string
	Date        time.Time
}

type UpdateMemoryInput struct {
	Title       *string
	Description *string
	MediaURL    *string
	Date        *time.Time
}

func (s *Service) CreateMemory(ctx context.Context, ownerID uint64, in CreateMemoryInput) (uint64, error) {
	if s.DB == nil {
		return 0, ErrDatabaseUnavailable
	}
	m := Memory{
		UserID:      ownerID,
		Title:       in.Title,
		Description: in.Description,
		MediaURL:    in.MediaURL,
		Date:        in.Date,
	}
	if err := s.DB.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}

func (s *Service) ListMemories(ctx context.Context, ownerID uint64) ([]Memory, error) {
	if s.DB == nil {
		log.Println("record: database not available, returning empty memory list")
		return []Memory{}, nil
	}
	var rows []Memory
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("date desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) UpdateMemory(ctx context.Context, ownerID, id uint64, in UpdateMemoryInput) error {
	updates := map[string]any{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.MediaURL != nil {
		updates["media_url"] = *in.MediaURL
	}
	if in.Date != nil {
		updates["date"] = *in.Date
	}
	return s.applyUpdate(ctx, &Memory{}, ownerID, id, updates)
}

func (s *Service) DeleteMemory(ctx context.Context, ownerID, id uint64) error {
	if s.DB == nil {
		return ErrDatabaseUnavailable
	}
	return s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&Memory{}).Error
}

type CreateTaskInput struct {
	Title       string
	Description *string
	Priority    Priority
	DueDate     *time.Time
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Completed   *int
	Priority    *Priority
	DueDate     *time.Time
}

func (s *Service) CreateTask(ctx context.Context, ownerID uint64, in CreateTaskInput) (uint64, error) {
	if s.DB == nil {
		return 0, ErrDatabaseUnavailable
	}
	pr := in.Priority
	if pr == "" {
		pr = PriorityMedium
	}
	t := Task{
		UserID:      ownerID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    pr,
		DueDate:     in.DueDate,
	}
	if err := s.DB.WithContext(ctx).Create(&t).Error; err != nil {
		return 0, err
	}
	return t.ID, nil
}

func (s *Service) ListTasks(ctx context.Context, ownerID uint64) ([]Task, error) {
	if s.DB == nil {
		log.Println("record: database not available, returning empty task list")
		return []Task{}, nil
	}
	var rows []Task
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) UpdateTask(ctx context.Context, ownerID, id uint64, in UpdateTaskInput) error {
	updates := map[string]any{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Completed != nil {
		updates["completed"] = *in.Completed
	}
	if in.Priority != nil {
		updates["priority"] = *in.Priority
	}
	if in.DueDate != nil {
		updates["due_date"] = *in.DueDate
	}
	return s.applyUpdate(ctx, &Task{}, ownerID, id, updates)
}

func (s *Service) DeleteTask(ctx context.Context, ownerID, id uint64) error {
	if s.DB == nil {
		return ErrDatabaseUnavailable
	}
	return s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&Task{}).Error
}

type CreateEventInput struct {
	Title       string
	Description *string
	Type        EventType
	Date        time.Time
}

type UpdateEventInput struct {
	Title       *string
	Description *string
	Type        *EventType
	Date        *time.Time
}

func (s *Service) CreateEvent(ctx context.Context, ownerID uint64, in CreateEventInput) (uint64, error) {
	if s.DB == nil {
		return 0, ErrDatabaseUnavailable
	}
	typ := in.Type
	if typ == "" {
		typ = EventOther
	}
	e := Event{
		UserID:      ownerID,
		Title:       in.Title,
		Description: in.Description,
		Type:        typ,
		Date:        in.Date,
	}
	if err := s.DB.WithContext(ctx).Create(&e).Error; err != nil {
		return 0, err
	}
	return e.ID, nil
}

func (s *Service) ListEvents(ctx context.Context, ownerID uint64) ([]Event, error) {
	if s.DB == nil {
		log.Println("record: database not available, returning empty event list")
		return []Event{}, nil
	}
	var rows []Event
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("date desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) UpdateEvent(ctx context.Context, ownerID, id uint64, in UpdateEventInput) error {
	updates := map[string]any{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Type != nil {
		updates["type"] = *in.Type
	}
	if in.Date != nil {
		updates["date"] = *in.Date
	}
	return s.applyUpdate(ctx, &Event{}, ownerID, id, updates)
}

func (s *Service) DeleteEvent(ctx context.Context, ownerID, id uint64) error {
	if s.DB == nil {
		return ErrDatabaseUnavailable
	}
	return s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&Event{}).Error
}

// applyUpdate writes a partial update to a row the owner actually holds.
// updated_at is stamped on every call, even when the field set is empty.
func (s *Service) applyUpdate(ctx context.Context, model any, ownerID, id uint64, updates map[string]any) error {
	if s.DB == nil {
		return ErrDatabaseUnavailable
	}
	updates["updated_at"] = time.Now()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// ensure the row belongs to the caller
		var n int64
		if err := tx.Model(model).Where("id = ? AND user_id = ?", id, ownerID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return tx.Model(model).Where("id = ? AND user_id = ?", id, ownerID).Updates(updates).Error
	})
}
