package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"keepsake/internal/record"

	"gorm.io/gorm"
)

// Worker polls for due reminder jobs and announces them. A reminder whose
// event has been deleted in the meantime is marked done, not failed.
type Worker struct {
	ID   string
	Repo *Repo
	DB   *gorm.DB
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, err := w.Repo.Claim(w.ID)
			if err != nil {
				log.Printf("worker claim error: %v\n", err)
				continue
			}
			if job == nil {
				continue
			}
			w.Handle(job)
		}
	}
}

func (w *Worker) Handle(job *Job) {
	switch job.Type {
	case TypeEventReminder:
		w.handleEventReminder(job)
	default:
		_ = w.Repo.MarkFailed(job.ID, "unknown job type")
	}
}

func (w *Worker) handleEventReminder(job *Job) {
	type payload struct {
		EventID uint64 `json:"event_id"`
	}
	var p payload
	if err := json.Unmarshal(job.Payload, &p); err != nil {
		_ = w.Repo.MarkFailed(job.ID, "bad payload")
		return
	}

	var ev record.Event
	if err := w.DB.
		Where("id = ? AND user_id = ?", p.EventID, job.UserID).
		First(&ev).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = w.Repo.MarkDone(job.ID)
			return
		}
		_ = w.Repo.MarkFailed(job.ID, "db read error")
		return
	}

	log.Printf("[REMINDER] user=%d event=%d type=%s title=%q date=%s\n",
		job.UserID, ev.ID, ev.Type, ev.Title, ev.Date.Format(time.DateOnly))
	_ = w.Repo.MarkDone(job.ID)
}
