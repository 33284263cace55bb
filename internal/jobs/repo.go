package jobs

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type Repo struct {
	DB *gorm.DB
}

// EnqueueEventReminder schedules a single reminder for an event at its date.
func (r *Repo) EnqueueEventReminder(userID, eventID uint64, runAt time.Time) error {
	payload, _ := json.Marshal(map[string]any{
		"event_id": eventID,
	})
	j := Job{
		UserID:  userID,
		Type:    TypeEventReminder,
		Payload: payload,
		RunAt:   runAt,
		Status:  "PENDING",
	}
	return r.DB.Create(&j).Error
}

// CancelEventReminders drops pending reminders for a deleted event.
func (r *Repo) CancelEventReminders(userID, eventID uint64) error {
	return r.DB.Exec(`
delete from jobs
where user_id = ?
  and type = ?
  and status = 'PENDING'
  and (payload->>'event_id')::bigint = ?
`, userID, TypeEventReminder, eventID).Error
}

// Claim grabs one due job atomically with FOR UPDATE SKIP LOCKED so two
// workers never double-claim. Postgres only.
func (r *Repo) Claim(workerID string) (*Job, error) {
	var job Job
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		// requeue jobs stuck RUNNING after a crash
		tx.Exec(`
update jobs
set status='PENDING', locked_by=null, locked_at=null, updated_at=now()
where status='RUNNING' and locked_at is not null and locked_at < now() - interval '5 minutes'
`)

		q := tx.Raw(`
with cte as (
  select id
  from jobs
  where status='PENDING' and run_at <= now()
  order by run_at asc
  for update skip locked
  limit 1
)
update jobs
set status='RUNNING', locked_by=?, locked_at=now(), updated_at=now()
where id in (select id from cte)
returning *;
`, workerID)

		return q.Scan(&job).Error
	})
	if err != nil {
		return nil, err
	}
	if job.ID == 0 {
		return nil, nil
	}
	return &job, nil
}

func (r *Repo) MarkDone(id uint64) error {
	return r.DB.Model(&Job{}).Where("id = ?", id).
		Updates(map[string]any{"status": "DONE", "updated_at": time.Now()}).Error
}

func (r *Repo) MarkFailed(id uint64, errMsg string) error {
	return r.DB.Model(&Job{}).Where("id = ?", id).
		Updates(map[string]any{"status": "FAILED", "last_error": errMsg, "updated_at": time.Now()}).Error
}
