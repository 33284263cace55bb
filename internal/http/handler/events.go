package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"keepsake/internal/auth"
	"keepsake/internal/jobs"
	"keepsake/internal/record"

	"github.com/go-playground/validator/v10"
)

type EventHandler struct {
	Svc      *record.Service
	Jobs     *jobs.Repo // nil when running without a database
	Validate *validator.Validate
}

type eventDTO struct {
	ID          uint64           `json:"id"`
	UserID      uint64           `json:"userId"`
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	Type        record.EventType `json:"type"`
	Date        time.Time        `json:"date"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	rows, err := h.Svc.ListEvents(r.Context(), uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]eventDTO, 0, len(rows))
	for _, e := range rows {
		out = append(out, eventDTO{
			ID:          e.ID,
			UserID:      e.UserID,
			Title:       e.Title,
			Description: e.Description,
			Type:        e.Type,
			Date:        e.Date,
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.UpdatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

type createEventReq struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Type        *string `json:"type" validate:"omitempty,oneof=anniversary birthday milestone other"`
	Date        string  `json:"date" validate:"required"`
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req createEventReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := h.Validate.Struct(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	in := record.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
	}
	if req.Type != nil {
		in.Type = record.EventType(*req.Type)
	}

	id, err := h.Svc.CreateEvent(r.Context(), uid, in)
	if err != nil {
		writeRecordError(w, err)
		return
	}

	// schedule a reminder for dates still ahead of us; the event row
	// already exists, so a failed enqueue must not fail the create
	if h.Jobs != nil && date.After(time.Now()) {
		if err := h.Jobs.EnqueueEventReminder(uid, id, date); err != nil {
			log.Printf("events: enqueue reminder for event %d failed: %v\n", id, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": id})
}

type updateEventReq struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Type        *string `json:"type" validate:"omitempty,oneof=anniversary birthday milestone other"`
	Date        *string `json:"date"`
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateEventReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	in := record.UpdateEventInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Type != nil {
		t := record.EventType(*req.Type)
		in.Type = &t
	}
	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		in.Date = &d
	}

	if err := h.Svc.UpdateEvent(r.Context(), uid, id, in); err != nil {
		writeRecordError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Svc.DeleteEvent(r.Context(), uid, id); err != nil {
		writeRecordError(w, err)
		return
	}

	// best effort: the worker marks reminders for missing events done anyway
	if h.Jobs != nil {
		if err := h.Jobs.CancelEventReminders(uid, id); err != nil {
			log.Printf("events: cancel reminders for event %d failed: %v\n", id, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
