package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"keepsake/internal/auth"
	"keepsake/internal/record"

	"github.com/go-playground/validator/v10"
)

type MemoryHandler struct {
	Svc      *record.Service
	Validate *validator.Validate
}

type memoryDTO struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"userId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	MediaURL    *string   `json:"mediaUrl"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (h *MemoryHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	rows, err := h.Svc.ListMemories(r.Context(), uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]memoryDTO, 0, len(rows))
	for _, m := range rows {
		out = append(out, memoryDTO{
			ID:          m.ID,
			UserID:      m.UserID,
			Title:       m.Title,
			Description: m.Description,
			MediaURL:    m.MediaURL,
			Date:        m.Date,
			CreatedAt:   m.CreatedAt,
			UpdatedAt:   m.UpdatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

type createMemoryReq struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	MediaURL    *string `json:"mediaUrl" validate:"omitempty,url"`
	Date        string  `json:"date" validate:"required"`
}

func (h *MemoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req createMemoryReq
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

	id, err := h.Svc.CreateMemory(r.Context(), uid, record.CreateMemoryInput{
		Title:       req.Title,
		Description: req.Description,
		MediaURL:    req.MediaURL,
		Date:        date,
	})
	if err != nil {
		writeRecordError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": id})
}

type updateMemoryReq struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	MediaURL    *string `json:"mediaUrl" validate:"omitempty,url"`
	Date        *string `json:"date"`
}

func (h *MemoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateMemoryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	in := record.UpdateMemoryInput{
		Title:       req.Title,
		Description: req.Description,
		MediaURL:    req.MediaURL,
	}
	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}
		in.Date = &d
	}

	if err := h.Svc.UpdateMemory(r.Context(), uid, id, in); err != nil {
		writeRecordError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MemoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Svc.DeleteMemory(r.Context(), uid, id); err != nil {
		writeRecordError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeRecordError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, record.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, record.ErrDatabaseUnavailable):
		http.Error(w, "database not available", http.StatusServiceUnavailable)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}
