package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"keepsake/internal/auth"
	"keepsake/internal/record"

	"github.com/go-playground/validator/v10"
)

type TaskHandler struct {
	Svc      *record.Service
	Validate *validator.Validate
}

type taskDTO struct {
	ID          uint64          `json:"id"`
	UserID      uint64          `json:"userId"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Completed   int             `json:"completed"`
	Priority    record.Priority `json:"priority"`
	DueDate     *time.Time      `json:"dueDate"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	rows, err := h.Svc.ListTasks(r.Context(), uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]taskDTO, 0, len(rows))
	for _, t := range rows {
		out = append(out, taskDTO{
			ID:          t.ID,
			UserID:      t.UserID,
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
			Priority:    t.Priority,
			DueDate:     t.DueDate,
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

type createTaskReq struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"dueDate"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req createTaskReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := h.Validate.Struct(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	in := record.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Priority != nil {
		in.Priority = record.Priority(*req.Priority)
	}
	if req.DueDate != nil && strings.TrimSpace(*req.DueDate) != "" {
		d, err := parseDate(*req.DueDate)
		if err != nil {
			http.Error(w, "invalid dueDate", http.StatusBadRequest)
			return
		}
		in.DueDate = &d
	}

	id, err := h.Svc.CreateTask(r.Context(), uid, in)
	if err != nil {
		writeRecordError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"id": id})
}

type updateTaskReq struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Completed   *int    `json:"completed" validate:"omitempty,oneof=0 1"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"dueDate"`
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTaskReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	in := record.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	if req.Priority != nil {
		p := record.Priority(*req.Priority)
		in.Priority = &p
	}
	if req.DueDate != nil && strings.TrimSpace(*req.DueDate) != "" {
		d, err := parseDate(*req.DueDate)
		if err != nil {
			http.Error(w, "invalid dueDate", http.StatusBadRequest)
			return
		}
		in.DueDate = &d
	}

	if err := h.Svc.UpdateTask(r.Context(), uid, id, in); err != nil {
		writeRecordError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Svc.DeleteTask(r.Context(), uid, id); err != nil {
		writeRecordError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
