package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/KrishIyer6/Heart-Rate-Tracking/internal/auth"
	"github.com/KrishIyer6/Heart-Rate-Tracking/internal/reading"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ReadingHandler struct {
	Svc *reading.Service
}

type readingDTO struct {
	ID        uuid.UUID             `json:"id"`
	UserID    uint64                `json:"user_id"`
	Systolic  int                   `json:"systolic"`
	Diastolic int                   `json:"diastolic"`
	Pulse     int                   `json:"pulse"`
	Category  reading.Category      `json:"category"`
	Notes     string                `json:"notes,omitempty"`
	Timestamp time.Time             `json:"timestamp"`
	CreatedAt time.Time             `json:"created_at"`
	Info      *reading.CategoryInfo `json:"category_info,omitempty"`
}

func toDTO(r reading.Reading, withInfo bool) readingDTO {
	d := readingDTO{
		ID:        r.PublicID,
		UserID:    r.UserID,
		Systolic:  r.Systolic,
		Diastolic: r.Diastolic,
		Pulse:     r.Pulse,
		Category:  r.Category,
		Notes:     r.Notes,
		Timestamp: r.Timestamp,
		CreatedAt: r.CreatedAt,
	}
	if withInfo {
		info := r.Category.Info()
		d.Info = &info
	}
	return d
}

type createReadingReq struct {
	Systolic  *int    `json:"systolic"`
	Diastolic *int    `json:"diastolic"`
	Pulse     *int    `json:"pulse"`
	Notes     string  `json:"notes"`
	Timestamp *string `json:"timestamp"` // RFC3339 optional
}

// toInput checks required fields and the timestamp format; numeric domains
// are the service's job.
func (req createReadingReq) toInput() (reading.CreateInput, error) {
	var msgs []string
	if req.Systolic == nil {
		msgs = append(msgs, "systolic is required")
	}
	if req.Diastolic == nil {
		msgs = append(msgs, "diastolic is required")
	}
	if req.Pulse == nil {
		msgs = append(msgs, "pulse is required")
	}

	var ts *time.Time
	if req.Timestamp != nil && strings.TrimSpace(*req.Timestamp) != "" {
		t, err := time.Parse(time.RFC3339, *req.Timestamp)
		if err != nil {
			msgs = append(msgs, "invalid timestamp (RFC3339)")
		} else {
			ts = &t
		}
	}

	if len(msgs) > 0 {
		return reading.CreateInput{}, &reading.ValidationError{Messages: msgs}
	}
	return reading.CreateInput{
		Systolic:  *req.Systolic,
		Diastolic: *req.Diastolic,
		Pulse:     *req.Pulse,
		Notes:     req.Notes,
		Timestamp: ts,
	}, nil
}

func (h *ReadingHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req createReadingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	in, err := req.toInput()
	if err != nil {
		serviceError(w, err)
		return
	}

	created, err := h.Svc.Create(r.Context(), uid, in)
	if err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Reading created successfully",
		"reading": toDTO(*created, false),
	})
}

type bulkReq struct {
	Readings []createReadingReq `json:"readings"`
}

func (h *ReadingHandler) CreateBulk(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req bulkReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	inputs := make([]reading.CreateInput, 0, len(req.Readings))
	var warnings []string
	for i, item := range req.Readings {
		in, err := item.toInput()
		if err != nil {
			ve := err.(*reading.ValidationError)
			for _, m := range ve.Messages {
				warnings = append(warnings, "Reading "+strconv.Itoa(i+1)+": "+m)
			}
			continue
		}
		inputs = append(inputs, in)
	}

	if len(inputs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "All readings failed validation",
			"details": warnings,
		})
		return
	}

	res, err := h.Svc.CreateBulk(r.Context(), uid, inputs)
	if err != nil {
		serviceError(w, err)
		return
	}

	out := make([]readingDTO, 0, len(res.Created))
	for _, c := range res.Created {
		out = append(out, toDTO(c, false))
	}
	warnings = append(warnings, res.Warnings...)

	body := map[string]any{
		"message":       "Successfully created " + strconv.Itoa(len(out)) + " readings",
		"created_count": len(out),
		"readings":      out,
	}
	if len(warnings) > 0 {
		body["warnings"] = warnings
		body["failed_count"] = len(warnings)
	}
	writeJSON(w, http.StatusCreated, body)
}

func (h *ReadingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Svc.Delete(r.Context(), uid, id); err != nil {
		serviceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Reading deleted successfully",
	})
}
