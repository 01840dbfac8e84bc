package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/KrishIyer6/Heart-Rate-Tracking/internal/auth"
	"github.com/KrishIyer6/Heart-Rate-Tracking/internal/reading"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ReadingReadHandler struct {
	Svc *reading.Service
}

func (h *ReadingReadHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	f := reading.ListFilter{
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
		Days:     queryInt(r, "days", 0),
		Category: reading.Category(strings.TrimSpace(r.URL.Query().Get("category"))),
	}

	rows, total, err := h.Svc.List(r.Context(), uid, f)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]readingDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row, false))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"readings":    out,
		"total_count": total,
		"limit":       f.Limit,
		"offset":      f.Offset,
		"has_more":    total > int64(f.Offset+f.Limit),
	})
}

func (h *ReadingReadHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	row, err := h.Svc.Get(r.Context(), uid, id)
	if err != nil {
		serviceError(w, err)
		return
	}

	withInfo := r.URL.Query().Get("include_category_info") == "true"
	writeJSON(w, http.StatusOK, map[string]any{
		"reading": toDTO(*row, withInfo),
	})
}

// Export returns the user's readings as a JSON envelope, optionally carrying
// a CSV rendition for download.
func (h *ReadingReadHandler) Export(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	f := reading.ListFilter{
		Limit: 10000,
		Days:  queryInt(r, "days", 0),
	}
	rows, total, err := h.Svc.List(r.Context(), uid, f)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format != "csv" {
		out := make([]readingDTO, 0, len(rows))
		for _, row := range rows {
			out = append(out, toDTO(row, false))
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"format":      "json",
			"data":        out,
			"total_count": total,
		})
		return
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	_ = cw.Write([]string{"Date", "Time", "Systolic", "Diastolic", "Pulse", "Category", "Notes"})
	for _, row := range rows {
		_ = cw.Write([]string{
			row.Timestamp.Format("2006-01-02"),
			row.Timestamp.Format("15:04:05"),
			strconv.Itoa(row.Systolic),
			strconv.Itoa(row.Diastolic),
			strconv.Itoa(row.Pulse),
			string(row.Category),
			row.Notes,
		})
	}
	cw.Flush()

	writeJSON(w, http.StatusOK, map[string]any{
		"format":   "csv",
		"data":     buf.String(),
		"filename": "blood_pressure_readings_" + time.Now().Format("20060102") + ".csv",
	})
}

func queryInt(r *http.Request, key string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
