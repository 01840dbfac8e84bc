package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/KrishIyer6/Heart-Rate-Tracking/internal/auth"
	"github.com/KrishIyer6/Heart-Rate-Tracking/internal/reading"
)

type AnalyticsHandler struct {
	Svc *reading.Service
}

// queryDays reads the window length, falling back to the endpoint default
// for missing, zero or negative values.
func queryDays(r *http.Request, def int) int {
	n := queryInt(r, "days", def)
	if n < 1 {
		return def
	}
	return n
}

// Summary aggregates the trailing window. Empty windows are a normal 200
// response with zeroed aggregates, never an error.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	days := queryDays(r, 30)
	now := time.Now().UTC()

	rows, err := h.Svc.FetchWindow(r.Context(), uid, days, now)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"summary": reading.Summarize(rows, days, now),
	})
}

func (h *AnalyticsHandler) Trends(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	days := queryDays(r, 30)
	groupBy := strings.TrimSpace(r.URL.Query().Get("group_by"))
	if groupBy == "" {
		groupBy = "day"
	}

	rows, err := h.Svc.FetchWindow(r.Context(), uid, days, time.Now().UTC())
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	points := reading.GroupTrends(rows, groupBy)
	writeJSON(w, http.StatusOK, map[string]any{
		"trends":      points,
		"group_by":    groupBy,
		"period_days": days,
	})
}

func (h *AnalyticsHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	days := queryDays(r, 90)

	rows, err := h.Svc.FetchWindow(r.Context(), uid, days, time.Now().UTC())
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	report, err := reading.Patterns(rows, days)
	if errors.Is(err, reading.ErrInsufficientData) {
		writeJSON(w, http.StatusOK, map[string]any{
			"patterns": map[string]any{
				"insufficient_data": true,
				"message":           "Need at least 7 readings for pattern analysis",
			},
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"patterns": report,
	})
}

func (h *AnalyticsHandler) Goals(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	days := queryDays(r, 30)
	targetSys := queryInt(r, "target_systolic", 120)
	targetDia := queryInt(r, "target_diastolic", 80)

	rows, err := h.Svc.FetchWindow(r.Context(), uid, days, time.Now().UTC())
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	report, err := reading.GoalProgress(rows, targetSys, targetDia, days)
	if errors.Is(err, reading.ErrInsufficientData) {
		writeJSON(w, http.StatusOK, map[string]any{
			"goal_progress": map[string]any{
				"no_data": true,
				"message": "No readings found for the specified period",
			},
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"goal_progress": report,
	})
}

func (h *AnalyticsHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	days := queryDays(r, 90)

	rows, err := h.Svc.FetchWindow(r.Context(), uid, days, time.Now().UTC())
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	report, err := reading.Statistics(rows, days)
	if errors.Is(err, reading.ErrInsufficientData) {
		writeJSON(w, http.StatusOK, map[string]any{
			"statistics": map[string]any{
				"no_data": true,
				"message": "No readings found for the specified period",
			},
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"statistics": report,
	})
}
