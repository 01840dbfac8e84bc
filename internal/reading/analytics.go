package reading

import (
	"math"
	"sort"
	"time"
)

// Averages holds per-metric arithmetic means, rounded to one decimal place.
type Averages struct {
	Systolic  float64 `json:"systolic"`
	Diastolic float64 `json:"diastolic"`
	Pulse     float64 `json:"pulse"`
}

// MetricRange is the observed min/max of one metric.
type MetricRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type Ranges struct {
	Systolic  MetricRange `json:"systolic"`
	Diastolic MetricRange `json:"diastolic"`
	Pulse     MetricRange `json:"pulse"`
}

// TrendDeltas is the change in each metric's mean between the earlier and
// later half of the window, rounded to a whole number.
type TrendDeltas struct {
	SystolicChange  int `json:"systolic_change"`
	DiastolicChange int `json:"diastolic_change"`
	PulseChange     int `json:"pulse_change"`
}

// Summary aggregates readings within a trailing window. Trends is nil when
// the window holds fewer than two readings. CategoryDistribution contains
// only observed categories; it is empty for an empty window.
type Summary struct {
	TotalReadings        int              `json:"total_readings"`
	PeriodDays           int              `json:"period_days"`
	Averages             Averages         `json:"averages"`
	Ranges               *Ranges          `json:"ranges,omitempty"`
	CategoryDistribution map[Category]int `json:"category_distribution"`
	Trends               *TrendDeltas     `json:"trends,omitempty"`
	InsufficientData     bool             `json:"insufficient_data,omitempty"`
}

// insufficientBelow is the reading count under which derived trend/goal
// content should not be rendered by callers.
const insufficientBelow = 3

// WindowFilter returns the readings with timestamp on or after
// now - windowDays, sorted by timestamp ascending. The input is not mutated.
func WindowFilter(readings []Reading, windowDays int, now time.Time) []Reading {
	cutoff := now.AddDate(0, 0, -windowDays)

	out := make([]Reading, 0, len(readings))
	for _, r := range readings {
		if !r.Timestamp.Before(cutoff) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// Summarize computes aggregate statistics over the readings that fall within
// the trailing window. Deterministic for a given (readings, windowDays, now).
func Summarize(readings []Reading, windowDays int, now time.Time) Summary {
	windowed := WindowFilter(readings, windowDays, now)

	s := Summary{
		TotalReadings:        len(windowed),
		PeriodDays:           windowDays,
		CategoryDistribution: map[Category]int{},
		InsufficientData:     len(windowed) < insufficientBelow,
	}
	if len(windowed) == 0 {
		return s
	}

	s.Averages = meanVitals(windowed)
	s.Ranges = rangesOf(windowed)
	for _, r := range windowed {
		s.CategoryDistribution[r.Category]++
	}

	if len(windowed) >= 2 {
		mid := len(windowed) / 2
		earlier := meanVitalsRaw(windowed[:mid])
		later := meanVitalsRaw(windowed[mid:])
		s.Trends = &TrendDeltas{
			SystolicChange:  roundInt(later.sys - earlier.sys),
			DiastolicChange: roundInt(later.dia - earlier.dia),
			PulseChange:     roundInt(later.pulse - earlier.pulse),
		}
	}

	return s
}

// TrendPoint is one bucket of the grouped trend series.
type TrendPoint struct {
	Period   string   `json:"period"`
	Count    int      `json:"count"`
	Averages Averages `json:"averages"`
}

// GroupTrends buckets readings by calendar period and averages each bucket.
// groupBy is "day", "week" (bucketed on the week's Monday) or "month";
// anything else falls back to day. Buckets are returned in ascending period
// order.
func GroupTrends(readings []Reading, groupBy string) []TrendPoint {
	buckets := map[string][]Reading{}
	for _, r := range readings {
		key := periodKey(r.Timestamp, groupBy)
		buckets[key] = append(buckets[key], r)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]TrendPoint, 0, len(keys))
	for _, k := range keys {
		out = append(out, TrendPoint{
			Period:   k,
			Count:    len(buckets[k]),
			Averages: meanVitals(buckets[k]),
		})
	}
	return out
}

func periodKey(t time.Time, groupBy string) string {
	switch groupBy {
	case "week":
		monday := t.AddDate(0, 0, -((int(t.Weekday()) + 6) % 7))
		return monday.Format("2006-01-02")
	case "month":
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

type rawMeans struct {
	sys, dia, pulse float64
}

func meanVitalsRaw(readings []Reading) rawMeans {
	var m rawMeans
	if len(readings) == 0 {
		return m
	}
	for _, r := range readings {
		m.sys += float64(r.Systolic)
		m.dia += float64(r.Diastolic)
		m.pulse += float64(r.Pulse)
	}
	n := float64(len(readings))
	m.sys /= n
	m.dia /= n
	m.pulse /= n
	return m
}

func meanVitals(readings []Reading) Averages {
	m := meanVitalsRaw(readings)
	return Averages{
		Systolic:  round1(m.sys),
		Diastolic: round1(m.dia),
		Pulse:     round1(m.pulse),
	}
}

func rangesOf(readings []Reading) *Ranges {
	r0 := readings[0]
	rg := Ranges{
		Systolic:  MetricRange{r0.Systolic, r0.Systolic},
		Diastolic: MetricRange{r0.Diastolic, r0.Diastolic},
		Pulse:     MetricRange{r0.Pulse, r0.Pulse},
	}
	for _, r := range readings[1:] {
		rg.Systolic = widen(rg.Systolic, r.Systolic)
		rg.Diastolic = widen(rg.Diastolic, r.Diastolic)
		rg.Pulse = widen(rg.Pulse, r.Pulse)
	}
	return &rg
}

func widen(m MetricRange, v int) MetricRange {
	if v < m.Min {
		m.Min = v
	}
	if v > m.Max {
		m.Max = v
	}
	return m
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
