package reading

import (
	"fmt"
	"sort"
)

// PeriodAverages is per-bucket averages plus the bucket's reading count.
type PeriodAverages struct {
	Systolic  float64 `json:"systolic"`
	Diastolic float64 `json:"diastolic"`
	Pulse     float64 `json:"pulse"`
	Count     int     `json:"count"`
}

type Insight struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// PatternReport breaks readings down by day of week and time of day.
type PatternReport struct {
	DayOfWeek             map[string]PeriodAverages `json:"day_of_week"`
	TimeOfDay             map[string]PeriodAverages `json:"time_of_day"`
	Insights              []Insight                 `json:"insights"`
	AnalysisPeriodDays    int                       `json:"analysis_period_days"`
	TotalReadingsAnalyzed int                       `json:"total_readings_analyzed"`
}

const patternMinReadings = 7

// Patterns analyzes day-of-week and time-of-day behavior. Returns
// ErrInsufficientData when fewer than 7 readings are supplied.
func Patterns(readings []Reading, periodDays int) (*PatternReport, error) {
	if len(readings) < patternMinReadings {
		return nil, ErrInsufficientData
	}

	byDay := map[string][]Reading{}
	byTime := map[string][]Reading{}
	for _, r := range readings {
		byDay[r.Timestamp.Weekday().String()] = append(byDay[r.Timestamp.Weekday().String()], r)
		tp := timePeriod(r.Timestamp.Hour())
		byTime[tp] = append(byTime[tp], r)
	}

	report := &PatternReport{
		DayOfWeek:             periodAverages(byDay),
		TimeOfDay:             periodAverages(byTime),
		AnalysisPeriodDays:    periodDays,
		TotalReadingsAnalyzed: len(readings),
	}

	if best, worst, ok := extremesBySystolic(report.DayOfWeek); ok {
		report.Insights = append(report.Insights, Insight{
			Type: "day_of_week",
			Message: fmt.Sprintf("Lowest average systolic on %s (%.1f mmHg), highest on %s (%.1f mmHg)",
				best, report.DayOfWeek[best].Systolic, worst, report.DayOfWeek[worst].Systolic),
		})
	}
	if best, worst, ok := extremesBySystolic(report.TimeOfDay); ok {
		report.Insights = append(report.Insights, Insight{
			Type: "time_of_day",
			Message: fmt.Sprintf("Lowest average systolic in %s (%.1f mmHg), highest in %s (%.1f mmHg)",
				best, report.TimeOfDay[best].Systolic, worst, report.TimeOfDay[worst].Systolic),
		})
	}

	return report, nil
}

func timePeriod(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "Morning"
	case hour >= 12 && hour < 17:
		return "Afternoon"
	case hour >= 17 && hour < 22:
		return "Evening"
	default:
		return "Night"
	}
}

func periodAverages(buckets map[string][]Reading) map[string]PeriodAverages {
	out := make(map[string]PeriodAverages, len(buckets))
	for k, rs := range buckets {
		avg := meanVitals(rs)
		out[k] = PeriodAverages{
			Systolic:  avg.Systolic,
			Diastolic: avg.Diastolic,
			Pulse:     avg.Pulse,
			Count:     len(rs),
		}
	}
	return out
}

// extremesBySystolic picks the buckets with the lowest and highest average
// systolic. Keys are walked in sorted order so ties break deterministically.
func extremesBySystolic(buckets map[string]PeriodAverages) (best, worst string, ok bool) {
	if len(buckets) == 0 {
		return "", "", false
	}
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, worst = keys[0], keys[0]
	for _, k := range keys[1:] {
		if buckets[k].Systolic < buckets[best].Systolic {
			best = k
		}
		if buckets[k].Systolic > buckets[worst].Systolic {
			worst = k
		}
	}
	return best, worst, true
}

// GoalTargets is the target pressure a user is working toward.
type GoalTargets struct {
	Systolic  int `json:"systolic"`
	Diastolic int `json:"diastolic"`
}

// Improvement is how far each pressure average sits above its target;
// zero when already at or under target.
type Improvement struct {
	Systolic  float64 `json:"systolic"`
	Diastolic float64 `json:"diastolic"`
}

// GoalReport measures progress toward a target blood pressure.
type GoalReport struct {
	Targets           GoalTargets `json:"targets"`
	CurrentAverages   Averages    `json:"current_averages"`
	ImprovementNeeded Improvement `json:"improvement_needed"`
	WithinTargetPct   float64     `json:"within_target_percentage"`
	ReadingsWithin    int         `json:"readings_within_target"`
	TotalReadings     int         `json:"total_readings"`
	ProgressTrend     string      `json:"progress_trend"`
	PeriodDays        int         `json:"period_days"`
}

// GoalProgress reports how the time-ordered readings compare to the target.
// The progress trend compares the first calendar week against the last 7
// readings and needs at least 14 readings; otherwise it stays "stable".
func GoalProgress(readings []Reading, targetSys, targetDia, periodDays int) (*GoalReport, error) {
	if len(readings) == 0 {
		return nil, ErrInsufficientData
	}

	means := meanVitalsRaw(readings)

	within := 0
	for _, r := range readings {
		if r.Systolic <= targetSys && r.Diastolic <= targetDia {
			within++
		}
	}

	trend := "stable"
	if len(readings) >= 14 {
		weekEnd := readings[0].Timestamp.AddDate(0, 0, 7)
		var firstWeek []Reading
		for _, r := range readings {
			if !r.Timestamp.After(weekEnd) {
				firstWeek = append(firstWeek, r)
			}
		}
		lastWeek := readings[len(readings)-7:]

		firstAvg := meanVitalsRaw(firstWeek).sys
		lastAvg := meanVitalsRaw(lastWeek).sys
		switch {
		case lastAvg < firstAvg-2:
			trend = "improving"
		case lastAvg > firstAvg+2:
			trend = "worsening"
		}
	}

	return &GoalReport{
		Targets:         GoalTargets{Systolic: targetSys, Diastolic: targetDia},
		CurrentAverages: Averages{Systolic: round1(means.sys), Diastolic: round1(means.dia), Pulse: round1(means.pulse)},
		ImprovementNeeded: Improvement{
			Systolic:  round1(max(0, means.sys-float64(targetSys))),
			Diastolic: round1(max(0, means.dia-float64(targetDia))),
		},
		WithinTargetPct: round1(float64(within) / float64(len(readings)) * 100),
		ReadingsWithin:  within,
		TotalReadings:   len(readings),
		ProgressTrend:   trend,
		PeriodDays:      periodDays,
	}, nil
}
