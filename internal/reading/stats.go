package reading

import (
	"github.com/montanaflynn/stats"
)

// MetricStats is the descriptive statistics of one metric over the window.
type MetricStats struct {
	Mean        float64            `json:"mean"`
	Median      float64            `json:"median"`
	Min         float64            `json:"min"`
	Max         float64            `json:"max"`
	StdDev      float64            `json:"std_dev"`
	Percentiles map[string]float64 `json:"percentiles"`
}

type Correlations struct {
	SystolicDiastolic float64 `json:"systolic_diastolic"`
}

type ReadingFrequency struct {
	ReadingsPerDay   float64 `json:"readings_per_day"`
	DaysWithReadings int     `json:"days_with_readings"`
}

// StatisticsReport is the detailed statistical analysis of a window.
type StatisticsReport struct {
	Systolic      MetricStats      `json:"systolic"`
	Diastolic     MetricStats      `json:"diastolic"`
	Pulse         MetricStats      `json:"pulse"`
	Correlations  Correlations     `json:"correlations"`
	TotalReadings int              `json:"total_readings"`
	PeriodDays    int              `json:"period_days"`
	Frequency     ReadingFrequency `json:"reading_frequency"`
}

// Statistics computes descriptive statistics for each metric plus the
// systolic/diastolic correlation. Returns ErrInsufficientData for an empty
// window.
func Statistics(readings []Reading, periodDays int) (*StatisticsReport, error) {
	if len(readings) == 0 {
		return nil, ErrInsufficientData
	}

	sys := make(stats.Float64Data, len(readings))
	dia := make(stats.Float64Data, len(readings))
	pulse := make(stats.Float64Data, len(readings))
	days := map[string]struct{}{}
	for i, r := range readings {
		sys[i] = float64(r.Systolic)
		dia[i] = float64(r.Diastolic)
		pulse[i] = float64(r.Pulse)
		days[r.Timestamp.Format("2006-01-02")] = struct{}{}
	}

	corr := 0.0
	if len(readings) >= 2 {
		if c, err := stats.Correlation(sys, dia); err == nil {
			corr = round3(c)
		}
	}

	return &StatisticsReport{
		Systolic:      metricStats(sys),
		Diastolic:     metricStats(dia),
		Pulse:         metricStats(pulse),
		Correlations:  Correlations{SystolicDiastolic: corr},
		TotalReadings: len(readings),
		PeriodDays:    periodDays,
		Frequency: ReadingFrequency{
			ReadingsPerDay:   perDay(len(readings), periodDays),
			DaysWithReadings: len(days),
		},
	}, nil
}

func metricStats(data stats.Float64Data) MetricStats {
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	lo, _ := stats.Min(data)
	hi, _ := stats.Max(data)
	stddev, _ := stats.StandardDeviation(data)

	pcts := map[string]float64{}
	for label, p := range map[string]float64{"25th": 25, "75th": 75, "90th": 90, "95th": 95} {
		v, err := stats.Percentile(data, p)
		if err != nil {
			// single-sample windows: percentile needs n > 1
			v, _ = stats.Median(data)
		}
		pcts[label] = round1(v)
	}

	return MetricStats{
		Mean:        round1(mean),
		Median:      round1(median),
		Min:         lo,
		Max:         hi,
		StdDev:      round1(stddev),
		Percentiles: pcts,
	}
}

// perDay stays finite for a degenerate zero-day window so the report always
// marshals to JSON.
func perDay(count, periodDays int) float64 {
	if periodDays < 1 {
		return 0
	}
	return round1(float64(count) / float64(periodDays))
}

func round3(v float64) float64 {
	r, _ := stats.Round(v, 3)
	return r
}
