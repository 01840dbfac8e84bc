package reading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternsInsufficientData(t *testing.T) {
	readings := []Reading{
		mkReading(120, 80, 60, testNow),
		mkReading(125, 82, 62, testNow.Add(-time.Hour)),
	}

	report, err := Patterns(readings, 90)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Nil(t, report)
}

func TestPatterns(t *testing.T) {
	monday := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	var readings []Reading
	// mornings on Monday run high, evenings on Tuesday run low
	for i := 0; i < 4; i++ {
		readings = append(readings, mkReading(150+i, 95, 80, monday.AddDate(0, 0, 7*i)))
	}
	for i := 0; i < 4; i++ {
		readings = append(readings, mkReading(115+i, 75, 62, monday.AddDate(0, 0, 7*i+1).Add(10*time.Hour)))
	}

	report, err := Patterns(readings, 90)
	require.NoError(t, err)

	assert.Equal(t, 8, report.TotalReadingsAnalyzed)
	assert.Equal(t, 90, report.AnalysisPeriodDays)

	require.Contains(t, report.DayOfWeek, "Monday")
	require.Contains(t, report.DayOfWeek, "Tuesday")
	assert.Equal(t, 4, report.DayOfWeek["Monday"].Count)
	assert.Equal(t, 151.5, report.DayOfWeek["Monday"].Systolic)
	assert.Equal(t, 116.5, report.DayOfWeek["Tuesday"].Systolic)

	require.Contains(t, report.TimeOfDay, "Morning")
	require.Contains(t, report.TimeOfDay, "Evening")

	require.Len(t, report.Insights, 2)
	assert.Equal(t, "day_of_week", report.Insights[0].Type)
	assert.Contains(t, report.Insights[0].Message, "Tuesday")
	assert.Contains(t, report.Insights[0].Message, "Monday")
	assert.Equal(t, "time_of_day", report.Insights[1].Type)
}

func TestTimePeriod(t *testing.T) {
	assert.Equal(t, "Night", timePeriod(2))
	assert.Equal(t, "Morning", timePeriod(5))
	assert.Equal(t, "Morning", timePeriod(11))
	assert.Equal(t, "Afternoon", timePeriod(12))
	assert.Equal(t, "Evening", timePeriod(17))
	assert.Equal(t, "Evening", timePeriod(21))
	assert.Equal(t, "Night", timePeriod(22))
}

func TestGoalProgressNoData(t *testing.T) {
	report, err := GoalProgress(nil, 120, 80, 30)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Nil(t, report)
}

func TestGoalProgress(t *testing.T) {
	readings := []Reading{
		mkReading(118, 78, 60, testNow.AddDate(0, 0, -3)),
		mkReading(130, 85, 70, testNow.AddDate(0, 0, -2)),
		mkReading(124, 76, 64, testNow.AddDate(0, 0, -1)),
	}

	report, err := GoalProgress(readings, 120, 80, 30)
	require.NoError(t, err)

	assert.Equal(t, GoalTargets{Systolic: 120, Diastolic: 80}, report.Targets)
	assert.Equal(t, 124.0, report.CurrentAverages.Systolic)
	assert.Equal(t, 1, report.ReadingsWithin, "only 118/78 is at or under target")
	assert.Equal(t, 33.3, report.WithinTargetPct)
	assert.Equal(t, 4.0, report.ImprovementNeeded.Systolic)
	assert.Equal(t, 0.0, report.ImprovementNeeded.Diastolic)
	assert.Equal(t, "stable", report.ProgressTrend, "fewer than 14 readings")
	assert.Equal(t, 3, report.TotalReadings)
}

func TestGoalProgressTrendImproving(t *testing.T) {
	start := testNow.AddDate(0, 0, -28)

	var readings []Reading
	for i := 0; i < 14; i++ {
		// systolic falls steadily from 150 toward 124
		readings = append(readings, mkReading(150-2*i, 80, 70, start.AddDate(0, 0, 2*i)))
	}

	report, err := GoalProgress(readings, 120, 80, 30)
	require.NoError(t, err)
	assert.Equal(t, "improving", report.ProgressTrend)
}

func TestGoalProgressTrendWorsening(t *testing.T) {
	start := testNow.AddDate(0, 0, -28)

	var readings []Reading
	for i := 0; i < 14; i++ {
		readings = append(readings, mkReading(120+2*i, 78, 70, start.AddDate(0, 0, 2*i)))
	}

	report, err := GoalProgress(readings, 120, 80, 30)
	require.NoError(t, err)
	assert.Equal(t, "worsening", report.ProgressTrend)
}
