package reading

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("not found")

// ErrInsufficientData marks analytics requested over too few readings.
// It is a normal empty/partial result, not a fault.
var ErrInsufficientData = errors.New("insufficient data")

// ValidationError carries per-field messages for values outside the
// documented domain. Values are rejected, never clamped.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid reading values: " + strings.Join(e.Messages, ", ")
}

const (
	minSystolic, maxSystolic   = 60, 300
	minDiastolic, maxDiastolic = 30, 200
	minPulse, maxPulse         = 30, 220
)

// ValidateVitals checks systolic/diastolic/pulse against the allowed domains
// and the systolic > diastolic relation. Returns a *ValidationError listing
// every violation, or nil.
func ValidateVitals(systolic, diastolic, pulse int) error {
	var msgs []string

	if systolic < minSystolic || systolic > maxSystolic {
		msgs = append(msgs, fmt.Sprintf("Systolic pressure must be between %d and %d mmHg", minSystolic, maxSystolic))
	}
	if diastolic < minDiastolic || diastolic > maxDiastolic {
		msgs = append(msgs, fmt.Sprintf("Diastolic pressure must be between %d and %d mmHg", minDiastolic, maxDiastolic))
	}
	if pulse < minPulse || pulse > maxPulse {
		msgs = append(msgs, fmt.Sprintf("Pulse rate must be between %d and %d BPM", minPulse, maxPulse))
	}
	if systolic <= diastolic {
		msgs = append(msgs, "Systolic pressure must be higher than diastolic pressure")
	}

	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}
