package features

import (
	"fmt"
	"strconv"
	"time"
)

const (
	// TimestampLayout is the only accepted format for Scheduled and Actual.
	TimestampLayout = "2006-01-02 15:04:05"

	// DelayThreshold is the elapsed time above which a flight counts as delayed.
	DelayThreshold = 15 * time.Minute
)

// FlightRecord is one raw input row. Scheduled and Actual are only required
// when building labels.
type FlightRecord struct {
	Airline    string `json:"airline"`
	FlightType string `json:"flight_type"`
	Month      int    `json:"month"`
	Scheduled  string `json:"scheduled,omitempty"`
	Actual     string `json:"actual,omitempty"`
}

// value returns the raw categorical value of the record for a field.
func (r FlightRecord) value(f Field) string {
	switch f {
	case FieldAirline:
		return r.Airline
	case FieldFlightType:
		return r.FlightType
	case FieldMonth:
		return strconv.Itoa(r.Month)
	}
	return ""
}

// ElapsedMinutes returns (Actual - Scheduled) in minutes. The result is
// negative when the flight left early.
func (r FlightRecord) ElapsedMinutes() (float64, error) {
	scheduled, err := time.Parse(TimestampLayout, r.Scheduled)
	if err != nil {
		return 0, fmt.Errorf("parse scheduled time %q: %w", r.Scheduled, err)
	}
	actual, err := time.Parse(TimestampLayout, r.Actual)
	if err != nil {
		return 0, fmt.Errorf("parse actual time %q: %w", r.Actual, err)
	}
	return actual.Sub(scheduled).Minutes(), nil
}
