package api

import (
	"fmt"
	"slices"
	"strings"

	"flight-delay/internal/common"
)

// ValidationError is a request the caller must fix; it maps to 400.
type ValidationError struct {
	Index  int
	Field  string
	Value  any
	Expect string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("flights[%d]: value for %s not valid. Received %v, expected %s", e.Index, e.Field, e.Value, e.Expect)
}

func validateRequest(req PredictRequest) error {
	if len(req.Flights) == 0 {
		return &ValidationError{Index: 0, Field: "flights", Value: "[]", Expect: "at least one flight"}
	}
	for i, f := range req.Flights {
		if err := validateFlight(i, f); err != nil {
			return err
		}
	}
	return nil
}

// validateFlight compares airline and flight type without regard to case or
// surrounding whitespace.
func validateFlight(i int, f Flight) error {
	airline := strings.ToLower(strings.TrimSpace(f.Airline))
	if !slices.Contains(common.ValidAirlines, airline) {
		return &ValidationError{
			Index:  i,
			Field:  "OPERA",
			Value:  f.Airline,
			Expect: fmt.Sprintf("one of %v", common.ValidAirlines),
		}
	}

	flightType := strings.ToUpper(strings.TrimSpace(f.FlightType))
	if !slices.Contains(common.ValidFlightTypes, flightType) {
		return &ValidationError{
			Index:  i,
			Field:  "TIPOVUELO",
			Value:  f.FlightType,
			Expect: fmt.Sprintf("one of %v", common.ValidFlightTypes),
		}
	}

	if f.Month < common.MinMonth || f.Month > common.MaxMonth {
		return &ValidationError{
			Index:  i,
			Field:  "MES",
			Value:  f.Month,
			Expect: fmt.Sprintf("a month between %d and %d", common.MinMonth, common.MaxMonth),
		}
	}
	return nil
}
