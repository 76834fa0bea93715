// Package features turns raw flight records into the fixed-width indicator
// matrix the delay classifier is trained and served against, and derives the
// binary delay label for training.
//
// The column layout is owned by the canonical vocabulary declared here. Any
// change to it invalidates previously trained parameters.
package features

import (
	"fmt"
	"strconv"
	"strings"
)

// Field identifies which categorical input an indicator is built from.
type Field string

const (
	FieldAirline    Field = "airline"
	FieldFlightType Field = "flight_type"
	FieldMonth      Field = "month"
)

// VocabularyVersion is persisted next to trained parameters. Bump it whenever
// canonicalVocabulary changes.
const VocabularyVersion = "v1"

// Indicator is one one-hot column: 1 when the record's Field equals Value.
type Indicator struct {
	Field Field  `json:"field"`
	Value string `json:"value"`
}

// Name renders the column name, e.g. "airline_Grupo LATAM" or "month_7".
func (i Indicator) Name() string {
	return string(i.Field) + "_" + i.Value
}

// key is the normalized form used for matching observed values.
func (i Indicator) key() string {
	return columnKey(i.Field, i.Value)
}

var canonicalVocabulary = []Indicator{
	{FieldAirline, "Latin American Wings"},
	{FieldMonth, "7"},
	{FieldMonth, "10"},
	{FieldAirline, "Grupo LATAM"},
	{FieldMonth, "12"},
	{FieldFlightType, "I"},
	{FieldMonth, "4"},
	{FieldMonth, "11"},
	{FieldAirline, "Sky Airline"},
	{FieldAirline, "Copa Air"},
}

// Vocabulary returns a copy of the canonical indicator list in column order.
func Vocabulary() []Indicator {
	v := make([]Indicator, len(canonicalVocabulary))
	copy(v, canonicalVocabulary)
	return v
}

// Width is the number of columns every feature matrix has.
func Width() int {
	return len(canonicalVocabulary)
}

// FeatureNames returns the rendered column names in vocabulary order.
func FeatureNames() []string {
	names := make([]string, len(canonicalVocabulary))
	for i, ind := range canonicalVocabulary {
		names[i] = ind.Name()
	}
	return names
}

// columnKey normalizes a (field, value) pair. Airline and flight type match
// case-insensitively; months match on their integer value.
func columnKey(f Field, value string) string {
	v := strings.TrimSpace(value)
	switch f {
	case FieldMonth:
		if n, err := strconv.Atoi(v); err == nil {
			v = strconv.Itoa(n)
		}
	default:
		v = strings.ToLower(v)
	}
	return fmt.Sprintf("%s=%s", f, v)
}
