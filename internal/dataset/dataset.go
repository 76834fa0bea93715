// Package dataset reads historical flight rows into feature records and
// splits them for training and evaluation.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"flight-delay/internal/features"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rs/zerolog/log"
)

// Column names of the historical data set.
const (
	ColumnScheduled  = "Fecha-I"
	ColumnActual     = "Fecha-O"
	ColumnAirline    = "OPERA"
	ColumnFlightType = "TIPOVUELO"
	ColumnMonth      = "MES"
)

var requiredColumns = []string{ColumnScheduled, ColumnActual, ColumnAirline, ColumnFlightType, ColumnMonth}

var ErrInvalidRatio = errors.New("dataset: test ratio must be in (0, 1)")

// LoadFile opens path and decodes it with LoadCSV.
func LoadFile(path string) ([]features.FlightRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer file.Close()

	records, err := LoadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Info().
		Str("file", path).
		Int("rows", len(records)).
		Msg("flight data loaded")

	return records, nil
}

// LoadCSV decodes a headered CSV stream. Extra columns are ignored; every
// column is read as text so timestamps survive untouched.
func LoadCSV(r io.Reader) ([]features.FlightRecord, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", df.Err)
	}

	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}
	for _, name := range requiredColumns {
		if !present[name] {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	scheduled := df.Col(ColumnScheduled).Records()
	actual := df.Col(ColumnActual).Records()
	airlines := df.Col(ColumnAirline).Records()
	flightTypes := df.Col(ColumnFlightType).Records()
	months := df.Col(ColumnMonth).Records()

	records := make([]features.FlightRecord, df.Nrow())
	for i := range records {
		month, err := strconv.Atoi(strings.TrimSpace(months[i]))
		if err != nil {
			// header is line 1
			return nil, fmt.Errorf("line %d: invalid %s %q: %w", i+2, ColumnMonth, months[i], err)
		}
		records[i] = features.FlightRecord{
			Airline:    airlines[i],
			FlightType: flightTypes[i],
			Month:      month,
			Scheduled:  scheduled[i],
			Actual:     actual[i],
		}
	}

	return records, nil
}

// Split shuffles records with a seeded source and holds out testRatio of
// them. The same seed always yields the same partition, and both sides are
// non-empty.
func Split(records []features.FlightRecord, testRatio float64, seed int64) (train, test []features.FlightRecord, err error) {
	if testRatio <= 0 || testRatio >= 1 || math.IsNaN(testRatio) {
		return nil, nil, ErrInvalidRatio
	}
	n := len(records)
	if n < 2 {
		return nil, nil, fmt.Errorf("dataset: need at least 2 records to split, got %d", n)
	}

	testSize := int(math.Round(float64(n) * testRatio))
	if testSize < 1 {
		testSize = 1
	}
	if testSize > n-1 {
		testSize = n - 1
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	test = make([]features.FlightRecord, 0, testSize)
	train = make([]features.FlightRecord, 0, n-testSize)
	for i, idx := range perm {
		if i < testSize {
			test = append(test, records[idx])
		} else {
			train = append(train, records[idx])
		}
	}
	return train, test, nil
}
