package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"flight-delay/internal/dataset"
	"flight-delay/internal/features"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var airlines = []struct {
	name       string
	flightType string
	baseDelay  float64 // probability of a >15 minute delay
}{
	{"Grupo LATAM", "N", 0.18},
	{"Grupo LATAM", "I", 0.22},
	{"Sky Airline", "N", 0.17},
	{"Latin American Wings", "N", 0.40},
	{"Copa Air", "I", 0.10},
	{"Aerolineas Argentinas", "I", 0.24},
	{"American Airlines", "I", 0.12},
	{"Iberia", "I", 0.20},
	{"JetSMART SPA", "N", 0.16},
}

// monthFactor scales the delay rate; winter holidays and July run late.
var monthFactor = map[time.Month]float64{
	time.July:     1.5,
	time.October:  1.2,
	time.December: 1.4,
	time.April:    0.7,
	time.November: 0.8,
}

func main() {
	var (
		output = flag.String("output", "data/data.csv", "CSV file to write")
		rows   = flag.Int("rows", 5000, "Number of flights to generate")
		seed   = flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	)
	flag.Parse()

	fmt.Printf("Generating %d sample flights...\n", *rows)
	fmt.Printf("  Output: %s\n", *output)

	df := generateFlights(rand.New(rand.NewSource(*seed)), *rows)
	if df.Err != nil {
		log.Fatalf("Failed to build data frame: %v", df.Err)
	}

	if err := os.MkdirAll(filepath.Dir(*output), 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	file, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer file.Close()

	if err := df.WriteCSV(file); err != nil {
		log.Fatalf("Failed to write CSV: %v", err)
	}

	fmt.Printf("✓ Generated %d flights\n", df.Nrow())
}

func generateFlights(rng *rand.Rand, n int) dataframe.DataFrame {
	scheduled := make([]string, n)
	actual := make([]string, n)
	opera := make([]string, n)
	tipo := make([]string, n)
	mes := make([]string, n)

	start := time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		a := airlines[rng.Intn(len(airlines))]
		at := start.Add(time.Duration(rng.Int63n(int64(365 * 24 * time.Hour)))).Truncate(time.Minute)

		p := a.baseDelay
		if f, ok := monthFactor[at.Month()]; ok {
			p *= f
		}

		// -5..14 minutes stays under the threshold
		offset := time.Duration(rng.Intn(20)-5) * time.Minute
		if rng.Float64() < p {
			offset = features.DelayThreshold + time.Duration(1+rng.Intn(120))*time.Minute
		}

		scheduled[i] = at.Format(features.TimestampLayout)
		actual[i] = at.Add(offset).Format(features.TimestampLayout)
		opera[i] = a.name
		tipo[i] = a.flightType
		mes[i] = strconv.Itoa(int(at.Month()))
	}

	return dataframe.New(
		series.New(scheduled, series.String, dataset.ColumnScheduled),
		series.New(actual, series.String, dataset.ColumnActual),
		series.New(mes, series.String, dataset.ColumnMonth),
		series.New(tipo, series.String, dataset.ColumnFlightType),
		series.New(opera, series.String, dataset.ColumnAirline),
	)
}
