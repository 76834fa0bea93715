package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flight-delay/internal/features"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Fecha-I,Vlo-I,Ori-I,Des-I,Emp-I,Fecha-O,Vlo-O,Ori-O,Des-O,Emp-O,DIA,MES,AÑO,DIANOM,TIPOVUELO,OPERA,SIGLAORI,SIGLADES
2017-01-01 23:30:00,226,SCEL,KMIA,AAL,2017-01-01 23:33:00,226,SCEL,KMIA,AAL,1,1,2017,Domingo,I,American Airlines,Santiago,Miami
2017-01-02 23:30:00,226,SCEL,KMIA,AAL,2017-01-03 00:10:00,226,SCEL,KMIA,AAL,2,1,2017,Lunes,I,American Airlines,Santiago,Miami
2017-07-15 08:00:00,11,SCEL,SCFA,SKU,2017-07-15 08:16:00,11,SCEL,SCFA,SKU,15,7,2017,Sabado,N,Sky Airline,Santiago,Antofagasta
`

func TestLoadCSV(t *testing.T) {
	records, err := LoadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, features.FlightRecord{
		Airline:    "American Airlines",
		FlightType: "I",
		Month:      1,
		Scheduled:  "2017-01-01 23:30:00",
		Actual:     "2017-01-01 23:33:00",
	}, records[0])
	assert.Equal(t, "Sky Airline", records[2].Airline)
	assert.Equal(t, 7, records[2].Month)

	labels, err := features.BuildLabels(records)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1}, labels)
}

func TestLoadCSV_MissingColumn(t *testing.T) {
	data := "Fecha-I,Fecha-O,OPERA,MES\n2017-01-01 23:30:00,2017-01-01 23:33:00,Iberia,1\n"

	_, err := LoadCSV(strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TIPOVUELO")
}

func TestLoadCSV_BadMonth(t *testing.T) {
	data := "Fecha-I,Fecha-O,OPERA,TIPOVUELO,MES\n" +
		"2017-01-01 23:30:00,2017-01-01 23:33:00,Iberia,I,1\n" +
		"2017-01-01 23:30:00,2017-01-01 23:33:00,Iberia,I,enero\n"

	_, err := LoadCSV(strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestLoadCSV_Empty(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	records, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func makeRecords(n int) []features.FlightRecord {
	records := make([]features.FlightRecord, n)
	for i := range records {
		records[i] = features.FlightRecord{Airline: "Grupo LATAM", FlightType: "N", Month: i%12 + 1}
	}
	return records
}

func TestSplit(t *testing.T) {
	records := makeRecords(100)

	train, test, err := Split(records, 0.33, 42)
	require.NoError(t, err)
	assert.Len(t, test, 33)
	assert.Len(t, train, 67)

	train2, test2, err := Split(records, 0.33, 42)
	require.NoError(t, err)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)
}

func TestSplit_BothSidesNonEmpty(t *testing.T) {
	train, test, err := Split(makeRecords(2), 0.01, 1)
	require.NoError(t, err)
	assert.Len(t, train, 1)
	assert.Len(t, test, 1)

	train, test, err = Split(makeRecords(3), 0.99, 1)
	require.NoError(t, err)
	assert.Len(t, train, 1)
	assert.Len(t, test, 2)
}

func TestSplit_Errors(t *testing.T) {
	for _, ratio := range []float64{0, 1, -0.5, 1.5} {
		_, _, err := Split(makeRecords(10), ratio, 1)
		assert.ErrorIs(t, err, ErrInvalidRatio, "ratio %v", ratio)
	}

	_, _, err := Split(makeRecords(1), 0.5, 1)
	assert.Error(t, err)
}
