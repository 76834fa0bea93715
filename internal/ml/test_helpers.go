package ml

import "sync"

// MockMetrics implements MetricsInterface for testing
type MockMetrics struct {
	mu           sync.Mutex
	predictions  int
	failures     int
	trainings    int
	latencySum   float64
	modelAge     float64
	classWeights map[int]float64
	delayRates   []float64
}

func (m *MockMetrics) MLPredictionsInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions++
}

func (m *MockMetrics) MLFailuresInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
}

func (m *MockMetrics) MLLatencyObserve(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latencySum += v
}

func (m *MockMetrics) MLModelAgeSet(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modelAge = v
}

func (m *MockMetrics) MLTrainingsInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trainings++
}

func (m *MockMetrics) MLClassWeightSet(class int, weight float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.classWeights == nil {
		m.classWeights = make(map[int]float64)
	}
	m.classWeights[class] = weight
}

func (m *MockMetrics) MLDelayRateObserve(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delayRates = append(m.delayRates, v)
}

// Trainings returns how many successful fits were reported.
func (m *MockMetrics) Trainings() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trainings
}
