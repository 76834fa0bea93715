package metrics

import "strconv"

// Wrapper adapts Metrics to the narrow interfaces of the ml and api packages.
type Wrapper struct {
	m *Metrics
}

func NewWrapper(m *Metrics) *Wrapper {
	return &Wrapper{m: m}
}

func (w *Wrapper) MLPredictionsInc()          { w.m.MLPredictions.Inc() }
func (w *Wrapper) MLFailuresInc()             { w.m.MLFailures.Inc() }
func (w *Wrapper) MLLatencyObserve(v float64) { w.m.MLLatency.Observe(v) }
func (w *Wrapper) MLModelAgeSet(v float64)    { w.m.MLModelAge.Set(v) }
func (w *Wrapper) MLTrainingsInc()            { w.m.MLTrainings.Inc() }

func (w *Wrapper) MLClassWeightSet(class int, weight float64) {
	w.m.MLClassWeight.WithLabelValues(strconv.Itoa(class)).Set(weight)
}

func (w *Wrapper) MLDelayRateObserve(v float64) { w.m.MLDelayRate.Observe(v) }

// RequestObserve counts one HTTP response.
func (w *Wrapper) RequestObserve(route string, status int) {
	w.m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (w *Wrapper) ValidationErrorInc()  { w.m.ValidationErrors.Inc() }
func (w *Wrapper) FlightsObserve(n int) { w.m.FlightsPerRequest.Observe(float64(n)) }
func (w *Wrapper) CacheHitsAdd(n int)   { w.m.PredictionCacheHits.Add(float64(n)) }
func (w *Wrapper) CacheMissesAdd(n int) { w.m.PredictionCacheMiss.Add(float64(n)) }
