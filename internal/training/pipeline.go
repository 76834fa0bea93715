// Package training runs the offline fit: load historical flights, measure
// the classifier on a hold-out, refit on everything and persist the result.
package training

import (
	"errors"
	"fmt"
	"time"

	"flight-delay/internal/dataset"
	"flight-delay/internal/features"
	"flight-delay/internal/ml"
	"flight-delay/internal/storage"

	"github.com/rs/zerolog/log"
)

// DefaultTestRatio is the hold-out share used when none is configured.
const DefaultTestRatio = 0.33

type Config struct {
	DataPath  string
	ModelPath string
	TestRatio float64
	Seed      int64
}

// Results holds everything one training session produced.
type Results struct {
	StartTime  time.Time
	EndTime    time.Time
	Rows       int
	TrainRows  int
	TestRows   int
	DelayRate  float64
	Holdout    ml.Report
	Model      *ml.TrainedModel
	Importance []ml.FeatureStats
	Run        ml.TrainingRun
}

// Pipeline fits and persists the delay model.
type Pipeline struct {
	config  Config
	metrics ml.MetricsInterface
}

// NewPipeline creates a pipeline. metrics may be nil.
func NewPipeline(config Config, metrics ml.MetricsInterface) *Pipeline {
	if config.TestRatio == 0 {
		config.TestRatio = DefaultTestRatio
	}
	return &Pipeline{config: config, metrics: metrics}
}

// Run executes the session end to end. The stored model is only replaced
// once every earlier step has succeeded.
func (p *Pipeline) Run() (*Results, error) {
	if p.config.DataPath == "" || p.config.ModelPath == "" {
		return nil, errors.New("training: data and model paths are required")
	}

	results := &Results{StartTime: time.Now()}

	records, err := dataset.LoadFile(p.config.DataPath)
	if err != nil {
		return nil, fmt.Errorf("load data: %w", err)
	}
	results.Rows = len(records)

	train, test, err := dataset.Split(records, p.config.TestRatio, p.config.Seed)
	if err != nil {
		return nil, fmt.Errorf("split data: %w", err)
	}
	results.TrainRows, results.TestRows = len(train), len(test)

	holdout, err := p.evaluate(train, test)
	if err != nil {
		return nil, err
	}
	results.Holdout = holdout

	x, y, err := features.Preprocess(records, true)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	results.DelayRate = labelRate(y)

	final, err := ml.NewClassifierWithMetrics(p.metrics).Fit(x, y)
	if err != nil {
		return nil, fmt.Errorf("fit full data set: %w", err)
	}
	results.Model = final
	results.Importance = ml.FeatureImportance(final)
	results.Run = ml.NewTrainingRun(final, holdout)

	if err := p.persist(final, results.Run); err != nil {
		return nil, err
	}

	results.EndTime = time.Now()
	log.Info().
		Int("rows", results.Rows).
		Float64("accuracy", holdout.Accuracy).
		Float64("delayed_recall", holdout.Classes[1].Recall).
		Str("model", p.config.ModelPath).
		Dur("elapsed", results.EndTime.Sub(results.StartTime)).
		Msg("training finished")

	return results, nil
}

// evaluate fits on train and scores the fit on test.
func (p *Pipeline) evaluate(train, test []features.FlightRecord) (ml.Report, error) {
	xTrain, yTrain, err := features.Preprocess(train, true)
	if err != nil {
		return ml.Report{}, fmt.Errorf("preprocess training split: %w", err)
	}
	xTest, yTest, err := features.Preprocess(test, true)
	if err != nil {
		return ml.Report{}, fmt.Errorf("preprocess hold-out split: %w", err)
	}

	classifier := ml.NewClassifier()
	if _, err := classifier.Fit(xTrain, yTrain); err != nil {
		return ml.Report{}, fmt.Errorf("fit training split: %w", err)
	}
	predicted, err := classifier.Predict(xTest)
	if err != nil {
		return ml.Report{}, fmt.Errorf("predict hold-out split: %w", err)
	}

	report, err := ml.Evaluate(predicted, yTest)
	if err != nil {
		return ml.Report{}, fmt.Errorf("evaluate hold-out split: %w", err)
	}
	return report, nil
}

func (p *Pipeline) persist(model *ml.TrainedModel, run ml.TrainingRun) error {
	store, err := storage.New(p.config.ModelPath)
	if err != nil {
		return fmt.Errorf("open model store: %w", err)
	}
	defer store.Close()

	if err := store.SaveModel(model); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	if err := store.RecordRun(run); err != nil {
		return fmt.Errorf("record training run: %w", err)
	}
	return nil
}

func labelRate(y []int) float64 {
	if len(y) == 0 {
		return 0
	}
	delayed := 0
	for _, l := range y {
		delayed += l
	}
	return float64(delayed) / float64(len(y))
}
