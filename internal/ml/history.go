package ml

import "time"

// RunIDLayout formats TrainedAt into a run ID; IDs sort by time.
const RunIDLayout = "20060102-150405.000000000"

// TrainingRun records the outcome of one offline training session.
type TrainingRun struct {
	ID               string          `json:"id"`
	TrainedAt        time.Time       `json:"trained_at"`
	TrainingRows     int             `json:"training_rows"`
	HoldoutRows      int             `json:"holdout_rows"`
	Accuracy         float64         `json:"accuracy"`
	DelayedPrecision float64         `json:"delayed_precision"`
	DelayedRecall    float64         `json:"delayed_recall"`
	DelayedF1        float64         `json:"delayed_f1"`
	ClassWeights     map[int]float64 `json:"class_weights"`
}

// NewTrainingRun summarizes a saved model together with its hold-out report.
func NewTrainingRun(m *TrainedModel, holdout Report) TrainingRun {
	delayed := holdout.Classes[1]
	return TrainingRun{
		ID:               m.TrainedAt.UTC().Format(RunIDLayout),
		TrainedAt:        m.TrainedAt,
		TrainingRows:     m.TrainingRows,
		HoldoutRows:      holdout.Samples,
		Accuracy:         holdout.Accuracy,
		DelayedPrecision: delayed.Precision,
		DelayedRecall:    delayed.Recall,
		DelayedF1:        delayed.F1,
		ClassWeights:     m.ClassWeights,
	}
}
