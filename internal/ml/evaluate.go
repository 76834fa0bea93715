package ml

import "fmt"

// ClassReport holds precision, recall and F1 for one class.
type ClassReport struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
	Support   int     `json:"support"`
}

// Report summarizes hold-out performance of a binary classifier.
type Report struct {
	Classes  map[int]ClassReport `json:"classes"`
	Accuracy float64             `json:"accuracy"`
	Samples  int                 `json:"samples"`
}

// Evaluate compares predicted labels with the ground truth.
func Evaluate(predicted, actual []int) (Report, error) {
	if len(predicted) != len(actual) {
		return Report{}, fmt.Errorf("%w: %d predictions, %d labels", ErrShapeMismatch, len(predicted), len(actual))
	}
	if len(actual) == 0 {
		return Report{}, ErrEmptyLabels
	}

	// confusion[actual][predicted]
	var confusion [2][2]int
	correct := 0
	for i := range actual {
		a, p := actual[i], predicted[i]
		if a < 0 || a > 1 || p < 0 || p > 1 {
			return Report{}, fmt.Errorf("row %d: %w", i, ErrInvalidLabel)
		}
		confusion[a][p]++
		if a == p {
			correct++
		}
	}

	r := Report{
		Classes:  make(map[int]ClassReport, 2),
		Accuracy: float64(correct) / float64(len(actual)),
		Samples:  len(actual),
	}
	for class := 0; class <= 1; class++ {
		other := 1 - class
		tp := confusion[class][class]
		fp := confusion[other][class]
		fn := confusion[class][other]

		cr := ClassReport{
			Precision: ratio(tp, tp+fp),
			Recall:    ratio(tp, tp+fn),
			Support:   tp + fn,
		}
		if cr.Precision+cr.Recall > 0 {
			cr.F1 = 2 * cr.Precision * cr.Recall / (cr.Precision + cr.Recall)
		}
		r.Classes[class] = cr
	}
	return r, nil
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}
