package training

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"flight-delay/internal/ml"
)

// Reporter writes training results to an output directory.
type Reporter struct {
	results    *Results
	outputPath string
}

func NewReporter(results *Results, outputPath string) *Reporter {
	return &Reporter{
		results:    results,
		outputPath: outputPath,
	}
}

// GenerateReport writes training_summary.txt and training_report.json.
func (r *Reporter) GenerateReport() error {
	if err := os.MkdirAll(r.outputPath, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := r.generateSummary(); err != nil {
		return err
	}

	return r.generateJSONReport()
}

func (r *Reporter) generateSummary() error {
	file, err := os.Create(filepath.Join(r.outputPath, "training_summary.txt"))
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	r.writeSummary(file)
	return nil
}

type jsonReport struct {
	Run        ml.TrainingRun    `json:"run"`
	Holdout    ml.Report         `json:"holdout"`
	Importance []ml.FeatureStats `json:"importance"`
	Model      *ml.TrainedModel  `json:"model"`
}

func (r *Reporter) generateJSONReport() error {
	data, err := json.MarshalIndent(jsonReport{
		Run:        r.results.Run,
		Holdout:    r.results.Holdout,
		Importance: r.results.Importance,
		Model:      r.results.Model,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(filepath.Join(r.outputPath, "training_report.json"), data, 0o644); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}

// PrintSummary writes the human-readable summary to w.
func (r *Reporter) PrintSummary(w io.Writer) {
	r.writeSummary(w)
}

func (r *Reporter) writeSummary(w io.Writer) {
	res := r.results

	fmt.Fprintf(w, "TRAINING SUMMARY\n")
	fmt.Fprintf(w, "================\n\n")
	fmt.Fprintf(w, "Rows: %d (train %d, hold-out %d)\n", res.Rows, res.TrainRows, res.TestRows)
	fmt.Fprintf(w, "Delayed share: %.2f%%\n", res.DelayRate*100)
	if res.Model != nil {
		fmt.Fprintf(w, "Class weights: on-time %.4f, delayed %.4f\n", res.Model.ClassWeights[0], res.Model.ClassWeights[1])
		fmt.Fprintf(w, "Solver iterations: %d\n", res.Model.Iterations)
	}
	fmt.Fprintf(w, "Duration: %s\n\n", res.EndTime.Sub(res.StartTime))

	fmt.Fprintf(w, "HOLD-OUT REPORT\n")
	fmt.Fprintf(w, "---------------\n")
	fmt.Fprintf(w, "%-8s %10s %10s %10s %10s\n", "class", "precision", "recall", "f1-score", "support")
	for class := 0; class <= 1; class++ {
		c := res.Holdout.Classes[class]
		fmt.Fprintf(w, "%-8d %10.2f %10.2f %10.2f %10d\n", class, c.Precision, c.Recall, c.F1, c.Support)
	}
	fmt.Fprintf(w, "accuracy %43.2f\n\n", res.Holdout.Accuracy)

	fmt.Fprintf(w, "FEATURE IMPORTANCE\n")
	fmt.Fprintf(w, "------------------\n")
	for _, f := range res.Importance {
		fmt.Fprintf(w, "%-28s coef %+8.4f  odds %7.3f  share %6.2f%%\n", f.Name, f.Coefficient, f.OddsRatio, f.ImportanceScore*100)
	}
}
