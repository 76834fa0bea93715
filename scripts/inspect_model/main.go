package main

import (
	"flag"
	"fmt"
	"log"

	"flight-delay/internal/ml"
	"flight-delay/internal/storage"
)

func main() {
	var (
		modelPath = flag.String("model", "models/delay_model.db", "Model store path")
		limit     = flag.Int("runs", 10, "Number of training runs to list (0 for all)")
	)
	flag.Parse()

	fmt.Printf("Inspecting model store: %s\n", *modelPath)

	store, err := storage.OpenReadOnly(*modelPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	model, err := store.LoadModel()
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}

	fmt.Printf("\nActive model (vocabulary %s)\n", model.VocabularyVersion)
	fmt.Printf("  Trained at:    %s\n", model.TrainedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Training rows: %d\n", model.TrainingRows)
	fmt.Printf("  Intercept:     %+.4f\n", model.Intercept)
	fmt.Printf("  Class weights: 0=%.4f 1=%.4f\n", model.ClassWeights[0], model.ClassWeights[1])
	for _, f := range ml.FeatureImportance(model) {
		fmt.Printf("  %-28s %+.4f\n", f.Name, f.Coefficient)
	}

	runs, err := store.Runs(*limit)
	if err != nil {
		log.Fatalf("Failed to read training runs: %v", err)
	}

	fmt.Printf("\nTraining runs (%d):\n", len(runs))
	for _, r := range runs {
		fmt.Printf("  %s  rows=%d holdout=%d acc=%.3f delayed_recall=%.3f delayed_f1=%.3f\n",
			r.ID, r.TrainingRows, r.HoldoutRows, r.Accuracy, r.DelayedRecall, r.DelayedF1)
	}
}
