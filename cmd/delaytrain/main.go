package main

import (
	"flag"
	"fmt"
	"os"

	"flight-delay/internal/cfg"
	"flight-delay/internal/logging"
	"flight-delay/internal/training"

	"github.com/rs/zerolog/log"
)

func main() {
	var (
		dataPath  = flag.String("data", "data/data.csv", "Path to the historical flights CSV")
		modelPath = flag.String("model", "", "Path to the model store (defaults to MODEL_PATH)")
		testRatio = flag.Float64("test-ratio", training.DefaultTestRatio, "Share of rows held out for evaluation")
		seed      = flag.Int64("seed", 111, "Seed for the train/test shuffle")
		outputDir = flag.String("output", "", "Directory for the training report (optional)")
		logLevel  = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	)
	flag.Parse()

	if _, err := logging.Setup(logging.Options{Level: *logLevel, Format: "console"}); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %v\n", err)
		os.Exit(2)
	}

	if *modelPath == "" {
		settings, err := cfg.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load config")
		}
		*modelPath = settings.ModelPath
	}

	log.Info().
		Str("data", *dataPath).
		Str("model", *modelPath).
		Float64("test_ratio", *testRatio).
		Int64("seed", *seed).
		Msg("starting training")

	pipeline := training.NewPipeline(training.Config{
		DataPath:  *dataPath,
		ModelPath: *modelPath,
		TestRatio: *testRatio,
		Seed:      *seed,
	}, nil)

	results, err := pipeline.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("training failed")
	}

	reporter := training.NewReporter(results, *outputDir)
	reporter.PrintSummary(os.Stdout)

	if *outputDir != "" {
		if err := reporter.GenerateReport(); err != nil {
			log.Fatal().Err(err).Msg("failed to write report")
		}
		log.Info().Str("dir", *outputDir).Msg("report written")
	}
}
