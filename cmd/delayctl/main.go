package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"flight-delay/internal/api"
	"flight-delay/internal/client"
	"flight-delay/internal/common"
)

const usage = `usage: delayctl [-url URL] [-timeout D] <command> [flags]

commands:
  health                                  check the server is up
  predict -airline A -type I|N -month M   predict one flight
  info                                    describe the served model
`

func main() {
	defaultURL := os.Getenv(common.EnvAPIURL)
	if defaultURL == "" {
		defaultURL = common.DefaultAPIURL
	}

	var (
		baseURL = flag.String("url", defaultURL, "Base URL of the prediction API")
		timeout = flag.Duration("timeout", 5*time.Second, "Request timeout")
	)
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	c := client.New(*baseURL, *timeout)
	ctx := context.Background()

	var err error
	switch cmd, args := flag.Arg(0), flag.Args()[1:]; cmd {
	case "health":
		err = runHealth(ctx, c)
	case "predict":
		err = runPredict(ctx, c, args)
	case "info":
		err = runInfo(ctx, c)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runHealth(ctx context.Context, c *client.Client) error {
	if err := c.Health(ctx); err != nil {
		return err
	}
	fmt.Println("OK")
	return nil
}

func runPredict(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	airline := fs.String("airline", "", "Operating airline, e.g. \"Grupo LATAM\"")
	flightType := fs.String("type", "N", "Flight type: I (international) or N (national)")
	month := fs.Int("month", 0, "Month of the flight, 1-12")
	if err := fs.Parse(args); err != nil {
		return err
	}

	labels, err := c.Predict(ctx, []api.Flight{{Airline: *airline, FlightType: *flightType, Month: *month}})
	if err != nil {
		return err
	}

	verdict := "on time"
	if labels[0] == 1 {
		verdict = "delayed"
	}
	fmt.Printf("%d (%s)\n", labels[0], verdict)
	return nil
}

func runInfo(ctx context.Context, c *client.Client) error {
	info, err := c.ModelInfo(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}
