package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/grapple/internal/simulate"
)

// Default configuration constants.
const (
	defaultNumMatches   = 100
	defaultResultsLimit = 50
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultRunTimeout   = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numMatches   = flag.Int("matches", defaultNumMatches, "Number of matches to simulate")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		resultsLimit = flag.Int("results", defaultResultsLimit, "Number of archived results to fetch at the end")
		logFile      = flag.String("log", "", "Log file for simulation output (default: simulate_log_TIMESTAMP.log)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	// Setup logging
	if err := simulate.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create simulation configuration
	config := &simulate.Config{
		BaseURL:      *baseURL,
		NumMatches:   *numMatches,
		Workers:      *workers,
		Timeout:      *timeout,
		ResultsLimit: *resultsLimit,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	// Run the simulation
	if err := simulate.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
