package simulate

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/grapple/pkg/logger"
)

// Runner configuration constants.
const (
	ArchiveSettleDelay   = 2 * time.Second
	PercentageMultiplier = 100
	StatusOK             = 200
)

// Run executes the complete match simulation.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting grapple match simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("matches", config.NumMatches),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("resultsLimit", config.ResultsLimit),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate match scripts
	scripts := generateScripts(ctx, config, stats)

	// Step 3: Play matches concurrently
	results, err := playMatches(ctx, config, scripts, stats)
	if err != nil {
		return fmt.Errorf("match playback failed: %w", err)
	}

	// Step 4: Let the archive pipeline drain
	logger.Get().Info(ctx, "waiting for matches to be archived")
	time.Sleep(ArchiveSettleDelay)

	// Step 5: Verify archived results and standings
	if err := verifyResults(ctx, config, results, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the endpoint serves Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// playMatches drives all scripted matches through the service with a worker pool.
func playMatches(ctx context.Context, config *Config, scripts []matchScript, stats *Stats) ([]playResult, error) {
	log.Printf("🤼 Playing %d matches with %d workers...", len(scripts), config.Workers)

	driver := &matchDriver{
		client:  newHTTPClient(config.Timeout),
		baseURL: config.BaseURL,
	}

	var (
		completed int64
		failed    int64
		submitted int64
		duplicate int64
		pins      int64
		techFalls int64
		overtimes int64
	)

	scriptChan := make(chan matchScript, config.Workers*2)
	resultChan := make(chan playResult, len(scripts))
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for script := range scriptChan {
				select {
				case <-ctx.Done():
					return
				default:
					result, err := driver.play(ctx, script)

					atomic.AddInt64(&submitted, int64(result.submitted))
					atomic.AddInt64(&duplicate, int64(result.duplicate))
					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("❌ Match failed: %v", err)
						}
						continue
					}

					atomic.AddInt64(&completed, 1)
					switch result.winType {
					case "pin":
						atomic.AddInt64(&pins, 1)
					case "tech_fall":
						atomic.AddInt64(&techFalls, 1)
					}
					if result.overtime {
						atomic.AddInt64(&overtimes, 1)
					}
					resultChan <- result

					if config.Verbose {
						log.Printf("✅ Match %s complete: %s wins by %s", result.matchID, result.winner, result.winType)
					} else {
						fmt.Printf("\r🤼 Completed: %d/%d (failed: %d)", atomic.LoadInt64(&completed), len(scripts), atomic.LoadInt64(&failed))
					}
				}
			}
		}()
	}

	go func() {
		defer close(scriptChan)
		for _, script := range scripts {
			select {
			case <-ctx.Done():
				return
			case scriptChan <- script:
			}
		}
	}()

	wg.Wait()
	close(resultChan)

	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	results := make([]playResult, 0, len(scripts))
	for result := range resultChan {
		results = append(results, result)
	}

	stats.MatchesCompleted = int(atomic.LoadInt64(&completed))
	stats.MatchesFailed = int(atomic.LoadInt64(&failed))
	stats.EventsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.EventsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.PinsRecorded = int(atomic.LoadInt64(&pins))
	stats.TechFallsRecorded = int(atomic.LoadInt64(&techFalls))
	stats.OvertimeMatches = int(atomic.LoadInt64(&overtimes))

	log.Printf(`✅ Match playback completed:
   Completed: %d
   Failed: %d
   Pins: %d
   Tech falls: %d
   Overtime: %d
`, stats.MatchesCompleted, stats.MatchesFailed, stats.PinsRecorded, stats.TechFallsRecorded, stats.OvertimeMatches)

	return results, nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var completionRate, matchesPerSecond float64

	if stats.MatchesPlanned > 0 {
		completionRate = float64(stats.MatchesCompleted) / float64(stats.MatchesPlanned) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		matchesPerSecond = float64(stats.MatchesCompleted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("matchesPlanned", stats.MatchesPlanned),
		logger.Int("matchesCompleted", stats.MatchesCompleted),
		logger.Int("matchesFailed", stats.MatchesFailed),
		logger.Int("eventsSubmitted", stats.EventsSubmitted),
		logger.Int("eventsDuplicate", stats.EventsDuplicate),
		logger.Int("pinsRecorded", stats.PinsRecorded),
		logger.Int("techFallsRecorded", stats.TechFallsRecorded),
		logger.Int("overtimeMatches", stats.OvertimeMatches),
		logger.Int("resultsRetrieved", stats.ResultsRetrieved),
		logger.Int("standingsVerified", stats.StandingsVerified),
		logger.Int("standingMismatches", stats.StandingMismatches),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("completionRate", completionRate),
		logger.Float64("matchesPerSecond", matchesPerSecond))
}
