package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
)

// verifyResults cross-checks archived results and standings against the
// outcomes observed during playback.
func verifyResults(ctx context.Context, config *Config, results []playResult, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	if len(results) == 0 {
		return fmt.Errorf("no completed matches to verify")
	}

	client := newHTTPClient(config.Timeout)

	archived, err := fetchArchivedResults(ctx, client, config)
	if err != nil {
		return err
	}
	stats.ResultsRetrieved = len(archived)

	// Index archive by match id and compare outcomes.
	byID := make(map[string]archivedResult, len(archived))
	for _, rec := range archived {
		byID[rec.MatchID] = rec
	}

	mismatches := 0
	for _, played := range results {
		rec, ok := byID[played.matchID]
		if !ok {
			// The archive window may be smaller than the run.
			continue
		}
		if rec.Outcome.Winner != played.winner || rec.Outcome.WinType != played.winType {
			mismatches++
			log.Printf("⚠️  Archive mismatch for %s: archived %s/%s, observed %s/%s",
				played.matchID, rec.Outcome.Winner, rec.Outcome.WinType, played.winner, played.winType)
		}
	}
	if mismatches == 0 {
		log.Println("✅ Archived outcomes match observed outcomes")
	}

	// Each wrestler appears in exactly one simulated match, so every
	// standing must show a single win or a single loss.
	verified, standingMismatches := verifyStandings(ctx, client, config, results)
	stats.StandingsVerified = verified
	stats.StandingMismatches = standingMismatches + mismatches

	log.Println("✅ Result verification completed")
	return nil
}

// fetchArchivedResults retrieves the most recent archived matches.
func fetchArchivedResults(ctx context.Context, client *HTTPClient, config *Config) ([]archivedResult, error) {
	url := config.BaseURL + "/results?limit=" + strconv.Itoa(config.ResultsLimit)
	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("results request failed with status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read results body: %w", err)
	}

	var archived []archivedResult
	if err := json.Unmarshal(data, &archived); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}

	log.Printf("📋 Retrieved %d archived results", len(archived))
	return archived, nil
}

// verifyStandings checks each played wrestler's win/loss record.
func verifyStandings(ctx context.Context, client *HTTPClient, config *Config, results []playResult) (verified, mismatches int) {
	for _, played := range results {
		for _, check := range []struct {
			wrestlerID string
			wantWins   int
		}{
			{played.homeID, boolToInt(played.winner == "home")},
			{played.awayID, boolToInt(played.winner == "away")},
		} {
			st, err := fetchStanding(ctx, client, config, check.wrestlerID)
			if err != nil {
				if config.Verbose {
					log.Printf("⚠️  Standing fetch failed for %s: %v", check.wrestlerID, err)
				}
				continue
			}
			verified++
			if st.Wins != check.wantWins || st.Wins+st.Losses != 1 {
				mismatches++
				log.Printf("⚠️  Standing mismatch for %s: wins=%d losses=%d (expected %d win)",
					check.wrestlerID, st.Wins, st.Losses, check.wantWins)
			}
		}
	}

	if mismatches == 0 {
		log.Printf("✅ Verified %d standings", verified)
	}
	return verified, mismatches
}

// fetchStanding retrieves one wrestler's archived record.
func fetchStanding(ctx context.Context, client *HTTPClient, config *Config, wrestlerID string) (standing, error) {
	var st standing

	resp, err := client.Get(ctx, config.BaseURL+"/records/"+wrestlerID)
	if err != nil {
		return st, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return st, fmt.Errorf("wrestler %s not archived yet", wrestlerID)
	}
	if resp.StatusCode != StatusOK {
		return st, fmt.Errorf("standing request failed with status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, err
	}
	return st, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
