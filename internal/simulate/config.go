package simulate

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL      string        // Base URL of the service
	NumMatches   int           // Number of matches to simulate
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	ResultsLimit int           // Number of archived results to fetch at the end
	LogFile      string        // Log file for simulation output
	Verbose      bool          // Enable verbose logging
}

// wrestlerPayload carries one side of a match creation request.
type wrestlerPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Team string `json:"team"`
}

// createMatchRequest is the body for POST /matches.
type createMatchRequest struct {
	Home wrestlerPayload `json:"home"`
	Away wrestlerPayload `json:"away"`
}

// eventRequest is the body for POST /matches/{id}/events.
type eventRequest struct {
	EventID string `json:"event_id"`
	Side    string `json:"side"`
	Action  string `json:"action"`
}

// clockRequest is the body for POST /matches/{id}/clock.
type clockRequest struct {
	Running bool `json:"running"`
}

// periodRequest is the body for POST /matches/{id}/period.
type periodRequest struct {
	Decision string `json:"decision,omitempty"`
}

// matchState is the subset of the match snapshot the simulator reads back.
type matchState struct {
	MatchID string `json:"match_id"`
	Score   struct {
		Home int `json:"home"`
		Away int `json:"away"`
	} `json:"score"`
	Phase   string `json:"phase"`
	Outcome *struct {
		Winner  string `json:"winner"`
		WinType string `json:"win_type"`
	} `json:"outcome,omitempty"`
	Result string `json:"result,omitempty"`
}

// eventAck is the response from event submission.
type eventAck struct {
	Match     matchState `json:"match"`
	Duplicate bool       `json:"duplicate"`
}

// archivedResult is one entry from GET /results.
type archivedResult struct {
	MatchID string `json:"match_id"`
	Outcome struct {
		Winner  string `json:"winner"`
		WinType string `json:"win_type"`
	} `json:"outcome"`
}

// standing is the response from GET /records/{wrestlerID}.
type standing struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Stats holds simulation statistics.
type Stats struct {
	MatchesPlanned     int
	MatchesCompleted   int
	MatchesFailed      int
	EventsSubmitted    int
	EventsDuplicate    int
	PinsRecorded       int
	TechFallsRecorded  int
	OvertimeMatches    int
	ResultsRetrieved   int
	StandingsVerified  int
	StandingMismatches int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
