package playtomic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rafa-garcia/go-playtomic-api/client"
	"github.com/rafa-garcia/go-playtomic-api/models"
)

// APIClient is a Playtomic API client that implements the PlaytomicClient interface.
// Searches go through go-playtomic-api; single matches are read from the
// public match endpoint, which carries the set results.
type APIClient struct {
	httpClient *http.Client
	apiClient  *client.Client
	BaseURL    string
}

// NewClient creates a new Playtomic client.
func NewClient() PlaytomicClient {
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiClient: client.NewClient(
			client.WithTimeout(10*time.Second),
			client.WithRetries(3),
		),
		BaseURL: "https://api.playtomic.io",
	}
}

var _ PlaytomicClient = (*APIClient)(nil)

// GetMatches fetches every page of matches for the search parameters.
func (c *APIClient) GetMatches(ctx context.Context, params *SearchMatchesParams) ([]MatchSummary, error) {
	const pageSize = 300
	var (
		allMatches []MatchSummary
		page       = 0
	)

	for {
		externalParams := &models.SearchMatchesParams{
			SportID:       params.SportID,
			HasPlayers:    params.HasPlayers,
			Sort:          params.Sort,
			TenantIDs:     params.TenantIDs,
			FromStartDate: params.FromStartDate,
			Size:          pageSize,
			Page:          page,
		}

		log.Debug("Fetching matches from Playtomic API", "params", externalParams)
		matches, err := c.apiClient.GetMatches(ctx, externalParams)
		if err != nil {
			return nil, fmt.Errorf("error fetching matches from playtomic api: %w", err)
		}

		for _, m := range matches {
			allMatches = append(allMatches, MatchSummary{
				MatchID: m.MatchID,
				OwnerID: m.OwnerID,
			})
		}
		if len(matches) < pageSize {
			break
		}
		page++
	}
	log.Info("Fetched matches", "count", len(allMatches), "pages", page+1)
	return allMatches, nil
}

// GetMatch fetches a single match with its teams and set results.
func (c *APIClient) GetMatch(ctx context.Context, matchID string) (TennisMatch, error) {
	url := fmt.Sprintf("%s/v1/matches/%s", c.BaseURL, matchID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return TennisMatch{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ATRTennisClient/1.0")

	log.Debug("Requesting match from Playtomic API", "url", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TennisMatch{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from Playtomic API", "status", resp.StatusCode, "body", string(body))
		return TennisMatch{}, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	var matchResponse playtomicMatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&matchResponse); err != nil {
		return TennisMatch{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return toTennisMatch(matchID, matchResponse)
}

func toTennisMatch(matchID string, r playtomicMatchResponse) (TennisMatch, error) {
	const layout = "2006-01-02T15:04:05"

	start, err := time.Parse(layout, r.StartDate)
	if err != nil {
		return TennisMatch{}, fmt.Errorf("failed to parse start time: %w", err)
	}
	end, err := time.Parse(layout, r.EndDate)
	if err != nil {
		return TennisMatch{}, fmt.Errorf("failed to parse end time: %w", err)
	}

	teams := make([]Team, 0, len(r.Teams))
	for _, rt := range r.Teams {
		t := Team{ID: rt.TeamID}
		if rt.TeamResult != nil {
			t.TeamResult = *rt.TeamResult
		}
		for _, rp := range rt.Players {
			t.Players = append(t.Players, Player{UserID: rp.UserID, Name: rp.Name})
		}
		teams = append(teams, t)
	}

	results := make([]SetResult, 0, len(r.Results))
	for _, rr := range r.Results {
		set := SetResult{Name: rr.Name, Scores: make(map[string]int, len(rr.Scores))}
		for _, score := range rr.Scores {
			set.Scores[score.TeamID] = score.Score
		}
		results = append(results, set)
	}

	gameStatus := GameStatus(r.GameStatus)
	switch gameStatus {
	case GameStatusPending, GameStatusPlayed, GameStatusCanceled, GameStatusInProgress:
	default:
		log.Warn("Unknown game status received from Playtomic API", "status", r.GameStatus, "matchID", matchID)
		gameStatus = GameStatusUnknown
	}

	return TennisMatch{
		MatchID:       matchID,
		Start:         start.Unix(),
		End:           end.Unix(),
		GameStatus:    gameStatus,
		ResultsStatus: ResultsStatus(r.ResultsStatus),
		Teams:         teams,
		Results:       results,
		ResourceName:  r.ResourceName,
		Tenant:        Tenant{ID: r.Tenant.ID, Name: r.Tenant.Name},
	}, nil
}
