package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var (
	startEventID string
	startMatchID string
	startServer  string
	pointKind    string
)

func init() {
	startCmd.Flags().StringVar(&startEventID, "event", "", "Event id (generated when empty)")
	startCmd.Flags().StringVar(&startMatchID, "match", "", "Match id (generated when empty)")
	startCmd.Flags().StringVar(&startServer, "server", "", "First server, A or B")
	pointCmd.Flags().StringVar(&pointKind, "kind", "", "Point kind: regular, winner, error or ace")

	rootCmd.AddCommand(healthCmd, metricsCmd, statsCmd)
	rootCmd.AddCommand(startCmd, liveCmd, showCmd, pointCmd, aceCmd, serveCmd, endCmd, abandonCmd)
	rootCmd.AddCommand(rankingsCmd, historyCmd, importCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get Prometheus metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Get lifetime counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/stats", nil)
	},
}

var startCmd = &cobra.Command{
	Use:   "start <playerA-id> <playerA-name> <playerB-id> <playerB-name>",
	Short: "Start a live scoring session",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{
			"eventId": startEventID,
			"matchId": startMatchID,
			"playerA": map[string]string{"id": args[0], "name": args[1]},
			"playerB": map[string]string{"id": args[2], "name": args[3]},
		}
		if startServer != "" {
			body["server"] = startServer
		}
		return performRequest(http.MethodPost, "/matches", body)
	},
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "List live matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/matches", nil)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <event-id>",
	Short: "Show the score of a live match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, matchPath(args[0], ""), nil)
	},
}

var pointCmd = &cobra.Command{
	Use:   "point <event-id> <A|B>",
	Short: "Record a point for a side",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, matchPath(args[0], "/point"), map[string]string{"side": args[1], "kind": pointKind})
	},
}

var aceCmd = &cobra.Command{
	Use:   "ace <event-id> <A|B>",
	Short: "Record an ace for the serving side",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, matchPath(args[0], "/ace"), map[string]string{"side": args[1]})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve <event-id>",
	Short: "Switch the serving side",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, matchPath(args[0], "/serve"), nil)
	},
}

var endCmd = &cobra.Command{
	Use:   "end <event-id>",
	Short: "End a finished match and trigger the rating update",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, matchPath(args[0], "/end"), nil)
	},
}

var abandonCmd = &cobra.Command{
	Use:   "abandon <event-id>",
	Short: "Drop a live match without a result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, matchPath(args[0], ""), nil)
	},
}

var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Show the ATR rankings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/rankings", nil)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <player-id>",
	Short: "Show a player's rating history and achievements",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/players/"+url.PathEscape(args[0])+"/history", nil)
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import confirmed results from Playtomic",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/import", nil)
	},
}

func matchPath(eventID, action string) string {
	return "/matches/" + url.PathEscape(eventID) + action
}

func requestURL(endpoint string) string {
	q := url.Values{}
	if dryRun {
		q.Set("dry_run", "true")
	}
	if verbose {
		q.Set("verbose", "true")
	}
	if len(q) == 0 {
		return host + endpoint
	}
	return host + endpoint + "?" + q.Encode()
}

func performRequest(method, endpoint string, body any) error {
	target := requestURL(endpoint)
	fmt.Printf("Making %s request to %s\n", method, target)

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(prettyJSON(respBody))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server answered %s", resp.Status)
	}
	return nil
}

func prettyJSON(body []byte) string {
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		return string(body)
	}
	return out.String()
}
