package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	season   string
	metric   string
	limit    int
	password string
	dryRun   bool
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(announceCmd)
	rootCmd.AddCommand(metricsCmd)

	eventsCmd.Flags().StringVar(&season, "season", "", "Only list events of this season")
	standingsCmd.Flags().StringVar(&season, "season", "", "Season to rank (default: current season)")
	leaderboardCmd.Flags().StringVar(&metric, "metric", "points", "Metric to rank by: points, bullseyes or triples")
	leaderboardCmd.Flags().IntVar(&limit, "limit", 3, "Number of players to show")
	announceCmd.Flags().StringVar(&password, "password", os.Getenv("ADMIN_PASSWORD"), "Admin password")
	announceCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log the Slack messages instead of posting them")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health", nil)
	},
}

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show the current season, next and last event and the leaders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/overview", nil)
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players of the league",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/players", nil)
	},
}

var playerCmd = &cobra.Command{
	Use:   "player [id]",
	Short: "Show a player's seasons and career totals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid player id %q", args[0])
		}
		return performGetRequest(fmt.Sprintf("/api/players/%d", id), nil)
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List league events",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if season != "" {
			q.Set("season", season)
		}
		return performGetRequest("/api/events", q)
	},
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show the event calendar grouped by season",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/calendar", nil)
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Show the season ranking",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if season != "" {
			q.Set("season", season)
		}
		return performGetRequest("/api/rankings", q)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the all-time leaders for a metric",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		q.Set("metric", metric)
		q.Set("limit", strconv.Itoa(limit))
		return performGetRequest("/api/leaderboard", q)
	},
}

var announceCmd = &cobra.Command{
	Use:   "announce [event id]",
	Short: "Post an event's results and the season standings to Slack",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid event id %q", args[0])
		}
		if password == "" {
			return fmt.Errorf("an admin password is required (--password or ADMIN_PASSWORD)")
		}

		client, err := adminClient(password)
		if err != nil {
			return err
		}
		endpoint := fmt.Sprintf("/api/events/%d/announce", id)
		if dryRun {
			endpoint += "?dry_run=true"
		}
		return performRequest(client, http.MethodPost, endpoint, nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics", nil)
	},
}

// adminClient logs in and returns a client carrying the admin session cookie.
func adminClient(password string) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Jar: jar}

	body, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return nil, err
	}
	resp, err := client.Post(host+"/admin/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login rejected with status %d", resp.StatusCode)
	}
	return client, nil
}

func performGetRequest(endpoint string, query url.Values) error {
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return performRequest(http.DefaultClient, http.MethodGet, endpoint, nil)
}

func performRequest(client *http.Client, method, endpoint string, body io.Reader) error {
	target := host + endpoint
	fmt.Printf("Making request to %s\n", target)

	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(prettyJSON(data))

	return nil
}

// prettyJSON indents JSON bodies and returns anything else unchanged.
func prettyJSON(data []byte) string {
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return string(data)
	}
	return out.String()
}
