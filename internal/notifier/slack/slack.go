package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/darts-league/internal/league"
	"github.com/mauv0809/darts-league/internal/metrics"
	"github.com/mauv0809/darts-league/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// maxSectionFields is the Block Kit limit on fields in one section block.
const maxSectionFields = 10

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	// dryRunOnly is set when no bot token is configured.
	dryRunOnly bool
}

// NewNotifier creates a new Notifier. Without a token every message is
// logged instead of posted.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	if token == "" {
		log.Warn("No Slack bot token configured, notifications run in dry-run mode")
		return &Notifier{channelID: channelID, metrics: metrics, dryRunOnly: true}
	}
	return &Notifier{
		api:       slack.New(token),
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.dryRunOnly {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendEventResults(ctx context.Context, event *league.Event, results []league.EventResult, dryRun bool) error {
	msg := s.formatEventResults(event, results)
	_, _, err := s.sendMessage(ctx, msg, dryRun)
	return err
}

func (s *Notifier) SendStandings(ctx context.Context, season string, ranking []league.RankingRow, dryRun bool) error {
	msg := s.formatStandings(season, ranking)
	_, _, err := s.sendMessage(ctx, msg, dryRun)
	return err
}

// FormatStandingsResponse formats the season standings for a slash command response.
func (s *Notifier) FormatStandingsResponse(season string, ranking []league.RankingRow) (any, error) {
	return s.formatStandings(season, ranking), nil
}

// FormatPlayerCareerResponse formats a player's career for a slash command response.
func (s *Notifier) FormatPlayerCareerResponse(player *league.Player, seasons []league.SeasonTotals) (any, error) {
	return s.formatPlayerCareer(player, seasons), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇 "
	case 2:
		return "🥈 "
	case 3:
		return "🥉 "
	}
	return ""
}

// formatEventResults creates the Slack message for a finished league evening using Block Kit.
func (s *Notifier) formatEventResults(event *league.Event, results []league.EventResult) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎯 Results are in! 🎯", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	details := fmt.Sprintf("%s on %s (season %s)",
		event.Type.Label(),
		event.Date.In(time.UTC).Format("Monday 02 Jan 2006"),
		event.Season,
	)
	if event.Description != nil {
		details += "\n" + *event.Description
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", details, true, false), nil, nil))

	if len(results) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No results recorded.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	lines := make([]string, 0, len(results))
	for i, r := range results {
		lines = append(lines, fmt.Sprintf("%d. %s%s: %d pts (%d W / %d L) | 🎯 %d | ✖️3 %d",
			i+1, medal(i+1), r.Name, r.Points, r.Wins, r.Losses, r.Bullseyes, r.Triples))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatStandings creates a Slack message to display the season ranking.
func (s *Notifier) formatStandings(season string, ranking []league.RankingRow) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 Standings %s 🏆", season), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(ranking) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No results this season yet. Go throw some darts!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, row := range ranking {
		rank := i + 1
		playerText := fmt.Sprintf("%d. %s%s\n> Points: %d | Wins: %d | Losses: %d | Bullseyes: %d | Triples: %d",
			rank,
			medal(rank),
			row.Name,
			row.Points,
			row.Wins,
			row.Losses,
			row.Bullseyes,
			row.Triples,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerCareer creates a Slack message to display a single player's career.
func (s *Notifier) formatPlayerCareer(player *league.Player, seasons []league.SeasonTotals) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := fmt.Sprintf("🎯 Stats for %s 🎯", player.Name)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	career := league.SumCareer(seasons)
	careerText := fmt.Sprintf("> *Events*: %d over %d season(s)\n> *Points*: %d\n> *Wins/Losses*: %d/%d\n> *Bullseyes*: %d\n> *Triples*: %d",
		career.EventsPlayed,
		career.Seasons,
		career.Points,
		career.Wins,
		career.Losses,
		career.Bullseyes,
		career.Triples,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", careerText, false, false), nil, nil))

	for chunk := range slices.Chunk(seasons, maxSectionFields) {
		fields := make([]*slack.TextBlockObject, 0, len(chunk))
		for _, t := range chunk {
			fields = append(fields, slack.NewTextBlockObject("mrkdwn",
				fmt.Sprintf("*%s*\n%d pts in %d event(s)", t.Season, t.Points, t.EventsPlayed), false, false))
		}
		blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a Slack message for when a player is not found.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player matching *%s*. Try a different name.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}
