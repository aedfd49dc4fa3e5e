package slack

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/mauv0809/darts-league/internal/league"
	"github.com/mauv0809/darts-league/internal/metrics"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func testEvent() *league.Event {
	desc := "January solo night"
	return &league.Event{
		ID:          1,
		Type:        league.EventSeasonSolo,
		Date:        civil.Date{Year: 2026, Month: 1, Day: 16},
		Season:      "2025-2026",
		Description: &desc,
	}
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(context.Background(), message, true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestNewNotifier_NoTokenIsDryRun(t *testing.T) {
	metrics := metrics.NewMock()
	notifier := NewNotifier("", "C123", metrics)

	err := notifier.SendStandings(context.Background(), "2025-2026", nil, false)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(context.Background(), message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	_, _, err := notifier.sendMessage(context.Background(), slackapi.NewBlockMessage(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestSendEventResults_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}

	notifier := NewNotifierWithAPI(api, "C123", metrics.NewMock())
	err := notifier.SendEventResults(context.Background(), testEvent(), []league.EventResult{{Name: "Tank", Points: 5}}, false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called via SendEventResults")
}

func TestFormatEventResults(t *testing.T) {
	client := &Notifier{channelID: "C123"}

	t.Run("lists results in order", func(t *testing.T) {
		results := []league.EventResult{
			{Name: "Tank", Points: 8, Wins: 8, Losses: 2, Bullseyes: 25, Triples: 25},
			{Name: "Rocket", Points: 3},
		}
		msg := client.formatEventResults(testEvent(), results)
		require.Len(t, msg.Blocks.BlockSet, 3)

		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok)
		assert.Equal(t, "🎯 Results are in! 🎯", header.Text.Text)

		details, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "Season Solo on Friday 16 Jan 2026 (season 2025-2026)\nJanuary solo night", details.Text.Text)

		lines, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, lines.Text.Text, "1. 🥇 Tank: 8 pts (8 W / 2 L)")
		assert.Contains(t, lines.Text.Text, "2. 🥈 Rocket: 3 pts (0 W / 0 L)")
	})

	t.Run("no results", func(t *testing.T) {
		msg := client.formatEventResults(testEvent(), nil)
		require.Len(t, msg.Blocks.BlockSet, 3)
		section, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "No results recorded.", section.Text.Text)
	})
}

func TestFormatStandings(t *testing.T) {
	client := &Notifier{channelID: "C123"}

	t.Run("displays standings", func(t *testing.T) {
		ranking := []league.RankingRow{
			{Name: "P1", Points: 8, Wins: 8, Losses: 2, Bullseyes: 25, Triples: 25},
			{Name: "P2", Points: 3},
			{Name: "P3", Points: 1},
			{Name: "P4"},
		}
		msg := client.formatStandings("2026", ranking)
		require.Len(t, msg.Blocks.BlockSet, 5, "Expected header + 4 players")

		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok)
		assert.Equal(t, "🏆 Standings 2026 🏆", header.Text.Text)

		first, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, first.Text.Text, "1. 🥇 P1")
		assert.Contains(t, first.Text.Text, "> Points: 8 | Wins: 8 | Losses: 2 | Bullseyes: 25 | Triples: 25")

		fourth, ok := msg.Blocks.BlockSet[4].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, fourth.Text.Text, "4. P4")
	})

	t.Run("empty season", func(t *testing.T) {
		msg := client.formatStandings("2026", nil)
		require.Len(t, msg.Blocks.BlockSet, 2)
		section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "No results this season yet. Go throw some darts!", section.Text.Text)
	})
}

func TestFormatPlayerCareer(t *testing.T) {
	client := &Notifier{channelID: "C123"}

	t.Run("formats career for a found player", func(t *testing.T) {
		player := &league.Player{ID: 1, Name: "Tank"}
		seasons := []league.SeasonTotals{
			{Season: "2025-2026", Points: 7, Wins: 2, Triples: 3, EventsPlayed: 2},
			{Season: "2024-2025", Points: 2, Wins: 1, Losses: 3, Bullseyes: 4, Triples: 5, EventsPlayed: 1},
		}

		msg := client.formatPlayerCareer(player, seasons)
		require.Len(t, msg.Blocks.BlockSet, 3)

		header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
		require.True(t, ok)
		assert.Equal(t, "🎯 Stats for Tank 🎯", header.Text.Text)

		section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Contains(t, section.Text.Text, "> *Events*: 3 over 2 season(s)")
		assert.Contains(t, section.Text.Text, "> *Points*: 9")
		assert.Contains(t, section.Text.Text, "> *Wins/Losses*: 3/3")
		assert.Contains(t, section.Text.Text, "> *Triples*: 8")

		perSeason, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
		require.True(t, ok)
		require.Len(t, perSeason.Fields, 2)
		assert.Equal(t, "*2025-2026*\n7 pts in 2 event(s)", perSeason.Fields[0].Text)
	})

	t.Run("long careers split fields into sections of ten", func(t *testing.T) {
		seasons := make([]league.SeasonTotals, 12)
		for i := range seasons {
			seasons[i] = league.SeasonTotals{Season: fmt.Sprintf("%d-%d", 2025-i, 2026-i), Points: 1, EventsPlayed: 1}
		}

		msg := client.formatPlayerCareer(&league.Player{Name: "Veteran"}, seasons)
		require.Len(t, msg.Blocks.BlockSet, 4)

		first, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Len(t, first.Fields, 10)
		assert.Equal(t, "*2025-2026*\n1 pts in 1 event(s)", first.Fields[0].Text)

		rest, ok := msg.Blocks.BlockSet[3].(*slackapi.SectionBlock)
		require.True(t, ok)
		require.Len(t, rest.Fields, 2)
		assert.Equal(t, "*2014-2015*\n1 pts in 1 event(s)", rest.Fields[1].Text)
	})

	t.Run("player without results", func(t *testing.T) {
		msg := client.formatPlayerCareer(&league.Player{Name: "Newcomer"}, nil)
		require.Len(t, msg.Blocks.BlockSet, 2)
	})

	t.Run("formats message for a player not found", func(t *testing.T) {
		msg := client.formatPlayerNotFound("Unknown Player")
		require.Len(t, msg.Blocks.BlockSet, 1)

		section, ok := msg.Blocks.BlockSet[0].(*slackapi.SectionBlock)
		require.True(t, ok)
		assert.Equal(t, "Sorry, I couldn't find a player matching *Unknown Player*. Try a different name.", section.Text.Text)
	})
}
