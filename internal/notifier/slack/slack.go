package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/atr-tennis/internal/club"
	"github.com/mauv0809/atr-tennis/internal/metrics"
	"github.com/mauv0809/atr-tennis/internal/notifier"
	"github.com/mauv0809/atr-tennis/internal/rating"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
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

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
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

func (s *Notifier) SendMatchResult(result notifier.MatchResult, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatMatchResult(result), dryRun)
	return err
}

func (s *Notifier) SendRankings(rankings []club.Ranking, dryRun bool) error {
	_, _, err := s.sendMessage(s.formatRankings(rankings), dryRun)
	return err
}

// FormatRankingsResponse formats the rankings for a slash command response.
func (s *Notifier) FormatRankingsResponse(rankings []club.Ranking) (any, error) {
	return s.formatRankings(rankings), nil
}

// FormatPlayerRatingResponse formats one player's rating for a slash command response.
func (s *Notifier) FormatPlayerRatingResponse(profile club.Profile, history []rating.RankingHistory) (any, error) {
	return s.formatPlayerRating(profile, history), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

// formatMatchResult creates the Slack message for a rated match using Block Kit.
func (s *Notifier) formatMatchResult(r notifier.MatchResult) slack.Message {
	blocks := make([]slack.Block, 0, 4)

	headerText := slack.NewTextBlockObject("plain_text", "🎾 Match finished! 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	scores := make([]string, len(r.Sets))
	for i, set := range r.Sets {
		scores[i] = fmt.Sprintf("%d-%d", set.TeamA, set.TeamB)
	}
	resultText := fmt.Sprintf("*%s* beat *%s* %s", r.WinnerName, r.LoserName, strings.Join(scores, ", "))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", resultText, false, false), nil, nil))

	o := r.Outcome
	// Deltas come from the stored ratings, which may be clamped.
	ratingText := fmt.Sprintf("%s: %d → %d (%+d)\n%s: %d → %d (%+d)",
		r.WinnerName, o.WinnerOldRating, o.WinnerNewRating, o.WinnerNewRating-o.WinnerOldRating,
		r.LoserName, o.LoserOldRating, o.LoserNewRating, o.LoserNewRating-o.LoserOldRating,
	)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", ratingText, true, false), nil, nil))

	if len(o.Achievements) > 0 {
		elements := make([]slack.MixedElement, 0, len(o.Achievements))
		for _, a := range o.Achievements {
			elements = append(elements, slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 %s: %s", r.WinnerName, a.Description), true, false))
		}
		blocks = append(blocks, slack.NewContextBlock("", elements...))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatRankings creates a Slack message showing the ATR leaderboard.
func (s *Notifier) formatRankings(rankings []club.Ranking) slack.Message {
	blocks := make([]slack.Block, 0, len(rankings)+1)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 ATR Rankings 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	rated := 0
	for _, r := range rankings {
		if r.Rating == nil {
			continue
		}
		rated++
		var medal string
		switch r.Position {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}
		text := fmt.Sprintf("%d. %s %s\n> *ATR*: %d | *Matches*: %d | _%s_",
			r.Position, medal, r.PlayerName, *r.Rating, r.MatchesPlayed, r.RatingStatus)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil))
	}

	if rated == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No rated players yet. Go play some matches!", true, false), nil, nil))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatPlayerRating shows a player's current rating and latest changes.
func (s *Notifier) formatPlayerRating(p club.Profile, history []rating.RankingHistory) slack.Message {
	blocks := make([]slack.Block, 0, 3)

	headerText := fmt.Sprintf("🎾 ATR for %s", p.FullName)
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headerText, true, false)))

	current := "unrated"
	if p.CurrentRating != nil {
		current = fmt.Sprintf("%d", *p.CurrentRating)
	}
	text := fmt.Sprintf("> *ATR*: %s\n> *Matches*: %d\n> *Status*: %s", current, p.MatchesPlayed, p.RatingStatus)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil))

	const recent = 5
	if len(history) > 0 {
		start := max(0, len(history)-recent)
		lines := make([]string, 0, recent)
		for i := len(history) - 1; i >= start; i-- {
			h := history[i]
			lines = append(lines, fmt.Sprintf("%s  %d (%+d)", h.CalculationDate.Format("02 Jan"), h.Points, h.PointsChange))
		}
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), false, false)))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatPlayerNotFound creates a Slack message for an unknown or unlinked player.
func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a player for *%s*. Ask an admin to link your Slack account.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}
