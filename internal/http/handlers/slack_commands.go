package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/atr-tennis/internal/club"
	"github.com/mauv0809/atr-tennis/internal/notifier"
	"github.com/slack-go/slack"
)

// mentionPattern matches an escaped Slack user mention such as <@U123|anna>.
var mentionPattern = regexp.MustCompile(`^<@([A-Z0-9]+)(?:\|[^>]*)?>$`)

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
		log.Error("Failed to cast message to slack.Message")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(slackMsg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// RankingCommandHandler serves /ranking. Without text it shows the table;
// "me" or a user mention shows that player's rating and recent history.
func RankingCommandHandler(store club.ClubStore, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		text := strings.TrimSpace(cmd.Text)
		log.Info("Received ranking command", "user", cmd.UserID, "text", text)

		if text == "" {
			rankings, err := store.GetRankings(r.Context())
			if err != nil {
				http.Error(w, "Failed to get rankings", http.StatusInternalServerError)
				log.Error("Failed to get rankings from store", "error", err)
				return
			}
			msg, err := notifier.FormatRankingsResponse(rankings)
			if err != nil {
				http.Error(w, "Failed to format rankings", http.StatusInternalServerError)
				log.Error("Failed to format rankings", "error", err)
				return
			}
			respondWithSlackMsg(w, msg)
			return
		}

		slackUserID := cmd.UserID
		if text != "me" {
			m := mentionPattern.FindStringSubmatch(text)
			if m == nil {
				respondNotFound(w, notifier, text)
				return
			}
			slackUserID = m[1]
		}

		profile, err := store.GetProfileBySlackUserID(r.Context(), slackUserID)
		if errors.Is(err, club.ErrNotFound) {
			respondNotFound(w, notifier, text)
			return
		}
		if err != nil {
			http.Error(w, "Failed to get player", http.StatusInternalServerError)
			log.Error("Failed to get profile by slack user", "slackUserID", slackUserID, "error", err)
			return
		}
		history, err := store.GetRankingHistory(r.Context(), profile.ID)
		if err != nil {
			http.Error(w, "Failed to get rating history", http.StatusInternalServerError)
			log.Error("Failed to get rating history", "playerID", profile.ID, "error", err)
			return
		}
		msg, err := notifier.FormatPlayerRatingResponse(*profile, history)
		if err != nil {
			http.Error(w, "Failed to format player rating", http.StatusInternalServerError)
			log.Error("Failed to format player rating", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

func respondNotFound(w http.ResponseWriter, notifier notifier.Notifier, query string) {
	msg, err := notifier.FormatPlayerNotFoundResponse(query)
	if err != nil {
		http.Error(w, "Failed to format response", http.StatusInternalServerError)
		log.Error("Failed to format player not found", "error", err)
		return
	}
	respondWithSlackMsg(w, msg)
}
