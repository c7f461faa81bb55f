package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/atr-tennis/internal/processor"
	"github.com/mauv0809/atr-tennis/internal/pubsub"
	"github.com/mauv0809/atr-tennis/internal/rating"
	"github.com/mauv0809/atr-tennis/internal/scoring"
)

// RatingUpdateHandler consumes match-completed push messages. Permanent
// failures are acknowledged so Pub/Sub stops redelivering them; any other
// failure answers 500 and the message is retried.
func RatingUpdateHandler(p *processor.Processor, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received match completed message", "body", string(bodyBytes))

		var push pubsub.PushRequest
		if err := json.Unmarshal(bodyBytes, &push); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		var payload scoring.CompletionPayload
		if err := pubsubClient.ProcessMessage(push.Message.Data, &payload); err != nil {
			log.Error("Failed to decode match completed message", "messageID", push.Message.MessageID, "error", err)
			http.Error(w, "Invalid message data", http.StatusBadRequest)
			return
		}

		outcome, err := p.UpdateRatings(r.Context(), payload, IsDryRunFromContext(r))
		if err != nil {
			if rating.Permanent(err) {
				log.Warn("Dropping match completed message", "messageID", push.Message.MessageID, "matchID", payload.MatchID, "error", err)
				w.WriteHeader(http.StatusNoContent)
				return
			}
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, outcome)
	}
}
