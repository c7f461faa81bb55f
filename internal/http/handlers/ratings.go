package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/atr-tennis/internal/club"
	"github.com/mauv0809/atr-tennis/internal/processor"
	"github.com/mauv0809/atr-tennis/internal/rating"
)

// PlayerHistory is the response of GET /players/{id}/history.
type PlayerHistory struct {
	Profile      *club.Profile           `json:"profile"`
	History      []rating.RankingHistory `json:"history"`
	Achievements []rating.Achievement    `json:"achievements"`
}

func RankingsHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rankings, err := store.GetRankings(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if rankings == nil {
			rankings = []club.Ranking{}
		}
		writeJSON(w, http.StatusOK, rankings)
	}
}

func PlayerHistoryHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		profiles, err := store.GetProfiles(r.Context(), []string{id})
		if err != nil {
			writeError(w, err)
			return
		}
		if len(profiles) == 0 {
			writeError(w, club.ErrNotFound)
			return
		}
		history, err := store.GetRankingHistory(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		achievements, err := store.GetAchievements(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, PlayerHistory{Profile: &profiles[0], History: history, Achievements: achievements})
	}
}

// ImportHandler runs one Playtomic import.
func ImportHandler(p *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Starting Playtomic import...")
		summary, err := p.ImportResults(r.Context(), IsDryRunFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}
