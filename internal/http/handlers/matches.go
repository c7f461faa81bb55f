package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/atr-tennis/internal/processor"
	"github.com/mauv0809/atr-tennis/internal/scoring"
)

// PointRequest is the body of POST /matches/{eventID}/point.
type PointRequest struct {
	Side string `json:"side"`
	Kind string `json:"kind"`
}

// AceRequest is the body of POST /matches/{eventID}/ace.
type AceRequest struct {
	Side string `json:"side"`
}

func StartMatchHandler(p *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req processor.StartMatchRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		engine, err := p.StartMatch(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, engine.Snapshot())
	}
}

func ListLiveMatchesHandler(p *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snaps := make([]scoring.Snapshot, 0)
		for _, id := range p.LiveEvents() {
			engine, err := p.Session(id)
			if err != nil {
				continue
			}
			snaps = append(snaps, engine.Snapshot())
		}
		writeJSON(w, http.StatusOK, snaps)
	}
}

func GetMatchHandler(p *processor.Processor) http.HandlerFunc {
	return withSession(p, func(w http.ResponseWriter, r *http.Request, engine *scoring.Engine) {
		writeJSON(w, http.StatusOK, engine.Snapshot())
	})
}

func RecordPointHandler(p *processor.Processor) http.HandlerFunc {
	return withSession(p, func(w http.ResponseWriter, r *http.Request, engine *scoring.Engine) {
		var req PointRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		side, err := scoring.ParseSide(req.Side)
		if err != nil {
			writeError(w, err)
			return
		}
		kind, err := scoring.ParsePointKind(req.Kind)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := engine.RecordPoint(side, kind); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, engine.Snapshot())
	})
}

func AceHandler(p *processor.Processor) http.HandlerFunc {
	return withSession(p, func(w http.ResponseWriter, r *http.Request, engine *scoring.Engine) {
		var req AceRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		side, err := scoring.ParseSide(req.Side)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := engine.AddAce(side); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, engine.Snapshot())
	})
}

func ToggleServeHandler(p *processor.Processor) http.HandlerFunc {
	return withSession(p, func(w http.ResponseWriter, r *http.Request, engine *scoring.Engine) {
		if err := engine.ToggleServe(); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, engine.Snapshot())
	})
}

// EndMatchHandler completes the match. A partially failed completion answers
// 500 and keeps the session so the scorer can retry the failed steps.
func EndMatchHandler(p *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := r.PathValue("eventID")
		payload, err := p.CompleteMatch(r.Context(), eventID, IsDryRunFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		log.Info("Match ended via API", "eventID", eventID, "winner", payload.WinnerID)
		writeJSON(w, http.StatusOK, payload)
	}
}

func AbandonMatchHandler(p *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := p.AbandonMatch(r.PathValue("eventID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func withSession(p *processor.Processor, next func(http.ResponseWriter, *http.Request, *scoring.Engine)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, err := p.Session(r.PathValue("eventID"))
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r, engine)
	}
}
