package http

import (
	"net/http"

	"github.com/mauv0809/atr-tennis/internal/club"
	"github.com/mauv0809/atr-tennis/internal/config"
	"github.com/mauv0809/atr-tennis/internal/http/handlers"
	"github.com/mauv0809/atr-tennis/internal/inngest"
	"github.com/mauv0809/atr-tennis/internal/metrics"
	"github.com/mauv0809/atr-tennis/internal/notifier"
	"github.com/mauv0809/atr-tennis/internal/processor"
	"github.com/mauv0809/atr-tennis/internal/pubsub"
)

// NewServer wires the routes. pubsubClient and inngestClient may be nil when
// the matching trigger mode is not in use.
func NewServer(store club.ClubStore, counters metrics.MetricsStore, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor, pubsubClient pubsub.PubSubClient, inngestClient inngest.InngestClient) *Server {
	server := &Server{
		Store:          store,
		Counters:       counters,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		PubSub:         pubsubClient,
		Inngest:        inngestClient,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// e.g. Chain(h, paramsMiddleware, authMiddleware)
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /stats", Chain(handlers.StatsHandler(s.Counters), paramsMiddleware))

	s.Router.Handle("POST /matches", Chain(handlers.StartMatchHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("GET /matches", Chain(handlers.ListLiveMatchesHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("GET /matches/{eventID}", Chain(handlers.GetMatchHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("POST /matches/{eventID}/point", Chain(handlers.RecordPointHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("POST /matches/{eventID}/ace", Chain(handlers.AceHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("POST /matches/{eventID}/serve", Chain(handlers.ToggleServeHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("POST /matches/{eventID}/end", Chain(handlers.EndMatchHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("DELETE /matches/{eventID}", Chain(handlers.AbandonMatchHandler(s.Processor), paramsMiddleware))

	s.Router.Handle("POST /import", Chain(handlers.ImportHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("GET /rankings", Chain(handlers.RankingsHandler(s.Store), paramsMiddleware))
	s.Router.Handle("GET /players/{id}/history", Chain(handlers.PlayerHistoryHandler(s.Store), paramsMiddleware))
	s.Router.Handle("POST /slack/command/ranking", Chain(handlers.RankingCommandHandler(s.Store, s.Notifier), paramsMiddleware, slackVerifyMiddleware(s.Cfg.Slack.SigningSecret)))

	if s.PubSub != nil {
		s.Router.Handle("POST /ratings/update", Chain(handlers.RatingUpdateHandler(s.Processor, s.PubSub), paramsMiddleware))
	}
	if s.Inngest != nil {
		s.Router.Handle("/api/inngest", s.Inngest.Serve())
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
