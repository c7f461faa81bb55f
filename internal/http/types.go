package http

import (
	"net/http"

	"github.com/mauv0809/atr-tennis/internal/club"
	"github.com/mauv0809/atr-tennis/internal/config"
	"github.com/mauv0809/atr-tennis/internal/inngest"
	"github.com/mauv0809/atr-tennis/internal/metrics"
	"github.com/mauv0809/atr-tennis/internal/notifier"
	"github.com/mauv0809/atr-tennis/internal/processor"
	"github.com/mauv0809/atr-tennis/internal/pubsub"
)

type Server struct {
	Store          club.ClubStore
	Counters       metrics.MetricsStore
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	PubSub         pubsub.PubSubClient
	Inngest        inngest.InngestClient
	Router         *http.ServeMux
}
