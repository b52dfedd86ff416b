package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sufield/confdesk/internal/ports"
)

// Deps are the use cases and helpers the API serves.
type Deps struct {
	Sales     ports.SalesReporter
	Sponsors  ports.SponsorPipeline
	Proposals ports.ProposalWorkflow

	// Metrics serves /metrics when set.
	Metrics http.Handler

	Roles  RolePolicy
	Logger *zap.Logger
}

// API holds the handlers.
type API struct {
	sales     ports.SalesReporter
	sponsors  ports.SponsorPipeline
	proposals ports.ProposalWorkflow
	roles     RolePolicy
	logger    *zap.Logger
}

// NewRouter builds the chi router with every route mounted.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &API{
		sales:     deps.Sales,
		sponsors:  deps.Sponsors,
		proposals: deps.Proposals,
		roles:     deps.Roles,
		logger:    logger.With(zap.String("component", "httpapi")),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(peerMiddleware)
	r.Use(requestLogger(a.logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/conferences/{conferenceID}", func(r chi.Router) {
			r.Get("/tickets/analysis", a.getTicketAnalysis)
			r.With(a.requireOrganizer).Post("/tickets/orders", a.importTicketOrders)
			r.With(a.requireOrganizer).Post("/tickets/sales-update", a.sendSalesUpdate)

			r.Get("/sponsors/pipeline", a.getSponsorPipeline)
			r.With(a.requireOrganizer).Post("/sponsors/notify", a.notifySponsorPipeline)
			r.With(a.requireOrganizer).Put("/sponsors/{dealID}", a.upsertSponsorDeal)
		})

		r.Get("/proposals/{proposalID}", a.getProposal)
		r.Post("/proposals/{proposalID}/actions", a.actOnProposal)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})
	return r
}

func (a *API) requireOrganizer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.roles.Actor(r).IsOrganizer {
			a.writeError(w, r, ports.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
