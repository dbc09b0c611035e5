// Package http exposes the dialog engine over a gateway-style HTTP
// endpoint: one form-encoded POST per dialog turn, plain-text reply.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jawabu/ussd/pkg/domain"
)

// Handler runs one dialog turn and returns the wire response.
type Handler interface {
	Handle(ctx context.Context, turn *domain.Turn) (string, error)
}

// Options tune the HTTP surface.
type Options struct {
	// ServiceCode is used when the gateway omits the serviceCode field.
	ServiceCode string

	// Gatherer, when set, mounts GET /metrics.
	Gatherer prometheus.Gatherer

	Logger *slog.Logger
}

// NewHandler builds the gateway router: POST /ussd plus health and
// optional metrics endpoints.
func NewHandler(engine Handler, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Post("/ussd", func(w http.ResponseWriter, req *http.Request) {
		if err := req.ParseForm(); err != nil {
			http.Error(w, "invalid form body", http.StatusBadRequest)
			return
		}

		turn := &domain.Turn{
			Msisdn:      req.PostFormValue("phoneNumber"),
			SessionID:   req.PostFormValue("sessionId"),
			ServiceCode: req.PostFormValue("serviceCode"),
			DialString:  req.PostFormValue("text"),
		}
		if turn.ServiceCode == "" {
			turn.ServiceCode = opts.ServiceCode
		}
		if turn.Msisdn == "" {
			http.Error(w, "phoneNumber is required", http.StatusBadRequest)
			return
		}

		out, err := engine.Handle(req.Context(), turn)
		if err != nil {
			logger.Error("turn failed", "msisdn", turn.Msisdn, "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(out))
	})

	return r
}
