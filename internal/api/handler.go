package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"RentReport/internal/report"
)

type ReportRunner interface {
	Run(ctx context.Context) *report.Outcome
}

type Handler struct {
	Runner ReportRunner
	// Ctx bounds manually triggered runs. The request context is not used
	// so a dropped client does not abort delivery halfway through.
	Ctx context.Context
	Log *zap.Logger
}

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)
	r.Post("/v1/reports/monthly/run", h.RunReport)

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	ctx := h.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	h.Log.Info("manual report run requested",
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)

	outcome := h.Runner.Run(ctx)

	w.Header().Set("Content-Type", "application/json")

	if outcome == nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": report.ErrMissingConfig.Error(),
		})
		return
	}

	status := http.StatusOK
	if outcome.Error != "" {
		status = http.StatusInternalServerError
	}

	w.WriteHeader(status)
	json.NewEncoder(w).Encode(outcome)
}
