package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tandem/internal/gate"
	id "tandem/pkg/domain"
	"tandem/pkg/requestcontext"
)

// GateService evaluates the messaging gate.
type GateService interface {
	CanMessage(ctx context.Context, viewer, candidate id.CoupleID) (gate.Result, error)
}

type gateHandler struct {
	gate   GateService
	logger *slog.Logger
}

func (h *gateHandler) handleCanMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := requestcontext.CoupleID(ctx)
	candidate := id.CoupleID(chi.URLParam(r, "candidate"))

	result, err := h.gate.CanMessage(ctx, viewer, candidate)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}
