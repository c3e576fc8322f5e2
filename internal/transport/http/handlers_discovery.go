package http

import (
	"context"
	"log/slog"
	"net/http"

	"tandem/internal/discovery"
	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
	"tandem/pkg/requestcontext"
)

// DiscoveryService answers scope and visibility questions for the
// authenticated couple.
type DiscoveryService interface {
	InScopeFor(ctx context.Context, viewer, candidate id.CoupleID) (bool, error)
	Compatible(ctx context.Context, viewer, candidate id.CoupleID) (bool, error)
	EventVisibleFor(ctx context.Context, viewer id.CoupleID, class discovery.EventClass, city, state string) (bool, error)
}

type discoveryHandler struct {
	discovery DiscoveryService
	logger    *slog.Logger
}

type scopeCheckResponse struct {
	InScope    bool `json:"in_scope"`
	Compatible bool `json:"compatible"`
}

func (h *discoveryHandler) handleScopeCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := requestcontext.CoupleID(ctx)
	candidate := id.CoupleID(r.URL.Query().Get("candidate"))
	if candidate.IsNil() {
		WriteError(w, dErrors.New(dErrors.CodeValidation, "candidate is required"))
		return
	}

	inScope, err := h.discovery.InScopeFor(ctx, viewer, candidate)
	if err != nil {
		WriteError(w, err)
		return
	}
	compatible := false
	if inScope {
		compatible, err = h.discovery.Compatible(ctx, viewer, candidate)
		if err != nil {
			WriteError(w, err)
			return
		}
	}
	WriteJSON(w, http.StatusOK, scopeCheckResponse{InScope: inScope, Compatible: compatible})
}

func (h *discoveryHandler) handleEventVisible(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	class := discovery.EventClass(q.Get("class"))
	if !class.IsValid() {
		WriteError(w, dErrors.New(dErrors.CodeValidation, "class must be local, virtual, or travel"))
		return
	}

	visible, err := h.discovery.EventVisibleFor(ctx, requestcontext.CoupleID(ctx), class, q.Get("city"), q.Get("state"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"visible": visible})
}
