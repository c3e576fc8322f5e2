package http

import (
	"context"
	"log/slog"
	"net/http"

	"tandem/internal/founding"
	id "tandem/pkg/domain"
	"tandem/pkg/requestcontext"
)

// FoundingService is the founding-access surface the transport needs.
type FoundingService interface {
	Redeem(ctx context.Context, couple id.CoupleID, token string) (bool, error)
	CheckActivation(ctx context.Context, couple id.CoupleID) (bool, error)
	Acknowledge(ctx context.Context, couple id.CoupleID) error
	State(ctx context.Context, couple id.CoupleID) (founding.AccessState, error)
}

type foundingHandler struct {
	founding FoundingService
	logger   *slog.Logger
}

type redeemRequest struct {
	Token string `json:"token"`
}

func (h *foundingHandler) handleRedeem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := decode[redeemRequest](w, r, h.logger)
	if !ok {
		return
	}
	// Invalid tokens report redeemed=false with a 200; redemption is
	// low-ceremony and never a hard error.
	redeemed, err := h.founding.Redeem(ctx, requestcontext.CoupleID(ctx), req.Token)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"redeemed": redeemed})
}

func (h *foundingHandler) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.founding.Acknowledge(ctx, requestcontext.CoupleID(ctx)); err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleState reports the access state, running the activation watcher
// first so a couple that just completed the engagement pair sees active
// without waiting for another event.
func (h *foundingHandler) handleState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	couple := requestcontext.CoupleID(ctx)

	if _, err := h.founding.CheckActivation(ctx, couple); err != nil {
		h.logger.WarnContext(ctx, "activation check failed", "couple_id", couple, "error", err)
	}
	state, err := h.founding.State(ctx, couple)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, state)
}
