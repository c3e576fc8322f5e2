package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tandem/internal/confirm"
	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
	"tandem/pkg/requestcontext"
)

// ConfirmService is the dual-confirmation surface the transport needs.
type ConfirmService interface {
	Tap(ctx context.Context, key confirm.Key, partner id.Partner, ttl time.Duration) (*confirm.Action, error)
	Get(ctx context.Context, key confirm.Key) (*confirm.Action, error)
	List(ctx context.Context, couple id.CoupleID) ([]*confirm.Action, error)
}

// LimitsSource resolves the couple's effective operating windows.
type LimitsSource interface {
	EffectiveLimits(ctx context.Context, couple id.CoupleID) (id.Limits, error)
}

// ActivationChecker lets engagement events nudge the founding watcher.
type ActivationChecker interface {
	CheckActivation(ctx context.Context, couple id.CoupleID) (bool, error)
}

type confirmHandler struct {
	confirms   ConfirmService
	limits     LimitsSource
	activation ActivationChecker
	logger     *slog.Logger
}

type tapRequest struct {
	Kind   string `json:"kind"`
	Target string `json:"target"`
}

type actionResponse struct {
	ID                string         `json:"id"`
	Kind              confirm.Kind   `json:"kind"`
	Target            string         `json:"target"`
	Status            confirm.Status `json:"status"`
	Partner1Confirmed bool           `json:"partner1_confirmed"`
	Partner2Confirmed bool           `json:"partner2_confirmed"`
	Deadline          time.Time      `json:"deadline"`
}

func toActionResponse(a *confirm.Action) actionResponse {
	return actionResponse{
		ID:                a.ID.String(),
		Kind:              a.Key.Kind,
		Target:            a.Key.Target,
		Status:            a.Status,
		Partner1Confirmed: a.Partner1Confirmed,
		Partner2Confirmed: a.Partner2Confirmed,
		Deadline:          a.Deadline(),
	}
}

func (h *confirmHandler) handleTap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	couple := requestcontext.CoupleID(ctx)
	partner := requestcontext.Partner(ctx)

	req, ok := decode[tapRequest](w, r, h.logger)
	if !ok {
		return
	}
	kind, err := confirm.ParseKind(req.Kind)
	if err != nil {
		WriteError(w, err)
		return
	}

	limits, err := h.limits.EffectiveLimits(ctx, couple)
	if err != nil {
		WriteError(w, err)
		return
	}
	ttl := limits.MessageTTL
	if kind != confirm.KindMessaging {
		ttl = limits.RSVPTTL
	}

	action, err := h.confirms.Tap(ctx, confirm.Key{Couple: couple, Kind: kind, Target: req.Target}, partner, ttl)
	if err != nil {
		WriteError(w, err)
		return
	}
	if action == nil {
		// The tap cleared the last flag and deleted the pending action.
		WriteJSON(w, http.StatusOK, map[string]string{"status": "retracted"})
		return
	}

	if action.Status == confirm.StatusConfirmed {
		h.nudgeActivation(ctx, couple)
	}
	WriteJSON(w, http.StatusOK, toActionResponse(action))
}

func (h *confirmHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind, err := confirm.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		WriteError(w, err)
		return
	}
	key := confirm.Key{
		Couple: requestcontext.CoupleID(ctx),
		Kind:   kind,
		Target: chi.URLParam(r, "target"),
	}
	action, err := h.confirms.Get(ctx, key)
	if err != nil {
		WriteError(w, err)
		return
	}
	if action == nil {
		WriteError(w, dErrors.New(dErrors.CodeNotFound, "no action for this target"))
		return
	}
	WriteJSON(w, http.StatusOK, toActionResponse(action))
}

func (h *confirmHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actions, err := h.confirms.List(ctx, requestcontext.CoupleID(ctx))
	if err != nil {
		WriteError(w, err)
		return
	}
	out := make([]actionResponse, 0, len(actions))
	for _, a := range actions {
		out = append(out, toActionResponse(a))
	}
	WriteJSON(w, http.StatusOK, out)
}

// nudgeActivation is best-effort; a failed check never fails the request.
func (h *confirmHandler) nudgeActivation(ctx context.Context, couple id.CoupleID) {
	if h.activation == nil {
		return
	}
	if _, err := h.activation.CheckActivation(ctx, couple); err != nil {
		h.logger.WarnContext(ctx, "activation check failed", "couple_id", couple, "error", err)
	}
}
