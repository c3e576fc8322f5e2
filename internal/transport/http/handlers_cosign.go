package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tandem/internal/cosign"
	"tandem/internal/membership"
	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
	"tandem/pkg/requestcontext"
)

// CosignService is the draft/ratify surface the transport needs.
type CosignService interface {
	Draft(ctx context.Context, couple id.CoupleID, partner id.Partner, kind cosign.Kind, target, content string, slot cosign.Slot) (*cosign.Draft, error)
	Ratify(ctx context.Context, couple id.CoupleID, partner id.Partner, kind cosign.Kind, target string) (*cosign.Record, error)
	Discard(ctx context.Context, couple id.CoupleID, kind cosign.Kind, target string) error
	Visible(ctx context.Context, kind cosign.Kind, target string) ([]cosign.Record, error)
}

// MembershipService is the lounge/event membership surface.
type MembershipService interface {
	Join(ctx context.Context, couple id.CoupleID, kind membership.ContextKind, target string) error
	Leave(ctx context.Context, couple id.CoupleID, kind membership.ContextKind, target string) error
	List(ctx context.Context, couple id.CoupleID) ([]membership.Membership, error)
}

type cosignHandler struct {
	cosign      CosignService
	memberships MembershipService
	logger      *slog.Logger
}

type draftRequest struct {
	Content string `json:"content"`
	Slot    string `json:"slot"`
}

func (h *cosignHandler) handleDraft(kind cosign.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		req, ok := decode[draftRequest](w, r, h.logger)
		if !ok {
			return
		}
		slot, ok := cosign.ParseSlot(req.Slot)
		if !ok {
			WriteError(w, dErrors.New(dErrors.CodeValidation, "slot must be today or tonight"))
			return
		}
		d, err := h.cosign.Draft(ctx, requestcontext.CoupleID(ctx), requestcontext.Partner(ctx),
			kind, chi.URLParam(r, "id"), req.Content, slot)
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, d)
	}
}

func (h *cosignHandler) handleRatify(kind cosign.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rec, err := h.cosign.Ratify(ctx, requestcontext.CoupleID(ctx), requestcontext.Partner(ctx),
			kind, chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, rec)
	}
}

func (h *cosignHandler) handleDiscard(kind cosign.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := h.cosign.Discard(ctx, requestcontext.CoupleID(ctx), kind, chi.URLParam(r, "id")); err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func (h *cosignHandler) handleVisible(kind cosign.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := h.cosign.Visible(r.Context(), kind, chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, err)
			return
		}
		if recs == nil {
			recs = []cosign.Record{}
		}
		WriteJSON(w, http.StatusOK, recs)
	}
}

func (h *cosignHandler) handleJoin(kind membership.ContextKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		err := h.memberships.Join(ctx, requestcontext.CoupleID(ctx), kind, chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]bool{"joined": true})
	}
}

func (h *cosignHandler) handleLeave(kind membership.ContextKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		err := h.memberships.Leave(ctx, requestcontext.CoupleID(ctx), kind, chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]bool{"joined": false})
	}
}

func (h *cosignHandler) handleMemberships(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.memberships.List(ctx, requestcontext.CoupleID(ctx))
	if err != nil {
		WriteError(w, err)
		return
	}
	if list == nil {
		list = []membership.Membership{}
	}
	WriteJSON(w, http.StatusOK, list)
}
