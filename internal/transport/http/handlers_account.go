package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"tandem/internal/account"
	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
	"tandem/pkg/requestcontext"
)

// AccountService is the slice of the account service the transport needs.
type AccountService interface {
	Register(ctx context.Context, p account.RegisterParams) (*account.Account, bool, error)
	Get(ctx context.Context, couple id.CoupleID) (*account.Account, error)
	EffectiveLimits(ctx context.Context, couple id.CoupleID) (id.Limits, error)
	SetTravelWindow(ctx context.Context, couple id.CoupleID, w account.TravelWindow) error
	ClearTravelWindow(ctx context.Context, couple id.CoupleID) error
}

type accountHandler struct {
	accounts AccountService
	logger   *slog.Logger
}

type signupRequest struct {
	DisplayName   string `json:"display_name"`
	City          string `json:"city"`
	State         string `json:"state"`
	Scope         string `json:"scope"`
	CrossBorder   bool   `json:"cross_border"`
	Tier          string `json:"tier"`
	Partner1Age   int    `json:"partner1_age"`
	Partner2Age   int    `json:"partner2_age"`
	FoundingToken string `json:"founding_token"`
}

type signupResponse struct {
	Account          *account.Account `json:"account"`
	FoundingRedeemed bool             `json:"founding_redeemed"`
}

func (h *accountHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	couple := requestcontext.CoupleID(ctx)

	req, ok := decode[signupRequest](w, r, h.logger)
	if !ok {
		return
	}

	a, redeemed, err := h.accounts.Register(ctx, account.RegisterParams{
		Couple:        couple,
		DisplayName:   req.DisplayName,
		City:          req.City,
		State:         req.State,
		Scope:         id.Scope(req.Scope),
		CrossBorder:   req.CrossBorder,
		Tier:          id.Tier(req.Tier),
		Partner1Age:   req.Partner1Age,
		Partner2Age:   req.Partner2Age,
		FoundingToken: req.FoundingToken,
	})
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeValidation) && !dErrors.HasCode(err, dErrors.CodeConflict) {
			h.logger.ErrorContext(ctx, "signup failed", "couple_id", couple, "error", err)
		}
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, signupResponse{Account: a, FoundingRedeemed: redeemed})
}

func (h *accountHandler) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	a, err := h.accounts.Get(ctx, requestcontext.CoupleID(ctx))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, a)
}

type limitsResponse struct {
	InterestLimit int    `json:"interest_limit"`
	MessageTTL    string `json:"message_ttl"`
	RSVPTTL       string `json:"rsvp_ttl"`
}

func (h *accountHandler) handleGetLimits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limits, err := h.accounts.EffectiveLimits(ctx, requestcontext.CoupleID(ctx))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, limitsResponse{
		InterestLimit: limits.InterestLimit,
		MessageTTL:    limits.MessageTTL.String(),
		RSVPTTL:       limits.RSVPTTL.String(),
	})
}

type travelWindowRequest struct {
	City      string    `json:"city"`
	State     string    `json:"state"`
	Arrival   time.Time `json:"arrival"`
	Departure time.Time `json:"departure"`
}

func (h *accountHandler) handleSetTravelWindow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := decode[travelWindowRequest](w, r, h.logger)
	if !ok {
		return
	}
	err := h.accounts.SetTravelWindow(ctx, requestcontext.CoupleID(ctx), account.TravelWindow{
		City:      req.City,
		State:     req.State,
		Arrival:   req.Arrival,
		Departure: req.Departure,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *accountHandler) handleClearTravelWindow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.accounts.ClearTravelWindow(ctx, requestcontext.CoupleID(ctx)); err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
