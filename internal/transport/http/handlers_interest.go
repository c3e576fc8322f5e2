package http

import (
	"context"
	"log/slog"
	"net/http"

	"tandem/internal/interest"
	id "tandem/pkg/domain"
	"tandem/pkg/requestcontext"
)

// InterestService is the ledger surface the transport needs.
type InterestService interface {
	Express(ctx context.Context, couple, candidate id.CoupleID, intent id.Intent) (interest.Outcome, error)
	List(ctx context.Context, couple id.CoupleID) ([]interest.Record, error)
}

type interestHandler struct {
	interests  InterestService
	activation ActivationChecker
	logger     *slog.Logger
}

type expressRequest struct {
	Candidate string `json:"candidate"`
	Intent    string `json:"intent"`
}

type expressResponse struct {
	Outcome interest.Outcome `json:"outcome"`
}

func (h *interestHandler) handleExpress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	couple := requestcontext.CoupleID(ctx)

	req, ok := decode[expressRequest](w, r, h.logger)
	if !ok {
		return
	}

	outcome, err := h.interests.Express(ctx, couple, id.CoupleID(req.Candidate), id.Intent(req.Intent))
	if err != nil {
		WriteError(w, err)
		return
	}
	if outcome == interest.OutcomeAccepted && h.activation != nil {
		if _, err := h.activation.CheckActivation(ctx, couple); err != nil {
			h.logger.WarnContext(ctx, "activation check failed", "couple_id", couple, "error", err)
		}
	}
	// Hitting the cap is a normal outcome the client renders, not a failure.
	WriteJSON(w, http.StatusOK, expressResponse{Outcome: outcome})
}

func (h *interestHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	records, err := h.interests.List(ctx, requestcontext.CoupleID(ctx))
	if err != nil {
		WriteError(w, err)
		return
	}
	if records == nil {
		records = []interest.Record{}
	}
	WriteJSON(w, http.StatusOK, records)
}
