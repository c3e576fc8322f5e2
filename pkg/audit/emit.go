package audit

import (
	"context"
	"log/slog"
	"time"

	id "tandem/pkg/domain"
	"tandem/pkg/requestcontext"
)

// LogEmit emits an audit event through the publisher when one is configured
// and always logs it. Services call this so audit wiring stays optional.
func LogEmit(ctx context.Context, logger *slog.Logger, pub Publisher, action string, coupleID id.CoupleID, subject, detail string) {
	event := Event{
		Timestamp: time.Now(),
		CoupleID:  coupleID,
		Partner:   requestcontext.Partner(ctx),
		Action:    action,
		Subject:   subject,
		Detail:    detail,
		RequestID: requestcontext.RequestID(ctx),
	}

	if logger != nil {
		logger.InfoContext(ctx, "audit",
			"action", action,
			"couple_id", coupleID,
			"subject", subject,
			"detail", detail,
			"request_id", event.RequestID,
		)
	}

	if pub == nil {
		return
	}
	if err := pub.Emit(ctx, event); err != nil && logger != nil {
		// Audit emission is best-effort; domain operations never fail on it.
		logger.WarnContext(ctx, "audit emit failed",
			"action", action,
			"error", err,
		)
	}
}
