package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tandem/internal/cosign"
	"tandem/internal/membership"
	"tandem/internal/platform/metrics"
	"tandem/internal/platform/middleware"
	"tandem/internal/platform/token"
)

// Services bundles everything the router mounts.
type Services struct {
	Accounts    AccountService
	Discovery   DiscoveryService
	Interests   InterestService
	Confirms    ConfirmService
	Gate        GateService
	Founding    FoundingService
	Cosign      CosignService
	Memberships MembershipService
}

// NewRouter assembles the middleware chain and all routes. Health and
// metrics stay public; everything else sits behind the bearer token.
func NewRouter(svcs Services, tokens *token.Service, logger *slog.Logger, httpMetrics *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Latency(httpMetrics))
	r.Use(middleware.Logger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	accounts := &accountHandler{accounts: svcs.Accounts, logger: logger}
	disc := &discoveryHandler{discovery: svcs.Discovery, logger: logger}
	interests := &interestHandler{interests: svcs.Interests, activation: svcs.Founding, logger: logger}
	confirms := &confirmHandler{confirms: svcs.Confirms, limits: svcs.Accounts, activation: svcs.Founding, logger: logger}
	gates := &gateHandler{gate: svcs.Gate, logger: logger}
	foundings := &foundingHandler{founding: svcs.Founding, logger: logger}
	cosigns := &cosignHandler{cosign: svcs.Cosign, memberships: svcs.Memberships, logger: logger}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens, logger))

		r.Post("/signup", accounts.handleSignup)
		r.Get("/account", accounts.handleGetAccount)
		r.Get("/account/limits", accounts.handleGetLimits)
		r.Put("/account/travel-window", accounts.handleSetTravelWindow)
		r.Delete("/account/travel-window", accounts.handleClearTravelWindow)

		r.Get("/discovery/scope-check", disc.handleScopeCheck)
		r.Get("/discovery/events/visible", disc.handleEventVisible)

		r.Post("/interests", interests.handleExpress)
		r.Get("/interests", interests.handleList)

		r.Post("/confirmations/tap", confirms.handleTap)
		r.Get("/confirmations", confirms.handleList)
		r.Get("/confirmations/{kind}/{target}", confirms.handleGet)

		r.Get("/gate/{candidate}", gates.handleCanMessage)

		r.Post("/founding/redeem", foundings.handleRedeem)
		r.Post("/founding/acknowledge", foundings.handleAcknowledge)
		r.Get("/founding", foundings.handleState)

		r.Get("/memberships", cosigns.handleMemberships)
		r.Post("/lounges/{id}/join", cosigns.handleJoin(membership.ContextLounge))
		r.Post("/lounges/{id}/leave", cosigns.handleLeave(membership.ContextLounge))
		r.Post("/events/{id}/rsvp-context", cosigns.handleJoin(membership.ContextEvent))

		r.Post("/lounges/{id}/responses/draft", cosigns.handleDraft(cosign.KindLoungeResponse))
		r.Post("/lounges/{id}/responses/ratify", cosigns.handleRatify(cosign.KindLoungeResponse))
		r.Post("/lounges/{id}/responses/discard", cosigns.handleDiscard(cosign.KindLoungeResponse))
		r.Get("/lounges/{id}/responses", cosigns.handleVisible(cosign.KindLoungeResponse))

		r.Post("/places/{id}/presence/draft", cosigns.handleDraft(cosign.KindPlacePresence))
		r.Post("/places/{id}/presence/ratify", cosigns.handleRatify(cosign.KindPlacePresence))
		r.Post("/places/{id}/presence/discard", cosigns.handleDiscard(cosign.KindPlacePresence))
		r.Get("/places/{id}/presence", cosigns.handleVisible(cosign.KindPlacePresence))
	})

	return r
}
