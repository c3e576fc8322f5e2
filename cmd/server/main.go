// Command server wires the engine's services to their stores and runs the
// HTTP API plus the expiration sweeper until the process is signalled.
//
// Stores are selected by configuration: everything runs in memory by
// default; a postgres URL moves confirmation actions there, a redis URL
// moves the interest ledger and founding pool there, and Kafka brokers
// enable the audit sink.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	accountsvc "tandem/internal/account"
	"tandem/internal/confirm"
	confirmmetrics "tandem/internal/confirm/metrics"
	confirmsvc "tandem/internal/confirm/service"
	"tandem/internal/cosign"
	"tandem/internal/discovery"
	"tandem/internal/founding"
	foundingmetrics "tandem/internal/founding/metrics"
	foundingsvc "tandem/internal/founding/service"
	"tandem/internal/gate"
	"tandem/internal/interest"
	interestmetrics "tandem/internal/interest/metrics"
	interestsvc "tandem/internal/interest/service"
	"tandem/internal/membership"
	"tandem/internal/platform/config"
	"tandem/internal/platform/httpserver"
	"tandem/internal/platform/logger"
	platformmetrics "tandem/internal/platform/metrics"
	platformmw "tandem/internal/platform/middleware"
	"tandem/internal/platform/otel"
	"tandem/internal/platform/postgres"
	platformredis "tandem/internal/platform/redis"
	"tandem/internal/platform/token"
	"tandem/internal/region"
	httptransport "tandem/internal/transport/http"
	"tandem/pkg/audit"
	auditkafka "tandem/pkg/audit/kafka"
	auditpub "tandem/pkg/audit/publisher"
	auditmem "tandem/pkg/audit/store/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.FromEnv()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	shutdownTracing, err := otel.Setup(ctx, cfg.OTELEndpoint)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	pool, err := postgres.New(ctx, cfg.Stores.PostgresURL)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
		if _, err := pool.Exec(ctx, confirm.Schema); err != nil {
			return err
		}
	}

	redisClient, err := platformredis.New(ctx, cfg.Stores.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Audit trail: Kafka when brokers are configured, in-memory otherwise.
	var publisher audit.Publisher
	if len(cfg.Audit.Brokers) > 0 {
		kafkaPub, err := auditkafka.NewPublisher(cfg.Audit.Brokers, cfg.Audit.Topic)
		if err != nil {
			return err
		}
		defer func() {
			if err := kafkaPub.Close(); err != nil {
				log.Warn("flush audit producer", "error", err)
			}
		}()
		publisher = kafkaPub
	} else {
		storePub := auditpub.NewPublisher(auditmem.NewInMemoryStore(), auditpub.WithAsyncBuffer(cfg.Audit.Buffer))
		defer storePub.Close()
		publisher = storePub
	}

	// Stores.
	var interestStore interest.Store = interest.NewInMemoryStore()
	var foundingStore founding.Store = founding.NewInMemoryStore()
	if redisClient != nil {
		interestStore = interest.NewRedisStore(redisClient)
		foundingStore = founding.NewRedisStore(redisClient)
	}
	var confirmStore confirm.Store = confirm.NewInMemoryStore()
	if pool != nil {
		confirmStore = confirm.NewPostgres(pool)
	}

	if len(cfg.Founding.Tokens) > 0 {
		if err := foundingStore.SeedTokens(ctx, cfg.Founding.Tokens...); err != nil {
			return err
		}
	}

	// Services.
	graph := region.NewGraph()
	filter := discovery.New(graph)

	reciprocity := interestsvc.NewStaticReciprocity()
	interests, err := interestsvc.New(interestStore, reciprocity,
		interestsvc.WithLogger(log),
		interestsvc.WithMetrics(interestmetrics.New()),
		interestsvc.WithAuditPublisher(publisher),
	)
	if err != nil {
		return err
	}

	confirmMetrics := confirmmetrics.New()
	confirms, err := confirmsvc.New(confirmStore,
		confirmsvc.WithLogger(log),
		confirmsvc.WithMetrics(confirmMetrics),
		confirmsvc.WithAuditPublisher(publisher),
	)
	if err != nil {
		return err
	}

	foundings, err := foundingsvc.New(foundingStore, confirms, interests,
		foundingsvc.WithLogger(log),
		foundingsvc.WithMetrics(foundingmetrics.New()),
		foundingsvc.WithAuditPublisher(publisher),
	)
	if err != nil {
		return err
	}

	accounts, err := accountsvc.New(accountsvc.NewInMemoryStore(), graph, filter,
		accountsvc.WithLogger(log),
		accountsvc.WithAuditPublisher(publisher),
		accountsvc.WithFoundingAccess(foundings),
	)
	if err != nil {
		return err
	}

	memberships, err := membership.New(membership.NewInMemoryStore(), membership.WithLogger(log))
	if err != nil {
		return err
	}

	gates, err := gate.New(accounts, interests, memberships, confirms, gate.WithLogger(log))
	if err != nil {
		return err
	}

	cosigns, err := cosign.New(cosign.NewInMemoryStore(),
		cosign.WithLogger(log),
		cosign.WithAuditPublisher(publisher),
	)
	if err != nil {
		return err
	}

	sweeper, err := confirmsvc.NewSweeper(confirmStore, cfg.SweepInterval,
		confirmsvc.WithSweeperLogger(log),
		confirmsvc.WithSweeperMetrics(confirmMetrics),
		confirmsvc.WithSweeperAuditPublisher(publisher),
	)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.Services{
		Accounts:    accounts,
		Discovery:   accounts,
		Interests:   interests,
		Confirms:    confirms,
		Gate:        gates,
		Founding:    foundings,
		Cosign:      cosigns,
		Memberships: memberships,
	}, token.NewService(cfg.Server.JWTSigningKey), log, platformmetrics.New())

	handler := platformmw.Timeout(cfg.Server.RequestTimeout)(router)
	srv := httpserver.New(cfg.Server.Addr, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sweeper.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutdown complete")
	return nil
}
