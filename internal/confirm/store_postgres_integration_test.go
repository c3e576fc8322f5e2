//go:build integration

package confirm_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"tandem/internal/confirm"
	id "tandem/pkg/domain"
	"tandem/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *confirm.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	_, err := s.postgres.Pool.Exec(context.Background(), confirm.Schema)
	s.Require().NoError(err)
	s.store = confirm.NewPostgres(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "confirm_actions"))
}

func (s *PostgresStoreSuite) key(target string) confirm.Key {
	return confirm.Key{Couple: "couple-pg", Kind: confirm.KindMessaging, Target: target}
}

func (s *PostgresStoreSuite) create(key confirm.Key, createdAt time.Time, ttl time.Duration) *confirm.Action {
	a, err := s.store.Mutate(context.Background(), key, func(current *confirm.Action) (*confirm.Action, error) {
		s.Require().Nil(current)
		return &confirm.Action{
			ID:                uuid.New(),
			Key:               key,
			Initiator:         id.Partner1,
			Partner1Confirmed: true,
			Status:            confirm.StatusPending,
			CreatedAt:         createdAt,
			TTL:               ttl,
		}, nil
	})
	s.Require().NoError(err)
	return a
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	key := s.key("roundtrip")
	created := s.create(key, time.Now().UTC().Truncate(time.Millisecond), time.Hour)

	got, err := s.store.Get(ctx, key)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(created.ID, got.ID)
	s.Equal(created.TTL, got.TTL)
	s.Equal(confirm.StatusPending, got.Status)
}

func (s *PostgresStoreSuite) TestSweepExpired() {
	ctx := context.Background()
	now := time.Now().UTC()

	stale := s.key("stale")
	fresh := s.key("fresh")
	s.create(stale, now.Add(-2*time.Hour), time.Hour)
	s.create(fresh, now, time.Hour)

	transitioned, err := s.store.SweepExpired(ctx, now)
	s.Require().NoError(err)
	s.Equal([]confirm.Key{stale}, transitioned)

	again, err := s.store.SweepExpired(ctx, now)
	s.Require().NoError(err)
	s.Empty(again, "sweep must be idempotent")
}

// TestConcurrentTapsSerialize verifies the FOR UPDATE discipline: both
// partners tapping at once must both land.
func (s *PostgresStoreSuite) TestConcurrentTapsSerialize() {
	ctx := context.Background()
	key := s.key("race")

	tap := func(p id.Partner) error {
		_, err := s.store.Mutate(ctx, key, func(current *confirm.Action) (*confirm.Action, error) {
			if current == nil {
				current = &confirm.Action{
					ID:        uuid.New(),
					Key:       key,
					Initiator: p,
					Status:    confirm.StatusPending,
					CreatedAt: time.Now().UTC(),
					TTL:       time.Hour,
				}
			}
			if p == id.Partner1 {
				current.Partner1Confirmed = true
			} else {
				current.Partner2Confirmed = true
			}
			if current.Partner1Confirmed && current.Partner2Confirmed {
				current.Status = confirm.StatusConfirmed
			}
			return current, nil
		})
		return err
	}

	var wg sync.WaitGroup
	wg.Add(2)
	for _, p := range []id.Partner{id.Partner1, id.Partner2} {
		go func(p id.Partner) {
			defer wg.Done()
			s.NoError(tap(p))
		}(p)
	}
	wg.Wait()

	got, err := s.store.Get(ctx, key)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(confirm.StatusConfirmed, got.Status)
}
