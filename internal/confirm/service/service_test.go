package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"tandem/internal/confirm"
	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
	"tandem/pkg/requestcontext"
)

type ConfirmServiceSuite struct {
	suite.Suite
	store   *confirm.InMemoryStore
	service *Service
	sweeper *Sweeper
}

func TestConfirmServiceSuite(t *testing.T) {
	suite.Run(t, new(ConfirmServiceSuite))
}

func (s *ConfirmServiceSuite) SetupTest() {
	s.store = confirm.NewInMemoryStore()

	var err error
	s.service, err = New(s.store)
	s.Require().NoError(err)
	s.sweeper, err = NewSweeper(s.store, DefaultSweepInterval)
	s.Require().NoError(err)
}

func msgKey(target string) confirm.Key {
	return confirm.Key{Couple: "couple-a", Kind: confirm.KindMessaging, Target: target}
}

func (s *ConfirmServiceSuite) TestTapValidation() {
	ctx := context.Background()

	s.Run("missing couple", func() {
		_, err := s.service.Tap(ctx, confirm.Key{Kind: confirm.KindMessaging, Target: "t"}, id.Partner1, time.Hour)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("bad kind", func() {
		_, err := s.service.Tap(ctx, confirm.Key{Couple: "c", Kind: "handshake", Target: "t"}, id.Partner1, time.Hour)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("bad partner", func() {
		_, err := s.service.Tap(ctx, msgKey("t"), id.Partner("partner3"), time.Hour)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("non-positive ttl", func() {
		_, err := s.service.Tap(ctx, msgKey("t"), id.Partner1, 0)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ConfirmServiceSuite) TestLifecycle() {
	ctx := context.Background()
	key := msgKey("lifecycle")

	s.Run("first tap creates pending", func() {
		a, err := s.service.Tap(ctx, key, id.Partner1, time.Hour)
		s.Require().NoError(err)
		s.Equal(confirm.StatusPending, a.Status)
		s.True(a.Partner1Confirmed)
		s.False(a.Partner2Confirmed)
		s.Equal(id.Partner1, a.Initiator)
	})

	s.Run("second partner confirms", func() {
		a, err := s.service.Tap(ctx, key, id.Partner2, time.Hour)
		s.Require().NoError(err)
		s.Equal(confirm.StatusConfirmed, a.Status)
		s.True(a.Partner1Confirmed)
		s.True(a.Partner2Confirmed)
	})

	s.Run("confirmed is a one-way latch", func() {
		a, err := s.service.Tap(ctx, key, id.Partner1, time.Hour)
		s.Require().NoError(err)
		s.Equal(confirm.StatusConfirmed, a.Status)
		s.True(a.Partner1Confirmed, "tapping a confirmed action must not retract")
	})
}

func (s *ConfirmServiceSuite) TestRetraction() {
	ctx := context.Background()
	key := msgKey("retract")

	_, err := s.service.Tap(ctx, key, id.Partner1, time.Hour)
	s.Require().NoError(err)

	s.Run("clearing the last flag deletes the action", func() {
		a, err := s.service.Tap(ctx, key, id.Partner1, time.Hour)
		s.Require().NoError(err)
		s.Nil(a, "both flags false returns the key to absent")

		got, err := s.service.Get(ctx, key)
		s.Require().NoError(err)
		s.Nil(got)
	})

	s.Run("retraction never touches other keys", func() {
		other := msgKey("retract-other")
		_, err := s.service.Tap(ctx, other, id.Partner2, time.Hour)
		s.Require().NoError(err)

		_, err = s.service.Tap(ctx, key, id.Partner1, time.Hour)
		s.Require().NoError(err)
		_, err = s.service.Tap(ctx, key, id.Partner1, time.Hour)
		s.Require().NoError(err)

		a, err := s.service.Get(ctx, other)
		s.Require().NoError(err)
		s.Require().NotNil(a)
		s.Equal(confirm.StatusPending, a.Status)
	})
}

// TestCommutativity verifies tap order does not affect the outcome.
func (s *ConfirmServiceSuite) TestCommutativity() {
	ctx := context.Background()

	for _, order := range [][]id.Partner{
		{id.Partner1, id.Partner2},
		{id.Partner2, id.Partner1},
	} {
		key := msgKey("order-" + string(order[0]))
		var last *confirm.Action
		for _, p := range order {
			var err error
			last, err = s.service.Tap(ctx, key, p, time.Hour)
			s.Require().NoError(err)
		}
		s.Equal(confirm.StatusConfirmed, last.Status)
		s.True(last.Partner1Confirmed)
		s.True(last.Partner2Confirmed)
	}
}

func (s *ConfirmServiceSuite) TestExpiry() {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), base)
	key := msgKey("expiry")

	_, err := s.service.Tap(ctx, key, id.Partner1, time.Hour)
	s.Require().NoError(err)

	s.Run("sweep before deadline is a no-op", func() {
		transitioned, err := s.sweeper.SweepAt(ctx, base.Add(59*time.Minute))
		s.Require().NoError(err)
		s.Empty(transitioned)
	})

	s.Run("sweep past deadline expires the action", func() {
		transitioned, err := s.sweeper.SweepAt(ctx, base.Add(2*time.Hour))
		s.Require().NoError(err)
		s.Equal([]confirm.Key{key}, transitioned)

		a, err := s.service.Get(ctx, key)
		s.Require().NoError(err)
		s.Equal(confirm.StatusExpired, a.Status)
	})

	s.Run("expired can never reach confirmed; a tap starts fresh", func() {
		expired, err := s.service.Get(ctx, key)
		s.Require().NoError(err)

		a, err := s.service.Tap(ctx, key, id.Partner2, time.Hour)
		s.Require().NoError(err)
		s.Equal(confirm.StatusPending, a.Status)
		s.NotEqual(expired.ID, a.ID, "a fresh action replaces the terminal record")
		s.False(a.Partner1Confirmed, "the old run's flags do not carry over")
		s.True(a.Partner2Confirmed)
	})
}

// TestTTLFixedAtCreation verifies that the deadline is derived from the TTL
// passed on the creating tap; later taps with a longer TTL do not stretch it.
func (s *ConfirmServiceSuite) TestTTLFixedAtCreation() {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), base)
	key := msgKey("ttl-pin")

	_, err := s.service.Tap(ctx, key, id.Partner1, 48*time.Hour)
	s.Require().NoError(err)

	// Partner retracts, then re-taps with a premium-length TTL. The action
	// still exists (other flag would be false -> deleted), so instead tap
	// the other partner with a longer TTL: it must not change the deadline.
	a, err := s.service.Tap(ctx, key, id.Partner2, 168*time.Hour)
	s.Require().NoError(err)
	s.Equal(48*time.Hour, a.TTL, "ttl is fixed when the action is created")
	s.Equal(base.Add(48*time.Hour), a.Deadline())
}

// TestConcurrentTaps drives both partners at the same key simultaneously and
// verifies no tap is lost: with an odd number of taps per partner the action
// must end confirmed.
func (s *ConfirmServiceSuite) TestConcurrentTaps() {
	ctx := context.Background()
	key := msgKey("race")

	var wg sync.WaitGroup
	wg.Add(2)
	for _, p := range []id.Partner{id.Partner1, id.Partner2} {
		go func(p id.Partner) {
			defer wg.Done()
			_, err := s.service.Tap(ctx, key, p, time.Hour)
			s.NoError(err)
		}(p)
	}
	wg.Wait()

	a, err := s.service.Get(ctx, key)
	s.Require().NoError(err)
	s.Require().NotNil(a)
	s.Equal(confirm.StatusConfirmed, a.Status, "final state must reflect both taps")
}

func (s *ConfirmServiceSuite) TestKindsAreIndependent() {
	ctx := context.Background()

	msg := confirm.Key{Couple: "couple-a", Kind: confirm.KindMessaging, Target: "x"}
	rsvp := confirm.Key{Couple: "couple-a", Kind: confirm.KindRSVP, Target: "x"}

	_, err := s.service.Tap(ctx, msg, id.Partner1, time.Hour)
	s.Require().NoError(err)

	a, err := s.service.Get(ctx, rsvp)
	s.Require().NoError(err)
	s.Nil(a, "same target under a different kind is a different action")
}
