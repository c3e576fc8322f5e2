package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"tandem/internal/founding"
	id "tandem/pkg/domain"
)

type fakeConfirms struct {
	confirmed map[id.CoupleID]bool
}

func (f *fakeConfirms) HasConfirmed(_ context.Context, couple id.CoupleID) (bool, error) {
	return f.confirmed[couple], nil
}

type fakeInterests struct {
	counts map[id.CoupleID]int
}

func (f *fakeInterests) LiveCount(_ context.Context, couple id.CoupleID) (int, error) {
	return f.counts[couple], nil
}

type ServiceSuite struct {
	suite.Suite
	store     *founding.InMemoryStore
	confirms  *fakeConfirms
	interests *fakeInterests
	svc       *Service
	couple    id.CoupleID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = founding.NewInMemoryStore()
	s.confirms = &fakeConfirms{confirmed: make(map[id.CoupleID]bool)}
	s.interests = &fakeInterests{counts: make(map[id.CoupleID]int)}
	s.couple = id.CoupleID("couple-1")

	var err error
	s.svc, err = New(s.store, s.confirms, s.interests)
	s.Require().NoError(err)

	s.Require().NoError(s.store.SeedTokens(context.Background(), "tok-1", "tok-2"))
}

func (s *ServiceSuite) TestConstructorRequiresDependencies() {
	_, err := New(nil, s.confirms, s.interests)
	s.Error(err)
	_, err = New(s.store, nil, s.interests)
	s.Error(err)
	_, err = New(s.store, s.confirms, nil)
	s.Error(err)
}

func (s *ServiceSuite) TestRedeemValidToken() {
	ctx := context.Background()

	ok, err := s.svc.Redeem(ctx, s.couple, "tok-1")
	s.Require().NoError(err)
	s.True(ok)

	state, err := s.svc.State(ctx, s.couple)
	s.Require().NoError(err)
	s.True(state.Eligible)
	s.False(state.Active)
}

func (s *ServiceSuite) TestRedeemInvalidInputFailsSilently() {
	ctx := context.Background()

	for name, token := range map[string]string{
		"unknown token": "nope",
		"blank token":   "   ",
	} {
		ok, err := s.svc.Redeem(ctx, s.couple, token)
		s.Require().NoError(err, name)
		s.False(ok, name)
	}

	// Consume then replay.
	ok, err := s.svc.Redeem(ctx, s.couple, "tok-1")
	s.Require().NoError(err)
	s.True(ok)
	ok, err = s.svc.Redeem(ctx, s.couple, "tok-1")
	s.Require().NoError(err)
	s.False(ok, "a consumed token never redeems twice")
}

func (s *ServiceSuite) TestRedeemBlockedByTenure() {
	ctx := context.Background()
	denied := func(context.Context, id.CoupleID) (bool, error) { return false, nil }

	svc, err := New(s.store, s.confirms, s.interests, WithTenurePredicate(denied))
	s.Require().NoError(err)

	ok, err := svc.Redeem(ctx, s.couple, "tok-1")
	s.Require().NoError(err)
	s.False(ok)

	// The failed tenure check must not have consumed the token.
	ok, err = s.svc.Redeem(ctx, s.couple, "tok-1")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *ServiceSuite) TestActivationRequiresBothConditions() {
	ctx := context.Background()
	_, err := s.svc.Redeem(ctx, s.couple, "tok-1")
	s.Require().NoError(err)

	active, err := s.svc.CheckActivation(ctx, s.couple)
	s.Require().NoError(err)
	s.False(active, "neither condition held yet")

	s.confirms.confirmed[s.couple] = true
	active, err = s.svc.CheckActivation(ctx, s.couple)
	s.Require().NoError(err)
	s.False(active, "a confirmed action alone is not enough")

	s.interests.counts[s.couple] = 1
	active, err = s.svc.CheckActivation(ctx, s.couple)
	s.Require().NoError(err)
	s.True(active)

	granted, err := s.store.GrantedCount(ctx)
	s.Require().NoError(err)
	s.Equal(1, granted)
}

func (s *ServiceSuite) TestActivationOrderIndependent() {
	ctx := context.Background()
	_, err := s.svc.Redeem(ctx, s.couple, "tok-1")
	s.Require().NoError(err)

	s.interests.counts[s.couple] = 1
	active, err := s.svc.CheckActivation(ctx, s.couple)
	s.Require().NoError(err)
	s.False(active, "an interest alone is not enough")

	s.confirms.confirmed[s.couple] = true
	active, err = s.svc.CheckActivation(ctx, s.couple)
	s.Require().NoError(err)
	s.True(active, "interest-then-confirmation must activate just like the reverse")
}

func (s *ServiceSuite) TestActivationSticksAndFiresOnce() {
	ctx := context.Background()
	_, err := s.svc.Redeem(ctx, s.couple, "tok-1")
	s.Require().NoError(err)
	s.confirms.confirmed[s.couple] = true
	s.interests.counts[s.couple] = 1

	active, err := s.svc.CheckActivation(ctx, s.couple)
	s.Require().NoError(err)
	s.True(active)

	// Undo both conditions; access must stay active and the counter must
	// not move again.
	s.confirms.confirmed[s.couple] = false
	s.interests.counts[s.couple] = 0
	for i := 0; i < 3; i++ {
		active, err = s.svc.CheckActivation(ctx, s.couple)
		s.Require().NoError(err)
		s.True(active)
	}

	granted, err := s.store.GrantedCount(ctx)
	s.Require().NoError(err)
	s.Equal(1, granted, "activation increments the grant counter exactly once")
}

func (s *ServiceSuite) TestIneligibleCoupleNeverActivates() {
	ctx := context.Background()
	s.confirms.confirmed[s.couple] = true
	s.interests.counts[s.couple] = 3

	active, err := s.svc.CheckActivation(ctx, s.couple)
	s.Require().NoError(err)
	s.False(active)
}

func (s *ServiceSuite) TestAcknowledge() {
	ctx := context.Background()
	_, err := s.svc.Redeem(ctx, s.couple, "tok-1")
	s.Require().NoError(err)

	// A no-op before activation.
	s.Require().NoError(s.svc.Acknowledge(ctx, s.couple))
	state, err := s.svc.State(ctx, s.couple)
	s.Require().NoError(err)
	s.False(state.Acknowledged)

	s.confirms.confirmed[s.couple] = true
	s.interests.counts[s.couple] = 1
	_, err = s.svc.CheckActivation(ctx, s.couple)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Acknowledge(ctx, s.couple))
	s.Require().NoError(s.svc.Acknowledge(ctx, s.couple), "acknowledge is idempotent")
	state, err = s.svc.State(ctx, s.couple)
	s.Require().NoError(err)
	s.True(state.Acknowledged)
}
