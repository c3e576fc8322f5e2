package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePartner(t *testing.T) {
	p, err := ParsePartner("partner1")
	require.NoError(t, err)
	assert.Equal(t, Partner1, p)
	assert.Equal(t, Partner2, p.Other())
	assert.Equal(t, Partner1, Partner2.Other())

	_, err = ParsePartner("partner3")
	assert.Error(t, err)
}

func TestParseScope(t *testing.T) {
	for _, valid := range []string{"local", "nearby", "travel"} {
		sc, err := ParseScope(valid)
		require.NoError(t, err)
		assert.True(t, sc.IsValid())
	}
	_, err := ParseScope("global")
	assert.Error(t, err)
}

func TestParseIntent(t *testing.T) {
	_, err := ParseIntent("")
	assert.Error(t, err)

	in, err := ParseIntent("meeting")
	require.NoError(t, err)
	assert.Equal(t, IntentMeeting, in)
}

func TestTierLimits(t *testing.T) {
	t.Run("interest cap is tier-invariant", func(t *testing.T) {
		for _, tier := range []Tier{TierFree, TierPremium, TierFounding} {
			assert.Equal(t, InterestLimit, tier.Limits().InterestLimit, "tier %s", tier)
		}
	})

	t.Run("premium extends time windows only", func(t *testing.T) {
		free := TierFree.Limits()
		prem := TierPremium.Limits()
		assert.Equal(t, 72*time.Hour, free.MessageTTL)
		assert.Equal(t, 48*time.Hour, free.RSVPTTL)
		assert.Equal(t, 168*time.Hour, prem.MessageTTL)
		assert.Equal(t, 96*time.Hour, prem.RSVPTTL)
	})

	t.Run("founding maps to premium windows", func(t *testing.T) {
		assert.Equal(t, TierPremium.Limits(), TierFounding.Limits())
	})
}
