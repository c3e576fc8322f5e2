package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
)

func TestGenerateValidateRoundTrip(t *testing.T) {
	svc := NewService("test-signing-key")

	raw, err := svc.Generate("couple-1", id.Partner2, time.Hour)
	require.NoError(t, err)

	claims, err := svc.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, "couple-1", claims.CoupleID)
	assert.Equal(t, "partner2", claims.Partner)
}

func TestValidateRejects(t *testing.T) {
	svc := NewService("test-signing-key")

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Validate("not-a-token")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("wrong key", func(t *testing.T) {
		other := NewService("different-key")
		raw, err := other.Generate("couple-1", id.Partner1, time.Hour)
		require.NoError(t, err)
		_, err = svc.Validate(raw)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("expired", func(t *testing.T) {
		raw, err := svc.Generate("couple-1", id.Partner1, -time.Minute)
		require.NoError(t, err)
		_, err = svc.Validate(raw)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
