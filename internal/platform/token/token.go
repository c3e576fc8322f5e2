// Package token issues and validates the bearer tokens the HTTP layer
// trusts. The core performs no authentication of its own; a token simply
// names the couple and which partner is acting.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "tandem/pkg/domain"
	dErrors "tandem/pkg/domain-errors"
)

// Claims carries the couple and acting partner.
type Claims struct {
	CoupleID string `json:"couple_id"`
	Partner  string `json:"partner"`
	jwt.RegisteredClaims
}

// Service handles JWT creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewService(signingKey string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     "tandem",
		audience:   "tandem-api",
	}
}

// Generate mints a signed token for one partner of a couple.
func (s *Service) Generate(couple id.CoupleID, partner id.Partner, expiresIn time.Duration) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		CoupleID: couple.String(),
		Partner:  partner.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})
	return tok.SignedString(s.signingKey)
}

// Validate parses and verifies a token, returning its claims.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithAudience(s.audience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if claims.CoupleID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token missing couple")
	}
	if _, err := id.ParsePartner(claims.Partner); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token missing partner")
	}
	return claims, nil
}
