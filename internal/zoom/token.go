package zoom

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sra-webinar/backend/internal/apierr"
)

// DefaultTokenTTL is how long a minted API token stays valid. The token is
// minted immediately before each upstream call, so a few seconds suffice.
const DefaultTokenTTL = 5 * time.Second

// TokenIssuer mints short-lived HS256 JWTs for the Zoom API. The token
// payload carries the API key as issuer, signed with the shared secret.
// Tokens are returned to the caller and passed explicitly per request;
// the issuer never stores an active token.
type TokenIssuer struct {
	apiKey string
	secret []byte
}

// NewTokenIssuer creates a token issuer from API credentials.
func NewTokenIssuer(apiKey, secret string) *TokenIssuer {
	return &TokenIssuer{apiKey: apiKey, secret: []byte(secret)}
}

// Issue mints a token valid for ttl from now.
func (i *TokenIssuer) Issue(ttl time.Duration) (string, error) {
	if i.apiKey == "" || len(i.secret) == 0 {
		return "", apierr.NewConfigurationError("zoom: api key and secret required")
	}
	if ttl <= 0 {
		return "", apierr.NewConfigurationError("zoom: token ttl must be greater than 0, got %s", ttl)
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    i.apiKey,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", apierr.NewConfigurationError("zoom: sign token: %s", err)
	}
	return signed, nil
}
