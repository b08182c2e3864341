package utils // package utils provides helpers for token creation and password hashing

import (
	"time" // time utilities for computing expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens

	"github.com/iliyamo/movie-catalog/internal/model"
)

// AccessToken represents a signed JWT along with its expiry. The Token
// field contains the serialized JWT string sent to clients; Exp stores the
// UTC expiration time. Tokens are stateless: validity is determined purely
// by signature and expiry, there is no server-side session or revocation.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user. The claims embed
// the caller's identity (id, firstName, lastName, email) and scope set so
// downstream middleware can authorize requests without a database lookup.
// ttlHours controls the token lifetime (4 hours by default in config).
func NewAccessToken(secret string, u model.User, ttlHours int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlHours) * time.Hour)
	claims := jwt.MapClaims{
		"id":        u.ID,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"email":     u.Email,
		"scope":     u.Scope,
		"iat":       now.Unix(),
		"exp":       exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
