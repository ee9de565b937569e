package auth

import (
	"fmt"
	"strings"

	"github.com/bazarly/storefront-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// Identity is the resolved owner of a cart. The zero value is the anonymous
// guest. Authenticated-without-UserID covers tokens that verified but carried
// no stable user identifier; those sessions share one "authenticated" cart
// namespace rather than falling back to the guest one.
type Identity struct {
	UserID        string
	Authenticated bool
}

// Anonymous returns the guest identity.
func Anonymous() Identity {
	return Identity{}
}

// IsAnonymous reports whether no authenticated session backs this identity.
func (i Identity) IsAnonymous() bool {
	return !i.Authenticated && i.UserID == ""
}

// AccessTokenClaims is the typed shape of the platform-issued JWT.
type AccessTokenClaims struct {
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// ParseAccessToken validates the JWT string and returns typed claims.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (*AccessTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	claims := &AccessTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		opts...,
	)
	if err != nil {
		return nil, err
	}

	return claims, nil
}

// ResolveIdentity maps a raw bearer token onto an Identity. It never fails:
// an absent token is the guest, an invalid token degrades to the anonymous
// authenticated namespace so a broken session does not clobber the guest cart.
func ResolveIdentity(cfg config.JWTConfig, tokenString string) Identity {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return Anonymous()
	}

	claims, err := ParseAccessToken(cfg, tokenString)
	if err != nil {
		return Identity{Authenticated: true}
	}

	userID := strings.TrimSpace(claims.UserID)
	if userID == "" {
		userID = strings.TrimSpace(claims.Subject)
	}
	return Identity{UserID: userID, Authenticated: true}
}
