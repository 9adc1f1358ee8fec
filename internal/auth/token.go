// ABOUTME: JWT token issuance and verification for API clients
// ABOUTME: HS256-signed tokens carrying capabilities frozen at issuance

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the fixed service identifier stamped into every token.
const Issuer = "scrawl"

// Token errors
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrMissingClaim = errors.New("missing required claim")
)

// TokenVerifier verifies a serialized token and returns the principal it
// carries. Verification is pure: no I/O against the credential backend.
type TokenVerifier interface {
	Verify(tokenString string) (*Principal, error)
}

// TokenCodec issues and verifies HS256-signed JWTs. Issued tokens carry the
// subject login and the capabilities resolved at issuance time; they have no
// expiry, so rotating the secret is the only revocation mechanism.
type TokenCodec struct {
	secret []byte
	creds  CredentialStore

	// now is swappable for tests
	now func() time.Time
}

// NewTokenCodec creates a codec signing with the given secret and verifying
// credentials against the given store at issuance time.
func NewTokenCodec(secret []byte, creds CredentialStore) *TokenCodec {
	return &TokenCodec{secret: secret, creds: creds, now: time.Now}
}

// Issue authenticates the login/password pair against the credential store,
// resolves the role set into capabilities, and returns a signed token with
// those capabilities frozen in. Returns ErrAuthenticationFailed on a bad
// pair; any other error is a backend failure.
func (c *TokenCodec) Issue(ctx context.Context, login, password string) (string, error) {
	roles, err := c.creds.Authenticate(ctx, login, password)
	if err != nil {
		return "", err
	}

	caps := Resolve(roles)

	claims := jwt.MapClaims{
		"sub":    login,
		"iss":    Issuer,
		"iat":    c.now().Unix(),
		"read":   caps.CanRead,
		"create": caps.CanCreate,
		"update": caps.CanUpdate,
		"delete": caps.CanDelete,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify validates the signature and structure of a serialized token and
// returns the principal with its frozen capabilities. Any malformed,
// unsigned, or tampered token yields ErrTokenInvalid; callers must not
// distinguish those cases in responses.
func (c *TokenCodec) Verify(tokenString string) (*Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithIssuer(Issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	caps := Capabilities{}
	for claim, dst := range map[string]*bool{
		"read":   &caps.CanRead,
		"create": &caps.CanCreate,
		"update": &caps.CanUpdate,
		"delete": &caps.CanDelete,
	} {
		v, ok := claims[claim].(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingClaim, claim)
		}
		*dst = v
	}

	return &Principal{Login: sub, Caps: caps}, nil
}
