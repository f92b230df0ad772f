// Package identity verifies bearer tokens issued by the external identity
// service. Issue exists for local tooling and tests.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Principal is the caller resolved from a verified token.
type Principal struct {
	AccountID  string
	ProjectKey string
}

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify checks signature, expiry and required claims of an HS256 token.
func (v *Verifier) Verify(token string) (Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, fmt.Errorf("%w: empty", ErrInvalidToken)
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	m, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, fmt.Errorf("%w: claims", ErrInvalidToken)
	}
	sub, _ := m["sub"].(string)
	project, _ := m["project"].(string)
	if sub == "" || project == "" {
		return Principal{}, fmt.Errorf("%w: missing sub or project", ErrInvalidToken)
	}
	return Principal{AccountID: sub, ProjectKey: project}, nil
}

// Issue signs a token for p valid for ttl.
func (v *Verifier) Issue(p Principal, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":     p.AccountID,
		"project": p.ProjectKey,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
