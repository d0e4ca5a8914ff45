package auth

import (
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const defaultLeeway = 30 * time.Second

// Verifier decodes bearer credentials signed with a shared HS256 secret.
type Verifier struct {
	secret []byte
	leeway time.Duration
}

// NewVerifier builds a Verifier for the given signing secret.
func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret, leeway: defaultLeeway}
}

type tokenClaims struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	ExternalID string `json:"externalUserID,omitempty"`
	jwt.RegisteredClaims
}

// Decode verifies a bearer token and returns the identity it carries. An
// empty or invalid token yields no identity, not an error; callers decide
// whether an identity is required.
func (v *Verifier) Decode(token string) *Identity {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	claims := tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil || !parsed.Valid {
		return nil
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return nil
	}

	return &Identity{
		Subject:    subject,
		ExternalID: strings.TrimSpace(claims.ExternalID),
		Name:       claims.Name,
		Email:      claims.Email,
	}
}

// DecodeBearer extracts the token from an Authorization header value and
// decodes it. Malformed headers yield no identity.
func (v *Verifier) DecodeBearer(header string) *Identity {
	if header == "" {
		return nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil
	}
	return v.Decode(parts[1])
}
