package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// Issuer is the iss claim of every token
const Issuer = "uploads-server"

// MinSecretLength is the minimum HS256 key size
const MinSecretLength = 32

// TokenService checks credentials and issues tokens for the single configured login
type TokenService struct {
	username string
	password string
	key      []byte
	lifetime time.Duration
	now      func() time.Time
}

type Option func(*TokenService)

// WithNow replaces time.Now for issuance and validation
func WithNow(now func() time.Time) Option {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(username, password, secret string, lifetime time.Duration, opts ...Option) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, newError(ErrCodeInternal, fmt.Sprintf("token secret must be at least %d bytes", MinSecretLength))
	}
	if lifetime <= 0 {
		return nil, newError(ErrCodeInternal, "token lifetime must be positive")
	}
	s := &TokenService{
		username: username,
		password: password,
		key:      []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Lifetime returns the validity period of issued tokens
func (s *TokenService) Lifetime() time.Duration { return s.lifetime }

// CheckCredentials compares the login and password with the configured pair in constant time
func (s *TokenService) CheckCredentials(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !userOK || !passOK || username == "" {
		return newError(ErrCodeCredentials, "invalid username or password")
	}
	return nil
}

// Issue returns a signed token for login and its expiry
func (s *TokenService) Issue(login string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.lifetime)

	tok, err := jwt.NewBuilder().
		Issuer(Issuer).
		Subject(login).
		IssuedAt(now).
		Expiration(expiresAt).
		JwtID(uuid.NewString()).
		Build()
	if err != nil {
		return "", time.Time{}, wrapError(ErrCodeInternal, err, "failed to build token")
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256(), s.key))
	if err != nil {
		return "", time.Time{}, wrapError(ErrCodeInternal, err, "failed to sign token")
	}
	return string(signed), expiresAt, nil
}

// Verify checks the signature, issuer and expiry of a token and returns its subject
func (s *TokenService) Verify(token string) (string, error) {
	tok, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256(), s.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(Issuer),
		jwt.WithClock(jwt.ClockFunc(s.now)),
	)
	if err != nil {
		if errors.Is(err, jwt.TokenExpiredError()) {
			return "", wrapError(ErrCodeExpiredToken, err, "token has expired")
		}
		return "", wrapError(ErrCodeInvalidToken, err, "token is not valid")
	}

	sub, ok := tok.Subject()
	if !ok || sub == "" {
		return "", newError(ErrCodeInvalidToken, "token has no subject")
	}
	return sub, nil
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", newError(ErrCodeMissingToken, "authorization header is missing")
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", newError(ErrCodeInvalidToken, "authorization header is not a bearer token")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", newError(ErrCodeMissingToken, "bearer token is empty")
	}
	return token, nil
}
