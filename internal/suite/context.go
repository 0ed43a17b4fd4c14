package suite

import (
	"context"
	"log/slog"
	"time"

	"github.com/information-sharing-networks/uploads-apicheck/internal/apiclient"
	"github.com/information-sharing-networks/uploads-apicheck/internal/inspector"
)

// Store is the part of the persistence inspector used by the cases
type Store interface {
	FetchRecord(ctx context.Context, id int64) (inspector.Record, error)
	CountRows(ctx context.Context) (int, error)
	Truncate(ctx context.Context) error
}

// Context is the suite-scoped state shared by all cases of a run.
//
// The token fields are written once by the authorization case and read by later cases.
// Cases run sequentially so no locking is needed.
type Context struct {
	RunID         string
	Client        *apiclient.Client
	Store         Store
	Credentials   apiclient.Credentials
	TokenLifetime time.Duration
	Clock         Clock
	Logger        *slog.Logger

	authorization string
	issuedAt      time.Time
	expiresAt     time.Time
}

// SetToken records the token issued by the service. The expiry instant is tracked
// client-side as the issuance instant plus the configured token lifetime.
func (sc *Context) SetToken(token string) {
	sc.authorization = apiclient.BearerToken(token)
	sc.issuedAt = sc.Clock.Now()
	sc.expiresAt = sc.issuedAt.Add(sc.TokenLifetime)
}

// HasToken reports whether a token has been issued in this run
func (sc *Context) HasToken() bool {
	return sc.authorization != ""
}

// Authorization returns the Authorization header value ("Bearer <token>"), or "" before
// a token was issued
func (sc *Context) Authorization() string {
	return sc.authorization
}

// TokenIssuedAt returns the instant the current token was recorded
func (sc *Context) TokenIssuedAt() time.Time { return sc.issuedAt }

// TokenExpiresAt returns the instant the current token is expected to be rejected
func (sc *Context) TokenExpiresAt() time.Time { return sc.expiresAt }

// UntilTokenExpiry returns the remaining token lifetime; zero once the token has expired
func (sc *Context) UntilTokenExpiry() time.Duration {
	d := sc.expiresAt.Sub(sc.Clock.Now())
	if d < 0 {
		return 0
	}
	return d
}
