package suite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/information-sharing-networks/uploads-apicheck/internal/apiclient"
	"github.com/information-sharing-networks/uploads-apicheck/internal/config"
	"github.com/information-sharing-networks/uploads-apicheck/internal/inspector"
)

// Suite is a configured run of the verification cases against one service and its store
type Suite struct {
	runner       *Runner
	sc           *Context
	skipTeardown bool
	logger       *slog.Logger
}

type options struct {
	clock  Clock
	cases  []Case
	only   []string
	store  Store
	client *apiclient.Client
}

type Option func(*options)

// WithClock replaces the wall clock used for the token expiry wait
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithCases replaces DefaultCases
func WithCases(cases []Case) Option {
	return func(o *options) { o.cases = cases }
}

// WithOnly restricts the run to the named cases and their dependencies
func WithOnly(names ...string) Option {
	return func(o *options) { o.only = append(o.only, names...) }
}

// WithStore replaces the inspector built from DB_PATH
func WithStore(s Store) Option {
	return func(o *options) { o.store = s }
}

// WithClient replaces the API client built from BASE_URL
func WithClient(c *apiclient.Client) Option {
	return func(o *options) { o.client = c }
}

// New performs suite setup: it configures the client target and the store used to verify
// persisted data.
func New(cfg *config.SuiteEnvironment, logger *slog.Logger, opts ...Option) (*Suite, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	o := options{clock: RealClock{}, cases: DefaultCases()}
	for _, opt := range opts {
		opt(&o)
	}

	runID := uuid.NewString()
	logger = logger.With(slog.String("run_id", runID))

	client := o.client
	if client == nil {
		c, err := apiclient.New(cfg.BaseURL,
			apiclient.WithTimeout(cfg.HTTPTimeout),
			apiclient.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create API client: %w", err)
		}
		client = c
	}

	store := o.store
	if store == nil {
		inspOpts := []inspector.Option{inspector.WithLogger(logger)}
		if cfg.UploadsTable != "" {
			inspOpts = append(inspOpts, inspector.WithTable(cfg.UploadsTable))
		}
		insp, err := inspector.New(cfg.DBPath, inspOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create store inspector: %w", err)
		}
		store = insp
	}

	runner, err := NewRunner(o.cases, logger)
	if err != nil {
		return nil, err
	}
	if len(o.only) > 0 {
		if runner, err = runner.Select(o.only...); err != nil {
			return nil, err
		}
	}

	return &Suite{
		runner: runner,
		sc: &Context{
			RunID:  runID,
			Client: client,
			Store:  store,
			Credentials: apiclient.Credentials{
				Username: cfg.Username,
				Password: cfg.Password,
			},
			TokenLifetime: cfg.TokenLifetime,
			Clock:         o.clock,
			Logger:        logger,
		},
		skipTeardown: cfg.SkipTeardown,
		logger:       logger,
	}, nil
}

// Runner returns the runner holding the scheduled cases
func (s *Suite) Runner() *Runner { return s.runner }

// Context returns the suite-scoped context
func (s *Suite) Context() *Context { return s.sc }

// Run executes the cases and then tears the suite down. The report is returned even when
// teardown fails.
func (s *Suite) Run(ctx context.Context, onResult func(Result)) (*Report, error) {
	s.logger.Info("suite started",
		slog.String("base_url", s.sc.Client.BaseURL()),
		slog.Int("cases", len(s.runner.cases)),
	)

	report := s.runner.Run(ctx, s.sc, onResult)

	s.logger.Info("suite finished",
		slog.Int("passed", report.Passed()),
		slog.Int("failed", report.Failed()),
		slog.Int("skipped", report.Skipped()),
		slog.Duration("duration", report.Duration),
	)

	// teardown must run even when the run was interrupted
	if err := s.Teardown(context.WithoutCancel(ctx)); err != nil {
		return report, err
	}
	return report, nil
}

// Teardown wipes the store unless SKIP_TEARDOWN is set
func (s *Suite) Teardown(ctx context.Context) error {
	if s.skipTeardown {
		s.logger.Info("teardown skipped")
		return nil
	}
	if err := s.sc.Store.Truncate(ctx); err != nil {
		return fmt.Errorf("suite teardown failed: %w", err)
	}
	return nil
}
