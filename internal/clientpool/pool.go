// Package clientpool keeps one backend client per gateway session. Every session gets its own
// refresh coordination, so one user's expired token never holds back another user's requests.
package clientpool

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cinebook/booking-gateway/internal/apiclient"
	"github.com/cinebook/booking-gateway/internal/authentication"
	"github.com/cinebook/booking-gateway/internal/cinema"
	"github.com/cinebook/booking-gateway/internal/config"
	"github.com/cinebook/booking-gateway/internal/models"
	"github.com/cinebook/booking-gateway/internal/tokenstore"
	"github.com/go-co-op/gocron"
)

// Handle bundles everything a request needs to talk to the backend as one user
type Handle struct {
	SessionID string
	Client    *apiclient.Client
	Provider  *authentication.Provider
	Services  *cinema.Services

	lastUsed time.Time
}

// busy reports whether the client still has a refresh or queued requests in flight
func (h *Handle) busy() bool {
	return h.Client.Refreshing() || h.Client.Pending() > 0
}

type Pool struct {
	lock      sync.Mutex
	handles   map[string]*Handle
	anonymous *Handle

	tokenRepo       models.TokenRepository
	clientOptions   []apiclient.ClientOption
	providerOptions []authentication.ProviderOption
	idleTTL         time.Duration
	sweepInterval   time.Duration
	now             func() time.Time
}

type PoolOption func(*Pool) error

func WithTokenRepository(repo models.TokenRepository) PoolOption {
	return func(p *Pool) error {
		p.tokenRepo = repo
		return nil
	}
}

// WithBackendConfig points every client at the cinema backend. The clients share one http.Client.
func WithBackendConfig(c config.BackendConfig) PoolOption {
	return func(p *Pool) error {
		if c.BaseURL == nil {
			return fmt.Errorf("the backend base url is not initialized")
		}
		p.clientOptions = append(
			p.clientOptions,
			apiclient.WithBaseURL(c.BaseURL.String()),
			apiclient.WithHTTPClient(&http.Client{Timeout: c.Timeout()}),
			apiclient.WithRefreshPath(c.Paths.Refresh),
			apiclient.WithPublicPaths(c.Paths.Login, c.Paths.Register),
			apiclient.WithRefreshTimeout(c.RefreshTimeout()),
		)
		p.providerOptions = append(p.providerOptions, authentication.WithConfig(c))
		return nil
	}
}

func WithClientOptions(options ...apiclient.ClientOption) PoolOption {
	return func(p *Pool) error {
		p.clientOptions = append(p.clientOptions, options...)
		return nil
	}
}

func WithSessionConfig(c config.SessionConfig) PoolOption {
	return func(p *Pool) error {
		p.idleTTL = c.IdleTTL()
		p.sweepInterval = c.SweepInterval()
		return nil
	}
}

func WithIdleTTL(ttl time.Duration) PoolOption {
	return func(p *Pool) error {
		p.idleTTL = ttl
		return nil
	}
}

func NewPool(options ...PoolOption) (*Pool, error) {
	p := &Pool{
		handles:       map[string]*Handle{},
		sweepInterval: 5 * time.Minute,
		now:           time.Now,
	}
	for _, opt := range options {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}
	if p.tokenRepo == nil {
		return nil, fmt.Errorf("token repository is not initialized")
	}
	if len(p.clientOptions) == 0 {
		return nil, fmt.Errorf("backend client options are not initialized")
	}
	if p.idleTTL <= 0 {
		return nil, fmt.Errorf("client idle TTL is not initialized")
	}
	if p.sweepInterval <= 0 {
		return nil, fmt.Errorf("sweep interval is not initialized")
	}
	return p, nil
}

// Get returns the handle of a session, building it on first use
func (p *Pool) Get(sessionID string) (*Handle, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("cannot build a backend client without a session ID")
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	if h, found := p.handles[sessionID]; found {
		h.lastUsed = p.now()
		return h, nil
	}
	store, err := tokenstore.NewSessionStore(
		tokenstore.WithSessionID(sessionID),
		tokenstore.WithTokenRepository(p.tokenRepo),
	)
	if err != nil {
		return nil, err
	}
	h, err := p.build(sessionID, store)
	if err != nil {
		return nil, err
	}
	p.handles[sessionID] = h
	return h, nil
}

// Anonymous returns the shared handle for visitors without a session. Its store never holds tokens.
func (p *Pool) Anonymous() (*Handle, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.anonymous != nil {
		return p.anonymous, nil
	}
	h, err := p.build("", tokenstore.NewMemoryStore())
	if err != nil {
		return nil, err
	}
	p.anonymous = h
	return h, nil
}

func (p *Pool) Remove(sessionID string) {
	p.lock.Lock()
	defer p.lock.Unlock()
	delete(p.handles, sessionID)
}

func (p *Pool) Len() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.handles)
}

func (p *Pool) build(sessionID string, store tokenstore.Store) (*Handle, error) {
	client, err := apiclient.NewClient(append(p.clientOptions, apiclient.WithTokenStore(store))...)
	if err != nil {
		return nil, err
	}
	provider, err := authentication.NewProvider(append(p.providerOptions, authentication.WithClient(client))...)
	if err != nil {
		return nil, err
	}
	services, err := cinema.NewServices(client)
	if err != nil {
		return nil, err
	}
	return &Handle{
		SessionID: sessionID,
		Client:    client,
		Provider:  provider,
		Services:  services,
		lastUsed:  p.now(),
	}, nil
}

// Sweep drops the handles that were idle for longer than the idle TTL and returns how many were dropped
func (p *Pool) Sweep() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	cutoff := p.now().Add(-p.idleTTL)
	dropped := 0
	for sessionID, h := range p.handles {
		if h.lastUsed.After(cutoff) || h.busy() {
			continue
		}
		delete(p.handles, sessionID)
		dropped++
	}
	return dropped
}

// Scheduler returns a stopped gocron scheduler that sweeps the pool periodically
func (p *Pool) Scheduler() (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(time.UTC)

	sweepTask := func(job gocron.Job) {
		dropped := p.Sweep()
		if dropped > 0 {
			slog.Info("CLIENT POOL", "message", "dropped idle backend clients", "count", dropped, "remaining", p.Len(), "runs", job.RunCount())
		}
	}

	_, err := s.Every(p.sweepInterval).
		DoWithJobDetails(sweepTask)
	if err != nil {
		return nil, err
	}
	return s, nil
}
