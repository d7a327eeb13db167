// Package authentication logs a user in and out of the cinema backend and tells who the user is.
package authentication

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cinebook/booking-gateway/internal/apiclient"
	"github.com/cinebook/booking-gateway/internal/config"
	"github.com/cinebook/booking-gateway/internal/gwerrors"
	"github.com/cinebook/booking-gateway/internal/tokenstore"
)

var ErrInvalidLoginResponse = errors.New("the login response does not contain an access token")

// ErrNotLoggedIn is returned by Logout when there were no tokens to begin with
var ErrNotLoggedIn = errors.New("there is no logged in user")

type Paths struct {
	Login   string
	Logout  string
	Profile string
	Status  string
}

func DefaultPaths() Paths {
	return Paths{
		Login:   "/auth/login",
		Logout:  "/auth/logout",
		Profile: "/users/profile",
		Status:  "/auth/status",
	}
}

type Provider struct {
	client      *apiclient.Client
	store       tokenstore.Store
	paths       Paths
	adminRoleID int
}

type ProviderOption func(*Provider) error

func WithClient(client *apiclient.Client) ProviderOption {
	return func(p *Provider) error {
		p.client = client
		return nil
	}
}

// WithTokenStore overrides the store, by default the one of the client is used
func WithTokenStore(store tokenstore.Store) ProviderOption {
	return func(p *Provider) error {
		p.store = store
		return nil
	}
}

func WithPaths(paths Paths) ProviderOption {
	return func(p *Provider) error {
		p.paths = paths
		return nil
	}
}

func WithAdminRoleID(roleID int) ProviderOption {
	return func(p *Provider) error {
		p.adminRoleID = roleID
		return nil
	}
}

func WithConfig(c config.BackendConfig) ProviderOption {
	return func(p *Provider) error {
		p.paths = Paths{
			Login:   c.Paths.Login,
			Logout:  c.Paths.Logout,
			Profile: c.Paths.Profile,
			Status:  c.Paths.Status,
		}
		p.adminRoleID = c.AdminRoleID
		return nil
	}
}

func NewProvider(options ...ProviderOption) (*Provider, error) {
	p := &Provider{paths: DefaultPaths(), adminRoleID: 1}
	for _, opt := range options {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}
	if p.client == nil {
		return nil, fmt.Errorf("the API client is not initialized")
	}
	if p.store == nil {
		p.store = p.client.TokenStore()
	}
	return p, nil
}

func (p *Provider) Client() *apiclient.Client {
	return p.client
}

// Login exchanges the credentials for a token pair and keeps it in the store
func (p *Provider) Login(ctx context.Context, email string, password string) (Identity, error) {
	resp, err := p.client.Post(ctx, p.paths.Login, map[string]string{"email": email, "password": password})
	if err != nil {
		return Identity{}, err
	}
	tokens, err := apiclient.ParseTokenPair(resp.Body)
	if err != nil {
		slog.Error("AUTHENTICATION", "message", "invalid login response", "error", err)
		return Identity{}, fmt.Errorf("%w: %s", ErrInvalidLoginResponse, err.Error())
	}
	err = p.store.Set(ctx, tokens)
	if err != nil {
		return Identity{}, err
	}
	identity, err := decodeIdentity(tokens.Access)
	if err != nil {
		slog.Info("AUTHENTICATION", "message", "the access token is not a readable JWT", "error", err)
		return Identity{Email: email, FullName: email}, nil
	}
	return identity, nil
}

// Logout tells the backend to end the session. The local tokens are cleared whatever the outcome.
func (p *Provider) Logout(ctx context.Context) error {
	var logoutErr error
	if _, ok := p.store.Get(ctx); ok {
		_, logoutErr = p.client.Post(ctx, p.paths.Logout, nil)
	} else {
		logoutErr = ErrNotLoggedIn
	}
	clearErr := p.store.Clear(ctx)
	return errors.Join(logoutErr, clearErr)
}

// Identity decodes the stored access token, false means there is no readable token
func (p *Provider) Identity(ctx context.Context) (Identity, bool) {
	tokens, ok := p.store.Get(ctx)
	if !ok {
		return Identity{}, false
	}
	identity, err := decodeIdentity(tokens.Access)
	if err != nil {
		return Identity{}, false
	}
	return identity, true
}

// CurrentUser fetches the profile from the backend. Only display fields the profile lacks
// are taken from the token.
func (p *Provider) CurrentUser(ctx context.Context) (User, error) {
	resp, err := p.client.Get(ctx, p.paths.Profile)
	if err != nil {
		return User{}, err
	}
	var profile profilePayload
	err = resp.DecodeData(&profile)
	if err != nil {
		return User{}, err
	}
	user := profile.user()
	if identity, ok := p.Identity(ctx); ok {
		if user.FullName == "" {
			user.FullName = identity.FullName
		}
		if user.Email == "" {
			user.Email = identity.Email
		}
	}
	return user, nil
}

func (p *Provider) IsAdmin(user User) bool {
	return user.Verified && user.RoleID == p.adminRoleID
}

// RequireAdmin returns the current user when the backend confirms the admin role
func (p *Provider) RequireAdmin(ctx context.Context) (User, error) {
	user, err := p.CurrentUser(ctx)
	if err != nil {
		return User{}, err
	}
	if !p.IsAdmin(user) {
		return User{}, gwerrors.ErrForbidden
	}
	return user, nil
}

func (p *Provider) Status(ctx context.Context) (*apiclient.Response, error) {
	return p.client.Get(ctx, p.paths.Status)
}
