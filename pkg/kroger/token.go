package kroger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	tokenPath = "/connect/oauth2/token"

	// DefaultRefreshMargin is the minimum remaining validity for a held token to be reused.
	DefaultRefreshMargin = 60 * time.Second
)

var (
	ErrMissingCredentials = errors.New("kroger client credentials are not set")
	ErrEmptyAccessToken   = errors.New("token response is missing access_token")
)

// AccessToken is replaced as a unit; it is never partially updated.
type AccessToken struct {
	Value  string
	Expiry time.Time
}

func (t AccessToken) usableAt(now time.Time, margin time.Duration) bool {
	return t.Value != "" && now.Add(margin).Before(t.Expiry)
}

// Exchanger performs one credential exchange.
type Exchanger interface {
	Exchange(ctx context.Context) (AccessToken, error)
}

type ExchangerFunc func(ctx context.Context) (AccessToken, error)

func (f ExchangerFunc) Exchange(ctx context.Context) (AccessToken, error) {
	return f(ctx)
}

// NewClientCredentialsExchanger returns an Exchanger running the OAuth2
// client-credentials grant against {APIBase}/connect/oauth2/token with HTTP Basic auth.
func NewClientCredentialsExchanger(cfg Config, httpClient *http.Client) Exchanger {
	if !cfg.hasCredentials() {
		return ExchangerFunc(func(context.Context) (AccessToken, error) {
			return AccessToken{}, ErrMissingCredentials
		})
	}

	base := strings.TrimRight(strings.TrimSpace(cfg.APIBase), "/")
	if base == "" {
		base = DefaultAPIBase
	}

	var scopes []string
	if scope := strings.TrimSpace(cfg.Scope); scope != "" {
		scopes = []string{scope}
	}

	return &clientCredentialsExchanger{
		conf: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     base + tokenPath,
			Scopes:       scopes,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: httpClient,
		now:        time.Now,
	}
}

type clientCredentialsExchanger struct {
	conf       clientcredentials.Config
	httpClient *http.Client
	now        func() time.Time
}

func (e *clientCredentialsExchanger) Exchange(ctx context.Context) (AccessToken, error) {
	if e.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, e.httpClient)
	}

	tok, err := e.conf.Token(ctx)
	if err != nil {
		return AccessToken{}, fmt.Errorf("client credentials exchange: %w", err)
	}
	if strings.TrimSpace(tok.AccessToken) == "" {
		return AccessToken{}, ErrEmptyAccessToken
	}

	// A response without expires_in is valid for the current call only.
	expiry := tok.Expiry
	if expiry.IsZero() {
		expiry = e.now()
	}

	return AccessToken{Value: tok.AccessToken, Expiry: expiry}, nil
}

// TokenCacheOption customizes TokenCache.
type TokenCacheOption func(*TokenCache)

func WithRefreshMargin(margin time.Duration) TokenCacheOption {
	return func(c *TokenCache) {
		if margin >= 0 {
			c.margin = margin
		}
	}
}

func WithClock(now func() time.Time) TokenCacheOption {
	return func(c *TokenCache) {
		if now != nil {
			c.now = now
		}
	}
}

// TokenCache holds one bearer token and refreshes it lazily on demand.
// Check-then-refresh runs under a single lock, so concurrent callers never
// trigger duplicate exchanges.
type TokenCache struct {
	mu        sync.Mutex
	exchanger Exchanger
	margin    time.Duration
	now       func() time.Time
	token     AccessToken
}

func NewTokenCache(exchanger Exchanger, opts ...TokenCacheOption) *TokenCache {
	c := &TokenCache{
		exchanger: exchanger,
		margin:    DefaultRefreshMargin,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Token returns a bearer token, exchanging credentials first when the held
// token is absent or within the refresh margin of expiry. On exchange failure
// the held token is cleared and ok is false.
func (c *TokenCache) Token(ctx context.Context) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token.usableAt(c.now(), c.margin) {
		return c.token.Value, true
	}

	if c.exchanger == nil {
		c.token = AccessToken{}
		return "", false
	}

	log.Ctx(ctx).Debug().Msg("refreshing kroger access token")
	tok, err := c.exchanger.Exchange(ctx)
	if err != nil {
		c.token = AccessToken{}
		log.Ctx(ctx).Warn().Err(err).Msg("kroger token exchange failed")
		return "", false
	}

	c.token = tok
	log.Ctx(ctx).Debug().Time("expires_at", tok.Expiry).Msg("kroger access token refreshed")
	return tok.Value, true
}

// Current returns a snapshot of the held token without refreshing it.
func (c *TokenCache) Current() AccessToken {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Invalidate drops the held token so the next Token call exchanges again.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = AccessToken{}
}
