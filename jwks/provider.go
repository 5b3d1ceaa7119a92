package jwks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrFetchFailed is returned when the key set cannot be retrieved or decoded
	ErrFetchFailed = errors.New("failed to fetch JWKS")

	// ErrUnknownKey is returned when no published key matches the requested kid
	ErrUnknownKey = errors.New("signing key not found in JWKS")

	// ErrMissingKeyID is returned when the caller has no kid to look up
	ErrMissingKeyID = errors.New("missing key id")
)

// maxDocumentSize bounds the key-set response body.
const maxDocumentSize = 1 << 20

// KeyProvider resolves a key id to public key material.
type KeyProvider interface {
	Resolve(ctx context.Context, kid string) (*jose.JSONWebKey, error)
}

// Config holds configuration for Provider
type Config struct {
	URL                string
	Timeout            time.Duration
	MinRefreshInterval time.Duration
	HTTPClient         *http.Client // optional, Timeout is ignored when set
	Cache              Cache        // optional, defaults to a MemoryCache with CacheTTL
	CacheTTL           time.Duration
}

// Provider fetches a remote JSON Web Key Set and resolves keys by kid.
type Provider struct {
	url        string
	httpClient *http.Client
	cache      Cache
	minRefresh time.Duration
	logger     *zap.Logger

	group singleflight.Group

	// guarded by mu; lastFetch is the start of the latest network attempt
	mu        sync.Mutex
	lastFetch time.Time
	last      *jose.JSONWebKeySet
	lastErr   error
	now       func() time.Time
}

// NewProvider creates a key provider for the key set published at cfg.URL
func NewProvider(cfg Config, logger *zap.Logger) *Provider {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.MinRefreshInterval == 0 {
		cfg.MinRefreshInterval = 30 * time.Second
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	cache := cfg.Cache
	if cache == nil {
		cache = NewMemoryCache(1, cfg.CacheTTL)
	}

	return &Provider{
		url:        cfg.URL,
		httpClient: client,
		cache:      cache,
		minRefresh: cfg.MinRefreshInterval,
		logger:     logger,
		now:        time.Now,
	}
}

// URL returns the key-set endpoint this provider reads.
func (p *Provider) URL() string {
	return p.url
}

// Resolve returns the published key whose kid matches. An unknown kid forces
// one refetch (at most once per MinRefreshInterval) so rotated keys are picked
// up without waiting for the cache to expire.
func (p *Provider) Resolve(ctx context.Context, kid string) (*jose.JSONWebKey, error) {
	if kid == "" {
		return nil, ErrMissingKeyID
	}

	set, err := p.keySet(ctx, false)
	if err != nil {
		return nil, err
	}
	if key, ok := lookup(set, kid); ok {
		return key, nil
	}

	if !p.reserveRefresh() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, kid)
	}

	p.logger.Info("unknown kid, refreshing key set",
		zap.String("kid", kid),
		zap.String("url", p.url))

	set, err = p.keySet(ctx, true)
	if err != nil {
		return nil, err
	}
	if key, ok := lookup(set, kid); ok {
		return key, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKey, kid)
}

// KeyIDs lists the key ids currently published by the provider.
func (p *Provider) KeyIDs(ctx context.Context) ([]string, error) {
	set, err := p.keySet(ctx, false)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(set.Keys))
	for _, key := range set.Keys {
		ids = append(ids, key.KeyID)
	}
	return ids, nil
}

// keySet returns the cached document, or fetches it. Concurrent fetches of
// the same URL share one request, and no more than one network attempt is
// made per MinRefreshInterval unless force is set by a reserved refresh.
func (p *Provider) keySet(ctx context.Context, force bool) (*jose.JSONWebKeySet, error) {
	if !force {
		doc, ok, err := p.cache.Get(ctx, p.url)
		switch {
		case err != nil:
			p.logger.Warn("key set cache read failed", zap.String("url", p.url), zap.Error(err))
		case ok:
			set, err := p.parseKeySet(doc)
			if err == nil {
				return set, nil
			}
			p.logger.Warn("discarding unparsable cached key set", zap.String("url", p.url), zap.Error(err))
		}
	}

	v, err, _ := p.group.Do(p.url, func() (interface{}, error) {
		return p.refresh(ctx, force)
	})
	if err != nil {
		return nil, err
	}
	return v.(*jose.JSONWebKeySet), nil
}

func (p *Provider) refresh(ctx context.Context, force bool) (*jose.JSONWebKeySet, error) {
	p.mu.Lock()
	if !force && p.recentLocked() && (p.last != nil || p.lastErr != nil) {
		set, err := p.last, p.lastErr
		p.mu.Unlock()
		if err != nil {
			return nil, err
		}
		return set, nil
	}
	prev := p.lastFetch
	p.lastFetch = p.now()
	p.mu.Unlock()

	set, doc, err := p.fetchKeySet(ctx)

	p.mu.Lock()
	switch {
	case err != nil && ctx.Err() != nil:
		// a caller giving up says nothing about the provider
		p.lastFetch = prev
	case err != nil:
		p.lastErr = err
	default:
		p.last, p.lastErr = set, nil
	}
	p.mu.Unlock()

	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, p.url, doc); err != nil {
		p.logger.Warn("key set cache write failed", zap.String("url", p.url), zap.Error(err))
	}

	p.logger.Debug("key set fetched",
		zap.String("url", p.url),
		zap.Int("keys", len(set.Keys)))

	return set, nil
}

func (p *Provider) fetchKeySet(ctx context.Context) (*jose.JSONWebKeySet, []byte, error) {
	doc, err := p.fetch(ctx)
	if err != nil {
		return nil, nil, err
	}
	set, err := p.parseKeySet(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return set, doc, nil
}

func (p *Provider) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrFetchFailed, resp.StatusCode)
	}

	doc, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return doc, nil
}

// reserveRefresh claims the forced-refetch slot. Only one caller per
// MinRefreshInterval gets it.
func (p *Provider) reserveRefresh() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.recentLocked() {
		return false
	}
	p.lastFetch = p.now()
	return true
}

func (p *Provider) recentLocked() bool {
	return !p.lastFetch.IsZero() && p.now().Sub(p.lastFetch) < p.minRefresh
}

// parseKeySet decodes a JWKS document entry by entry; keys go-jose cannot
// read are skipped so one bad entry does not hide the others.
func (p *Provider) parseKeySet(doc []byte) (*jose.JSONWebKeySet, error) {
	var raw struct {
		Keys []json.RawMessage `json:"keys"`
	}
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode JWKS: %w", err)
	}

	set := &jose.JSONWebKeySet{Keys: make([]jose.JSONWebKey, 0, len(raw.Keys))}
	for i, entry := range raw.Keys {
		var key jose.JSONWebKey
		if err := key.UnmarshalJSON(entry); err != nil {
			p.logger.Warn("skipping unreadable key",
				zap.String("url", p.url),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		set.Keys = append(set.Keys, key)
	}
	return set, nil
}

func lookup(set *jose.JSONWebKeySet, kid string) (*jose.JSONWebKey, bool) {
	keys := set.Key(kid)
	if len(keys) == 0 {
		return nil, false
	}
	key := keys[0]
	return &key, true
}
