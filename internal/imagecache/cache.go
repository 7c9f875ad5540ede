// Package imagecache preloads menu images once per process so item cards
// render without a visible fetch.
package imagecache

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var ErrNoSource = errors.New("no image source provided")

// LoadError reports an image that could not be fetched or decoded.
type LoadError struct {
	URL string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load image: %s: %v", e.URL, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader fetches an image and verifies it can be decoded.
type Loader interface {
	Load(ctx context.Context, url string) error
}

// Cache memoizes successful preloads. Failed loads are not remembered so
// the next attempt retries them.
type Cache struct {
	loader Loader
	group  singleflight.Group

	mu     sync.RWMutex
	cached map[string]struct{}
	// gen counts Clear calls. A load records only if no Clear ran
	// while it was in flight.
	gen uint64
}

// New creates a cache backed by loader
func New(loader Loader) *Cache {
	return &Cache{
		loader: loader,
		cached: make(map[string]struct{}),
	}
}

// Preload fetches url unless it is already cached. Concurrent calls for the
// same url share one load. A caller whose context ends stops waiting, but
// the shared load keeps running for the other callers.
func (c *Cache) Preload(ctx context.Context, url string) error {
	if url == "" {
		return ErrNoSource
	}
	c.mu.RLock()
	_, cached := c.cached[url]
	gen := c.gen
	c.mu.RUnlock()
	if cached {
		return nil
	}

	// Loads started before a Clear are not shared with callers after it.
	key := strconv.FormatUint(gen, 10) + " " + url
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		if err := c.loader.Load(loadCtx, url); err != nil {
			var loadErr *LoadError
			if errors.As(err, &loadErr) {
				return nil, err
			}
			return nil, &LoadError{URL: url, Err: err}
		}

		c.mu.Lock()
		if c.gen == gen {
			c.cached[url] = struct{}{}
		}
		c.mu.Unlock()
		return nil, nil
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PreloadAll preloads every url with bounded concurrency. It is best effort:
// every url is attempted and the failures are returned joined.
func (c *Cache) PreloadAll(ctx context.Context, urls []string) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(8)

	for _, url := range urls {
		url := url
		g.Go(func() error {
			if err := c.Preload(ctx, url); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()
	return errors.Join(errs...)
}

// IsCached reports whether url has been preloaded successfully.
func (c *Cache) IsCached(url string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.cached[url]
	return ok
}

// Clear forgets every cached url. Loads still in flight finish for their
// waiters but are not recorded.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.cached = make(map[string]struct{})
	c.gen++
	c.mu.Unlock()
}

// Len returns the number of cached urls.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cached)
}

// HTTPLoader downloads images over HTTP and checks the header decodes.
type HTTPLoader struct {
	client *http.Client
}

// NewHTTPLoader creates a loader whose requests give up after timeout
func NewHTTPLoader(timeout time.Duration) *HTTPLoader {
	return &HTTPLoader{
		client: &http.Client{Timeout: timeout},
	}
}

// Load implements Loader
func (l *HTTPLoader) Load(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &LoadError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return &LoadError{URL: url, Err: fmt.Errorf("failed to download image: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &LoadError{URL: url, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	if _, _, err := image.DecodeConfig(resp.Body); err != nil {
		return &LoadError{URL: url, Err: fmt.Errorf("failed to decode image: %w", err)}
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
