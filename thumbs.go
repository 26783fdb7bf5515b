package stipple

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"

	"gonum.org/v1/gonum/spatial/r3"

	// Thumbnail servers deliver JPEG; PNG is accepted for custom backends.
	_ "image/jpeg"
	_ "image/png"
)

// ErrShortID is returned when a feature identifier is too short to strip the
// group-key suffix from. Such identifiers are rejected at load time; this is
// the matching error for URL construction from unvalidated input.
var ErrShortID = errors.New("stipple: identifier shorter than group-key suffix")

// Backend selects the thumbnail server's path template.
type Backend uint8

const (
	// BackendThumbs uses {base}/thumbnails/i_{group}/i_{id}.jpg.
	BackendThumbs Backend = iota
	// BackendIIIF uses {base}/{group}.jp2/full/256,/0/default.jpg.
	BackendIIIF
)

// GroupKey returns the identifier with its last two runes removed, the
// prefix thumbnail servers group images under.
func GroupKey(id string) (string, error) {
	runes := []rune(id)
	if len(runes) < groupSuffixLen {
		return "", fmt.Errorf("%w: %q", ErrShortID, id)
	}
	return string(runes[:len(runes)-groupSuffixLen]), nil
}

// ThumbnailURL builds the fetch URL for a feature identifier against the
// given backend. Pure function of (backend, base, id).
func ThumbnailURL(backend Backend, base, id string) (string, error) {
	group, err := GroupKey(id)
	if err != nil {
		return "", err
	}
	switch backend {
	case BackendIIIF:
		return fmt.Sprintf("%s/%s.jp2/full/256,/0/default.jpg", base, group), nil
	default:
		return fmt.Sprintf("%s/thumbnails/i_%s/i_%s.jpg", base, group, id), nil
	}
}

// Fetcher retrieves the raw bytes of a URL. The default implementation uses
// net/http; tests inject fakes to exercise the async pipeline without a
// network.
type Fetcher interface {
	Fetch(url string) ([]byte, error)
}

type httpFetcher struct {
	client *http.Client
}

// Fetch issues a plain GET. No timeout is set: a hung transfer simply never
// completes and its request stays pending, matching the no-cancellation
// contract of the fetch pipeline.
func (f httpFetcher) Fetch(url string) ([]byte, error) {
	resp, err := f.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// FetchRequest describes one asynchronous thumbnail fetch. The request rides
// along with its completion so the staleness check at apply time is a pure
// comparison against the owner's current selection, never a closure capture.
type FetchRequest struct {
	ID     string
	URL    string
	Target r3.Vec
	// Owner is the interactor the fetch was issued for, or nil for a
	// background preview not tied to any interactor.
	Owner *Interactor
}

// Completion is a successfully fetched and decoded thumbnail.
type Completion struct {
	Request FetchRequest
	Image   image.Image
}

type fetchResult struct {
	req FetchRequest
	img image.Image
	err error
}

// fetchKey deduplicates in-flight requests per owner. Background fetches
// (nil owner) dedupe on identifier alone.
type fetchKey struct {
	owner *Interactor
	id    string
}

const completionQueueCap = 64

// ThumbnailCache issues asynchronous thumbnail fetches and queues their
// completions for the simulation tick.
//
// Concurrency contract: each Fetch runs in its own goroutine; fetches for
// different requests proceed independently and may complete in any order.
// A superseded fetch is never cancelled; it runs to completion and its
// result is judged for staleness by the caller when drained. Completed
// images are not memoized; every Fetch is a fresh transfer.
type ThumbnailCache struct {
	fetcher  Fetcher
	results  chan fetchResult
	inflight map[fetchKey]struct{}
}

// NewThumbnailCache creates a cache using the given fetcher, or an
// HTTP fetcher when nil.
func NewThumbnailCache(fetcher Fetcher) *ThumbnailCache {
	if fetcher == nil {
		fetcher = httpFetcher{client: http.DefaultClient}
	}
	return &ThumbnailCache{
		fetcher:  fetcher,
		results:  make(chan fetchResult, completionQueueCap),
		inflight: make(map[fetchKey]struct{}),
	}
}

// Fetch starts an asynchronous fetch for the request. Returns false without
// issuing anything when an identical fetch for the same owner is already in
// flight.
func (c *ThumbnailCache) Fetch(req FetchRequest) bool {
	key := fetchKey{owner: req.Owner, id: req.ID}
	if _, ok := c.inflight[key]; ok {
		return false
	}
	c.inflight[key] = struct{}{}

	go func() {
		data, err := c.fetcher.Fetch(req.URL)
		if err != nil {
			c.results <- fetchResult{req: req, err: err}
			return
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			c.results <- fetchResult{req: req, err: fmt.Errorf("decode: %w", err)}
			return
		}
		c.results <- fetchResult{req: req, img: img}
	}()
	return true
}

// InFlight returns the number of outstanding fetches.
func (c *ThumbnailCache) InFlight() int {
	return len(c.inflight)
}

// Drain delivers all queued completions to apply without blocking. Failed
// fetches are logged with their URL and cause, then dropped with no retry;
// the success path is never invoked for them. Called once per simulation
// tick so completions never race tick logic.
func (c *ThumbnailCache) Drain(apply func(Completion)) {
	for {
		select {
		case res := <-c.results:
			delete(c.inflight, fetchKey{owner: res.req.Owner, id: res.req.ID})
			if res.err != nil {
				log.Printf("stipple: thumbnail fetch %s: %v", res.req.URL, res.err)
				continue
			}
			apply(Completion{Request: res.req, Image: res.img})
		default:
			return
		}
	}
}
