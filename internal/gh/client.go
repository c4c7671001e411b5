package gh

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/google/go-github/v47/github"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"
)

const (
	perPage = 100
	// Files above this size are skipped; the content endpoint inlines
	// base64 only up to 1 MiB anyway.
	maxFileSize = 1 << 20
)

// ErrRateLimited signals that the search index refused the request due
// to rate limiting, as distinct from "no more results".
var ErrRateLimited = errors.New("github: rate limited")

// File is one search hit: enough provenance to fetch and attribute the
// content.
type File struct {
	ID         string
	Owner      string
	Repo       string
	FullName   string
	Path       string
	HTMLURL    string
	Size       int
	RepoPushed time.Time
}

// Budget reports remaining API allowances for the search and core
// endpoints.
type Budget struct {
	SearchRemaining int
	CoreRemaining   int
	SearchReset     time.Time
	CoreReset       time.Time
}

// Ok reports whether enough allowance remains to keep scanning: a few
// search calls to find files plus core calls to fetch their contents.
func (b Budget) Ok() bool {
	return b.SearchRemaining >= 5 && b.CoreRemaining >= 20
}

// Client wraps the GitHub code-search and contents APIs.
type Client struct {
	gh  *github.Client
	log hclog.Logger
}

// NewClient builds a client authenticated with token. An empty token is
// a configuration failure for the pipeline, but the client itself
// allows it for tests.
func NewClient(ctx context.Context, token string, log hclog.Logger) *Client {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(ctx, ts)
	}
	return &Client{gh: github.NewClient(hc), log: log}
}

// NewClientFrom wraps an existing go-github client; used by tests to
// point at an httptest server.
func NewClientFrom(gc *github.Client, log hclog.Logger) *Client {
	return &Client{gh: gc, log: log}
}

// SearchPage runs one page of a code-search query, sorted by index
// recency. The second return value is true when this page was short,
// meaning the query is exhausted and pagination should stop; that is
// not an error condition.
func (c *Client) SearchPage(ctx context.Context, query string, page int) ([]File, bool, error) {
	opts := &github.SearchOptions{
		Sort:  "indexed",
		Order: "desc",
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	}
	res, resp, err := c.gh.Search.Code(ctx, query, opts)
	if err != nil {
		if isRateLimit(err) {
			return nil, false, ErrRateLimited
		}
		// 422 means the query matched too much or is unsupported;
		// treat it as exhausted, not fatal.
		if resp != nil && resp.StatusCode == http.StatusUnprocessableEntity {
			c.log.Debug("query rejected by search index", "query", query)
			return nil, true, nil
		}
		return nil, false, fmt.Errorf("search %q page %d: %w", query, page, err)
	}

	files := make([]File, 0, len(res.CodeResults))
	for _, item := range res.CodeResults {
		repo := item.GetRepository()
		f := File{
			Owner:      repo.GetOwner().GetLogin(),
			Repo:       repo.GetName(),
			FullName:   repo.GetFullName(),
			Path:       item.GetPath(),
			HTMLURL:    item.GetHTMLURL(),
			RepoPushed: repo.GetUpdatedAt().Time,
		}
		f.ID = f.HTMLURL
		if f.ID == "" {
			f.ID = f.FullName + "/" + f.Path
		}
		files = append(files, f)
	}
	exhausted := len(files) < perPage
	return files, exhausted, nil
}

// Search runs a query across up to maxPages pages and returns all hits
// sorted most-recently-updated first, so the freshest files are
// processed before any interruption.
func (c *Client) Search(ctx context.Context, query string, maxPages int) ([]File, error) {
	var all []File
	for page := 1; page <= maxPages; page++ {
		files, exhausted, err := c.SearchPage(ctx, query, page)
		if err != nil {
			return all, err
		}
		all = append(all, files...)
		if exhausted {
			break
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].RepoPushed.After(all[j].RepoPushed)
	})
	return all, nil
}

// FileContent fetches and decodes the raw content of a search hit.
// Oversized files return empty content without error.
func (c *Client) FileContent(ctx context.Context, f File) (string, error) {
	if f.Size > maxFileSize {
		c.log.Debug("skipping oversized file", "file", f.Path, "size", f.Size)
		return "", nil
	}
	fc, _, resp, err := c.gh.Repositories.GetContents(ctx, f.Owner, f.Repo, f.Path, nil)
	if err != nil {
		if isRateLimit(err) {
			return "", ErrRateLimited
		}
		if resp != nil && (resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden) {
			c.log.Debug("file not fetchable", "file", f.Path, "status", resp.StatusCode)
			return "", nil
		}
		return "", fmt.Errorf("contents %s/%s: %w", f.FullName, f.Path, err)
	}
	if fc == nil {
		return "", nil
	}
	content, err := fc.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode %s/%s: %w", f.FullName, f.Path, err)
	}
	return content, nil
}

// RateBudget queries /rate_limit so the pipeline can stop before
// exhausting its allowance. Errors are non-fatal for callers; they
// should assume the budget is fine when the check itself fails.
func (c *Client) RateBudget(ctx context.Context) (Budget, error) {
	limits, _, err := c.gh.RateLimits(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("rate limits: %w", err)
	}
	var b Budget
	if s := limits.GetSearch(); s != nil {
		b.SearchRemaining = s.Remaining
		b.SearchReset = s.Reset.Time
	}
	if core := limits.GetCore(); core != nil {
		b.CoreRemaining = core.Remaining
		b.CoreReset = core.Reset.Time
	}
	return b, nil
}

func isRateLimit(err error) bool {
	var rl *github.RateLimitError
	var abuse *github.AbuseRateLimitError
	return errors.As(err, &rl) || errors.As(err, &abuse)
}
