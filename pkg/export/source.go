package export

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/formpath/formpath/pkg/errors"
)

// Source fetches the official reference PDF for a form. Fetch is attempted
// exactly once per export: a failed fetch fails the overlay strategy, and the
// synthetic report takes over rather than retrying.
type Source interface {
	Fetch(ctx context.Context, formID string) ([]byte, error)
}

// DirSource serves reference documents from a local directory, expecting one
// <formID>.pdf per form.
type DirSource struct {
	Dir string
}

// Fetch reads the reference PDF for formID from the directory.
func (s *DirSource) Fetch(ctx context.Context, formID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "fetch canceled")
	}
	path := filepath.Join(s.Dir, formID+".pdf")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "reading reference document %s", path)
	}
	return data, nil
}

// HTTPSource fetches reference documents over HTTP from BaseURL/<formID>.pdf.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

func (s *HTTPSource) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// Fetch downloads the reference PDF for formID. A single attempt, no retry.
func (s *HTTPSource) Fetch(ctx context.Context, formID string) ([]byte, error) {
	u, err := url.JoinPath(s.BaseURL, formID+".pdf")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "building reference URL for %s", formID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "building request for %s", u)
	}
	resp, err := s.client().Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "fetching %s", u)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeFetch, "fetching %s: %s", u, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "reading response from %s", u)
	}
	return data, nil
}
