package audit

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/parmanandojha/aiagentsearch/internal/config"
)

// maxBodyBytes caps how much of a page is read into memory. Large enough to
// keep the page-size check meaningful.
const maxBodyBytes = 8 << 20

// Page is one fetched and parsed web page.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Header     http.Header
	Body       []byte
	Doc        *goquery.Document
	LoadTime   time.Duration
}

// Fetcher retrieves business websites with a shared client and user agent.
type Fetcher struct {
	http      *http.Client
	userAgent string
}

// NewFetcher creates a Fetcher from audit settings.
func NewFetcher(cfg config.AuditConfig) *Fetcher {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: timeout,
				}).DialContext,
				TLSHandshakeTimeout: timeout,
			},
		},
		userAgent: cfg.UserAgent,
	}
}

// Probe checks that a URL is well-formed and reachable. HEAD first, with a
// GET fallback for servers that reject HEAD. Any status under 400 counts.
func (f *Fetcher) Probe(ctx context.Context, rawURL string) bool {
	if !validURL(rawURL) {
		return false
	}
	for _, method := range []string{http.MethodHead, http.MethodGet} {
		req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
		if err != nil {
			return false
		}
		req.Header.Set("User-Agent", f.userAgent)

		resp, err := f.http.Do(req)
		if err != nil {
			continue
		}
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck
		resp.Body.Close()                                    //nolint:errcheck

		if resp.StatusCode < 400 {
			return true
		}
		if method == http.MethodHead && resp.StatusCode == http.StatusMethodNotAllowed {
			continue
		}
		return false
	}
	return false
}

// Get fetches and parses a page.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "audit: create request")
	}
	req.Header.Set("User-Agent", f.userAgent)

	start := time.Now()
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "audit: fetch %s", rawURL)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	loadTime := time.Since(start)
	if err != nil {
		return nil, eris.Wrapf(err, "audit: read %s", rawURL)
	}
	if resp.StatusCode >= 400 {
		return nil, eris.Errorf("audit: fetch %s: status %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrapf(err, "audit: parse %s", rawURL)
	}

	return &Page{
		URL:        rawURL,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Doc:        doc,
		LoadTime:   loadTime,
	}, nil
}

// Head issues a bare HEAD request; used for sampling internal links.
func (f *Fetcher) Head(ctx context.Context, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return 0, eris.Wrap(err, "audit: create head request")
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.http.Do(req)
	if err != nil {
		return 0, eris.Wrapf(err, "audit: head %s", rawURL)
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck
	resp.Body.Close()                                    //nolint:errcheck
	return resp.StatusCode, nil
}

func validURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
