// Package document models the page a comment widget was embedded in: its URL
// and the script elements it carries, in document order.
package document

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/isso-client-go/internal/constants"
	"github.com/kapu/isso-client-go/pkg/errors"
	"go.uber.org/zap"
)

// Script is one <script> element. Values are the raw attribute text.
type Script struct {
	Src    string
	Main   string // data-main
	Prefix string // data-prefix
}

// Document is the hosting page as seen by the client at load time.
type Document struct {
	URL     *url.URL
	Scripts []Script
}

// New builds a document from a page URL and an explicit script list.
func New(pageURL string, scripts ...Script) (*Document, error) {
	u, err := parsePageURL(pageURL)
	if err != nil {
		return nil, err
	}
	return &Document{URL: u, Scripts: scripts}, nil
}

// Parse reads HTML from r and collects its script elements.
func Parse(pageURL string, r io.Reader) (*Document, error) {
	u, err := parsePageURL(pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("HTML parse failed: %w", err)
	}

	scripts := make([]Script, 0)
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		scripts = append(scripts, Script{
			Src:    strings.TrimSpace(sel.AttrOr("src", "")),
			Main:   strings.TrimSpace(sel.AttrOr(constants.AssetConfig.EntryAttribute, "")),
			Prefix: strings.TrimSpace(sel.AttrOr(constants.AssetConfig.PrefixAttribute, "")),
		})
	})

	return &Document{URL: u, Scripts: scripts}, nil
}

// Fetch downloads the page at pageURL and parses it.
func Fetch(ctx context.Context, httpClient *http.Client, pageURL string, logger *zap.Logger) (*Document, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.HTTPConfig.PageTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constants.HTTPConfig.UserAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := Parse(pageURL, io.LimitReader(resp.Body, constants.HTTPConfig.MaxPageBytes))
	if err != nil {
		return nil, err
	}

	logger.Debug("Hosting page loaded",
		zap.String("url", pageURL),
		zap.Int("scripts", len(doc.Scripts)))

	return doc, nil
}

// Origin returns scheme://host[:port] of the page.
func (d *Document) Origin() string {
	return d.URL.Scheme + "://" + d.URL.Host
}

// Path returns the page path, "/" when empty.
func (d *Document) Path() string {
	if d.URL.Path == "" {
		return "/"
	}
	return d.URL.Path
}

// Absolute resolves ref against the page URL the way a browser does for src.
func (d *Document) Absolute(ref string) (string, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return d.URL.ResolveReference(r).String(), nil
}

// Last returns the last script in document order.
func (d *Document) Last() (Script, bool) {
	if len(d.Scripts) == 0 {
		return Script{}, false
	}
	return d.Scripts[len(d.Scripts)-1], true
}

func parsePageURL(pageURL string) (*url.URL, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, errors.NewValidationError("invalid page URL", "page_url", pageURL).WithCause(err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.NewValidationError("page URL must be absolute", "page_url", pageURL)
	}
	return u, nil
}
