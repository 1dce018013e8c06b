// Package endpoint locates the comment service from the page that embedded
// the widget.
//
// Detection, first match wins:
//
//  1. Development loader: a script whose src ends in require.js and whose
//     data-main ends in /js/embed. The endpoint is data-main without its
//     trailing "/js/main"-sized suffix.
//  2. The last script on the page carries data-prefix: used verbatim.
//  3. The last script's src, minus the page origin and the trailing
//     "/js/embed.min.js".
//
// A single trailing slash is dropped and relative results are made absolute
// against the page.
package endpoint

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/kapu/isso-client-go/internal/constants"
	"github.com/kapu/isso-client-go/pkg/document"
	"github.com/kapu/isso-client-go/pkg/errors"
	"go.uber.org/zap"
)

// Endpoint is the absolute base URL of the comment service. It never ends
// with a slash.
type Endpoint struct {
	base string
}

// Parse validates an explicitly configured endpoint.
func Parse(raw string) (Endpoint, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Endpoint{}, errors.NewValidationError("invalid endpoint", "endpoint", raw).WithCause(err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Endpoint{}, errors.NewValidationError("endpoint must be absolute", "endpoint", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return Endpoint{base: strings.TrimSuffix(u.String(), "/")}, nil
}

func (e Endpoint) String() string {
	return e.base
}

func (e Endpoint) IsZero() bool {
	return e.base == ""
}

// URL joins the endpoint with a service path such as "/id/3".
func (e Endpoint) URL(path string) string {
	return e.base + path
}

// Route returns the endpoint-relative path of rawURL with any query removed.
func (e Endpoint) Route(rawURL string) string {
	rel := strings.TrimPrefix(rawURL, e.base)
	if i := strings.IndexByte(rel, '?'); i >= 0 {
		rel = rel[:i]
	}
	return rel
}

type Resolver struct {
	loader *regexp.Regexp
	entry  *regexp.Regexp
	logger *zap.Logger
}

func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		loader: regexp.MustCompile(constants.AssetConfig.DevLoaderPattern),
		entry:  regexp.MustCompile(constants.AssetConfig.DevEntryPattern),
		logger: logger,
	}
}

// Resolve derives the endpoint from doc. It fails when the page gives nothing
// to work with instead of producing a URL every request would trip over.
func (r *Resolver) Resolve(doc *document.Document) (Endpoint, error) {
	if doc == nil || doc.URL == nil {
		return Endpoint{}, errors.NewResolveError("no hosting document", "")
	}
	pageURL := doc.URL.String()

	raw, source, err := r.detect(doc)
	if err != nil {
		return Endpoint{}, err
	}
	raw = strings.TrimSuffix(raw, "/")

	var abs string
	if raw == "" {
		abs = doc.Origin()
	} else {
		abs, err = doc.Absolute(raw)
		if err != nil {
			return Endpoint{}, errors.NewResolveError("endpoint is not a valid URL", pageURL)
		}
	}

	ep := Endpoint{base: strings.TrimSuffix(abs, "/")}
	r.logger.Info("Comment endpoint resolved",
		zap.String("endpoint", ep.String()),
		zap.String("source", source),
		zap.String("page", pageURL))

	return ep, nil
}

func (r *Resolver) detect(doc *document.Document) (raw, source string, err error) {
	pageURL := doc.URL.String()

	for _, script := range doc.Scripts {
		if script.Src == "" || script.Main == "" {
			continue
		}
		src, err := doc.Absolute(script.Src)
		if err != nil {
			continue
		}
		if r.loader.MatchString(src) && r.entry.MatchString(script.Main) {
			return chop(script.Main, constants.AssetConfig.DevMainSuffix), "loader", nil
		}
	}

	script, ok := doc.Last()
	if !ok {
		return "", "", errors.NewResolveError("page has no script elements", pageURL)
	}

	if script.Prefix != "" {
		return script.Prefix, "prefix", nil
	}

	if script.Src == "" {
		return "", "", errors.NewResolveError("last script has neither data-prefix nor src", pageURL)
	}

	src, err := scriptPath(doc, script.Src)
	if err != nil {
		return "", "", errors.NewResolveError("script src is not a valid URL", pageURL)
	}
	if len(src) < len(constants.AssetConfig.EmbedSuffix) {
		return "", "", errors.NewResolveError("script src is shorter than the embed asset path", pageURL)
	}

	return chop(src, constants.AssetConfig.EmbedSuffix), "src", nil
}

// scriptPath resolves src and strips the page origin when the script is
// served from the same host. Query and fragment are ignored.
func scriptPath(doc *document.Document, src string) (string, error) {
	abs, err := doc.Absolute(src)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(abs)
	if err != nil {
		return "", err
	}
	u.RawQuery = ""
	u.Fragment = ""
	clean := u.String()

	if origin := doc.Origin(); strings.HasPrefix(clean, origin+"/") {
		return clean[len(origin):], nil
	}
	return clean, nil
}

// chop drops len(suffix) trailing bytes without checking their content.
func chop(s, suffix string) string {
	if len(s) <= len(suffix) {
		return ""
	}
	return s[:len(s)-len(suffix)]
}
