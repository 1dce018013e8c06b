package document

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kapu/isso-client-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const blogPage = `<!doctype html>
<html>
<head>
  <script src="/static/app.js"></script>
</head>
<body>
  <section id="isso-thread"></section>
  <script data-prefix="/comments/" src="https://cdn.example.org/isso/js/embed.min.js"></script>
</body>
</html>`

func TestParseCollectsScriptsInOrder(t *testing.T) {
	doc, err := Parse("https://blog.example.org/posts/hello/", strings.NewReader(blogPage))
	require.NoError(t, err)

	require.Len(t, doc.Scripts, 2)
	assert.Equal(t, "/static/app.js", doc.Scripts[0].Src)
	assert.Equal(t, "/comments/", doc.Scripts[1].Prefix)

	last, ok := doc.Last()
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.org/isso/js/embed.min.js", last.Src)

	assert.Equal(t, "https://blog.example.org", doc.Origin())
	assert.Equal(t, "/posts/hello/", doc.Path())
}

func TestNewRejectsRelativePageURL(t *testing.T) {
	_, err := New("/posts/hello")
	require.Error(t, err)
}

func TestNewRejectsMalformedPageURL(t *testing.T) {
	_, err := New("http://%zz/posts/")

	var validationErr *errors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "page_url", validationErr.Field)
	assert.NotNil(t, validationErr.Cause)
}

func TestAbsoluteResolvesAgainstPage(t *testing.T) {
	doc, err := New("http://localhost:8080/a/b.html")
	require.NoError(t, err)

	abs, err := doc.Absolute("../js/embed.min.js")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/js/embed.min.js", abs)
}

func TestEmptyDocumentHasNoLastScript(t *testing.T) {
	doc, err := New("http://localhost")
	require.NoError(t, err)

	_, ok := doc.Last()
	assert.False(t, ok)
	assert.Equal(t, "/", doc.Path())
}

func TestFetchLoadsLivePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/posts/hello/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(blogPage))
	}))
	defer srv.Close()

	doc, err := Fetch(context.Background(), srv.Client(), srv.URL+"/posts/hello/", zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, doc.Scripts, 2)

	_, err = Fetch(context.Background(), srv.Client(), srv.URL+"/missing", nil)
	require.Error(t, err)
}
