package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kapu/isso-client-go/pkg/comments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/isso/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/isso/":
			fmt.Fprint(w, `[{"id":1,"text":"first","mode":1,"author":"kapu","likes":2,"created":1700000000}]`)
		case "/isso/count":
			fmt.Fprint(w, "1")
		case "/isso/check-ip":
			fmt.Fprint(w, "127.0.0.1")
		case "/isso/id/1":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	flagJSON = false
	flagMetricsOut = ""
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestThreadCommand(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	srv := newService(t)

	out, err := run(t, "thread", "--page", "https://blog.example.org/posts/1/", "--endpoint", srv.URL+"/isso")
	require.NoError(t, err)
	assert.Contains(t, out, "/posts/1/ (1 comments)")
	assert.Contains(t, out, "#1 kapu")
	assert.Contains(t, out, "  first")
}

func TestIPCommandJSON(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	srv := newService(t)

	out, err := run(t, "ip", "--json", "--page", "https://blog.example.org/", "--endpoint", srv.URL+"/isso")
	require.NoError(t, err)
	assert.Equal(t, `"127.0.0.1"`, strings.TrimSpace(out))
}

func TestDeleteCommandReportsAuthorization(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	srv := newService(t)

	_, err := run(t, "delete", "1", "--page", "https://blog.example.org/", "--endpoint", srv.URL+"/isso")
	require.Error(t, err)
	assert.Equal(t, "Not authorized to remove this comment!", err.Error())
}

func TestMetricsOutWritesTextfile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	srv := newService(t)
	path := filepath.Join(t.TempDir(), "isso.prom")

	_, err := run(t, "count", "--page", "https://blog.example.org/", "--endpoint", srv.URL+"/isso", "--metrics-out", path)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `isso_client_requests_total{method="GET",outcome="resolved",rule="^/count$",status="200"} 1`)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"0", "-1", "abc", ""} {
		_, err := parseID(raw)
		assert.Error(t, err, raw)
	}
}

func TestPrintComment(t *testing.T) {
	author := "kapu"
	parent := int64(3)
	modified := float64(time.Now().Add(-time.Hour).Unix())

	var buf bytes.Buffer
	printComment(&buf, &comments.Comment{
		ID:       7,
		Parent:   &parent,
		Author:   &author,
		Text:     "line one\nline two",
		Mode:     comments.ModePending,
		Likes:    1,
		Created:  float64(time.Now().Add(-2 * time.Hour).Unix()),
		Modified: &modified,
	}, 0)

	out := buf.String()
	assert.Contains(t, out, "#7 kapu, 2 hours ago (reply to #3), edited 1 hour ago [pending]")
	assert.Contains(t, out, "  line one\n  line two\n")
	assert.Contains(t, out, "+1 / -0")

	buf.Reset()
	printComment(&buf, &comments.Comment{ID: 8, Text: "a rather long\ncomment body"}, 8)
	assert.Contains(t, buf.String(), "  a rather...\n")
}
