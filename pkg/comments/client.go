// Package comments exposes the comment lifecycle operations of the service:
// create, modify, remove, view, fetch, count, like, dislike and remote
// address lookup.
package comments

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kapu/isso-client-go/internal/constants"
	"github.com/kapu/isso-client-go/pkg/dispatch"
	"github.com/kapu/isso-client-go/pkg/endpoint"
	"github.com/kapu/isso-client-go/pkg/errors"
	"go.uber.org/zap"
)

// Requester performs one exchange with the comment service.
type Requester interface {
	Do(ctx context.Context, method, url string, body []byte) (*dispatch.Response, error)
	Endpoint() endpoint.Endpoint
}

type Client struct {
	requester Requester
	endpoint  endpoint.Endpoint
	pageURI   string
	logger    *zap.Logger
}

// NewClient binds the operations to requester. pageURI is the hosting page
// path sent as the thread identifier; it is fixed for the client's lifetime.
func NewClient(requester Requester, pageURI string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		requester: requester,
		endpoint:  requester.Endpoint(),
		pageURI:   pageURI,
		logger:    logger,
	}
}

func (c *Client) Endpoint() endpoint.Endpoint {
	return c.endpoint
}

func (c *Client) Salt() string {
	return constants.Salt
}

func (c *Client) PageURI() string {
	return c.pageURI
}

// Create posts a new comment to the current page's thread.
func (c *Client) Create(ctx context.Context, draft Draft) (*Comment, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return nil, errors.NewClientError("failed to marshal comment", errors.CodeClientError, 0, nil).WithCause(err)
	}

	url := c.endpoint.URL(withQuery("/new", Query(Param{"uri", c.pageURI})))
	resp, err := c.requester.Do(ctx, http.MethodPost, url, body)
	if err != nil {
		c.logger.Error("Failed to create comment", zap.String("uri", c.pageURI), zap.Error(err))
		return nil, err
	}

	return decodeRecord[Comment]("create", resp)
}

func (c *Client) Modify(ctx context.Context, id int64, edit Edit) (*Comment, error) {
	body, err := json.Marshal(edit)
	if err != nil {
		return nil, errors.NewClientError("failed to marshal comment", errors.CodeClientError, 0, nil).WithCause(err)
	}

	url := c.itemURL(id, "")
	resp, err := c.requester.Do(ctx, http.MethodPut, url, body)
	if err != nil {
		c.logger.Error("Failed to modify comment", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	if err := expectOK(resp, url); err != nil {
		return nil, err
	}

	return decodeRecord[Comment]("modify", resp)
}

// Remove deletes a comment. It reports true when the service dropped the
// record entirely and false when it kept a placeholder because of replies.
func (c *Client) Remove(ctx context.Context, id int64) (bool, error) {
	url := c.itemURL(id, "")
	resp, err := c.requester.Do(ctx, http.MethodDelete, url, nil)
	if err != nil {
		c.logger.Error("Failed to remove comment", zap.Int64("id", id), zap.Error(err))
		return false, err
	}

	if resp.Status == http.StatusForbidden {
		c.logger.Warn("Comment removal refused", zap.Int64("id", id))
		return false, errors.NewAuthorizationError(id)
	}
	if err := expectOK(resp, url); err != nil {
		return false, err
	}

	var v any
	if err := json.Unmarshal([]byte(resp.Body), &v); err != nil {
		return false, errors.NewDecodeError("remove", resp.Body, err)
	}
	return v == nil, nil
}

func (c *Client) View(ctx context.Context, id int64, plain bool) (*Comment, error) {
	url := c.itemURL(id, Query(Param{"plain", flag(plain)}))
	resp, err := c.requester.Do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if err := expectOK(resp, url); err != nil {
		return nil, err
	}

	return decodeRecord[Comment]("view", resp)
}

// Fetch lists the current page's thread. A thread the service does not know
// yields an empty list, never an error; only transport failures are returned.
func (c *Client) Fetch(ctx context.Context, plain bool) ([]Comment, error) {
	url := c.endpoint.URL(withQuery("/", Query(
		Param{"uri", c.pageURI},
		Param{"plain", flag(plain)},
	)))

	resp, err := c.requester.Do(ctx, http.MethodGet, url, nil)
	if err != nil {
		var statusErr *errors.StatusError
		if stderrors.As(err, &statusErr) {
			c.logger.Debug("Thread unavailable", zap.String("uri", c.pageURI), zap.Int("status", statusErr.StatusCode))
			return []Comment{}, nil
		}
		return nil, err
	}

	if resp.Status != http.StatusOK {
		return []Comment{}, nil
	}

	list, err := decode[[]Comment]("fetch", resp)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Comment{}
	}
	return list, nil
}

// Count returns the number of comments for the thread at uri.
func (c *Client) Count(ctx context.Context, uri string) (int, error) {
	url := c.endpoint.URL(withQuery("/count", Query(Param{"uri", uri})))
	resp, err := c.requester.Do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	return decode[int]("count", resp)
}

func (c *Client) Like(ctx context.Context, id int64) (*Votes, error) {
	return c.vote(ctx, id, "like")
}

func (c *Client) Dislike(ctx context.Context, id int64) (*Votes, error) {
	return c.vote(ctx, id, "dislike")
}

// RemoteAddr returns the caller's address as the service sees it, verbatim.
func (c *Client) RemoteAddr(ctx context.Context) (string, error) {
	resp, err := c.requester.Do(ctx, http.MethodGet, c.endpoint.URL("/check-ip"), nil)
	if err != nil {
		return "", err
	}
	return resp.Body, nil
}

func (c *Client) vote(ctx context.Context, id int64, kind string) (*Votes, error) {
	url := c.endpoint.URL(fmt.Sprintf("/id/%d/%s", id, kind))
	resp, err := c.requester.Do(ctx, http.MethodPost, url, nil)
	if err != nil {
		c.logger.Error("Failed to vote", zap.Int64("id", id), zap.String("vote", kind), zap.Error(err))
		return nil, err
	}

	return decodeRecord[Votes](kind, resp)
}

func (c *Client) itemURL(id int64, query string) string {
	return c.endpoint.URL(withQuery(fmt.Sprintf("/id/%d", id), query))
}

// expectOK turns statuses the route accepts but that carry no record
// (403, 404) into an error holding the raw body.
func expectOK(resp *dispatch.Response, url string) error {
	if resp.Status >= 200 && resp.Status < 300 {
		return nil
	}
	return errors.NewStatusError(resp.Status, url, resp.Body)
}

func decode[T any](operation string, resp *dispatch.Response) (T, error) {
	var out T
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Body)), &out); err != nil {
		var zero T
		return zero, errors.NewDecodeError(operation, resp.Body, err)
	}
	return out, nil
}

// decodeRecord is decode for operations that must return a record; a JSON
// null body is a decode failure rather than a nil result.
func decodeRecord[T any](operation string, resp *dispatch.Response) (*T, error) {
	out, err := decode[*T](operation, resp)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.NewDecodeError(operation, resp.Body, errEmptyRecord)
	}
	return out, nil
}

var errEmptyRecord = stderrors.New("response carries no record")

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
