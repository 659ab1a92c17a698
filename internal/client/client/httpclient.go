package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/common"
	"github.com/dmitrijs2005/punchkeeper/internal/wire"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 15 * time.Second

// HTTPClient implements Client over the REST API.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) tenantPath(tenantID string, parts ...string) string {
	p := common.APIPrefix + "/tenants/" + url.PathEscape(tenantID)
	for _, s := range parts {
		p += "/" + url.PathEscape(s)
	}
	return p
}

func (c *HTTPClient) userPath(scope models.Scope, resource string) string {
	return c.tenantPath(scope.TenantID, "users", scope.UserID, resource)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var p wire.Ping
	if err := c.do(ctx, http.MethodGet, common.APIPrefix+"/ping", nil, nil, &p); err != nil {
		return err
	}
	if p.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) GetTimeEntries(ctx context.Context, scope models.Scope, from, to string) ([]models.TimeEntry, error) {
	q := url.Values{}
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}
	var out []wire.TimeEntry
	if err := c.do(ctx, http.MethodGet, c.userPath(scope, "time-entries"), q, nil, &out); err != nil {
		return nil, err
	}
	return mapSlice(out, timeEntryFromWire), nil
}

func (c *HTTPClient) SaveTimePunch(ctx context.Context, e models.TimeEntry) (models.TimeEntry, error) {
	var out wire.TimeEntry
	if err := c.do(ctx, http.MethodPost, c.tenantPath(e.TenantID, "time-entries"), nil, timeEntryToWire(e), &out); err != nil {
		return models.TimeEntry{}, err
	}
	return timeEntryFromWire(out), nil
}

func (c *HTTPClient) CreateTimeAdjustmentRequest(ctx context.Context, a models.AdjustmentRequest) (models.AdjustmentRequest, error) {
	var out wire.TimeAdjustment
	if err := c.do(ctx, http.MethodPost, c.tenantPath(a.TenantID, "time-adjustments"), nil, adjustmentToWire(a), &out); err != nil {
		return models.AdjustmentRequest{}, err
	}
	return adjustmentFromWire(out), nil
}

func (c *HTTPClient) GetTimeAdjustmentRequests(ctx context.Context, scope models.Scope) ([]models.AdjustmentRequest, error) {
	var out []wire.TimeAdjustment
	if err := c.do(ctx, http.MethodGet, c.userPath(scope, "time-adjustments"), nil, nil, &out); err != nil {
		return nil, err
	}
	return mapSlice(out, adjustmentFromWire), nil
}

func (c *HTTPClient) GetLeaveRequests(ctx context.Context, scope models.Scope) ([]models.LeaveRequest, error) {
	var out []wire.LeaveRequest
	if err := c.do(ctx, http.MethodGet, c.userPath(scope, "leave-requests"), nil, nil, &out); err != nil {
		return nil, err
	}
	return mapSlice(out, leaveFromWire), nil
}

func (c *HTTPClient) CreateLeaveRequest(ctx context.Context, r models.LeaveRequest) (models.LeaveRequest, error) {
	var out wire.LeaveRequest
	if err := c.do(ctx, http.MethodPost, c.tenantPath(r.TenantID, "leave-requests"), nil, leaveToWire(r), &out); err != nil {
		return models.LeaveRequest{}, err
	}
	return leaveFromWire(out), nil
}

func (c *HTTPClient) UpdateLeaveRequest(ctx context.Context, r models.LeaveRequest) (models.LeaveRequest, error) {
	var out wire.LeaveRequest
	if err := c.do(ctx, http.MethodPut, c.tenantPath(r.TenantID, "leave-requests", r.ID), nil, leaveToWire(r), &out); err != nil {
		return models.LeaveRequest{}, err
	}
	return leaveFromWire(out), nil
}

func (c *HTTPClient) GetLeaveBalances(ctx context.Context, scope models.Scope) ([]models.LeaveBalance, error) {
	var out []wire.LeaveBalance
	if err := c.do(ctx, http.MethodGet, c.userPath(scope, "leave-balances"), nil, nil, &out); err != nil {
		return nil, err
	}
	return mapSlice(out, balanceFromWire), nil
}

func (c *HTTPClient) GetExpenseClaims(ctx context.Context, scope models.Scope) ([]models.ExpenseClaim, error) {
	var out []wire.ExpenseClaim
	if err := c.do(ctx, http.MethodGet, c.userPath(scope, "expense-claims"), nil, nil, &out); err != nil {
		return nil, err
	}
	return mapSlice(out, expenseFromWire), nil
}

func (c *HTTPClient) CreateExpenseClaim(ctx context.Context, e models.ExpenseClaim) (models.ExpenseClaim, error) {
	var out wire.ExpenseClaim
	if err := c.do(ctx, http.MethodPost, c.tenantPath(e.TenantID, "expense-claims"), nil, expenseToWire(e), &out); err != nil {
		return models.ExpenseClaim{}, err
	}
	return expenseFromWire(out), nil
}

func (c *HTTPClient) UpdateExpenseClaim(ctx context.Context, e models.ExpenseClaim) (models.ExpenseClaim, error) {
	var out wire.ExpenseClaim
	if err := c.do(ctx, http.MethodPut, c.tenantPath(e.TenantID, "expense-claims", e.ID), nil, expenseToWire(e), &out); err != nil {
		return models.ExpenseClaim{}, err
	}
	return expenseFromWire(out), nil
}

func (c *HTTPClient) CreateUpload(ctx context.Context, tenantID, kind, contentType string) (models.Upload, error) {
	var out wire.Upload
	req := wire.UploadRequest{Kind: kind, ContentType: contentType}
	if err := c.do(ctx, http.MethodPost, c.tenantPath(tenantID, "uploads"), nil, req, &out); err != nil {
		return models.Upload{}, err
	}
	return uploadFromWire(out), nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	var env wire.Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapError(resp.StatusCode, env.Error)
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

func mapError(status int, detail *wire.ErrorDetail) error {
	var sentinel error
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		sentinel = ErrUnauthorized
	case status == http.StatusNotFound:
		sentinel = ErrNotFound
	case status == http.StatusConflict:
		sentinel = ErrConflict
	case status >= 500, status == http.StatusTooManyRequests, status == http.StatusRequestTimeout:
		sentinel = ErrUnavailable
	default:
		sentinel = ErrRejected
	}
	if detail == nil || detail.Message == "" {
		return fmt.Errorf("%w (status %d)", sentinel, status)
	}
	return &APIError{Status: status, Code: detail.Code, Message: detail.Message, Details: detail.Details, err: sentinel}
}

// APIError carries the server's error body. It unwraps to a sentinel.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
	err     error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v: %s", e.err, e.Message)
}

func (e *APIError) Unwrap() error { return e.err }

// AsAPIError is a shorthand for errors.As.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
