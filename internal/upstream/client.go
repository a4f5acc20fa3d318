package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"oversound/internal/metrics"
	"oversound/pkg/oversound"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

const (
	UserAgent       = "oversound-gateway/1.0"
	RequestIDHeader = "X-Request-ID"

	maxBodySize = 64 << 20
)

// Service names an upstream for logs, metrics and errors.
type Service string

const (
	Session         Service = "session"
	Catalog         Service = "catalog"
	Commerce        Service = "commerce"
	Tracks          Service = "tracks"
	Recommendations Service = "recommendations"
)

// Class selects the timeout applied to a call.
type Class int

const (
	Lookup Class = iota
	Listing
	Write
	Media
)

type Timeouts struct {
	Lookup  time.Duration
	Listing time.Duration
	Write   time.Duration
	Media   time.Duration
}

func (t Timeouts) For(c Class) time.Duration {
	switch c {
	case Listing:
		return t.Listing
	case Write:
		return t.Write
	case Media:
		return t.Media
	}
	return t.Lookup
}

// Call is one logical request against an upstream.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	// Body is encoded as JSON when non-nil.
	Body any
	// Token is forwarded as the session cookie when set.
	Token string
	Class Class
}

type Client struct {
	service  Service
	baseURL  string
	client   *http.Client
	timeouts Timeouts
}

// NewTransport returns the pooled transport shared by every upstream client.
func NewTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
}

func New(service Service, baseURL string, timeouts Timeouts, transport http.RoundTripper) *Client {
	if transport == nil {
		transport = NewTransport()
	}
	return &Client{
		service:  service,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Transport: transport},
		timeouts: timeouts,
	}
}

func (c *Client) Service() Service { return c.service }

// Do performs the call and decodes the JSON response into out. A nil out
// discards the body. Every failure is an *Error.
func (c *Client) Do(ctx context.Context, call Call, out any) error {
	body, err := c.DoRaw(ctx, call)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return c.fail(call, KindMalformed, 0, fmt.Errorf("empty body"))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.fail(call, KindMalformed, 0, fmt.Errorf("decode json: %w", err))
	}
	return nil
}

// DoRaw performs the call and returns the undecoded 2xx body.
func (c *Client) DoRaw(ctx context.Context, call Call) ([]byte, error) {
	if call.Method == "" {
		call.Method = http.MethodGet
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.For(call.Class))
	defer cancel()

	req, err := c.newRequest(ctx, call)
	if err != nil {
		return nil, c.fail(call, KindUnavailable, 0, err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.record(call, KindUnavailable.String(), start)
		slog.Warn("Upstream request failed", "service", c.service, "method", call.Method, "path", call.Path, "error", err)
		return nil, c.fail(call, KindUnavailable, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		c.record(call, KindUnavailable.String(), start)
		return nil, c.fail(call, KindUnavailable, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}

	slog.Debug("Upstream call", "service", c.service, "method", call.Method, "path", call.Path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := KindStatus
		if resp.StatusCode == http.StatusNotFound {
			kind = KindNotFound
		}
		c.record(call, kind.String(), start)
		ue := c.fail(call, kind, resp.StatusCode, nil)
		ue.Message = errorMessage(body, resp.StatusCode)
		if gjson.ValidBytes(body) && gjson.ParseBytes(body).IsObject() {
			ue.Body = body
		}
		return nil, ue
	}

	c.record(call, "ok", start)
	return body, nil
}

func (c *Client) newRequest(ctx context.Context, call Call) (*http.Request, error) {
	target := c.baseURL + call.Path
	if len(call.Query) > 0 {
		target += "?" + call.Query.Encode()
	}

	var reader io.Reader
	if call.Body != nil {
		payload, err := json.Marshal(call.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if call.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if call.Token != "" {
		req.Header.Set("Cookie", oversound.AuthCookie+"="+call.Token)
	}
	if id := RequestID(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}
	return req, nil
}

func (c *Client) fail(call Call, kind Kind, status int, err error) *Error {
	return &Error{
		Service: c.service,
		Method:  call.Method,
		Path:    call.Path,
		Status:  status,
		Kind:    kind,
		Err:     err,
	}
}

func (c *Client) record(call Call, outcome string, start time.Time) {
	metrics.RecordUpstreamCall(string(c.service), call.Method, outcome, time.Since(start))
}

// errorMessage pulls a human readable message out of an error payload.
func errorMessage(body []byte, status int) string {
	if gjson.ValidBytes(body) {
		for _, key := range []string{"error", "detail", "message"} {
			if r := gjson.GetBytes(body, key); r.Exists() && r.String() != "" {
				return r.String()
			}
		}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" || len(msg) > 200 {
		return http.StatusText(status)
	}
	return msg
}

type requestIDKey struct{}

// WithRequestID tags ctx so outgoing calls carry the inbound request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
