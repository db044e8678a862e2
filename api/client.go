package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cppla/contentcorner/config"
	"github.com/cppla/contentcorner/session"
	"github.com/cppla/contentcorner/utils"
)

// Client is the typed, authenticated access point for the remote API. Every
// call attaches the session's bearer token; a cleared or expired session
// fails fast with UnauthorizedError before any request is made.
type Client struct {
	ctx    context.Context
	cancel context.CancelFunc

	baseURL string
	sess    *session.Session
	http    *http.Client
	limiter *rate.Limiter
}

// New creates a client from configuration.
func New(cfg config.AppConfig, sess *session.Session) *Client {
	return NewWithContext(context.Background(), cfg, sess)
}

// NewWithContext creates a client whose in-flight requests are cancelled when
// ctx is done or Close is called.
func NewWithContext(ctx context.Context, cfg config.AppConfig, sess *session.Session) *Client {
	cancelCtx, cancel := context.WithCancel(ctx)

	dialer := &net.Dialer{
		Timeout: time.Duration(cfg.ConnectTimeoutSec) * time.Second,
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: time.Duration(cfg.ConnectTimeoutSec) * time.Second,
	}

	return &Client{
		ctx:     cancelCtx,
		cancel:  cancel,
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		sess:    sess,
		http: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.HTTPTimeoutSec) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RateBurst),
	}
}

// Close cancels all in-flight requests.
func (c *Client) Close() {
	c.cancel()
}

// Session returns the session the client attaches to its calls.
func (c *Client) Session() *session.Session {
	return c.sess
}

// Callback receives the result of an operation run in the background.
type Callback[R any] interface {
	Result(result R, err error)
}

type simpleCallback[R any] struct {
	callback func(result R, err error)
}

// NewCallback wraps a function as a Callback.
func NewCallback[R any](callback func(result R, err error)) Callback[R] {
	return &simpleCallback[R]{callback: callback}
}

// NewNoopCallback discards the result.
func NewNoopCallback[R any]() Callback[R] {
	return &simpleCallback[R]{callback: func(result R, err error) {}}
}

func (s *simpleCallback[R]) Result(result R, err error) {
	s.callback(result, err)
}

// CallbackResult carries a settled background result.
type CallbackResult[R any] struct {
	Result R
	Error  error
}

// NewBlockingCallback returns a callback and a channel delivering its result.
func NewBlockingCallback[R any]() (Callback[R], chan CallbackResult[R]) {
	ch := make(chan CallbackResult[R], 1)
	cb := NewCallback[R](func(result R, err error) {
		ch <- CallbackResult[R]{Result: result, Error: err}
	})
	return cb, ch
}

// Go runs fn on its own goroutine and delivers the settled result to callback.
func Go[R any](ctx context.Context, fn func(context.Context) (R, error), callback Callback[R]) {
	go func() {
		result, err := fn(ctx)
		callback.Result(result, err)
	}()
}

// envelope is the uniform response body: {success?, data, message?}.
type envelope[T any] struct {
	Success *bool  `json:"success,omitempty"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// errorBody is the structured message carried by non-2xx responses.
type errorBody struct {
	Message string `json:"message"`
}

// FileAttachment is an optional binary part of a multipart request.
type FileAttachment struct {
	Field  string
	Name   string
	Reader io.Reader
}

func (c *Client) bearer() (string, error) {
	token, ok := c.sess.Token()
	if !ok {
		return "", &UnauthorizedError{Message: "not signed in"}
	}
	return token, nil
}

// getJSON issues an authenticated GET and decodes the envelope's data field.
func getJSON[R any](ctx context.Context, c *Client, path string) (R, error) {
	var out R
	body, err := c.roundTrip(ctx, http.MethodGet, path, nil, "", true)
	if err != nil {
		return out, err
	}
	return decodeEnvelope[R](c.baseURL+path, body)
}

// sendJSON issues an authenticated request with a JSON body and decodes the
// envelope's data field.
func sendJSON[R any](ctx context.Context, c *Client, method, path string, args any) (R, error) {
	var out R
	var payload []byte
	if args != nil {
		var err error
		payload, err = json.Marshal(args)
		if err != nil {
			return out, err
		}
	}
	body, err := c.roundTrip(ctx, method, path, bytes.NewReader(payload), "application/json", true)
	if err != nil {
		return out, err
	}
	return decodeEnvelope[R](c.baseURL+path, body)
}

// sendForm issues an authenticated multipart POST carrying text fields and an
// optional file, then decodes the envelope's data field.
func sendForm[R any](ctx context.Context, c *Client, path string, fields map[string]string, file *FileAttachment) (R, error) {
	var out R
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := form.WriteField(k, v); err != nil {
			return out, err
		}
	}
	if file != nil {
		part, err := form.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return out, err
		}
		if _, err := io.Copy(part, file.Reader); err != nil {
			return out, err
		}
	}
	if err := form.Close(); err != nil {
		return out, err
	}

	body, err := c.roundTrip(ctx, http.MethodPost, path, &buf, form.FormDataContentType(), true)
	if err != nil {
		return out, err
	}
	return decodeEnvelope[R](c.baseURL+path, body)
}

// postJSONRaw issues a request without auth and decodes the body directly,
// for the endpoints that do not use the data envelope (login).
func postJSONRaw[R any](ctx context.Context, c *Client, path string, args any) (R, error) {
	var out R
	payload, err := json.Marshal(args)
	if err != nil {
		return out, err
	}
	body, err := c.roundTrip(ctx, http.MethodPost, path, bytes.NewReader(payload), "application/json", false)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, &NetworkError{URL: c.baseURL + path, Err: err}
	}
	return out, nil
}

// roundTrip sends one request and returns the raw 2xx body. Non-2xx statuses
// and transport failures come back classified per the error taxonomy. A 401
// clears the session so later calls fail fast without a request.
func (c *Client) roundTrip(ctx context.Context, method, path string, body io.Reader, contentType string, auth bool) ([]byte, error) {
	url := c.baseURL + path

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	var token string
	if auth {
		var err error
		token, err = c.bearer()
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(respBody, &eb)
		if resp.StatusCode == http.StatusUnauthorized {
			c.sess.Clear()
		}
		if utils.Sugar != nil {
			utils.Sugar.Debugw("api call failed",
				"method", method, "url", url, "status", resp.StatusCode, "message", eb.Message)
		}
		return nil, classifyStatus(url, resp.StatusCode, strings.TrimSpace(eb.Message))
	}
	if readErr != nil {
		return nil, &NetworkError{URL: url, Err: readErr}
	}
	return respBody, nil
}

func decodeEnvelope[R any](url string, body []byte) (R, error) {
	var env envelope[R]
	if len(bytes.TrimSpace(body)) == 0 {
		return env.Data, nil
	}
	if err := json.Unmarshal(body, &env); err != nil {
		var empty R
		return empty, &NetworkError{URL: url, Err: fmt.Errorf("malformed response: %w", err)}
	}
	if env.Success != nil && !*env.Success {
		var empty R
		msg := env.Message
		if msg == "" {
			msg = "request rejected"
		}
		return empty, &ValidationError{Message: msg}
	}
	return env.Data, nil
}
