// Package ipo talks to the remote IPO listing/allotment service and
// classifies the per-PAN statuses it returns.
package ipo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m3rciful/ipobot/core/logger"
	"log/slog"
)

var (
	// ErrTimeout marks a lookup that did not complete within the bound.
	ErrTimeout = errors.New("ipo: request timed out")
	// ErrRemote marks a transport failure or an application-level failure
	// reported by the service.
	ErrRemote = errors.New("ipo: remote service error")
)

const (
	listPath  = "/api/ipos/allotedipo-list"
	checkPath = "/api/ipos/check-allotment"

	defaultListTimeout  = 5 * time.Second
	defaultCheckTimeout = 20 * time.Second
)

// IPO is one externally listed item: opaque id plus display name.
type IPO struct {
	ID   string `json:"ipoid"`
	Name string `json:"iponame"`
}

// Entry is the service's per-PAN allotment answer.
type Entry struct {
	PAN         string `json:"pan"`
	Status      string `json:"status"`
	AllottedQty string `json:"allotted_qty"`
	Message     string `json:"message"`
	Success     bool   `json:"success"`
}

// Options configures the Client; zero values pick defaults.
type Options struct {
	BaseURL      string
	ListTimeout  time.Duration
	CheckTimeout time.Duration
	HTTPClient   *http.Client
}

// Client issues the two calls the bot consumes: full item listing and a
// batched allotment check.
type Client struct {
	base         string
	listTimeout  time.Duration
	checkTimeout time.Duration
	http         *http.Client
}

// NewClient builds a Client from options.
func NewClient(opts Options) *Client {
	if opts.ListTimeout <= 0 {
		opts.ListTimeout = defaultListTimeout
	}
	if opts.CheckTimeout <= 0 {
		opts.CheckTimeout = defaultCheckTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		base:         strings.TrimRight(opts.BaseURL, "/"),
		listTimeout:  opts.ListTimeout,
		checkTimeout: opts.CheckTimeout,
		http:         httpClient,
	}
}

type listResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    []IPO  `json:"data"`
}

type checkRequest struct {
	IPOID string   `json:"ipo_id"`
	PANs  []string `json:"pans"`
}

type checkResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Data    []Entry `json:"data"`
}

// List fetches the full current item list. The wait is bounded by the
// short list timeout.
func (c *Client) List(ctx context.Context) ([]IPO, error) {
	ctx, cancel := context.WithTimeout(ctx, c.listTimeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+listPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrRemote, err)
	}

	var out listResponse
	if err := c.do(req, &out); err != nil {
		logger.SVCIPO.Error("ipo list failed",
			slog.String("event", "ipo.list"),
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.Took(start)),
		)
		return nil, err
	}
	if !out.Success {
		return nil, remoteFailure(out.Message)
	}

	logger.SVCIPO.Debug("ipo list fetched",
		slog.String("event", "ipo.list"),
		slog.String("status", "ok"),
		slog.Int("items", len(out.Data)),
		slog.Duration("duration", logger.Took(start)),
	)
	return out.Data, nil
}

// CheckAllotment submits one batched lookup for all of the user's PANs
// against the chosen item. The wait is bounded by the longer check timeout.
func (c *Client) CheckAllotment(ctx context.Context, ipoID string, pans []string) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	body, err := json.Marshal(checkRequest{IPOID: ipoID, PANs: pans})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrRemote, err)
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+checkPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrRemote, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out checkResponse
	if err := c.do(req, &out); err != nil {
		logger.SVCIPO.Error("allotment check failed",
			slog.String("event", "ipo.check"),
			slog.String("status", "fail"),
			slog.String("ipo_id", ipoID),
			slog.Int("pans", len(pans)),
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.Took(start)),
		)
		return nil, err
	}
	if !out.Success {
		return nil, remoteFailure(out.Message)
	}

	logger.SVCIPO.Info("allotment check done",
		slog.String("event", "ipo.check"),
		slog.String("status", "ok"),
		slog.String("ipo_id", ipoID),
		slog.Int("pans", len(pans)),
		slog.Int("items", len(out.Data)),
		slog.Duration("duration", logger.Took(start)),
	)
	return out.Data, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return ErrTimeout
		}
		return fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %s", ErrRemote, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrRemote, err)
	}
	return nil
}

// RemoteError carries an application-level failure (success: false) reported
// by the service, with its message when one was provided.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return "ipo: service reported failure"
	}
	return "ipo: service reported failure: " + e.Message
}

// Unwrap makes RemoteError match ErrRemote under errors.Is.
func (e *RemoteError) Unwrap() error { return ErrRemote }

func remoteFailure(msg string) error {
	return &RemoteError{Message: strings.TrimSpace(msg)}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout()
	}
	return false
}
