package robot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/pathpilot/internal/command"
)

// CommandSender posts one command to the control endpoint. status is the
// HTTP status when a response arrived.
type CommandSender interface {
	SendCommand(ctx context.Context, c command.Command) (status int, err error)
}

// PoseFetcher reads the pose endpoint once.
type PoseFetcher interface {
	FetchPose(ctx context.Context) (pose Pose, token string, err error)
}

var (
	_ CommandSender = (*Client)(nil)
	_ PoseFetcher   = (*Client)(nil)
)

// Endpoints configure a Client.
type Endpoints struct {
	ControlURL     string
	PoseURL        string
	RequestTimeout time.Duration
}

// Client talks to the robot's HTTP control and pose endpoints. Requests are
// bounded by their contexts only: SendCommand applies the request timeout,
// FetchPose relies on the caller's deadline.
type Client struct {
	controlURL     *url.URL
	poseURL        *url.URL
	http           *http.Client
	userAgent      string
	requestTimeout time.Duration
}

const (
	defaultUserAgent = "pathpilot/0.1"
	requestTimeout   = 5 * time.Second
	maxBodyBytes     = 1 << 20
)

// NewClient builds a Client for the given endpoints.
func NewClient(ep Endpoints) (*Client, error) {
	control, err := parseEndpoint("control_url", ep.ControlURL)
	if err != nil {
		return nil, err
	}
	pose, err := parseEndpoint("pose_url", ep.PoseURL)
	if err != nil {
		return nil, err
	}
	timeout := ep.RequestTimeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	return &Client{
		controlURL:     control,
		poseURL:        pose,
		http:           &http.Client{},
		userAgent:      defaultUserAgent,
		requestTimeout: timeout,
	}, nil
}

// ControlURL returns the normalized control endpoint.
func (c *Client) ControlURL() string { return c.controlURL.String() }

// PoseURL returns the normalized pose endpoint.
func (c *Client) PoseURL() string { return c.poseURL.String() }

// SendCommand POSTs the encoded command. A 4xx/5xx reply returns the status
// together with an *HTTPError; a request that got no reply returns a
// *TransportError.
func (c *Client) SendCommand(ctx context.Context, cmd command.Command) (int, error) {
	if c == nil {
		return 0, fmt.Errorf("client is nil")
	}
	body, err := EncodeCommand(cmd)
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.controlURL.String(), bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &TransportError{Kind: classifyTransport(err), Op: "send " + cmd.CommandID(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode >= 400 {
		return resp.StatusCode, &HTTPError{StatusCode: resp.StatusCode, URL: c.controlURL.String()}
	}
	return resp.StatusCode, nil
}

// FetchPose GETs and decodes the pose endpoint. The request runs until ctx
// is done; PosePoller.Poll supplies the deadline.
func (c *Client) FetchPose(ctx context.Context) (Pose, string, error) {
	if c == nil {
		return Pose{}, "", fmt.Errorf("client is nil")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.poseURL.String(), nil)
	if err != nil {
		return Pose{}, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Pose{}, "", &TransportError{Kind: classifyTransport(err), Op: "fetch pose", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return Pose{}, "", &HTTPError{StatusCode: resp.StatusCode, URL: c.poseURL.String()}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Pose{}, "", &TransportError{Kind: classifyTransport(err), Op: "read pose", Err: err}
	}
	return DecodePose(data)
}

func parseEndpoint(name, raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%s is empty", name)
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse %s %q: %w", name, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse %s %q: unsupported scheme %q", name, raw, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse %s %q: missing host", name, raw)
	}
	u.Fragment = ""
	return u, nil
}

