// Package site retrieves the current waitlist position for a student from
// the school-choice site. The rest of the system treats this as an opaque
// collaborator: callers hand in credentials and get back a position.
package site

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the production site origin.
	DefaultBaseURL = "https://myschools.nyc"

	loginPath     = "/en/account/log-in/"
	dashboardPath = "/en/dashboard/"
	waitlistPage  = "waitlists/"

	// loggedInMarker only appears on the dashboard after a successful
	// login; its absence after the login post means wrong credentials.
	loggedInMarker = "basic-card__title__school_name"
)

var (
	csrfPattern = regexp.MustCompile(`name="csrfmiddlewaretoken"\s+value="([^"]+)"`)

	// the position renders as a bold number following the marker text,
	// possibly separated by markup
	positionPattern = regexp.MustCompile(`(?s)WAITLIST POSITION:.*?<b>\s*([0-9]+)`)
)

// Client is an HTTP session against the school-choice site.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// Config holds configuration for the site client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewClient creates a site client with its own cookie session.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	// the login flow depends on the session cookie surviving the
	// post-login redirect
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			MaxVersion: tls.VersionTLS13,
		},
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
			Jar:       jar,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  cfg.Logger,
	}, nil
}

// FetchPosition logs in and reads the waitlist position for studentID.
func (c *Client) FetchPosition(ctx context.Context, username, password, studentID string) (string, error) {
	if err := c.login(ctx, username, password); err != nil {
		return "", err
	}

	page, err := c.waitlistPageHTML(ctx, studentID)
	if err != nil {
		return "", err
	}

	position, err := ExtractPosition(page)
	if err != nil {
		return "", err
	}

	c.logger.InfoContext(ctx, "fetched waitlist position",
		slog.String("position", position),
	)
	return position, nil
}

func (c *Client) login(ctx context.Context, username, password string) error {
	loginURL := c.baseURL + loginPath

	page, err := c.get(ctx, loginURL)
	if err != nil {
		return fmt.Errorf("load login page: %w", err)
	}

	match := csrfPattern.FindStringSubmatch(page)
	if match == nil {
		return fmt.Errorf("login page has no csrf token")
	}

	form := url.Values{
		"csrfmiddlewaretoken": {match[1]},
		"username":            {username},
		"password":            {password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", loginURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post login form: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read login response: %w", err)
	}

	if !strings.Contains(string(body), loggedInMarker) {
		// never include credentials in the error
		return fmt.Errorf("login rejected, assuming wrong credentials (status %d)", resp.StatusCode)
	}

	c.logger.DebugContext(ctx, "login successful")
	return nil
}

func (c *Client) waitlistPageHTML(ctx context.Context, studentID string) (string, error) {
	pageURL := c.baseURL + dashboardPath + studentID + "/" + waitlistPage

	page, err := c.get(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("load waitlist page: %w", err)
	}
	return page, nil
}

func (c *Client) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	return string(body), nil
}

// ExtractPosition finds the waitlist position in the page HTML.
func ExtractPosition(html string) (string, error) {
	match := positionPattern.FindStringSubmatch(html)
	if match == nil {
		return "", fmt.Errorf("waitlist position not found in page")
	}
	return match[1], nil
}
