/*
Package adp proxies punches to the ADP Expert web portal.

PURPOSE:

	The portal has no public API; the client drives the same
	session-based login flow the browser does: a form POST against the
	SiteMinder login endpoint, a session id scraped from the returned
	HTML, and cookie-backed JSON calls afterwards. This is a brittle
	external integration and is kept behind a small surface: Login,
	Verify, Punch.

SESSION LOSS:

	The portal silently drops sessions. A punch that comes back as the
	login form (non-JSON body with a loginform.html content location)
	triggers exactly one forced re-login and retry; a second failure is
	returned to the caller.

SEE ALSO:
  - config/config.go: ADP settings (activation, base URL, credentials)
*/
package adp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
)

// LoginResult classifies the outcome of a login attempt.
type LoginResult string

const (
	LoginSuccess            LoginResult = "Success"
	LoginError              LoginResult = "Error"
	LoginInvalidCredentials LoginResult = "InvalidCredentials"
	LoginSessionIDNotFound  LoginResult = "SessionIdNotFound"
)

// ErrNotLoggedIn is returned when a portal call fails because the
// session is gone and could not be re-established.
var ErrNotLoggedIn = errors.New("adp: not logged in")

var sessionIDPattern = regexp.MustCompile(
	`<input\s+id="newexpert_sessionid"\s+type="hidden"\s+value="([^"]+)"`)

// invalidCredentialsMarker is the portal's (Portuguese) "fix your
// credentials" message, the only reliable bad-password signal.
const invalidCredentialsMarker = "Por favor, corrija suas credenciais de login e tente novamente"

// Client is a session-holding portal client. Safe for concurrent use.
type Client struct {
	http     *http.Client
	baseURL  string
	user     string
	password string

	mu        sync.Mutex
	sessionID string
}

// New builds a client for the portal at baseURL. The cookie jar is
// mandatory: the portal routes everything through SiteMinder cookies.
func New(baseURL, user, password string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		http: &http.Client{
			Jar:     jar,
			Timeout: 3 * time.Second,
		},
		baseURL:  strings.TrimRight(baseURL, "/"),
		user:     user,
		password: password,
	}
}

// Login runs the form login and scrapes the session id out of the
// returned HTML. Network failures map to LoginError with the error.
func (c *Client) Login(ctx context.Context) (LoginResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loginLocked(ctx)
}

func (c *Client) loginLocked(ctx context.Context) (LoginResult, error) {
	c.sessionID = ""

	form := url.Values{
		"USER":     {c.user},
		"PASSWORD": {c.password},
		"TARGET":   {"-SM-" + c.baseURL + "/redirect/findway/"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/ipclogin/1/loginform.fcc",
		strings.NewReader(form.Encode()))
	if err != nil {
		return LoginError, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return LoginError, fmt.Errorf("adp: login request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return LoginError, fmt.Errorf("adp: login response: %w", err)
	}

	if bytes.Contains(body, []byte(invalidCredentialsMarker)) ||
		strings.HasPrefix(resp.Header.Get("Content-Location"), "loginform.html") {
		return LoginInvalidCredentials, nil
	}

	match := sessionIDPattern.FindSubmatch(body)
	if match == nil {
		return LoginSessionIDNotFound, nil
	}

	c.sessionID = string(match[1])
	return LoginSuccess, nil
}

// Verify checks that the current session still answers as JSON.
func (c *Client) Verify(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := c.do(ctx, http.MethodGet, "/expert/api/punch/punchin/user-info", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if isLoggedOut(resp) {
		return ErrNotLoggedIn
	}
	return nil
}

// punchRequest mirrors the portal's punch payload. Coordinates and
// action are ever null for a plain mobile punch.
type punchRequest struct {
	PunchType      string  `json:"punchType"`
	PunchLatitude  *string `json:"punchLatitude"`
	PunchLongitude *string `json:"punchLongitude"`
	PunchAction    *string `json:"punchAction"`
}

// Punch registers a clock punch with the portal. A logged-out reply
// forces one re-login and a single retry.
func (c *Client) Punch(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.punchLocked(ctx)
	if !errors.Is(err, ErrNotLoggedIn) {
		return err
	}

	result, loginErr := c.loginLocked(ctx)
	if loginErr != nil {
		return fmt.Errorf("adp: re-login after session loss: %w", loginErr)
	}
	if result != LoginSuccess {
		return fmt.Errorf("%w: re-login result %s", ErrNotLoggedIn, result)
	}
	return c.punchLocked(ctx)
}

func (c *Client) punchLocked(ctx context.Context) error {
	payload, err := json.Marshal(punchRequest{PunchType: "SPMobile"})
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodPost, "/expert/api/punch/punchin", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if isLoggedOut(resp) {
		return ErrNotLoggedIn
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("adp: punch rejected: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	if c.sessionID == "" {
		return nil, ErrNotLoggedIn
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?lp=true", reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.decorate(req)
	req.Header.Set("Newexpert_sessionid", c.sessionID)
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/expert/v4/?lp=true")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adp: %s %s: %w", method, path, err)
	}
	return resp, nil
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9")
	req.Header.Set("Cache-Control", "max-age=0")
}

// isLoggedOut detects the portal's silent session drop: instead of
// JSON it answers with the login form.
func isLoggedOut(resp *http.Response) bool {
	return !strings.Contains(resp.Header.Get("Content-Type"), "application/json") &&
		strings.HasPrefix(resp.Header.Get("Content-Location"), "loginform.html")
}
