// Package backend is the portal's client for the administrative REST API.
// It owns the wire contract, the request timeout, the development-server
// failover and the error taxonomy; callers above it only ever see typed
// errors with user-facing messages.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"sistemaweb/portal/internal/config"
	"sistemaweb/portal/internal/models"
)

type Registration struct {
	Cedula          string
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Phone           string
	Department      string
}

type RegistrationResult struct {
	UserID     int64             `json:"user_id"`
	Username   string            `json:"username"`
	Status     models.UserStatus `json:"status"`
	Department string            `json:"department"`
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
}

// Client is the injectable API surface consumed by the session manager, the
// guards and the approval workflow. Tests substitute a fake.
type Client interface {
	Login(ctx context.Context, cedula, password string) (models.Session, error)
	Logout(ctx context.Context, token string) error
	Register(ctx context.Context, token string, reg Registration) (RegistrationResult, error)
	FetchPendingRequests(ctx context.Context, token string) ([]models.Request, error)
	FetchRequest(ctx context.Context, token, requestID string) (models.Request, error)
	FetchInventory(ctx context.Context, token string) ([]models.InventoryItem, error)
	ApproveItem(ctx context.Context, token, requestID, itemID string, quantity int) error
	ApproveAll(ctx context.Context, token, requestID string, quantities map[string]int) error
}

type HTTPClient struct {
	http     *http.Client
	timeout  time.Duration
	failover bool

	mu         sync.Mutex
	active     string
	candidates []string

	log zerolog.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds the production client. Failover across candidate base
// URLs is a development convenience and stays disabled in production.
func NewHTTPClient(cfg config.BackendConfig, production bool, logger zerolog.Logger) *HTTPClient {
	jar, _ := cookiejar.New(nil)

	active := cfg.BaseURL
	candidates := cfg.Candidates
	if production {
		candidates = nil
	} else if active == "" && len(candidates) > 0 {
		active = candidates[0]
	}

	return &HTTPClient{
		http:       &http.Client{Jar: jar},
		timeout:    cfg.Timeout,
		failover:   !production && len(candidates) > 1,
		active:     active,
		candidates: candidates,
		log:        logger.With().Str("component", "backend_client").Logger(),
	}
}

type loginResponse struct {
	UserID            int64             `json:"user_id"`
	Username          string            `json:"username"`
	Token             string            `json:"token"`
	Status            models.UserStatus `json:"status"`
	Department        string            `json:"department"`
	DepartmentDisplay string            `json:"department_display"`
}

func (c *HTTPClient) Login(ctx context.Context, cedula, password string) (models.Session, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/api/login/", "", map[string]string{
		"cedula":   cedula,
		"password": password,
	})
	if err != nil {
		return models.Session{}, err
	}

	if status < 200 || status >= 300 {
		msg := serverMessage(body)
		switch status {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return models.Session{}, &Error{Kind: KindInvalidCredentials, Message: msgInvalidCredentials, StatusCode: status}
		case http.StatusForbidden:
			return models.Session{}, &Error{Kind: KindInvalidCredentials, Message: "Acceso denegado. Contacte al administrador.", StatusCode: status}
		default:
			if msg == "" {
				msg = msgServer
			}
			return models.Session{}, &Error{Kind: KindServerError, Message: msg, StatusCode: status}
		}
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.Session{}, newError(KindInvalidServerResponse, msgInvalidResponse, err)
	}

	session := models.Session{
		Token:             resp.Token,
		UserID:            resp.UserID,
		Username:          resp.Username,
		Status:            resp.Status,
		Department:        resp.Department,
		DepartmentDisplay: resp.DepartmentDisplay,
	}
	if session.DepartmentDisplay == "" {
		session.DepartmentDisplay = session.Department
	}
	if !session.Valid() {
		return models.Session{}, &Error{Kind: KindInvalidServerResponse, Message: msgInvalidResponse}
	}
	return session, nil
}

// Logout tells the server to revoke the token. Any HTTP answer counts as
// done; only transport failures are reported, and the caller is expected to
// clear the local session either way.
func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	_, _, err := c.do(ctx, http.MethodPost, "/api/logout/", token, nil)
	return err
}

func (c *HTTPClient) Register(ctx context.Context, token string, reg Registration) (RegistrationResult, error) {
	digits, ok := CedulaDigits(reg.Cedula)
	if !ok {
		return RegistrationResult{}, &Error{Kind: KindValidationError, Message: msgBadCedula}
	}

	username := reg.Username
	if username == "" {
		username = DeriveUsername(reg.FirstName, reg.LastName, digits)
	}

	confirm := reg.ConfirmPassword
	if confirm == "" {
		confirm = reg.Password
	}

	payload := map[string]string{
		"cedula":           reg.Cedula,
		"username":         username,
		"email":            reg.Email,
		"password":         reg.Password,
		"confirm_password": confirm,
		"first_name":       reg.FirstName,
		"last_name":        reg.LastName,
		"phone":            reg.Phone,
		"department":       reg.Department,
		"status":           string(models.StatusBasic),
	}

	status, body, err := c.do(ctx, http.MethodPost, "/api/register/", token, payload)
	if err != nil {
		return RegistrationResult{}, err
	}
	if status < 200 || status >= 300 {
		return RegistrationResult{}, classifyRegisterFailure(status, serverMessage(body))
	}

	var result RegistrationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return RegistrationResult{}, newError(KindInvalidServerResponse, msgInvalidResponse, err)
	}
	result.Success = true
	return result, nil
}

func (c *HTTPClient) FetchPendingRequests(ctx context.Context, token string) ([]models.Request, error) {
	var requests []models.Request
	if err := c.getJSON(ctx, "/api/solicitudes/pendientes/", token, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (c *HTTPClient) FetchRequest(ctx context.Context, token, requestID string) (models.Request, error) {
	var request models.Request
	if err := c.getJSON(ctx, "/api/solicitudes/"+url.PathEscape(requestID)+"/", token, &request); err != nil {
		return models.Request{}, err
	}
	return request, nil
}

func (c *HTTPClient) FetchInventory(ctx context.Context, token string) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := c.getJSON(ctx, "/api/inventario/", token, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) ApproveItem(ctx context.Context, token, requestID, itemID string, quantity int) error {
	path := "/api/solicitudes/" + url.PathEscape(requestID) + "/items/" + url.PathEscape(itemID) + "/aprobar/"
	status, body, err := c.do(ctx, http.MethodPost, path, token, map[string]int{"cantidad": quantity})
	if err != nil {
		return err
	}
	return checkAuthenticated(status, body)
}

func (c *HTTPClient) ApproveAll(ctx context.Context, token, requestID string, quantities map[string]int) error {
	path := "/api/solicitudes/" + url.PathEscape(requestID) + "/aprobar/"
	status, body, err := c.do(ctx, http.MethodPost, path, token, map[string]any{"items": quantities})
	if err != nil {
		return err
	}
	return checkAuthenticated(status, body)
}

func (c *HTTPClient) getJSON(ctx context.Context, path, token string, out any) error {
	status, body, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return err
	}
	if err := checkAuthenticated(status, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return newError(KindInvalidServerResponse, msgInvalidResponse, err)
	}
	return nil
}

// checkAuthenticated enforces the mid-session policy: 401 means the token is
// no longer valid and the session must be torn down.
func checkAuthenticated(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	if status == http.StatusUnauthorized {
		return ErrSessionExpired
	}
	msg := serverMessage(body)
	if msg == "" {
		msg = msgServer
	}
	return &Error{Kind: KindServerError, Message: msg, StatusCode: status}
}

// do performs one bounded call. The whole call, including the single
// failover attempt, shares one deadline. Failover tries the next candidate
// in the configured order exactly once and never wraps around.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, payload any) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	attempts := c.attempts()
	var lastErr error
	for i, base := range attempts {
		status, body, err := c.doOnce(ctx, base, method, path, token, payload)
		if err == nil {
			c.remember(base)
			return status, body, nil
		}
		lastErr = err
		if ctx.Err() != nil || i+1 >= len(attempts) {
			break
		}
		c.log.Debug().Str("base", base).Err(err).Msg("backend unreachable, trying next candidate")
	}
	return 0, nil, classifyTransport(lastErr)
}

// attempts returns the active base URL plus, when failover applies, the next
// configured candidate.
func (c *HTTPClient) attempts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.failover {
		return []string{c.active}
	}
	for i, candidate := range c.candidates {
		if candidate == c.active && i+1 < len(c.candidates) {
			return []string{c.active, c.candidates[i+1]}
		}
	}
	return []string{c.active}
}

func (c *HTTPClient) remember(base string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = base
}

func (c *HTTPClient) doOnce(ctx context.Context, base, method, path, token string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	if csrf := c.csrfToken(req.URL); csrf != "" {
		req.Header.Set("X-CSRFToken", csrf)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// csrfToken reads the anti-forgery cookie the backend may have set.
func (c *HTTPClient) csrfToken(u *url.URL) string {
	if c.http.Jar == nil {
		return ""
	}
	for _, cookie := range c.http.Jar.Cookies(u) {
		if cookie.Name == "csrftoken" {
			return cookie.Value
		}
	}
	return ""
}

func serverMessage(body []byte) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Message
}
