package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// HTTPGateway implements email sending via an HTTP mail gateway API.
// The gateway uses token-based authentication: login once, reuse the
// token until shortly before it expires.
type HTTPGateway struct {
	apiURL    string
	username  string
	password  string
	fromEmail string
	client    *http.Client

	// Token management
	token       string
	tokenMutex  sync.RWMutex
	tokenExpiry time.Time
}

// GatewayConfig holds configuration for the HTTP mail gateway
type GatewayConfig struct {
	APIURL    string
	Username  string
	Password  string
	FromEmail string
}

// NewHTTPGateway creates a new mail gateway client
func NewHTTPGateway(config GatewayConfig) *HTTPGateway {
	return &HTTPGateway{
		apiURL:    config.APIURL,
		username:  config.Username,
		password:  config.Password,
		fromEmail: config.FromEmail,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// LoginRequest represents the login request structure
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents the login response structure
type LoginResponse struct {
	Status     string `json:"status"`
	Comment    string `json:"comment"`
	Token      string `json:"token"`
	Expiration int    `json:"expiration"` // Token expiry in seconds
	ErrCode    string `json:"errCode"`
}

// SendMailRequest represents the mail sending request structure
type SendMailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendMailResponse represents the mail sending response structure
type SendMailResponse struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Data    struct {
		MessageID string `json:"messageId"`
	} `json:"data"`
	ErrCode string `json:"errCode"`
}

// GetAccessToken logs in and retrieves an access token
func (g *HTTPGateway) GetAccessToken() error {
	loginReq := LoginRequest{
		Username: g.username,
		Password: g.password,
	}

	jsonData, err := json.Marshal(loginReq)
	if err != nil {
		return fmt.Errorf("failed to marshal login request: %w", err)
	}

	url := fmt.Sprintf("%s/login", g.apiURL)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send login request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read login response: %w", err)
	}

	var loginResp LoginResponse
	if err := json.Unmarshal(body, &loginResp); err != nil {
		return fmt.Errorf("failed to parse login response: %w", err)
	}

	if loginResp.Status != "success" {
		return fmt.Errorf("login failed: %s (error code: %s)", loginResp.Comment, loginResp.ErrCode)
	}

	// Store token with expiry
	g.tokenMutex.Lock()
	g.token = loginResp.Token
	g.tokenExpiry = time.Now().Add(time.Duration(loginResp.Expiration) * time.Second)
	g.tokenMutex.Unlock()

	return nil
}

// isTokenValid checks if the current token is still valid
func (g *HTTPGateway) isTokenValid() bool {
	g.tokenMutex.RLock()
	defer g.tokenMutex.RUnlock()

	if g.token == "" {
		return false
	}

	// Consider token invalid 5 minutes before actual expiry
	return time.Now().Before(g.tokenExpiry.Add(-5 * time.Minute))
}

// ensureValidToken ensures we have a valid access token
func (g *HTTPGateway) ensureValidToken() error {
	if g.isTokenValid() {
		return nil
	}

	return g.GetAccessToken()
}

// SendMail sends an email through the gateway
func (g *HTTPGateway) SendMail(to, subject, body string) error {
	if err := g.ensureValidToken(); err != nil {
		return fmt.Errorf("failed to get access token: %w", err)
	}

	mailReq := SendMailRequest{
		From:    g.fromEmail,
		To:      to,
		Subject: subject,
		Body:    body,
	}

	jsonData, err := json.Marshal(mailReq)
	if err != nil {
		return fmt.Errorf("failed to marshal mail request: %w", err)
	}

	url := fmt.Sprintf("%s/messages", g.apiURL)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create mail request: %w", err)
	}

	g.tokenMutex.RLock()
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", g.token))
	g.tokenMutex.RUnlock()
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send mail request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read mail response: %w", err)
	}

	var mailResp SendMailResponse
	if err := json.Unmarshal(respBody, &mailResp); err != nil {
		return fmt.Errorf("failed to parse mail response: %w", err)
	}

	if mailResp.Status != "success" {
		return fmt.Errorf("mail sending failed: %s (error code: %s)", mailResp.Comment, mailResp.ErrCode)
	}

	return nil
}

// GetName returns the name of this mail backend
func (g *HTTPGateway) GetName() string {
	return "HTTP Mail Gateway"
}
