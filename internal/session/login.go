package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// LoginPath is the loginByPassword endpoint path.
const LoginPath = "/rest/auth/angelbroking/user/v1/loginByPassword"

// AuthError reports a failed login exchange. It is non-retryable at this
// layer and carries the upstream status and body for diagnostics.
type AuthError struct {
	StatusCode int
	Body       []byte
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("angel auth error %d: %s", e.StatusCode, truncate(e.Body, 200))
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

// loginRequest is the loginByPassword request body.
type loginRequest struct {
	ClientCode string `json:"clientcode"`
	Password   string `json:"password"`
	TOTP       string `json:"totp"`
	State      string `json:"state"`
}

// loginResponse is the subset of the loginByPassword response we consume.
type loginResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		JWTToken  string `json:"jwtToken"`
		FeedToken string `json:"feedToken"`
	} `json:"data"`
}

// Login performs the single login exchange and returns the session token
// pair. Any non-success status, or a success body missing either token
// field, returns an *AuthError.
func (c *Client) Login(ctx context.Context) (Tokens, error) {
	payload, err := json.Marshal(loginRequest{
		ClientCode: c.creds.ClientCode,
		Password:   c.creds.PIN,
		TOTP:       c.creds.TOTP,
		State:      c.creds.State,
	})
	if err != nil {
		return Tokens{}, fmt.Errorf("marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+LoginPath, bytes.NewReader(payload))
	if err != nil {
		return Tokens{}, fmt.Errorf("create login request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-UserType", "USER")
	req.Header.Set("X-SourceID", "WEB")
	req.Header.Set("X-ClientLocalIP", c.creds.LocalIP)
	req.Header.Set("X-ClientPublicIP", c.creds.PublicIP)
	req.Header.Set("X-MACAddress", c.creds.MACAddress)
	req.Header.Set("X-PrivateKey", c.creds.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Tokens{}, fmt.Errorf("do login request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Tokens{}, fmt.Errorf("read login response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Tokens{}, &AuthError{StatusCode: resp.StatusCode, Body: body}
	}

	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return Tokens{}, &AuthError{StatusCode: resp.StatusCode, Body: body}
	}
	if !lr.Status || lr.Data.JWTToken == "" || lr.Data.FeedToken == "" {
		return Tokens{}, &AuthError{StatusCode: resp.StatusCode, Body: body}
	}

	c.logger.Info("session tokens acquired", "client_code", c.creds.ClientCode)

	return Tokens{
		AuthToken: lr.Data.JWTToken,
		FeedToken: lr.Data.FeedToken,
	}, nil
}
