package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
)

const loginPath = "/rest/auth/angelbroking/user/v1/loginByPassword"

// Credentials holds the Angel One SmartAPI login material.
type Credentials struct {
	APIKey     string
	ClientCode string
	Password   string
	TOTPSecret string
}

// CredentialsFromEnv reads the ANGEL_* environment variables and reports
// every missing one in the error.
func CredentialsFromEnv() (Credentials, error) {
	creds := Credentials{
		APIKey:     os.Getenv("ANGEL_API_KEY"),
		ClientCode: os.Getenv("ANGEL_CLIENT_CODE"),
		Password:   os.Getenv("ANGEL_PASSWORD"),
		TOTPSecret: os.Getenv("ANGEL_TOTP_SECRET"),
	}
	var missing []string
	if creds.APIKey == "" {
		missing = append(missing, "ANGEL_API_KEY")
	}
	if creds.ClientCode == "" {
		missing = append(missing, "ANGEL_CLIENT_CODE")
	}
	if creds.Password == "" {
		missing = append(missing, "ANGEL_PASSWORD")
	}
	if creds.TOTPSecret == "" {
		missing = append(missing, "ANGEL_TOTP_SECRET")
	}
	if len(missing) > 0 {
		return Credentials{}, fmt.Errorf("missing credentials: %s", strings.Join(missing, ", "))
	}
	return creds, nil
}

// Session holds the tokens issued by a successful login.
type Session struct {
	ClientCode   string
	AuthToken    string
	RefreshToken string
	FeedToken    string
}

// Client performs SmartAPI authentication.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	Creds   Credentials
}

// NewClient creates an auth client against the given API root.
func NewClient(baseURL string, creds Credentials) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		BaseURL: strings.TrimRight(baseURL, "/"),
		Creds:   creds,
	}
}

type loginRequest struct {
	ClientCode string `json:"clientcode"`
	Password   string `json:"password"`
	TOTP       string `json:"totp"`
}

type loginResponse struct {
	Status    bool   `json:"status"`
	Message   string `json:"message"`
	ErrorCode string `json:"errorcode"`
	Data      struct {
		JWTToken     string `json:"jwtToken"`
		RefreshToken string `json:"refreshToken"`
		FeedToken    string `json:"feedToken"`
	} `json:"data"`
}

// Login generates a fresh TOTP and exchanges the credentials for a session.
func (c *Client) Login() (*Session, error) {
	code, err := totp.GenerateCode(c.Creds.TOTPSecret, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate totp: %w", err)
	}
	body, err := json.Marshal(loginRequest{
		ClientCode: c.Creds.ClientCode,
		Password:   c.Creds.Password,
		TOTP:       code,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal login payload: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, c.BaseURL+loginPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build login request: %w", err)
	}
	SetHeaders(req, c.Creds.APIKey, "")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read login response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login HTTP %d: %s", resp.StatusCode, string(raw))
	}

	var lr loginResponse
	if err := json.Unmarshal(raw, &lr); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if !lr.Status {
		return nil, fmt.Errorf("login rejected: %s (errorcode=%s)", lr.Message, lr.ErrorCode)
	}
	return &Session{
		ClientCode:   c.Creds.ClientCode,
		AuthToken:    lr.Data.JWTToken,
		RefreshToken: lr.Data.RefreshToken,
		FeedToken:    lr.Data.FeedToken,
	}, nil
}

// SetHeaders applies the SmartAPI header set to a request. authToken may be
// empty for the login call itself.
func SetHeaders(req *http.Request, apiKey, authToken string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-UserType", "USER")
	req.Header.Set("X-SourceID", "WEB")
	req.Header.Set("X-ClientLocalIP", "127.0.0.1")
	req.Header.Set("X-ClientPublicIP", "127.0.0.1")
	req.Header.Set("X-MACAddress", "00:00:00:00:00:00")
	req.Header.Set("X-PrivateKey", apiKey)
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
}

// IsSessionError reports whether a SmartAPI errorcode means the session
// token is invalid or expired and a re-login may recover the call.
func IsSessionError(code string) bool {
	switch code {
	case "AG8001", "AG8002", "AG8003":
		return true
	}
	return false
}
