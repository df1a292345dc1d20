package session

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rgarg/angelone-data/internal/config"
)

// Credentials holds the client identity and device-identity material sent
// with a login request.
type Credentials struct {
	ClientCode string // AngelOne client id
	PIN        string // login password/PIN
	TOTP       string // one-time password
	APIKey     string // X-PrivateKey header
	State      string // client-declared state nonce
	LocalIP    string // X-ClientLocalIP header
	PublicIP   string // X-ClientPublicIP header
	MACAddress string // X-MACAddress header
}

// CredentialsFromConfig builds Credentials from the angel config block.
func CredentialsFromConfig(cfg config.AngelConfig) Credentials {
	return Credentials{
		ClientCode: cfg.ClientCode,
		PIN:        cfg.PIN,
		TOTP:       cfg.TOTP,
		APIKey:     cfg.APIKey,
		State:      cfg.State,
		LocalIP:    cfg.LocalIP,
		PublicIP:   cfg.PublicIP,
		MACAddress: cfg.MACAddress,
	}
}

// Tokens is one session epoch's token pair. Both values are opaque; the
// upstream does not signal their lifetime, expiry is discovered only via
// authentication failures on reconnect.
type Tokens struct {
	AuthToken string // JWT bearer token
	FeedToken string // x-feed-token for the stream endpoint
}

// Client performs the login exchange against the auth endpoint.
type Client struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a session client for the given auth endpoint.
func NewClient(baseURL string, creds Credentials, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		creds:   creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
