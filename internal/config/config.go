package config

import (
	"time"

	"github.com/rgarg/angelone-data/internal/model"
)

// IngestorConfig is the root configuration for an ingestor instance.
type IngestorConfig struct {
	Instance     InstanceConfig     `yaml:"instance"`
	Angel        AngelConfig        `yaml:"angel"`
	Subscription model.Subscription `yaml:"subscription"`
	Database     DBConfig           `yaml:"database"`
	Stream       StreamConfig       `yaml:"stream"`
	Pipeline     PipelineConfig     `yaml:"pipeline"`
	Metrics      MetricsConfig      `yaml:"metrics"`
}

// InstanceConfig identifies this ingestor.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// AngelConfig holds AngelOne SmartAPI endpoints and credential material.
// Secrets are normally supplied via ${ENV} expansion in the YAML file.
type AngelConfig struct {
	AuthURL    string `yaml:"auth_url"`
	WSURL      string `yaml:"ws_url"`
	ClientCode string `yaml:"client_code"`
	PIN        string `yaml:"pin"`
	TOTP       string `yaml:"totp"`
	APIKey     string `yaml:"api_key"`
	State      string `yaml:"state"`       // client-declared state nonce
	LocalIP    string `yaml:"local_ip"`    // X-ClientLocalIP header
	PublicIP   string `yaml:"public_ip"`   // X-ClientPublicIP header
	MACAddress string `yaml:"mac_address"` // X-MACAddress header
}

// DBConfig holds the TimescaleDB/PostgreSQL connection for quote ticks.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// StreamConfig holds Connection Supervisor settings.
type StreamConfig struct {
	ReadTimeout        time.Duration `yaml:"read_timeout"`         // inactivity window per read
	PongTimeout        time.Duration `yaml:"pong_timeout"`         // liveness-probe reply window
	WriteTimeout       time.Duration `yaml:"write_timeout"`        // deadline for control/subscribe writes
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"` // first backoff delay
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`  // backoff cap
	MaxAttempts        int           `yaml:"max_attempts"`         // reconnect budget per session
}

// PipelineConfig holds orchestrator settings.
type PipelineConfig struct {
	Cooldown time.Duration `yaml:"cooldown"` // delay between full restarts
}

// MetricsConfig holds the Prometheus/health HTTP endpoint settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
