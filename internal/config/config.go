package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/livetemplate/htmlelements"
	"github.com/livetemplate/htmlelements/internal/security"
)

// FileName is the config file looked up by LoadFromDir.
const FileName = "htmlelements.yaml"

// Config represents the htmlelements configuration
type Config struct {
	Title    string         `yaml:"title"`
	Server   ServerConfig   `yaml:"server"`
	Features FeaturesConfig `yaml:"features"`
	Content  ContentConfig  `yaml:"content"`
	State    StateConfig    `yaml:"state"`
	Limits   LimitsConfig   `yaml:"limits"`

	// path is the file this config was loaded from, if any.
	path string
}

type ServerConfig struct {
	Port        int           `yaml:"port"`
	Host        string        `yaml:"host"`
	Debug       bool          `yaml:"debug"`
	CORSOrigins []string      `yaml:"cors_origins,omitempty"` // Origins allowed to call /api and /healthz
	ResumeTTL   time.Duration `yaml:"resume_ttl,omitempty"`   // How long a dropped session can be resumed (default: 2m, negative disables)
}

// GetResumeTTL returns how long a disconnected session's state is kept.
// Zero means resuming is disabled.
func (s ServerConfig) GetResumeTTL() time.Duration {
	if s.ResumeTTL < 0 {
		return 0
	}
	if s.ResumeTTL == 0 {
		return 2 * time.Minute
	}
	return s.ResumeTTL
}

type FeaturesConfig struct {
	HotReload   bool `yaml:"hot_reload"`   // Reload content when the config file changes
	TailwindCDN bool `yaml:"tailwind_cdn"` // Load Tailwind from its CDN for styling
}

// ContentConfig controls the static part of the page.
type ContentConfig struct {
	Intro    string   `yaml:"intro"`              // Markdown shown under the title
	Footer   string   `yaml:"footer"`             // Markdown shown below the sections
	Sections []string `yaml:"sections,omitempty"` // Section ids in display order (default: all)
}

// StateConfig sets the initial values of the interactive controls.
// Unset fields keep the component defaults.
type StateConfig struct {
	Text      string `yaml:"text,omitempty"`
	CheckboxA *bool  `yaml:"checkbox_a,omitempty"`
	CheckboxB *bool  `yaml:"checkbox_b,omitempty"`
	Radio     string `yaml:"radio,omitempty"`
	Range     *int   `yaml:"range,omitempty"`
	Selected  string `yaml:"selected,omitempty"`
}

// LimitsConfig bounds what a single client can do.
type LimitsConfig struct {
	ConnectionsPerSecond float64 `yaml:"connections_per_second,omitempty"` // Per-IP websocket upgrades (default: 5)
	ConnectionBurst      int     `yaml:"connection_burst,omitempty"`       // default: 10
	MaxIPs               int     `yaml:"max_ips,omitempty"`                // Tracked IPs before LRU eviction (default: 10000)
	EventsPerSecond      float64 `yaml:"events_per_second,omitempty"`      // Per-session events (default: 50)
	EventBurst           int     `yaml:"event_burst,omitempty"`            // default: 100
	MaxMessageBytes      int64   `yaml:"max_message_bytes,omitempty"`      // Largest websocket frame accepted (default: 64KiB)
	MaxParkedSessions    int     `yaml:"max_parked_sessions,omitempty"`    // Disconnected sessions kept for resume (default: 1000)
}

// GetConnectionsPerSecond returns the per-IP upgrade rate (default: 5)
func (l LimitsConfig) GetConnectionsPerSecond() float64 {
	if l.ConnectionsPerSecond <= 0 {
		return 5
	}
	return l.ConnectionsPerSecond
}

// GetConnectionBurst returns the per-IP upgrade burst (default: 10)
func (l LimitsConfig) GetConnectionBurst() int {
	if l.ConnectionBurst <= 0 {
		return 10
	}
	return l.ConnectionBurst
}

// GetMaxIPs returns how many client IPs the limiter tracks (default: 10000)
func (l LimitsConfig) GetMaxIPs() int {
	if l.MaxIPs <= 0 {
		return 10000
	}
	return l.MaxIPs
}

// GetEventsPerSecond returns the per-session event rate (default: 50)
func (l LimitsConfig) GetEventsPerSecond() float64 {
	if l.EventsPerSecond <= 0 {
		return 50
	}
	return l.EventsPerSecond
}

// GetEventBurst returns the per-session event burst (default: 100)
func (l LimitsConfig) GetEventBurst() int {
	if l.EventBurst <= 0 {
		return 100
	}
	return l.EventBurst
}

// GetMaxMessageBytes returns the websocket read limit (default: 64KiB)
func (l LimitsConfig) GetMaxMessageBytes() int64 {
	if l.MaxMessageBytes <= 0 {
		return 64 << 10
	}
	return l.MaxMessageBytes
}

// GetMaxParkedSessions returns how many disconnected sessions are kept (default: 1000)
func (l LimitsConfig) GetMaxParkedSessions() int {
	if l.MaxParkedSessions <= 0 {
		return 1000
	}
	return l.MaxParkedSessions
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Title: htmlelements.DefaultTitle,
		Server: ServerConfig{
			Port:  8080,
			Host:  "localhost",
			Debug: false,
		},
		Features: FeaturesConfig{
			HotReload:   false,
			TailwindCDN: true,
		},
		Content: ContentConfig{
			Intro:  htmlelements.DefaultIntro,
			Footer: htmlelements.DefaultFooter,
		},
	}
}

// Path returns the file the config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// InitialState returns the state new display sessions start with.
func (c *Config) InitialState() (htmlelements.State, error) {
	s := htmlelements.DefaultState()
	st := c.State

	s = s.WithText(st.Text)
	if st.CheckboxA != nil {
		s.Checkboxes.A = *st.CheckboxA
	}
	if st.CheckboxB != nil {
		s.Checkboxes.B = *st.CheckboxB
	}
	if st.Radio != "" {
		s = s.WithRadio(htmlelements.Radio(st.Radio))
	}
	if st.Range != nil {
		s.Range = *st.Range
	}
	if st.Selected != "" {
		s = s.WithSelected(htmlelements.Option(st.Selected))
	}

	if err := s.Validate(); err != nil {
		return htmlelements.State{}, fmt.Errorf("state: %w", err)
	}
	return s, nil
}

// BuildContent renders the configured static content.
func (c *Config) BuildContent() (*htmlelements.Content, error) {
	content, err := htmlelements.NewContent(c.Title, c.Content.Intro, c.Content.Footer, c.Content.Sections)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	return content, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port: %d is not a valid port", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host: must not be empty")
	}
	for _, origin := range c.Server.CORSOrigins {
		if err := security.ValidateOrigin(origin); err != nil {
			return fmt.Errorf("server.cors_origins: %w", err)
		}
	}
	if _, err := c.InitialState(); err != nil {
		return err
	}
	if _, err := c.BuildContent(); err != nil {
		return err
	}
	return nil
}

// Load loads configuration from a file
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// If file doesn't exist, return defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig() // Start with defaults
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.path = configPath

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	return config, nil
}

// LoadFromDir looks for htmlelements.yaml in dir and loads it, falling back
// to defaults when it is absent.
func LoadFromDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, FileName))
}

// Save saves the configuration to a file
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
