package config

import (
	"errors"
	"time"
	_ "time/tzdata" // zones resolve on hosts without a zoneinfo database

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
)

// Config holds runtime settings for the PunchKeeper client.
type Config struct {
	ServerURL           string
	AccessToken         string
	OnlineCheckInterval time.Duration
	PollInterval        time.Duration
	DSN                 string

	TenantID     string
	UserID       string
	EmployeeName string
	TimeZone     string

	LocationTimeout time.Duration
	// Site is a fixed position reported for every punch; nil means no
	// position source.
	Site          *models.Location
	RequiredHours time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.OnlineCheckInterval = 3 * time.Second
	c.PollInterval = 30 * time.Second
	c.DSN = "punchkeeper.db"
	c.TimeZone = "Local"
	c.LocationTimeout = 5 * time.Second
	c.RequiredHours = 8 * time.Hour
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// Location resolves TimeZone.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.TimeZone)
}

func (c *Config) Validate() error {
	var errs []error
	if c.ServerURL == "" {
		errs = append(errs, errors.New("server URL (-a) is required"))
	}
	if c.TenantID == "" {
		errs = append(errs, errors.New("tenant (-t) is required"))
	}
	if c.UserID == "" {
		errs = append(errs, errors.New("user (-u) is required"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Config) Scope() models.Scope {
	return models.Scope{TenantID: c.TenantID, UserID: c.UserID}
}
