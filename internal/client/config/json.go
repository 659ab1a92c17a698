package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/flagx"
	"github.com/dmitrijs2005/punchkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent
// fields keep the value they had before the file was read.
type JsonConfig struct {
	ServerURL           string           `json:"server_url"`
	AccessToken         string           `json:"access_token"`
	OnlineCheckInterval *timex.Duration  `json:"online_check_interval"`
	PollInterval        *timex.Duration  `json:"poll_interval"`
	DSN                 string           `json:"dsn"`
	TenantID            string           `json:"tenant_id"`
	UserID              string           `json:"user_id"`
	EmployeeName        string           `json:"employee_name"`
	TimeZone            string           `json:"time_zone"`
	LocationTimeout     *timex.Duration  `json:"location_timeout"`
	Site                *models.Location `json:"site"`
	RequiredHours       *timex.Duration  `json:"required_hours"`
}

// parseJson overlays Config with values loaded from the file named by -c
// or -config. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.AccessToken, jc.AccessToken)
	setString(&cfg.DSN, jc.DSN)
	setString(&cfg.TenantID, jc.TenantID)
	setString(&cfg.UserID, jc.UserID)
	setString(&cfg.EmployeeName, jc.EmployeeName)
	setString(&cfg.TimeZone, jc.TimeZone)

	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.PollInterval != nil {
		cfg.PollInterval = jc.PollInterval.Duration
	}
	if jc.LocationTimeout != nil {
		cfg.LocationTimeout = jc.LocationTimeout.Duration
	}
	if jc.RequiredHours != nil {
		cfg.RequiredHours = jc.RequiredHours.Duration
	}
	if jc.Site != nil {
		cfg.Site = jc.Site
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
