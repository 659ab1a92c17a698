package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/punchkeeper/internal/client/models"
	"github.com/dmitrijs2005/punchkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the server
//	-i int      online check interval in seconds
//	-p int      refresh interval in seconds
//	-d string   SQLite DSN of the local store
//	-t string   tenant id
//	-u string   user id
//	-n string   employee name shown on adjustment requests
//	-k string   access token
//	-z string   IANA time zone, "Local" by default
//	-l int      location timeout in seconds
//	-lat float  fixed site latitude
//	-lon float  fixed site longitude
//	-w float    required daily hours
//
// Flags owned by other loaders (-c/-config) are filtered out first.
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	pollInterval := fs.Int("p", int(cfg.PollInterval.Seconds()), "refresh interval (in seconds)")
	fs.StringVar(&cfg.DSN, "d", cfg.DSN, "local database DSN")
	fs.StringVar(&cfg.TenantID, "t", cfg.TenantID, "tenant id")
	fs.StringVar(&cfg.UserID, "u", cfg.UserID, "user id")
	fs.StringVar(&cfg.EmployeeName, "n", cfg.EmployeeName, "employee name")
	fs.StringVar(&cfg.AccessToken, "k", cfg.AccessToken, "access token")
	fs.StringVar(&cfg.TimeZone, "z", cfg.TimeZone, "time zone")
	locationTimeout := fs.Int("l", int(cfg.LocationTimeout.Seconds()), "location timeout (in seconds)")
	var site models.Location
	if cfg.Site != nil {
		site = *cfg.Site
	}
	fs.Float64Var(&site.Latitude, "lat", site.Latitude, "site latitude")
	fs.Float64Var(&site.Longitude, "lon", site.Longitude, "site longitude")
	requiredHours := fs.Float64("w", cfg.RequiredHours.Hours(), "required daily hours")

	if err := flagx.ParseKnown(fs, os.Args[1:]); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.PollInterval = time.Duration(*pollInterval) * time.Second
	cfg.LocationTimeout = time.Duration(*locationTimeout) * time.Second
	cfg.RequiredHours = time.Duration(*requiredHours * float64(time.Hour))

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "lat" || f.Name == "lon" {
			cfg.Site = &site
		}
	})
}
