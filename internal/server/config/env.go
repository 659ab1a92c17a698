package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix namespaces every variable the server reads.
const EnvPrefix = "PUNCHKEEPER_"

// envFile is loaded when present; variables already set in the process
// environment win over it.
var envFile = ".env"

// parseEnv overlays Config with PUNCHKEEPER_* variables. A missing .env
// file is not an error. Malformed durations panic, like bad flags do.
func parseEnv(cfg *Config) {
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			panic(err)
		}
	}

	setString(&cfg.HTTPAddr, getEnv("HTTP_ADDR"))
	setString(&cfg.DatabaseDSN, getEnv("DATABASE_DSN"))
	setString(&cfg.SecretKey, getEnv("SECRET_KEY"))
	setString(&cfg.S3RootUser, getEnv("S3_ROOT_USER"))
	setString(&cfg.S3RootPassword, getEnv("S3_ROOT_PASSWORD"))
	setString(&cfg.S3Bucket, getEnv("S3_BUCKET"))
	setString(&cfg.S3Region, getEnv("S3_REGION"))
	setString(&cfg.S3BaseEndpoint, getEnv("S3_BASE_ENDPOINT"))

	setDuration(&cfg.AccessTokenValidityDuration, "ACCESS_TOKEN_VALIDITY")
	setDuration(&cfg.UploadURLValidity, "UPLOAD_URL_VALIDITY")

	if v := getEnv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + key))
}

func setDuration(dst *time.Duration, key string) {
	v := getEnv(key)
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
	}
	*dst = d
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
