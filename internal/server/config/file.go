package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/punchkeeper/internal/flagx"
	"github.com/dmitrijs2005/punchkeeper/internal/timex"
)

// FileConfig is the DTO of the config file. It may be JSON or, when the
// file name ends in .yaml or .yml, YAML; both use the same keys. Absent
// fields keep the value they had before the file was read.
type FileConfig struct {
	HTTPAddr                    string          `json:"http_addr" yaml:"http_addr"`
	DatabaseDSN                 string          `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                   string          `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	UploadURLValidity           *timex.Duration `json:"upload_url_validity" yaml:"upload_url_validity"`
	AllowedOrigins              []string        `json:"allowed_origins" yaml:"allowed_origins"`
	S3RootUser                  string          `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword              string          `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket                    string          `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                    string          `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint              string          `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
}

// parseFile overlays Config with the file named by -c or -config. It
// panics on read or decode errors, and on unknown keys in YAML files.
func parseFile(cfg *Config) {
	name := flagx.JsonConfigFlags()
	if name == "" {
		return
	}

	data, err := os.ReadFile(name)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	if isYAML(name) {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&fc)
	} else {
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.HTTPAddr, fc.HTTPAddr)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.SecretKey, fc.SecretKey)
	setString(&cfg.S3RootUser, fc.S3RootUser)
	setString(&cfg.S3RootPassword, fc.S3RootPassword)
	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)

	if fc.AccessTokenValidityDuration != nil {
		cfg.AccessTokenValidityDuration = fc.AccessTokenValidityDuration.Duration
	}
	if fc.UploadURLValidity != nil {
		cfg.UploadURLValidity = fc.UploadURLValidity.Duration
	}
	if len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
