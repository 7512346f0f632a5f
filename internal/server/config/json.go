package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/todokeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the optional configuration file.
// Durations accept either "1m30s" strings or integer nanoseconds. Pointer
// durations distinguish "absent" from an explicit zero.
type JsonConfig struct {
	EndpointAddrHTTP      string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC      *string         `json:"endpoint_addr_grpc"`
	StoreDriver           string          `json:"store_driver"`
	DatabaseDSN           string          `json:"database_dsn"`
	MongoURI              string          `json:"mongo_uri"`
	MongoDatabase         string          `json:"mongo_database"`
	SecretKey             string          `json:"secret_key"`
	TokenIssuer           *string         `json:"token_issuer"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	LogLevel              string          `json:"log_level"`
	LogFormat             string          `json:"log_format"`
	ShutdownTimeout       *timex.Duration `json:"shutdown_timeout"`
	StoreConnectTimeout   *timex.Duration `json:"store_connect_timeout"`
	HealthProbeInterval   *timex.Duration `json:"health_probe_interval"`
	CORSAllowedOrigins    []string        `json:"cors_allowed_origins"`
}

// parseJson overlays values present in the JSON file at path onto config.
// Absent fields keep their current values.
func parseJson(config *Config, path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	if c.EndpointAddrGRPC != nil {
		config.EndpointAddrGRPC = *c.EndpointAddrGRPC
	}
	setString(&config.StoreDriver, c.StoreDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.MongoURI, c.MongoURI)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenIssuer != nil {
		config.TokenIssuer = *c.TokenIssuer
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)

	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.StoreConnectTimeout != nil {
		config.StoreConnectTimeout = c.StoreConnectTimeout.Duration
	}
	if c.HealthProbeInterval != nil {
		config.HealthProbeInterval = c.HealthProbeInterval.Duration
	}
	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
