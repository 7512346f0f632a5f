package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names. PORT and DATABASE_URL follow common PaaS
// conventions; the rest are namespaced.
const (
	EnvPort                = "PORT"
	EnvHTTPAddr            = "TODO_HTTP_ADDR"
	EnvGRPCAddr            = "TODO_GRPC_HEALTH_ADDR"
	EnvStoreDriver         = "TODO_STORE"
	EnvDatabaseURL         = "DATABASE_URL"
	EnvMongoURI            = "MONGODB_URI"
	EnvMongoDatabase       = "TODO_MONGO_DATABASE"
	EnvSecretKey           = "TODO_SECRET_KEY"
	EnvTokenIssuer         = "TODO_TOKEN_ISSUER"
	EnvTokenTTL            = "TODO_TOKEN_TTL"
	EnvLogLevel            = "TODO_LOG_LEVEL"
	EnvLogFormat           = "TODO_LOG_FORMAT"
	EnvShutdownTimeout     = "TODO_SHUTDOWN_TIMEOUT"
	EnvStoreConnectTimeout = "TODO_STORE_CONNECT_TIMEOUT"
	EnvHealthProbe         = "TODO_HEALTH_PROBE_INTERVAL"
	EnvCORSOrigins         = "TODO_CORS_ORIGINS"
	EnvFile                = "TODO_ENV_FILE"
)

type lookupFunc func(key string) (string, bool)

func envFilePath() string {
	if p, ok := os.LookupEnv(EnvFile); ok && p != "" {
		return p
	}
	return ".env"
}

// loadDotEnv seeds the process environment from path without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// parseEnv overlays values from the environment onto config.
func parseEnv(config *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return errors.New(key + ": " + err.Error())
		}
		*dst = d
		return nil
	}

	if port, ok := lookup(EnvPort); ok && port != "" {
		config.EndpointAddrHTTP = ":" + strings.TrimPrefix(port, ":")
	}
	str(EnvHTTPAddr, &config.EndpointAddrHTTP)
	if v, ok := lookup(EnvGRPCAddr); ok {
		config.EndpointAddrGRPC = strings.TrimSpace(v)
	}
	str(EnvStoreDriver, &config.StoreDriver)
	str(EnvDatabaseURL, &config.DatabaseDSN)
	str(EnvMongoURI, &config.MongoURI)
	str(EnvMongoDatabase, &config.MongoDatabase)
	str(EnvSecretKey, &config.SecretKey)
	str(EnvTokenIssuer, &config.TokenIssuer)
	str(EnvLogLevel, &config.LogLevel)
	str(EnvLogFormat, &config.LogFormat)

	for key, dst := range map[string]*time.Duration{
		EnvTokenTTL:            &config.TokenValidityDuration,
		EnvShutdownTimeout:     &config.ShutdownTimeout,
		EnvStoreConnectTimeout: &config.StoreConnectTimeout,
		EnvHealthProbe:         &config.HealthProbeInterval,
	} {
		if err := dur(key, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup(EnvCORSOrigins); ok {
		config.CORSAllowedOrigins = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
