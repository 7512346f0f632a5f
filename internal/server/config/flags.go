package config

import (
	"github.com/dmitrijs2005/todokeeper/internal/flagx"
)

// parseFlags overlays command-line flags onto config. Unknown flags are
// skipped so the same argument list can be shared with other parsers.
//
// Supported flags:
//
//	-a, --http-addr string            HTTP bind address (e.g. ":3000")
//	-g, --grpc-health-addr string     gRPC health bind address ("" disables)
//	    --store string                postgres | mongo | memory
//	-d, --database-dsn string         PostgreSQL DSN
//	-m, --mongo-uri string            MongoDB URI
//	    --mongo-database string       MongoDB database name
//	-s, --secret-key string           token signing secret
//	-t, --token-ttl duration          token lifetime, 0 for none (e.g. "24h")
//	    --token-issuer string         iss claim
//	-l, --log-level string            debug | info | warn | error
//	    --log-format string           json | text
//	    --shutdown-timeout duration   HTTP drain period
//	    --store-connect-timeout duration
//	    --health-probe-interval duration
//	    --cors-origins strings        allowed CORS origins
//	-c, --config string               JSON config file (read earlier by LoadConfig)
func parseFlags(config *Config, args []string) error {
	fs := flagx.NewFlagSet("main")

	fs.StringVarP(&config.EndpointAddrHTTP, "http-addr", "a", config.EndpointAddrHTTP, "address and port to run HTTP server")
	fs.StringVarP(&config.EndpointAddrGRPC, "grpc-health-addr", "g", config.EndpointAddrGRPC, "address and port to run gRPC health server")
	fs.StringVar(&config.StoreDriver, "store", config.StoreDriver, "store driver")
	fs.StringVarP(&config.DatabaseDSN, "database-dsn", "d", config.DatabaseDSN, "database DSN")
	fs.StringVarP(&config.MongoURI, "mongo-uri", "m", config.MongoURI, "MongoDB URI")
	fs.StringVar(&config.MongoDatabase, "mongo-database", config.MongoDatabase, "MongoDB database")
	fs.StringVarP(&config.SecretKey, "secret-key", "s", config.SecretKey, "secret key")
	fs.DurationVarP(&config.TokenValidityDuration, "token-ttl", "t", config.TokenValidityDuration, "token validity duration")
	fs.StringVar(&config.TokenIssuer, "token-issuer", config.TokenIssuer, "token issuer")
	fs.StringVarP(&config.LogLevel, "log-level", "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "log format")
	fs.DurationVar(&config.ShutdownTimeout, "shutdown-timeout", config.ShutdownTimeout, "graceful shutdown timeout")
	fs.DurationVar(&config.StoreConnectTimeout, "store-connect-timeout", config.StoreConnectTimeout, "store connect timeout")
	fs.DurationVar(&config.HealthProbeInterval, "health-probe-interval", config.HealthProbeInterval, "health probe interval")
	fs.StringSliceVar(&config.CORSAllowedOrigins, "cors-origins", config.CORSAllowedOrigins, "allowed CORS origins")
	fs.StringP("config", "c", "", "path to JSON config file")

	return fs.Parse(args)
}
