package common

import (
	"time"

	"github.com/spf13/viper"
)

// ===============================================================================
// HTTP Server Configuration Structures

// HTTPServerTimeoutConfig defines the timeout settings for HTTP server
type HTTPServerTimeoutConfig struct {
	// ReadTimeout is the maximum duration for reading the entire request, in seconds
	ReadTimeout int `mapstructure:"read" json:"read" validate:"gte=0"`
	// WriteTimeout is the maximum duration before timing out writes of the response, in seconds
	WriteTimeout int `mapstructure:"write" json:"write" validate:"gte=0"`
	// IdleTimeout is the maximum time to wait for the next request when keep-alives are on, in seconds
	IdleTimeout int `mapstructure:"idle" json:"idle" validate:"gte=0"`
}

// HTTPServerConfig defines the HTTP server parameters
type HTTPServerConfig struct {
	// ListenOn is the interface the HTTP server will listen on
	ListenOn string `mapstructure:"listenOn" json:"listenOn" validate:"required,ip"`
	// Port is the port the HTTP server will listen on
	Port uint16 `mapstructure:"appPort" json:"appPort" validate:"required,gt=0,lt=65536"`
	// Timeouts sets the HTTP timeout settings
	Timeouts HTTPServerTimeoutConfig `mapstructure:"timeoutSecs" json:"timeoutSecs" validate:"required,dive"`
}

// HTTPRequestLogging defines HTTP request logging parameters
type HTTPRequestLogging struct {
	// LogLevel output request logs at this level
	LogLevel string `mapstructure:"logLevel" json:"logLevel" validate:"oneof=warn info debug"`
	// HealthLogLevel output health check logs at this level
	HealthLogLevel string `mapstructure:"healthLogLevel" json:"healthLogLevel" validate:"oneof=warn info debug"`
	// RequestIDHeader is the HTTP header containing the API request ID
	RequestIDHeader string `mapstructure:"requestIDHeader" json:"requestIDHeader"`
	// DoNotLogHeaders is the list of headers to not include in logging metadata
	DoNotLogHeaders []string `mapstructure:"skipHeaders" json:"skipHeaders"`
}

// EndpointConfig defines API endpoint config
type EndpointConfig struct {
	// PathPrefix is the end-point path prefix for the APIs
	PathPrefix string `mapstructure:"pathPrefix" json:"pathPrefix" validate:"required"`
}

// APIConfig defines API settings for the server
type APIConfig struct {
	// Endpoint sets API endpoint related parameters
	Endpoint EndpointConfig `mapstructure:"endPoint" json:"endPoint" validate:"required,dive"`
	// RequestLogging sets API request logging parameters
	RequestLogging HTTPRequestLogging `mapstructure:"requestLogging" json:"requestLogging" validate:"required,dive"`
	// CORSEnabled whether permissive CORS is enabled on this server
	CORSEnabled bool `mapstructure:"corsEnabled" json:"corsEnabled"`
}

// APIServerConfig defines HTTP API / server parameters
type APIServerConfig struct {
	// Server defines HTTP server parameters
	Server HTTPServerConfig `mapstructure:"service" json:"service" validate:"required,dive"`
	// APIs defines API settings
	APIs APIConfig `mapstructure:"apis" json:"apis" validate:"required,dive"`
}

// ===============================================================================
// Persistence Configuration Structures

// PostgresSSLConfig Postgres connection SSL config
type PostgresSSLConfig struct {
	// Enabled whether to enable SSL when connecting to Postgres
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	// CAFile the CA cert file to challenge remote with
	CAFile *string `mapstructure:"caFile" json:"caFile,omitempty" validate:"omitempty,file"`
}

// PostgresConfig Postgres connection config
type PostgresConfig struct {
	// Host Postgres server host
	Host string `mapstructure:"host" json:"host" validate:"required"`
	// Port Postgres server port
	Port uint16 `mapstructure:"port" json:"port" validate:"lte=65535,gte=0"`
	// Database the specific database to use
	Database string `mapstructure:"db" json:"db" validate:"required"`
	// User the user to connect with
	User string `mapstructure:"user" json:"user" validate:"required"`
	// SSL the connection SSL settings
	SSL PostgresSSLConfig `mapstructure:"ssl" json:"ssl" validate:"required,dive"`
}

// SqliteConfig sqlite config
type SqliteConfig struct {
	// DBFile the sqlite DB file path
	DBFile string `mapstructure:"db" json:"db" validate:"required"`
}

// DatabaseConfig top-level database selection and connection parameters
type DatabaseConfig struct {
	// Driver which backend to use: "postgres" or "sqlite"
	Driver string `mapstructure:"driver" json:"driver" validate:"required,oneof=postgres sqlite"`
	// Postgres connection config, required when Driver == "postgres"
	Postgres *PostgresConfig `mapstructure:"postgres" json:"postgres,omitempty" validate:"omitempty,dive"`
	// Sqlite connection config, required when Driver == "sqlite"
	Sqlite *SqliteConfig `mapstructure:"sqlite" json:"sqlite,omitempty" validate:"omitempty,dive"`
}

// ===============================================================================
// Ffmpeg Configuration Structures (schema carried for completeness; never invoked — §1 Non-goal)

// FfmpegConfig ffmpeg/ffprobe binary locations
type FfmpegConfig struct {
	FfmpegPath  string `mapstructure:"ffmpeg-path" json:"ffmpegPath"`
	FfprobePath string `mapstructure:"ffprobe-path" json:"ffprobePath"`
}

// ===============================================================================
// Media Library Configuration Structures

// MediaConfig local/jellyfin library scanner tuning
type MediaConfig struct {
	ScanConcurrency  int `mapstructure:"scan-concurrency" json:"scanConcurrency" validate:"gte=1"`
	ProbeTimeoutMsec int `mapstructure:"probe-timeout-ms" json:"probeTimeoutMs" validate:"gte=0"`
}

// ===============================================================================
// Scheduling / Build Engine Configuration Structures

// SchedulingConfig build engine tuning (§4.6 opts)
type SchedulingConfig struct {
	// LookaheadHours how far past now the build driver compiles events
	LookaheadHours int `mapstructure:"lookahead-hours" json:"lookaheadHours" validate:"required,gte=1"`
	// RebuildIntervalMinutes interval between out-of-band rebuild triggers
	RebuildIntervalMinutes int `mapstructure:"rebuild-interval-minutes" json:"rebuildIntervalMinutes" validate:"required,gte=1"`
	// ZoneID IANA timezone used for fixed-anchor local time-of-day computation (§4.7)
	ZoneID string `mapstructure:"zone-id" json:"zoneID" validate:"required"`
}

// Lookahead convert LookaheadHours to time.Duration
func (c SchedulingConfig) Lookahead() time.Duration {
	return time.Hour * time.Duration(c.LookaheadHours)
}

// RebuildInterval convert RebuildIntervalMinutes to time.Duration
func (c SchedulingConfig) RebuildInterval() time.Duration {
	return time.Minute * time.Duration(c.RebuildIntervalMinutes)
}

// ===============================================================================
// Memcache Configuration Structures

// MemcacheConfig optional memcached-backed collection resolver cache
type MemcacheConfig struct {
	Enabled bool     `mapstructure:"enabled" json:"enabled"`
	Servers []string `mapstructure:"servers" json:"servers" validate:"required_with=Enabled"`
	TTLSecs int      `mapstructure:"ttlSecs" json:"ttlSecs" validate:"gte=1"`
}

// TTL convert TTLSecs to time.Duration
func (c MemcacheConfig) TTL() time.Duration {
	return time.Second * time.Duration(c.TTLSecs)
}

// ===============================================================================
// Media Scanner Configuration Structures

// LocalScannerConfig local filesystem media scanner tuning
type LocalScannerConfig struct {
	// Enabled whether the local filesystem scanner runs at all
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	// Root filesystem root to watch, scanned recursively
	Root string `mapstructure:"root" json:"root" validate:"required_with=Enabled"`
	// CollectionID the manual Collection discovered items are added to
	CollectionID string `mapstructure:"collectionID" json:"collectionID" validate:"required_with=Enabled"`
}

// JellyfinScannerConfig Jellyfin library poller tuning
type JellyfinScannerConfig struct {
	// Enabled whether the Jellyfin poller runs at all
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	// BaseURL Jellyfin server base URL
	BaseURL string `mapstructure:"baseURL" json:"baseURL" validate:"required_with=Enabled"`
	// APIKey Jellyfin API key, sent as the "X-Emby-Token" header
	APIKey string `mapstructure:"apiKey" json:"apiKey" validate:"required_with=Enabled"`
	// CollectionID the manual Collection discovered items are added to
	CollectionID string `mapstructure:"collectionID" json:"collectionID" validate:"required_with=Enabled"`
	// PollIntervalSecs interval between library polls
	PollIntervalSecs int `mapstructure:"pollIntervalSecs" json:"pollIntervalSecs" validate:"gte=1"`
}

// ScannerConfig the two background media library collaborators (§2)
type ScannerConfig struct {
	Local    LocalScannerConfig    `mapstructure:"local" json:"local" validate:"dive"`
	Jellyfin JellyfinScannerConfig `mapstructure:"jellyfin" json:"jellyfin" validate:"dive"`
}

// PollInterval convert PollIntervalSecs to time.Duration
func (c JellyfinScannerConfig) PollInterval() time.Duration {
	return time.Second * time.Duration(c.PollIntervalSecs)
}

// ===============================================================================
// Metrics Configuration Structures

// MetricsConfig application metrics config
type MetricsConfig struct {
	// Server defines HTTP server parameters for the /metrics endpoint
	Server HTTPServerConfig `mapstructure:"service" json:"service" validate:"required,dive"`
	// MetricsEndpoint path to host the Prometheus metrics endpoint
	MetricsEndpoint string `mapstructure:"metricsEndpoint" json:"metricsEndpoint" validate:"required"`
}

// ===============================================================================
// Complete Configuration Structure

// Config top-level application config (§6 Configuration)
type Config struct {
	// LogLevel log-level section
	LogLevel string `mapstructure:"log-level" json:"logLevel" validate:"required,oneof=debug info warn error"`
	// Server the management/query REST API server
	Server APIServerConfig `mapstructure:"server" json:"server" validate:"required,dive"`
	// Database database connection settings
	Database DatabaseConfig `mapstructure:"database" json:"database" validate:"required,dive"`
	// Ffmpeg ffmpeg/ffprobe binary paths (schema only)
	Ffmpeg FfmpegConfig `mapstructure:"ffmpeg" json:"ffmpeg"`
	// Media library scanner tuning
	Media MediaConfig `mapstructure:"media" json:"media" validate:"required,dive"`
	// Scheduling build engine tuning
	Scheduling SchedulingConfig `mapstructure:"scheduling" json:"scheduling" validate:"required,dive"`
	// Memcache optional collection resolver cache
	Memcache MemcacheConfig `mapstructure:"memcache" json:"memcache"`
	// Metrics Prometheus metrics server config
	Metrics MetricsConfig `mapstructure:"metrics" json:"metrics" validate:"required,dive"`
	// Scanner background media library collaborators
	Scanner ScannerConfig `mapstructure:"scanner" json:"scanner" validate:"dive"`
}

// InstallDefaultConfigValues installs default config parameters in viper
func InstallDefaultConfigValues() {
	viper.SetDefault("log-level", "warn")

	// Default API server config
	viper.SetDefault("server.service.listenOn", "0.0.0.0")
	viper.SetDefault("server.service.appPort", 8080)
	viper.SetDefault("server.service.timeoutSecs.read", 60)
	viper.SetDefault("server.service.timeoutSecs.write", 60)
	viper.SetDefault("server.service.timeoutSecs.idle", 60)
	viper.SetDefault("server.apis.endPoint.pathPrefix", "/api")
	viper.SetDefault("server.apis.requestLogging.logLevel", "warn")
	viper.SetDefault("server.apis.requestLogging.healthLogLevel", "debug")
	viper.SetDefault("server.apis.requestLogging.requestIDHeader", "X-Request-ID")
	viper.SetDefault("server.apis.requestLogging.skipHeaders", []string{
		"WWW-Authenticate", "Authorization", "Proxy-Authenticate", "Proxy-Authorization",
	})
	viper.SetDefault("server.apis.corsEnabled", true)

	// Default database config
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.sqlite.db", "/tmp/pseudovision.db")
	viper.SetDefault("database.postgres.port", 5432)
	viper.SetDefault("database.postgres.ssl.enabled", false)

	// Default media scanner config
	viper.SetDefault("media.scan-concurrency", 4)
	viper.SetDefault("media.probe-timeout-ms", 5000)

	// Default scheduling config
	viper.SetDefault("scheduling.lookahead-hours", 72)
	viper.SetDefault("scheduling.rebuild-interval-minutes", 60)
	viper.SetDefault("scheduling.zone-id", "UTC")

	// Default memcache config
	viper.SetDefault("memcache.enabled", false)
	viper.SetDefault("memcache.ttlSecs", 300)

	// Default metrics config
	viper.SetDefault("metrics.service.listenOn", "0.0.0.0")
	viper.SetDefault("metrics.service.appPort", 3001)
	viper.SetDefault("metrics.service.timeoutSecs.read", 60)
	viper.SetDefault("metrics.service.timeoutSecs.write", 60)
	viper.SetDefault("metrics.service.timeoutSecs.idle", 60)
	viper.SetDefault("metrics.metricsEndpoint", "/metrics")

	// Default scanner config: both collaborators disabled until an operator opts in
	viper.SetDefault("scanner.local.enabled", false)
	viper.SetDefault("scanner.jellyfin.enabled", false)
	viper.SetDefault("scanner.jellyfin.pollIntervalSecs", 300)
}
