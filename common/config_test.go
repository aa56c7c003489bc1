package common_test

import (
	"bytes"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pseudovision/pseudovision/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestConfig(t *testing.T) {
	assert := assert.New(t)

	validate := validator.New()

	// Case 0: by default the config is not valid
	{
		cfg := common.Config{}
		assert.NotNil(validate.Struct(&cfg))
	}

	// Install defaults
	common.InstallDefaultConfigValues()

	viper.SetConfigType("yaml")

	// Case 1: a complete valid case
	{
		config := []byte(`---
log-level: info

server:
  service:
    listenOn: 0.0.0.0
    appPort: 8080
  apis:
    endPoint:
      pathPrefix: /api
    requestLogging:
      logLevel: warn
      healthLogLevel: debug
      requestIDHeader: X-Request-ID

database:
  driver: sqlite
  sqlite:
    db: /tmp/pseudovision.db

media:
  scan-concurrency: 4
  probe-timeout-ms: 5000

scheduling:
  lookahead-hours: 72
  rebuild-interval-minutes: 60
  zone-id: America/Chicago

metrics:
  service:
    listenOn: 0.0.0.0
    appPort: 3001
  metricsEndpoint: /metrics`)
		assert.Nil(viper.ReadConfig(bytes.NewBuffer(config)))
		var cfg common.Config
		assert.Nil(viper.Unmarshal(&cfg))
		err := validate.Struct(&cfg)
		assert.Nil(err)

		assert.Equal(60, cfg.Server.Server.Timeouts.IdleTimeout)
		assert.Equal("sqlite", cfg.Database.Driver)
		assert.NotNil(cfg.Database.Sqlite)
		assert.Equal("/tmp/pseudovision.db", cfg.Database.Sqlite.DBFile)
		assert.Equal(72, cfg.Scheduling.LookaheadHours)
		assert.Equal("America/Chicago", cfg.Scheduling.ZoneID)
		assert.False(cfg.Scanner.Local.Enabled)
		assert.False(cfg.Scanner.Jellyfin.Enabled)
	}

	// Case 2: a required value is blanked out
	{
		config := []byte(`---
log-level: info

server:
  service:
    listenOn: 0.0.0.0
    appPort: 8080
  apis:
    endPoint:
      pathPrefix: ""
    requestLogging:
      logLevel: warn
      healthLogLevel: debug

database:
  driver: sqlite
  sqlite:
    db: /tmp/pseudovision.db

media:
  scan-concurrency: 4
  probe-timeout-ms: 5000

scheduling:
  lookahead-hours: 72
  rebuild-interval-minutes: 60

metrics:
  service:
    listenOn: 0.0.0.0
    appPort: 3001
  metricsEndpoint: /metrics`)
		assert.Nil(viper.ReadConfig(bytes.NewBuffer(config)))
		var cfg common.Config
		assert.Nil(viper.Unmarshal(&cfg))
		err := validate.Struct(&cfg)
		assert.NotNil(err)
	}

	// Case 3: value fails constraint
	{
		config := []byte(`---
log-level: not-a-level

server:
  service:
    listenOn: 0.0.0.0
    appPort: 8080
  apis:
    endPoint:
      pathPrefix: /api
    requestLogging:
      logLevel: warn
      healthLogLevel: debug

database:
  driver: sqlite
  sqlite:
    db: /tmp/pseudovision.db

media:
  scan-concurrency: 4
  probe-timeout-ms: 5000

scheduling:
  lookahead-hours: 72
  rebuild-interval-minutes: 60
  zone-id: UTC

metrics:
  service:
    listenOn: 0.0.0.0
    appPort: 3001
  metricsEndpoint: /metrics`)
		assert.Nil(viper.ReadConfig(bytes.NewBuffer(config)))
		var cfg common.Config
		assert.Nil(viper.Unmarshal(&cfg))
		err := validate.Struct(&cfg)
		assert.NotNil(err)
	}
}

func TestJellyfinScannerPollInterval(t *testing.T) {
	assert := assert.New(t)
	cfg := common.JellyfinScannerConfig{PollIntervalSecs: 30}
	assert.Equal(30, int(cfg.PollInterval().Seconds()))
}
