package bin_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/pseudovision/pseudovision/bin"
	"github.com/pseudovision/pseudovision/common"
	"github.com/stretchr/testify/assert"
)

func testConfig(t *testing.T) common.Config {
	return common.Config{
		LogLevel: "warn",
		Server: common.APIServerConfig{
			Server: common.HTTPServerConfig{
				ListenOn: "127.0.0.1", Port: 18080,
				Timeouts: common.HTTPServerTimeoutConfig{ReadTimeout: 5, WriteTimeout: 5, IdleTimeout: 5},
			},
			APIs: common.APIConfig{
				Endpoint: common.EndpointConfig{PathPrefix: "/api"},
				RequestLogging: common.HTTPRequestLogging{
					LogLevel: "warn", RequestIDHeader: "X-Request-ID",
				},
			},
		},
		Database: common.DatabaseConfig{
			Driver: "sqlite",
			Sqlite: &common.SqliteConfig{DBFile: fmt.Sprintf("/tmp/bin-ut-%s.db", uuid.NewString())},
		},
		Media:      common.MediaConfig{ScanConcurrency: 1, ProbeTimeoutMsec: 1000},
		Scheduling: common.SchedulingConfig{LookaheadHours: 72, RebuildIntervalMinutes: 60, ZoneID: "UTC"},
		Metrics: common.MetricsConfig{
			Server: common.HTTPServerConfig{
				ListenOn: "127.0.0.1", Port: 18081,
				Timeouts: common.HTTPServerTimeoutConfig{ReadTimeout: 5, WriteTimeout: 5, IdleTimeout: 5},
			},
			MetricsEndpoint: "/metrics",
		},
	}
}

func TestDefineNodeWithoutScanners(t *testing.T) {
	assert := assert.New(t)

	node, err := bin.DefineNode(context.Background(), testConfig(t), "")
	assert.Nil(err)
	assert.NotNil(node.MgmtAPIServer)
	assert.NotNil(node.MetricsServer)
	assert.Nil(node.Persist.Ready(context.Background()))
	assert.Nil(node.Cleanup(context.Background()))
}
