package bin

import (
	"context"
	"fmt"
	"net/http"

	"github.com/apex/log"
	"github.com/bradfitz/gomemcache/memcache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pseudovision/pseudovision/api"
	"github.com/pseudovision/pseudovision/build"
	"github.com/pseudovision/pseudovision/common"
	"github.com/pseudovision/pseudovision/db"
	"github.com/pseudovision/pseudovision/resolver"
	"github.com/pseudovision/pseudovision/scanner/jellyfin"
	"github.com/pseudovision/pseudovision/scanner/local"
	"github.com/pseudovision/pseudovision/timeutil"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// resolveDialector picks the Postgres or sqlite gorm.Dialector per config.Database.Driver.
func resolveDialector(config common.DatabaseConfig, psqlPassword string) (gorm.Dialector, error) {
	switch config.Driver {
	case "postgres":
		if config.Postgres == nil {
			return nil, fmt.Errorf("database.postgres section required when driver is 'postgres'")
		}
		return db.GetPostgresDialector(*config.Postgres, psqlPassword), nil
	case "sqlite":
		if config.Sqlite == nil {
			return nil, fmt.Errorf("database.sqlite section required when driver is 'sqlite'")
		}
		return db.GetSqliteDialector(config.Sqlite.DBFile), nil
	default:
		return nil, fmt.Errorf("unsupported database driver '%s'", config.Driver)
	}
}

// gormLogLevel maps the node's application log level to a gorm query-log verbosity.
func gormLogLevel(appLogLevel string) logger.LogLevel {
	if appLogLevel == "debug" {
		return logger.Info
	}
	return logger.Error
}

// runner a background collaborator driven for the lifetime of the node
// (the two media library scanners — §2).
type runner interface {
	Run(ctxt context.Context) error
}

// Node the single-process Pseudovision node: persistence, build driver,
// management API, metrics, and the background media scanners.
type Node struct {
	Persist       db.PersistenceManager
	MgmtAPIServer *http.Server
	MetricsServer *http.Server

	scanners []runner
	cancel   func()
}

/*
Cleanup stop the node's background scanners

	@param ctxt context.Context - execution context
*/
func (n *Node) Cleanup(ctxt context.Context) error {
	if n.cancel != nil {
		n.cancel()
	}
	return nil
}

/*
DefineNode setup a new Pseudovision node

	@param parentCtxt context.Context - parent execution context
	@param config common.Config - node configuration
	@param psqlPassword string - Postgres SQL user password, ignored unless config.Database.Driver == "postgres"
	@returns new Node
*/
func DefineNode(parentCtxt context.Context, config common.Config, psqlPassword string) (*Node, error) {
	/*
		Steps for preparing the node are

		* Prepare database dialector and persistence manager
		* Prepare collection resolver, optionally fronted by a memcached cache
		* Register build-engine Prometheus metrics
		* Prepare management API HTTP server
		* Prepare metrics HTTP server
		* Prepare the background media scanners
	*/

	theNode := &Node{}

	dbDialector, err := resolveDialector(config.Database, psqlPassword)
	if err != nil {
		log.WithError(err).Error("Failed to define database dialector")
		return nil, err
	}

	dbManager, err := db.NewManager(dbDialector, gormLogLevel(config.LogLevel))
	if err != nil {
		log.WithError(err).Error("Failed to define persistence manager")
		return nil, err
	}
	theNode.Persist = dbManager

	var resolve resolver.CollectionResolver = resolver.NewDBResolver(dbManager)
	if config.Memcache.Enabled {
		resolve = resolver.NewCachingResolver(
			resolve, memcache.New(config.Memcache.Servers...), config.Memcache.TTL(),
		)
	}

	metricsRegistry := prometheus.NewRegistry()
	build.RegisterMetrics(metricsRegistry)

	buildOpt := build.Options{
		LookaheadHours: config.Scheduling.LookaheadHours,
		ZoneID:         config.Scheduling.ZoneID,
	}

	mgmtHandler, err := api.NewPlayoutAPIHandler(
		dbManager, resolve, timeutil.RealClock{}, buildOpt, config.Server.APIs.RequestLogging,
	)
	if err != nil {
		log.WithError(err).Error("Failed to define management API handler")
		return nil, err
	}

	mgmtAPIServer, err := api.BuildManagementServer(config.Server, mgmtHandler)
	if err != nil {
		log.WithError(err).Error("Failed to create management API HTTP server")
		return nil, err
	}
	theNode.MgmtAPIServer = mgmtAPIServer

	metricsMux := http.NewServeMux()
	metricsMux.Handle(
		config.Metrics.MetricsEndpoint,
		promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}),
	)
	theNode.MetricsServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Metrics.Server.ListenOn, config.Metrics.Server.Port),
		Handler: metricsMux,
	}

	scanCtxt, cancel := context.WithCancel(parentCtxt)
	theNode.cancel = cancel

	if config.Scanner.Local.Enabled {
		watcher, err := local.NewWatcher(
			config.Scanner.Local.Root, config.Scanner.Local.CollectionID, dbManager,
		)
		if err != nil {
			log.WithError(err).Error("Failed to define local media scanner")
			return nil, err
		}
		theNode.scanners = append(theNode.scanners, watcher)
	}

	if config.Scanner.Jellyfin.Enabled {
		poller, err := jellyfin.NewPoller(
			config.Scanner.Jellyfin.BaseURL, config.Scanner.Jellyfin.APIKey,
			config.Scanner.Jellyfin.CollectionID, dbManager, config.Scanner.Jellyfin.PollInterval(),
		)
		if err != nil {
			log.WithError(err).Error("Failed to define Jellyfin media scanner")
			return nil, err
		}
		theNode.scanners = append(theNode.scanners, poller)
	}

	for _, scanner := range theNode.scanners {
		go func(r runner) {
			if err := r.Run(scanCtxt); err != nil {
				log.WithError(err).Error("Background media scanner stopped")
			}
		}(scanner)
	}

	return theNode, nil
}
