package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pseudovision/pseudovision/common"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// ====================================================================================
// Management Server

/*
BuildManagementServer create the management / query REST API server (§6)

	@param httpCfg common.APIServerConfig - HTTP server configuration
	@param httpHandler PlayoutAPIHandler - the API handler
	@returns HTTP server instance
*/
func BuildManagementServer(
	httpCfg common.APIServerConfig, httpHandler PlayoutAPIHandler,
) (*http.Server, error) {
	router := mux.NewRouter()
	mainRouter := registerPathPrefix(router, httpCfg.APIs.Endpoint.PathPrefix, nil)
	v1Router := registerPathPrefix(mainRouter, "/v1", nil)

	// --------------------------------------------------------------------------------
	// Health check
	_ = registerPathPrefix(v1Router, "/alive", map[string]http.HandlerFunc{
		"get": httpHandler.AliveHandler(),
	})
	_ = registerPathPrefix(v1Router, "/ready", map[string]http.HandlerFunc{
		"get": httpHandler.ReadyHandler(),
	})

	// --------------------------------------------------------------------------------
	// Channels
	channelRouter := registerPathPrefix(v1Router, "/channel", map[string]http.HandlerFunc{
		"post": httpHandler.DefineNewChannelHandler(),
		"get":  httpHandler.ListChannelsHandler(),
	})
	perChannelRouter := registerPathPrefix(
		channelRouter, "/{channelID}", map[string]http.HandlerFunc{
			"get":    httpHandler.GetChannelHandler(),
			"put":    httpHandler.UpdateChannelHandler(),
			"delete": httpHandler.DeleteChannelHandler(),
		},
	)
	channelPlayoutRouter := registerPathPrefix(perChannelRouter, "/playout", map[string]http.HandlerFunc{
		"post": httpHandler.DefinePlayoutHandler(),
		"get":  httpHandler.GetPlayoutByChannelHandler(),
	})
	_ = registerPathPrefix(channelPlayoutRouter, "/build-status", map[string]http.HandlerFunc{
		"get": httpHandler.GetPlayoutBuildStatusHandler(),
	})

	// --------------------------------------------------------------------------------
	// Schedules & Slots
	scheduleRouter := registerPathPrefix(v1Router, "/schedule", map[string]http.HandlerFunc{
		"post": httpHandler.DefineNewScheduleHandler(),
		"get":  httpHandler.ListSchedulesHandler(),
	})
	perScheduleRouter := registerPathPrefix(
		scheduleRouter, "/{scheduleID}", map[string]http.HandlerFunc{
			"get":    httpHandler.GetScheduleHandler(),
			"put":    httpHandler.UpdateScheduleHandler(),
			"delete": httpHandler.DeleteScheduleHandler(),
		},
	)
	slotRouter := registerPathPrefix(perScheduleRouter, "/slot", map[string]http.HandlerFunc{
		"post": httpHandler.DefineNewSlotHandler(),
		"get":  httpHandler.ListSlotsByScheduleHandler(),
	})
	_ = registerPathPrefix(slotRouter, "/{slotID}", map[string]http.HandlerFunc{
		"put":    httpHandler.UpdateSlotHandler(),
		"delete": httpHandler.DeleteSlotHandler(),
	})

	// --------------------------------------------------------------------------------
	// Collections
	collectionRouter := registerPathPrefix(v1Router, "/collection", map[string]http.HandlerFunc{
		"post": httpHandler.DefineNewCollectionHandler(),
		"get":  httpHandler.ListCollectionsHandler(),
	})
	perCollectionRouter := registerPathPrefix(
		collectionRouter, "/{collectionID}", map[string]http.HandlerFunc{
			"get":    httpHandler.GetCollectionHandler(),
			"put":    httpHandler.UpdateCollectionHandler(),
			"delete": httpHandler.DeleteCollectionHandler(),
		},
	)
	_ = registerPathPrefix(perCollectionRouter, "/item", map[string]http.HandlerFunc{
		"post": httpHandler.AddCollectionItemHandler(),
		"get":  httpHandler.ListCollectionItemsHandler(),
	})
	_ = registerPathPrefix(v1Router, "/collection-item/{itemID}", map[string]http.HandlerFunc{
		"delete": httpHandler.RemoveCollectionItemHandler(),
	})

	// --------------------------------------------------------------------------------
	// Media Items
	mediaRouter := registerPathPrefix(v1Router, "/media-item", map[string]http.HandlerFunc{
		"post": httpHandler.DefineNewMediaItemHandler(),
		"get":  httpHandler.ListMediaItemsHandler(),
	})
	_ = registerPathPrefix(mediaRouter, "/{itemID}", map[string]http.HandlerFunc{
		"get":    httpHandler.GetMediaItemHandler(),
		"put":    httpHandler.UpdateMediaItemHandler(),
		"delete": httpHandler.DeleteMediaItemHandler(),
	})

	// --------------------------------------------------------------------------------
	// Filler presets
	fillerRouter := registerPathPrefix(v1Router, "/filler-preset", map[string]http.HandlerFunc{
		"post": httpHandler.DefineNewFillerPresetHandler(),
		"get":  httpHandler.ListFillerPresetsHandler(),
	})
	_ = registerPathPrefix(fillerRouter, "/{presetID}", map[string]http.HandlerFunc{
		"get":    httpHandler.GetFillerPresetHandler(),
		"delete": httpHandler.DeleteFillerPresetHandler(),
	})

	// --------------------------------------------------------------------------------
	// Playouts, build trigger, and events
	playoutRouter := registerPathPrefix(v1Router, "/playout", map[string]http.HandlerFunc{
		"get": httpHandler.ListPlayoutsHandler(),
	})
	perPlayoutRouter := registerPathPrefix(playoutRouter, "/{playoutID}", nil)
	_ = registerPathPrefix(perPlayoutRouter, "/build", map[string]http.HandlerFunc{
		"post": httpHandler.TriggerBuildHandler(),
	})
	_ = registerPathPrefix(perPlayoutRouter, "/event", map[string]http.HandlerFunc{
		"get":  httpHandler.ListUpcomingEventsHandler(),
		"post": httpHandler.DefineManualEventHandler(),
	})
	_ = registerPathPrefix(v1Router, "/event/{eventID}", map[string]http.HandlerFunc{
		"delete": httpHandler.DeleteManualEventHandler(),
	})

	// --------------------------------------------------------------------------------
	// Middleware

	var handler http.Handler = router
	if httpCfg.APIs.CORSEnabled {
		handler = cors.AllowAll().Handler(router)
	}
	router.Use(func(next http.Handler) http.Handler {
		return httpHandler.LoggingMiddleware(next.ServeHTTP)
	})

	// --------------------------------------------------------------------------------
	// HTTP Server

	serverListen := fmt.Sprintf("%s:%d", httpCfg.Server.ListenOn, httpCfg.Server.Port)
	httpSrv := &http.Server{
		Addr:         serverListen,
		WriteTimeout: time.Second * time.Duration(httpCfg.Server.Timeouts.WriteTimeout),
		ReadTimeout:  time.Second * time.Duration(httpCfg.Server.Timeouts.ReadTimeout),
		IdleTimeout:  time.Second * time.Duration(httpCfg.Server.Timeouts.IdleTimeout),
		Handler:      h2c.NewHandler(handler, &http2.Server{}),
	}

	return httpSrv, nil
}
