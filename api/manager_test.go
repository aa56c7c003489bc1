package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pseudovision/pseudovision/api"
	"github.com/pseudovision/pseudovision/build"
	"github.com/pseudovision/pseudovision/common"
	"github.com/pseudovision/pseudovision/db"
	"github.com/pseudovision/pseudovision/resolver"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func newTestHandler(t *testing.T) (api.PlayoutAPIHandler, db.PersistenceManager) {
	persist, err := db.NewManager(db.GetSqliteDialector(fmt.Sprintf("/tmp/api-ut-%s.db", uuid.NewString())), logger.Silent)
	assert.Nil(t, err)
	resolve := resolver.NewDBResolver(persist)
	clock := fixedClock{at: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	uut, err := api.NewPlayoutAPIHandler(persist, resolve, clock, build.DefaultOptions(), common.HTTPRequestLogging{
		RequestIDHeader: "X-Request-ID", DoNotLogHeaders: []string{},
	})
	assert.Nil(t, err)
	return uut, persist
}

func TestManagerDefineNewChannel(t *testing.T) {
	assert := assert.New(t)
	uut, _ := newTestHandler(t)

	// Case 0: no payload
	{
		req, err := http.NewRequest("POST", "/v1/channel", nil)
		assert.Nil(err)
		router := mux.NewRouter()
		respRecorder := httptest.NewRecorder()
		router.HandleFunc("/v1/channel", uut.LoggingMiddleware(uut.DefineNewChannelHandler()))
		router.ServeHTTP(respRecorder, req)
		assert.Equal(http.StatusBadRequest, respRecorder.Code)
	}

	// Case 1: non-json payload
	{
		req, err := http.NewRequest("POST", "/v1/channel", bytes.NewBufferString("not-json"))
		assert.Nil(err)
		router := mux.NewRouter()
		respRecorder := httptest.NewRecorder()
		router.HandleFunc("/v1/channel", uut.LoggingMiddleware(uut.DefineNewChannelHandler()))
		router.ServeHTTP(respRecorder, req)
		assert.Equal(http.StatusBadRequest, respRecorder.Code)
	}

	// Case 2: missing required field
	{
		payload, err := json.Marshal(&api.NewChannelRequest{Ordinal: 1})
		assert.Nil(err)
		req, err := http.NewRequest("POST", "/v1/channel", bytes.NewBuffer(payload))
		assert.Nil(err)
		router := mux.NewRouter()
		respRecorder := httptest.NewRecorder()
		router.HandleFunc("/v1/channel", uut.LoggingMiddleware(uut.DefineNewChannelHandler()))
		router.ServeHTTP(respRecorder, req)
		assert.Equal(http.StatusBadRequest, respRecorder.Code)
	}

	// Case 3: success
	{
		payload, err := json.Marshal(&api.NewChannelRequest{Name: "channel-1", Ordinal: 1})
		assert.Nil(err)
		req, err := http.NewRequest("POST", "/v1/channel", bytes.NewBuffer(payload))
		assert.Nil(err)
		router := mux.NewRouter()
		respRecorder := httptest.NewRecorder()
		router.HandleFunc("/v1/channel", uut.LoggingMiddleware(uut.DefineNewChannelHandler()))
		router.ServeHTTP(respRecorder, req)
		assert.Equal(http.StatusOK, respRecorder.Code)

		var parsed api.ChannelInfoResponse
		assert.Nil(json.Unmarshal(respRecorder.Body.Bytes(), &parsed))
		assert.Equal("channel-1", parsed.Channel.Name)
	}
}

func TestManagerGetChannelUnknownID(t *testing.T) {
	assert := assert.New(t)
	uut, _ := newTestHandler(t)

	req, err := http.NewRequest("GET", fmt.Sprintf("/v1/channel/%s", uuid.NewString()), nil)
	assert.Nil(err)
	router := mux.NewRouter()
	respRecorder := httptest.NewRecorder()
	router.HandleFunc("/v1/channel/{channelID}", uut.LoggingMiddleware(uut.GetChannelHandler()))
	router.ServeHTTP(respRecorder, req)
	assert.Equal(http.StatusInternalServerError, respRecorder.Code)
}

func TestManagerListChannelsEmpty(t *testing.T) {
	assert := assert.New(t)
	uut, _ := newTestHandler(t)

	req, err := http.NewRequest("GET", "/v1/channel", nil)
	assert.Nil(err)
	router := mux.NewRouter()
	respRecorder := httptest.NewRecorder()
	router.HandleFunc("/v1/channel", uut.LoggingMiddleware(uut.ListChannelsHandler()))
	router.ServeHTTP(respRecorder, req)
	assert.Equal(http.StatusOK, respRecorder.Code)

	var parsed api.ChannelInfoListResponse
	assert.Nil(json.Unmarshal(respRecorder.Body.Bytes(), &parsed))
	assert.Empty(parsed.Channels)
}

func TestManagerTriggerBuildOnEmptySchedule(t *testing.T) {
	assert := assert.New(t)
	uut, persist := newTestHandler(t)
	ctxt := context.Background()

	channelID, err := persist.DefineChannel(ctxt, "chan", 0, nil)
	assert.Nil(err)
	playoutEntry, err := persist.DefinePlayout(ctxt, channelID, nil, 1)
	assert.Nil(err)

	req, err := http.NewRequest("POST", fmt.Sprintf("/v1/playout/%s/build", playoutEntry.ID), nil)
	assert.Nil(err)
	router := mux.NewRouter()
	respRecorder := httptest.NewRecorder()
	router.HandleFunc("/v1/playout/{playoutID}/build", uut.LoggingMiddleware(uut.TriggerBuildHandler()))
	router.ServeHTTP(respRecorder, req)
	assert.Equal(http.StatusOK, respRecorder.Code)

	var parsed api.BuildReportResponse
	assert.Nil(json.Unmarshal(respRecorder.Body.Bytes(), &parsed))
	assert.Equal(string(build.OutcomeNoSchedule), parsed.Outcome)
}

func TestManagerGetPlayoutBuildStatus(t *testing.T) {
	assert := assert.New(t)
	uut, persist := newTestHandler(t)
	ctxt := context.Background()

	channelID, err := persist.DefineChannel(ctxt, "chan", 0, nil)
	assert.Nil(err)
	_, err = persist.DefinePlayout(ctxt, channelID, nil, 1)
	assert.Nil(err)

	req, err := http.NewRequest("GET", fmt.Sprintf("/v1/channel/%s/playout/build-status", channelID), nil)
	assert.Nil(err)
	router := mux.NewRouter()
	respRecorder := httptest.NewRecorder()
	router.HandleFunc(
		"/v1/channel/{channelID}/playout/build-status",
		uut.LoggingMiddleware(uut.GetPlayoutBuildStatusHandler()),
	)
	router.ServeHTTP(respRecorder, req)
	assert.Equal(http.StatusOK, respRecorder.Code)

	var parsed api.PlayoutBuildStatusResponse
	assert.Nil(json.Unmarshal(respRecorder.Body.Bytes(), &parsed))
	assert.False(parsed.BuildSuccess)
	assert.Nil(parsed.LastBuiltAt)
}

func TestManagerAddAndListCollectionItems(t *testing.T) {
	assert := assert.New(t)
	uut, persist := newTestHandler(t)
	ctxt := context.Background()

	itemID, err := persist.DefineMediaItem(ctxt, common.MediaItem{Title: "movie-1", Duration: time.Minute})
	assert.Nil(err)
	collectionID, err := persist.DefineCollection(ctxt, common.Collection{
		Name: "coll", Kind: common.CollectionKindManual,
	})
	assert.Nil(err)

	payload, err := json.Marshal(&api.AddCollectionItemRequest{MediaItemID: itemID})
	assert.Nil(err)
	req, err := http.NewRequest("POST", fmt.Sprintf("/v1/collection/%s/item", collectionID), bytes.NewBuffer(payload))
	assert.Nil(err)
	router := mux.NewRouter()
	respRecorder := httptest.NewRecorder()
	router.HandleFunc("/v1/collection/{collectionID}/item", uut.LoggingMiddleware(uut.AddCollectionItemHandler())).Methods("POST")
	router.HandleFunc("/v1/collection/{collectionID}/item", uut.LoggingMiddleware(uut.ListCollectionItemsHandler())).Methods("GET")
	router.ServeHTTP(respRecorder, req)
	assert.Equal(http.StatusOK, respRecorder.Code)

	req2, err := http.NewRequest("GET", fmt.Sprintf("/v1/collection/%s/item", collectionID), nil)
	assert.Nil(err)
	respRecorder2 := httptest.NewRecorder()
	router.ServeHTTP(respRecorder2, req2)
	assert.Equal(http.StatusOK, respRecorder2.Code)

	var parsed api.CollectionItemListResponse
	assert.Nil(json.Unmarshal(respRecorder2.Body.Bytes(), &parsed))
	assert.Len(parsed.Items, 1)
	assert.Equal(itemID, parsed.Items[0].ID)
}
