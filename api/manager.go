package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/alwitt/goutils"
	"github.com/apex/log"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/pseudovision/pseudovision/build"
	"github.com/pseudovision/pseudovision/common"
	"github.com/pseudovision/pseudovision/db"
	"github.com/pseudovision/pseudovision/resolver"
	"github.com/pseudovision/pseudovision/timeutil"
)

// PlayoutAPIHandler is the REST surface over the persistence layer and the
// build driver (§6): Channels, Schedules, Slots, Collections, Media Items,
// Filler Presets, Playouts and their Events.
type PlayoutAPIHandler struct {
	goutils.RestAPIHandler
	validate *validator.Validate
	persist  db.PersistenceManager
	resolve  resolver.CollectionResolver
	clock    timeutil.Clock
	buildOpt build.Options
}

/*
NewPlayoutAPIHandler define a new playout API handler

	@param persist db.PersistenceManager - persistence layer
	@param resolve resolver.CollectionResolver - collection resolver used by the build driver
	@param clock timeutil.Clock - clock the build driver treats as "now"
	@param buildOpt build.Options - build driver tunables (§4.6)
	@param logConfig common.HTTPRequestLogging - handler log settings
	@returns new PlayoutAPIHandler
*/
func NewPlayoutAPIHandler(
	persist db.PersistenceManager,
	resolve resolver.CollectionResolver,
	clock timeutil.Clock,
	buildOpt build.Options,
	logConfig common.HTTPRequestLogging,
) (PlayoutAPIHandler, error) {
	return PlayoutAPIHandler{
		RestAPIHandler: goutils.RestAPIHandler{
			Component: goutils.Component{
				LogTags: log.Fields{"module": "api", "component": "playout-handler"},
				LogTagModifiers: []goutils.LogMetadataModifier{
					goutils.ModifyLogMetadataByRestRequestParam,
				},
			},
			CallRequestIDHeaderField: &logConfig.RequestIDHeader,
			DoNotLogHeaders: func() map[string]bool {
				result := map[string]bool{}
				for _, v := range logConfig.DoNotLogHeaders {
					result[v] = true
				}
				return result
			}(),
			LogLevel: goutils.HTTPRequestLogLevel(logConfig.LogLevel),
		},
		validate: validator.New(), persist: persist, resolve: resolve, clock: clock, buildOpt: buildOpt,
	}, nil
}

func pathVar(r *http.Request, name string) (string, bool) {
	v, ok := mux.Vars(r)[name]
	return v, ok
}

// ====================================================================================
// Health

func (h PlayoutAPIHandler) Alive(w http.ResponseWriter, r *http.Request) {
	logTags := h.GetLogTagsForContext(r.Context())
	if err := h.WriteRESTResponse(
		w, http.StatusOK, h.GetStdRESTSuccessMsg(r.Context()), nil,
	); err != nil {
		log.WithError(err).WithFields(logTags).Error("Failed to form response")
	}
}

// AliveHandler Wrapper around Alive
func (h PlayoutAPIHandler) AliveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.Alive(w, r) }
}

func (h PlayoutAPIHandler) Ready(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	if err := h.persist.Ready(r.Context()); err != nil {
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, "not ready", err.Error())
		return
	}
	respCode = http.StatusOK
	response = h.GetStdRESTSuccessMsg(r.Context())
}

// ReadyHandler Wrapper around Ready
func (h PlayoutAPIHandler) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.Ready(w, r) }
}

// ====================================================================================
// Channels

// NewChannelRequest parameters to define a new channel
type NewChannelRequest struct {
	Name        string  `json:"name" validate:"required"`
	Ordinal     int     `json:"ordinal"`
	Description *string `json:"description,omitempty"`
}

// ChannelInfoResponse response containing one channel
type ChannelInfoResponse struct {
	goutils.RestAPIBaseResponse
	Channel common.Channel `json:"channel"`
}

// ChannelInfoListResponse response containing a list of channels
type ChannelInfoListResponse struct {
	goutils.RestAPIBaseResponse
	Channels []common.Channel `json:"channels"`
}

// DefineNewChannel godoc
// @Summary Define a new channel
// @tags channels
// @Accept json
// @Produce json
// @Param param body NewChannelRequest true "Channel parameters"
// @Success 200 {object} ChannelInfoResponse "success"
// @Failure 400 {object} goutils.RestAPIBaseResponse "error"
// @Failure 500 {object} goutils.RestAPIBaseResponse "error"
// @Router /v1/channel [post]
func (h PlayoutAPIHandler) DefineNewChannel(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	var params NewChannelRequest
	if r.Body == nil {
		msg := "no payload provided to define new channel"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		msg := "unable to parse new channel parameters"
		log.WithError(err).WithFields(logTags).Error(msg)
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}
	if err := h.validate.Struct(&params); err != nil {
		msg := "missing required values to define new channel"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}

	entryID, err := h.persist.DefineChannel(r.Context(), params.Name, params.Ordinal, params.Description)
	if err != nil {
		msg := "failed to define new channel"
		log.WithError(err).WithFields(logTags).Error(msg)
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}

	entry, err := h.persist.GetChannel(r.Context(), entryID)
	if err != nil {
		msg := "failed to read back the new channel"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}

	respCode = http.StatusOK
	response = ChannelInfoResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Channel: entry}
}

// DefineNewChannelHandler Wrapper around DefineNewChannel
func (h PlayoutAPIHandler) DefineNewChannelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.DefineNewChannel(w, r) }
}

func (h PlayoutAPIHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	entries, err := h.persist.ListChannels(r.Context())
	if err != nil {
		msg := "failed to list channels"
		log.WithError(err).WithFields(logTags).Error(msg)
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = ChannelInfoListResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Channels: entries}
}

// ListChannelsHandler Wrapper around ListChannels
func (h PlayoutAPIHandler) ListChannelsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.ListChannels(w, r) }
}

func (h PlayoutAPIHandler) GetChannel(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	channelID, ok := pathVar(r, "channelID")
	if !ok {
		msg := "channel ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	entry, err := h.persist.GetChannel(r.Context(), channelID)
	if err != nil {
		msg := "failed to fetch channel"
		log.WithError(err).WithFields(logTags).WithField("channel", channelID).Error(msg)
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = ChannelInfoResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Channel: entry}
}

// GetChannelHandler Wrapper around GetChannel
func (h PlayoutAPIHandler) GetChannelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.GetChannel(w, r) }
}

func (h PlayoutAPIHandler) UpdateChannel(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	channelID, ok := pathVar(r, "channelID")
	if !ok {
		msg := "channel ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	var entry common.Channel
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		msg := "unable to parse channel update parameters"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}
	entry.ID = channelID

	if err := h.persist.UpdateChannel(r.Context(), entry); err != nil {
		msg := "failed to update channel"
		log.WithError(err).WithFields(logTags).WithField("channel", channelID).Error(msg)
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = h.GetStdRESTSuccessMsg(r.Context())
}

// UpdateChannelHandler Wrapper around UpdateChannel
func (h PlayoutAPIHandler) UpdateChannelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.UpdateChannel(w, r) }
}

func (h PlayoutAPIHandler) DeleteChannel(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	channelID, ok := pathVar(r, "channelID")
	if !ok {
		msg := "channel ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	if err := h.persist.DeleteChannel(r.Context(), channelID); err != nil {
		msg := "failed to delete channel"
		log.WithError(err).WithFields(logTags).WithField("channel", channelID).Error(msg)
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = h.GetStdRESTSuccessMsg(r.Context())
}

// DeleteChannelHandler Wrapper around DeleteChannel
func (h PlayoutAPIHandler) DeleteChannelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.DeleteChannel(w, r) }
}

// ====================================================================================
// Playouts & build trigger

// PlayoutInfoResponse response containing one playout
type PlayoutInfoResponse struct {
	goutils.RestAPIBaseResponse
	Playout common.Playout `json:"playout"`
}

// PlayoutInfoListResponse response containing a list of playouts
type PlayoutInfoListResponse struct {
	goutils.RestAPIBaseResponse
	Playouts []common.Playout `json:"playouts"`
}

// DefinePlayoutRequest parameters to create, or fetch unchanged, a channel's playout
type DefinePlayoutRequest struct {
	ScheduleID *string `json:"schedule_id,omitempty"`
	Seed       int64   `json:"seed"`
}

func (h PlayoutAPIHandler) DefinePlayout(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	channelID, ok := pathVar(r, "channelID")
	if !ok {
		msg := "channel ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	var params DefinePlayoutRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			msg := "unable to parse playout parameters"
			respCode = http.StatusBadRequest
			response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
			return
		}
	}

	entry, err := h.persist.DefinePlayout(r.Context(), channelID, params.ScheduleID, params.Seed)
	if err != nil {
		msg := "failed to define playout"
		log.WithError(err).WithFields(logTags).WithField("channel", channelID).Error(msg)
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = PlayoutInfoResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Playout: entry}
}

// DefinePlayoutHandler Wrapper around DefinePlayout
func (h PlayoutAPIHandler) DefinePlayoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.DefinePlayout(w, r) }
}

func (h PlayoutAPIHandler) GetPlayoutByChannel(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	channelID, ok := pathVar(r, "channelID")
	if !ok {
		msg := "channel ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	entry, err := h.persist.GetPlayoutByChannel(r.Context(), channelID)
	if err != nil {
		msg := "failed to fetch playout"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = PlayoutInfoResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Playout: entry}
}

// GetPlayoutByChannelHandler Wrapper around GetPlayoutByChannel
func (h PlayoutAPIHandler) GetPlayoutByChannelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.GetPlayoutByChannel(w, r) }
}

func (h PlayoutAPIHandler) ListPlayouts(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	entries, err := h.persist.ListPlayouts(r.Context())
	if err != nil {
		msg := "failed to list playouts"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = PlayoutInfoListResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Playouts: entries}
}

// ListPlayoutsHandler Wrapper around ListPlayouts
func (h PlayoutAPIHandler) ListPlayoutsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.ListPlayouts(w, r) }
}

// BuildReportResponse response summarising one build/rebuild attempt (§4.6)
type BuildReportResponse struct {
	goutils.RestAPIBaseResponse
	Outcome       string `json:"outcome"`
	EventsEmitted int    `json:"events_emitted"`
	Message       string `json:"message,omitempty"`
}

// TriggerBuild godoc
// @Summary Build, or rebuild, a playout's event timeline
// @Description Runs the build driver synchronously and returns its summary (§9: chosen
// @Description over an async job queue since one build is a single bounded DB transaction)
// @tags playouts
// @Produce json
// @Param playoutID path string true "Playout ID"
// @Success 200 {object} BuildReportResponse "success"
// @Failure 500 {object} goutils.RestAPIBaseResponse "error"
// @Router /v1/playout/{playoutID}/build [post]
func (h PlayoutAPIHandler) TriggerBuild(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	playoutID, ok := pathVar(r, "playoutID")
	if !ok {
		msg := "playout ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	report, err := build.Rebuild(r.Context(), h.persist, h.resolve, h.clock, h.buildOpt, playoutID)
	if err != nil {
		msg := "failed to run playout build"
		log.WithError(err).WithFields(logTags).WithField("playout", playoutID).Error(msg)
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = BuildReportResponse{
		RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()),
		Outcome:             string(report.Outcome), EventsEmitted: report.EventsEmitted, Message: report.Message,
	}
}

// TriggerBuildHandler Wrapper around TriggerBuild
func (h PlayoutAPIHandler) TriggerBuildHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.TriggerBuild(w, r) }
}

// PlayoutBuildStatusResponse response surfacing a playout's last build outcome
type PlayoutBuildStatusResponse struct {
	goutils.RestAPIBaseResponse
	PlayoutID    string     `json:"playout_id"`
	BuildSuccess bool       `json:"build_success"`
	BuildMessage *string    `json:"build_message,omitempty"`
	LastBuiltAt  *time.Time `json:"last_built_at,omitempty"`
}

// GetPlayoutBuildStatus godoc
// @Summary Fetch a channel's playout build status without the full event timeline
// @tags playouts
// @Produce json
// @Param channelID path string true "Channel ID"
// @Success 200 {object} PlayoutBuildStatusResponse "success"
// @Failure 500 {object} goutils.RestAPIBaseResponse "error"
// @Router /v1/channel/{channelID}/playout/build-status [get]
func (h PlayoutAPIHandler) GetPlayoutBuildStatus(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	channelID, ok := pathVar(r, "channelID")
	if !ok {
		msg := "channel ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	entry, err := h.persist.GetPlayoutByChannel(r.Context(), channelID)
	if err != nil {
		msg := "failed to fetch playout build status"
		log.WithError(err).WithFields(logTags).WithField("channel", channelID).Error(msg)
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = PlayoutBuildStatusResponse{
		RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()),
		PlayoutID:           entry.ID,
		BuildSuccess:        entry.BuildSuccess,
		BuildMessage:        entry.BuildMessage,
		LastBuiltAt:         entry.LastBuiltAt,
	}
}

// GetPlayoutBuildStatusHandler Wrapper around GetPlayoutBuildStatus
func (h PlayoutAPIHandler) GetPlayoutBuildStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.GetPlayoutBuildStatus(w, r) }
}

// ====================================================================================
// Events

// EventListResponse response containing a list of events
type EventListResponse struct {
	goutils.RestAPIBaseResponse
	Events []common.Event `json:"events"`
}

// ListUpcomingEvents godoc
// @Summary List a playout's upcoming events
// @tags playouts
// @Produce json
// @Param playoutID path string true "Playout ID"
// @Param limit query int false "Maximum events to return (default 100)"
// @Success 200 {object} EventListResponse "success"
// @Router /v1/playout/{playoutID}/event [get]
func (h PlayoutAPIHandler) ListUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	playoutID, ok := pathVar(r, "playoutID")
	if !ok {
		msg := "playout ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			msg := "invalid limit query parameter"
			respCode = http.StatusBadRequest
			response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
			return
		}
		limit = parsed
	}
	entries, err := h.persist.ListUpcomingEvents(r.Context(), playoutID, h.clock.Now(), limit)
	if err != nil {
		msg := "failed to list upcoming events"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = EventListResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Events: entries}
}

// ListUpcomingEventsHandler Wrapper around ListUpcomingEvents
func (h PlayoutAPIHandler) ListUpcomingEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.ListUpcomingEvents(w, r) }
}

// EventInfoResponse response containing one event
type EventInfoResponse struct {
	goutils.RestAPIBaseResponse
	Event common.Event `json:"event"`
}

// DefineManualEvent godoc
// @Summary Insert a manual (operator-pinned) event into a playout's timeline
// @tags playouts
// @Accept json
// @Produce json
// @Param playoutID path string true "Playout ID"
// @Param param body common.Event true "Event parameters"
// @Success 200 {object} EventInfoResponse "success"
// @Router /v1/playout/{playoutID}/event [post]
func (h PlayoutAPIHandler) DefineManualEvent(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	playoutID, ok := pathVar(r, "playoutID")
	if !ok {
		msg := "playout ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	var entry common.Event
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		msg := "unable to parse manual event parameters"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}
	entry.PlayoutID = playoutID
	entry.IsManual = true

	entryID, err := h.persist.DefineManualEvent(r.Context(), entry)
	if err != nil {
		msg := "failed to define manual event"
		log.WithError(err).WithFields(logTags).WithField("playout", playoutID).Error(msg)
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	entry.ID = entryID
	respCode = http.StatusOK
	response = EventInfoResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Event: entry}
}

// DefineManualEventHandler Wrapper around DefineManualEvent
func (h PlayoutAPIHandler) DefineManualEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.DefineManualEvent(w, r) }
}

func (h PlayoutAPIHandler) DeleteManualEvent(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	eventID, ok := pathVar(r, "eventID")
	if !ok {
		msg := "event ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	if err := h.persist.DeleteManualEvent(r.Context(), eventID); err != nil {
		msg := "failed to delete manual event"
		log.WithError(err).WithFields(logTags).WithField("event", eventID).Error(msg)
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = h.GetStdRESTSuccessMsg(r.Context())
}

// DeleteManualEventHandler Wrapper around DeleteManualEvent
func (h PlayoutAPIHandler) DeleteManualEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.DeleteManualEvent(w, r) }
}
