package api

import (
	"encoding/json"
	"net/http"

	"github.com/alwitt/goutils"
	"github.com/apex/log"
	"github.com/pseudovision/pseudovision/common"
)

// ====================================================================================
// Media Items

// MediaItemInfoResponse response containing one media item
type MediaItemInfoResponse struct {
	goutils.RestAPIBaseResponse
	Item common.MediaItem `json:"item"`
}

// MediaItemInfoListResponse response containing a list of media items
type MediaItemInfoListResponse struct {
	goutils.RestAPIBaseResponse
	Items []common.MediaItem `json:"items"`
}

func (h PlayoutAPIHandler) DefineNewMediaItem(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	var params common.MediaItem
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		msg := "unable to parse new media item parameters"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}
	if err := h.validate.Struct(&params); err != nil {
		msg := "missing required values to define new media item"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}

	entryID, err := h.persist.DefineMediaItem(r.Context(), params)
	if err != nil {
		msg := "failed to define new media item"
		log.WithError(err).WithFields(logTags).Error(msg)
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	entry, err := h.persist.GetMediaItem(r.Context(), entryID)
	if err != nil {
		msg := "failed to read back the new media item"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = MediaItemInfoResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Item: entry}
}

// DefineNewMediaItemHandler Wrapper around DefineNewMediaItem
func (h PlayoutAPIHandler) DefineNewMediaItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.DefineNewMediaItem(w, r) }
}

func (h PlayoutAPIHandler) ListMediaItems(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	entries, err := h.persist.ListMediaItems(r.Context())
	if err != nil {
		msg := "failed to list media items"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = MediaItemInfoListResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Items: entries}
}

// ListMediaItemsHandler Wrapper around ListMediaItems
func (h PlayoutAPIHandler) ListMediaItemsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.ListMediaItems(w, r) }
}

func (h PlayoutAPIHandler) GetMediaItem(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	itemID, ok := pathVar(r, "itemID")
	if !ok {
		msg := "media item ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	entry, err := h.persist.GetMediaItem(r.Context(), itemID)
	if err != nil {
		msg := "failed to fetch media item"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = MediaItemInfoResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Item: entry}
}

// GetMediaItemHandler Wrapper around GetMediaItem
func (h PlayoutAPIHandler) GetMediaItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.GetMediaItem(w, r) }
}

func (h PlayoutAPIHandler) UpdateMediaItem(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	itemID, ok := pathVar(r, "itemID")
	if !ok {
		msg := "media item ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}
	var entry common.MediaItem
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		msg := "unable to parse media item update parameters"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}
	entry.ID = itemID

	if err := h.persist.UpdateMediaItem(r.Context(), entry); err != nil {
		msg := "failed to update media item"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = h.GetStdRESTSuccessMsg(r.Context())
}

// UpdateMediaItemHandler Wrapper around UpdateMediaItem
func (h PlayoutAPIHandler) UpdateMediaItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.UpdateMediaItem(w, r) }
}

func (h PlayoutAPIHandler) DeleteMediaItem(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	itemID, ok := pathVar(r, "itemID")
	if !ok {
		msg := "media item ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	if err := h.persist.DeleteMediaItem(r.Context(), itemID); err != nil {
		msg := "failed to delete media item"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = h.GetStdRESTSuccessMsg(r.Context())
}

// DeleteMediaItemHandler Wrapper around DeleteMediaItem
func (h PlayoutAPIHandler) DeleteMediaItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.DeleteMediaItem(w, r) }
}

// ====================================================================================
// Filler presets (§4.4)

// FillerPresetInfoResponse response containing one filler preset
type FillerPresetInfoResponse struct {
	goutils.RestAPIBaseResponse
	Preset common.FillerPreset `json:"preset"`
}

// FillerPresetInfoListResponse response containing a list of filler presets
type FillerPresetInfoListResponse struct {
	goutils.RestAPIBaseResponse
	Presets []common.FillerPreset `json:"presets"`
}

func (h PlayoutAPIHandler) DefineNewFillerPreset(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	var params common.FillerPreset
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		msg := "unable to parse new filler preset parameters"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}
	if err := h.validate.Struct(&params); err != nil {
		msg := "missing required values to define new filler preset"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}

	entryID, err := h.persist.DefineFillerPreset(r.Context(), params)
	if err != nil {
		msg := "failed to define new filler preset"
		log.WithError(err).WithFields(logTags).Error(msg)
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	entry, err := h.persist.GetFillerPreset(r.Context(), entryID)
	if err != nil {
		msg := "failed to read back the new filler preset"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = FillerPresetInfoResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Preset: entry}
}

// DefineNewFillerPresetHandler Wrapper around DefineNewFillerPreset
func (h PlayoutAPIHandler) DefineNewFillerPresetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.DefineNewFillerPreset(w, r) }
}

func (h PlayoutAPIHandler) ListFillerPresets(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	entries, err := h.persist.ListFillerPresets(r.Context())
	if err != nil {
		msg := "failed to list filler presets"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = FillerPresetInfoListResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Presets: entries}
}

// ListFillerPresetsHandler Wrapper around ListFillerPresets
func (h PlayoutAPIHandler) ListFillerPresetsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.ListFillerPresets(w, r) }
}

func (h PlayoutAPIHandler) GetFillerPreset(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	presetID, ok := pathVar(r, "presetID")
	if !ok {
		msg := "filler preset ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	entry, err := h.persist.GetFillerPreset(r.Context(), presetID)
	if err != nil {
		msg := "failed to fetch filler preset"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = FillerPresetInfoResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Preset: entry}
}

// GetFillerPresetHandler Wrapper around GetFillerPreset
func (h PlayoutAPIHandler) GetFillerPresetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.GetFillerPreset(w, r) }
}

func (h PlayoutAPIHandler) DeleteFillerPreset(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	presetID, ok := pathVar(r, "presetID")
	if !ok {
		msg := "filler preset ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	if err := h.persist.DeleteFillerPreset(r.Context(), presetID); err != nil {
		msg := "failed to delete filler preset"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = h.GetStdRESTSuccessMsg(r.Context())
}

// DeleteFillerPresetHandler Wrapper around DeleteFillerPreset
func (h PlayoutAPIHandler) DeleteFillerPresetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.DeleteFillerPreset(w, r) }
}
