package api

import (
	"encoding/json"
	"net/http"

	"github.com/alwitt/goutils"
	"github.com/apex/log"
	"github.com/pseudovision/pseudovision/common"
)

// CollectionInfoResponse response containing one collection
type CollectionInfoResponse struct {
	goutils.RestAPIBaseResponse
	Collection common.Collection `json:"collection"`
}

// CollectionInfoListResponse response containing a list of collections
type CollectionInfoListResponse struct {
	goutils.RestAPIBaseResponse
	Collections []common.Collection `json:"collections"`
}

func (h PlayoutAPIHandler) DefineNewCollection(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	var params common.Collection
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		msg := "unable to parse new collection parameters"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}
	if err := h.validate.Struct(&params); err != nil {
		msg := "missing required values to define new collection"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}

	entryID, err := h.persist.DefineCollection(r.Context(), params)
	if err != nil {
		msg := "failed to define new collection"
		log.WithError(err).WithFields(logTags).Error(msg)
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	entry, err := h.persist.GetCollection(r.Context(), entryID)
	if err != nil {
		msg := "failed to read back the new collection"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = CollectionInfoResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Collection: entry}
}

// DefineNewCollectionHandler Wrapper around DefineNewCollection
func (h PlayoutAPIHandler) DefineNewCollectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.DefineNewCollection(w, r) }
}

func (h PlayoutAPIHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	entries, err := h.persist.ListCollections(r.Context())
	if err != nil {
		msg := "failed to list collections"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = CollectionInfoListResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Collections: entries}
}

// ListCollectionsHandler Wrapper around ListCollections
func (h PlayoutAPIHandler) ListCollectionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.ListCollections(w, r) }
}

func (h PlayoutAPIHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	collectionID, ok := pathVar(r, "collectionID")
	if !ok {
		msg := "collection ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	entry, err := h.persist.GetCollection(r.Context(), collectionID)
	if err != nil {
		msg := "failed to fetch collection"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = CollectionInfoResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Collection: entry}
}

// GetCollectionHandler Wrapper around GetCollection
func (h PlayoutAPIHandler) GetCollectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.GetCollection(w, r) }
}

func (h PlayoutAPIHandler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	collectionID, ok := pathVar(r, "collectionID")
	if !ok {
		msg := "collection ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}
	var entry common.Collection
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		msg := "unable to parse collection update parameters"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}
	entry.ID = collectionID

	if err := h.persist.UpdateCollection(r.Context(), entry); err != nil {
		msg := "failed to update collection"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = h.GetStdRESTSuccessMsg(r.Context())
}

// UpdateCollectionHandler Wrapper around UpdateCollection
func (h PlayoutAPIHandler) UpdateCollectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.UpdateCollection(w, r) }
}

func (h PlayoutAPIHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	collectionID, ok := pathVar(r, "collectionID")
	if !ok {
		msg := "collection ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	if err := h.persist.DeleteCollection(r.Context(), collectionID); err != nil {
		msg := "failed to delete collection"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = h.GetStdRESTSuccessMsg(r.Context())
}

// DeleteCollectionHandler Wrapper around DeleteCollection
func (h PlayoutAPIHandler) DeleteCollectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.DeleteCollection(w, r) }
}

// ====================================================================================
// Manual collection membership (§4.3)

// AddCollectionItemRequest parameters to append a media item to a manual collection
type AddCollectionItemRequest struct {
	MediaItemID string `json:"media_item_id" validate:"required"`
	CustomOrder *int   `json:"custom_order,omitempty"`
}

func (h PlayoutAPIHandler) AddCollectionItem(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	collectionID, ok := pathVar(r, "collectionID")
	if !ok {
		msg := "collection ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}
	var params AddCollectionItemRequest
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		msg := "unable to parse collection item parameters"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}
	if err := h.validate.Struct(&params); err != nil {
		msg := "missing required values to add collection item"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}

	entryID, err := h.persist.AddCollectionItem(r.Context(), collectionID, params.MediaItemID, params.CustomOrder)
	if err != nil {
		msg := "failed to add collection item"
		log.WithError(err).WithFields(logTags).WithField("collection", collectionID).Error(msg)
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = struct {
		goutils.RestAPIBaseResponse
		ID string `json:"id"`
	}{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), ID: entryID}
}

// AddCollectionItemHandler Wrapper around AddCollectionItem
func (h PlayoutAPIHandler) AddCollectionItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.AddCollectionItem(w, r) }
}

// CollectionItemListResponse response containing a manual collection's resolved membership
type CollectionItemListResponse struct {
	goutils.RestAPIBaseResponse
	Items []common.MediaItem `json:"items"`
}

func (h PlayoutAPIHandler) ListCollectionItems(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	collectionID, ok := pathVar(r, "collectionID")
	if !ok {
		msg := "collection ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	entries, err := h.persist.ListCollectionItems(r.Context(), collectionID)
	if err != nil {
		msg := "failed to list collection items"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = CollectionItemListResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Items: entries}
}

// ListCollectionItemsHandler Wrapper around ListCollectionItems
func (h PlayoutAPIHandler) ListCollectionItemsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.ListCollectionItems(w, r) }
}

func (h PlayoutAPIHandler) RemoveCollectionItem(w http.ResponseWriter, r *http.Request) {
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
		msg := "collection item ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	if err := h.persist.RemoveCollectionItem(r.Context(), itemID); err != nil {
		msg := "failed to remove collection item"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = h.GetStdRESTSuccessMsg(r.Context())
}

// RemoveCollectionItemHandler Wrapper around RemoveCollectionItem
func (h PlayoutAPIHandler) RemoveCollectionItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.RemoveCollectionItem(w, r) }
}
