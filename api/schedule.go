package api

import (
	"encoding/json"
	"net/http"

	"github.com/alwitt/goutils"
	"github.com/apex/log"
	"github.com/pseudovision/pseudovision/common"
)

// ====================================================================================
// Schedules

// ScheduleInfoResponse response containing one schedule
type ScheduleInfoResponse struct {
	goutils.RestAPIBaseResponse
	Schedule common.Schedule `json:"schedule"`
}

// ScheduleInfoListResponse response containing a list of schedules
type ScheduleInfoListResponse struct {
	goutils.RestAPIBaseResponse
	Schedules []common.Schedule `json:"schedules"`
}

func (h PlayoutAPIHandler) DefineNewSchedule(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	var params common.Schedule
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		msg := "unable to parse new schedule parameters"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}
	if err := h.validate.Struct(&params); err != nil {
		msg := "missing required values to define new schedule"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}

	entryID, err := h.persist.DefineSchedule(r.Context(), params)
	if err != nil {
		msg := "failed to define new schedule"
		log.WithError(err).WithFields(logTags).Error(msg)
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	entry, err := h.persist.GetSchedule(r.Context(), entryID)
	if err != nil {
		msg := "failed to read back the new schedule"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = ScheduleInfoResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Schedule: entry}
}

// DefineNewScheduleHandler Wrapper around DefineNewSchedule
func (h PlayoutAPIHandler) DefineNewScheduleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.DefineNewSchedule(w, r) }
}

func (h PlayoutAPIHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	entries, err := h.persist.ListSchedules(r.Context())
	if err != nil {
		msg := "failed to list schedules"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = ScheduleInfoListResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Schedules: entries}
}

// ListSchedulesHandler Wrapper around ListSchedules
func (h PlayoutAPIHandler) ListSchedulesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.ListSchedules(w, r) }
}

func (h PlayoutAPIHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	scheduleID, ok := pathVar(r, "scheduleID")
	if !ok {
		msg := "schedule ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	entry, err := h.persist.GetSchedule(r.Context(), scheduleID)
	if err != nil {
		msg := "failed to fetch schedule"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = ScheduleInfoResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Schedule: entry}
}

// GetScheduleHandler Wrapper around GetSchedule
func (h PlayoutAPIHandler) GetScheduleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.GetSchedule(w, r) }
}

func (h PlayoutAPIHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	scheduleID, ok := pathVar(r, "scheduleID")
	if !ok {
		msg := "schedule ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}
	var entry common.Schedule
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		msg := "unable to parse schedule update parameters"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}
	entry.ID = scheduleID

	if err := h.persist.UpdateSchedule(r.Context(), entry); err != nil {
		msg := "failed to update schedule"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = h.GetStdRESTSuccessMsg(r.Context())
}

// UpdateScheduleHandler Wrapper around UpdateSchedule
func (h PlayoutAPIHandler) UpdateScheduleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.UpdateSchedule(w, r) }
}

func (h PlayoutAPIHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	scheduleID, ok := pathVar(r, "scheduleID")
	if !ok {
		msg := "schedule ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	if err := h.persist.DeleteSchedule(r.Context(), scheduleID); err != nil {
		msg := "failed to delete schedule"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = h.GetStdRESTSuccessMsg(r.Context())
}

// DeleteScheduleHandler Wrapper around DeleteSchedule
func (h PlayoutAPIHandler) DeleteScheduleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.DeleteSchedule(w, r) }
}

// ====================================================================================
// Slots

// SlotInfoListResponse response containing a schedule's slots, in slot_index order
type SlotInfoListResponse struct {
	goutils.RestAPIBaseResponse
	Slots []common.Slot `json:"slots"`
}

func (h PlayoutAPIHandler) DefineNewSlot(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	scheduleID, ok := pathVar(r, "scheduleID")
	if !ok {
		msg := "schedule ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	var params common.Slot
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		msg := "unable to parse new slot parameters"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}
	params.ScheduleID = scheduleID
	if err := h.validate.Struct(&params); err != nil {
		msg := "missing required values to define new slot"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}

	entryID, err := h.persist.DefineSlot(r.Context(), params)
	if err != nil {
		msg := "failed to define new slot"
		log.WithError(err).WithFields(logTags).WithField("schedule", scheduleID).Error(msg)
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	params.ID = entryID
	respCode = http.StatusOK
	response = struct {
		goutils.RestAPIBaseResponse
		Slot common.Slot `json:"slot"`
	}{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Slot: params}
}

// DefineNewSlotHandler Wrapper around DefineNewSlot
func (h PlayoutAPIHandler) DefineNewSlotHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.DefineNewSlot(w, r) }
}

// ListSlotsBySchedule list a schedule's slots in build order (§4.6 step 4).
func (h PlayoutAPIHandler) ListSlotsBySchedule(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	scheduleID, ok := pathVar(r, "scheduleID")
	if !ok {
		msg := "schedule ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	entries, err := h.persist.ListSlotsBySchedule(r.Context(), scheduleID)
	if err != nil {
		msg := "failed to list slots"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = SlotInfoListResponse{RestAPIBaseResponse: h.GetStdRESTSuccessMsg(r.Context()), Slots: entries}
}

// ListSlotsByScheduleHandler Wrapper around ListSlotsBySchedule
func (h PlayoutAPIHandler) ListSlotsByScheduleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.ListSlotsBySchedule(w, r) }
}

func (h PlayoutAPIHandler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	slotID, ok := pathVar(r, "slotID")
	if !ok {
		msg := "slot ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}
	var entry common.Slot
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		msg := "unable to parse slot update parameters"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, err.Error())
		return
	}
	entry.ID = slotID

	if err := h.persist.UpdateSlot(r.Context(), entry); err != nil {
		msg := "failed to update slot"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = h.GetStdRESTSuccessMsg(r.Context())
}

// UpdateSlotHandler Wrapper around UpdateSlot
func (h PlayoutAPIHandler) UpdateSlotHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.UpdateSlot(w, r) }
}

func (h PlayoutAPIHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	var respCode int
	var response interface{}
	logTags := h.GetLogTagsForContext(r.Context())
	defer func() {
		if err := h.WriteRESTResponse(w, respCode, response, nil); err != nil {
			log.WithError(err).WithFields(logTags).Error("Failed to form response")
		}
	}()

	slotID, ok := pathVar(r, "slotID")
	if !ok {
		msg := "slot ID missing from request URL"
		respCode = http.StatusBadRequest
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusBadRequest, msg, msg)
		return
	}

	if err := h.persist.DeleteSlot(r.Context(), slotID); err != nil {
		msg := "failed to delete slot"
		respCode = http.StatusInternalServerError
		response = h.GetStdRESTErrorMsg(r.Context(), http.StatusInternalServerError, msg, err.Error())
		return
	}
	respCode = http.StatusOK
	response = h.GetStdRESTSuccessMsg(r.Context())
}

// DeleteSlotHandler Wrapper around DeleteSlot
func (h PlayoutAPIHandler) DeleteSlotHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { h.DeleteSlot(w, r) }
}
