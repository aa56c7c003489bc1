package db

import (
	"context"
	"fmt"
	"time"

	"github.com/alwitt/goutils"
	"github.com/apex/log"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/pseudovision/pseudovision/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// PersistenceManager is the database access layer for every entity in §3,
// plus the build driver's transactional operations (§4.6).
type PersistenceManager interface {
	/*
		Ready check whether the DB connection is working

			@param ctxt context.Context - execution context
	*/
	Ready(ctxt context.Context) error

	// =====================================================================================
	// Channels

	DefineChannel(ctxt context.Context, name string, ordinal int, description *string) (string, error)
	GetChannel(ctxt context.Context, id string) (common.Channel, error)
	ListChannels(ctxt context.Context) ([]common.Channel, error)
	UpdateChannel(ctxt context.Context, newSetting common.Channel) error
	DeleteChannel(ctxt context.Context, id string) error

	// =====================================================================================
	// Schedules & Slots

	DefineSchedule(ctxt context.Context, entry common.Schedule) (string, error)
	GetSchedule(ctxt context.Context, id string) (common.Schedule, error)
	ListSchedules(ctxt context.Context) ([]common.Schedule, error)
	UpdateSchedule(ctxt context.Context, newSetting common.Schedule) error
	DeleteSchedule(ctxt context.Context, id string) error

	DefineSlot(ctxt context.Context, entry common.Slot) (string, error)
	/*
		ListSlotsBySchedule fetch every Slot of a Schedule ordered by slot_index,
		the order the build driver's slot loop (§4.6 step 4) depends on.
	*/
	ListSlotsBySchedule(ctxt context.Context, scheduleID string) ([]common.Slot, error)
	UpdateSlot(ctxt context.Context, newSetting common.Slot) error
	DeleteSlot(ctxt context.Context, id string) error

	// =====================================================================================
	// Collections

	DefineCollection(ctxt context.Context, entry common.Collection) (string, error)
	GetCollection(ctxt context.Context, id string) (common.Collection, error)
	ListCollections(ctxt context.Context) ([]common.Collection, error)
	UpdateCollection(ctxt context.Context, newSetting common.Collection) error
	DeleteCollection(ctxt context.Context, id string) error

	/*
		AddCollectionItem add a media item to a manual collection's junction table

			@param ctxt context.Context - execution context
			@param collectionID string - parent collection ID
			@param mediaItemID string - member media item ID
			@param customOrder *int - optional explicit ordering key (§4.3)
	*/
	AddCollectionItem(ctxt context.Context, collectionID, mediaItemID string, customOrder *int) (string, error)
	/*
		ListCollectionItems resolve a manual collection's membership, ordered by
		coalesce(custom_order, item_id) per §4.3.
	*/
	ListCollectionItems(ctxt context.Context, collectionID string) ([]common.MediaItem, error)
	RemoveCollectionItem(ctxt context.Context, id string) error

	/*
		ListTraktMappedItems resolve a trakt-kind collection's membership, ordered
		by media_item_id per §4.3.
	*/
	ListTraktMappedItems(ctxt context.Context, collectionID string) ([]common.MediaItem, error)

	// =====================================================================================
	// Media Items

	DefineMediaItem(ctxt context.Context, entry common.MediaItem) (string, error)
	GetMediaItem(ctxt context.Context, id string) (common.MediaItem, error)
	ListMediaItems(ctxt context.Context) ([]common.MediaItem, error)
	UpdateMediaItem(ctxt context.Context, newSetting common.MediaItem) error
	DeleteMediaItem(ctxt context.Context, id string) error

	// =====================================================================================
	// Filler presets

	DefineFillerPreset(ctxt context.Context, entry common.FillerPreset) (string, error)
	GetFillerPreset(ctxt context.Context, id string) (common.FillerPreset, error)
	ListFillerPresets(ctxt context.Context) ([]common.FillerPreset, error)
	DeleteFillerPreset(ctxt context.Context, id string) error

	// =====================================================================================
	// Playouts

	/*
		DefinePlayout create, or return unchanged, the single Playout of a
		Channel (upsert on conflict of channel_id, per §3's lifecycle note).
	*/
	DefinePlayout(ctxt context.Context, channelID string, scheduleID *string, seed int64) (common.Playout, error)
	GetPlayout(ctxt context.Context, id string) (common.Playout, error)
	GetPlayoutByChannel(ctxt context.Context, channelID string) (common.Playout, error)
	ListPlayouts(ctxt context.Context) ([]common.Playout, error)

	/*
		ApplyBuild atomically reaps the non-manual suffix, inserts the newly
		compiled events, and persists the advanced cursor — the single
		transaction §4.6/§9 require ("do not split the reap from the insert").

			@param ctxt context.Context - execution context
			@param playoutID string - playout being built
			@param horizon time.Time - reap boundary: delete auto events with
			       start_at >= horizon
			@param newEvents []common.Event - freshly compiled events to insert
			@param cursorJSON string - the advanced cursor, serialised
			@param builtAt time.Time - timestamp to record as last_built_at
	*/
	ApplyBuild(
		ctxt context.Context, playoutID string, horizon time.Time,
		newEvents []common.Event, cursorJSON string, builtAt time.Time,
	) error

	/*
		RecordBuildFailure marks a playout's last build attempt as failed
		without touching its events or cursor (§4.6 step 6).
	*/
	RecordBuildFailure(ctxt context.Context, playoutID string, message string, builtAt time.Time) error

	// =====================================================================================
	// Events

	/*
		ListManualEventsInWindow fetch manual events of a playout overlapping
		[from, to), used by the build driver's overlap-avoidance policy (§9).
	*/
	ListManualEventsInWindow(ctxt context.Context, playoutID string, from, to time.Time) ([]common.Event, error)
	/*
		ListUpcomingEvents list at most limit events of a playout with
		start_at >= from, ordered by start_at (§6 query endpoint).
	*/
	ListUpcomingEvents(ctxt context.Context, playoutID string, from time.Time, limit int) ([]common.Event, error)
	DefineManualEvent(ctxt context.Context, entry common.Event) (string, error)
	UpdateManualEvent(ctxt context.Context, newSetting common.Event) error
	DeleteManualEvent(ctxt context.Context, id string) error
}

// persistenceManagerImpl implements PersistenceManager
type persistenceManagerImpl struct {
	goutils.Component
	db        *gorm.DB
	validator *validator.Validate
}

/*
NewManager define a new DB access manager

	@param dbDialector gorm.Dialector - GORM SQL dialector
	@param logLevel logger.LogLevel - SQL log level
	@returns new manager
*/
func NewManager(dbDialector gorm.Dialector, logLevel logger.LogLevel) (PersistenceManager, error) {
	gormDB, err := gorm.Open(dbDialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logLevel),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	for _, model := range []interface{}{
		&channel{}, &schedule{}, &slot{}, &collection{}, &collectionItem{},
		&traktMapping{}, &mediaItem{}, &fillerPreset{}, &playout{}, &event{},
	} {
		if err := gormDB.AutoMigrate(model); err != nil {
			return nil, err
		}
	}

	logTags := log.Fields{"module": "db", "component": "manager", "instance": dbDialector.Name()}
	return &persistenceManagerImpl{
		Component: goutils.Component{
			LogTags: logTags,
			LogTagModifiers: []goutils.LogMetadataModifier{
				goutils.ModifyLogMetadataByRestRequestParam,
			},
		},
		db:        gormDB,
		validator: validator.New(),
	}, nil
}

func (m *persistenceManagerImpl) Ready(ctxt context.Context) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		tmp := tx.Find(&[]channel{}).Limit(1)
		return tmp.Error
	})
}

// =====================================================================================
// Channels

func (m *persistenceManagerImpl) DefineChannel(
	ctxt context.Context, name string, ordinal int, description *string,
) (string, error) {
	newEntryID := ""
	return newEntryID, m.db.Transaction(func(tx *gorm.DB) error {
		logTags := m.GetLogTagsForContext(ctxt)

		newEntryID = uuid.NewString()
		newEntry := channel{Channel: common.Channel{
			ID: newEntryID, Name: name, Ordinal: ordinal, Description: description,
		}}

		if err := m.validator.Struct(&newEntry.Channel); err != nil {
			return err
		}
		if tmp := tx.Create(&newEntry); tmp.Error != nil {
			return tmp.Error
		}

		log.WithFields(logTags).WithField("id", newEntryID).Info("Defined new channel")
		return nil
	})
}

func (m *persistenceManagerImpl) GetChannel(ctxt context.Context, id string) (common.Channel, error) {
	var result common.Channel
	return result, m.db.Transaction(func(tx *gorm.DB) error {
		var entry channel
		if tmp := tx.First(&entry, "id = ?", id); tmp.Error != nil {
			return tmp.Error
		}
		entry.Channel.FillerDefaults = entry.FillerDefaults
		result = entry.Channel
		return nil
	})
}

func (m *persistenceManagerImpl) ListChannels(ctxt context.Context) ([]common.Channel, error) {
	var result []common.Channel
	return result, m.db.Transaction(func(tx *gorm.DB) error {
		var entries []channel
		if tmp := tx.Order("ordinal").Find(&entries); tmp.Error != nil {
			return tmp.Error
		}
		for _, entry := range entries {
			entry.Channel.FillerDefaults = entry.FillerDefaults
			result = append(result, entry.Channel)
		}
		return nil
	})
}

func (m *persistenceManagerImpl) UpdateChannel(ctxt context.Context, newSetting common.Channel) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		if tmp := tx.Model(&channel{}).Where("id = ?", newSetting.ID).Updates(map[string]interface{}{
			"name": newSetting.Name, "ordinal": newSetting.Ordinal,
			"description": newSetting.Description, "filler_defaults": newSetting.FillerDefaults,
		}); tmp.Error != nil {
			return tmp.Error
		}
		return nil
	})
}

func (m *persistenceManagerImpl) DeleteChannel(ctxt context.Context, id string) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		if tmp := tx.Delete(&channel{Channel: common.Channel{ID: id}}); tmp.Error != nil {
			return tmp.Error
		}
		return nil
	})
}

// =====================================================================================
// Schedules & Slots

func (m *persistenceManagerImpl) DefineSchedule(ctxt context.Context, entry common.Schedule) (string, error) {
	return entry.ID, m.db.Transaction(func(tx *gorm.DB) error {
		entry.ID = uuid.NewString()
		wrapped := schedule{Schedule: entry}
		if err := m.validator.Struct(&wrapped.Schedule); err != nil {
			return err
		}
		return tx.Create(&wrapped).Error
	})
}

func (m *persistenceManagerImpl) GetSchedule(ctxt context.Context, id string) (common.Schedule, error) {
	var result common.Schedule
	return result, m.db.Transaction(func(tx *gorm.DB) error {
		var entry schedule
		if tmp := tx.First(&entry, "id = ?", id); tmp.Error != nil {
			return tmp.Error
		}
		result = entry.Schedule
		return nil
	})
}

func (m *persistenceManagerImpl) ListSchedules(ctxt context.Context) ([]common.Schedule, error) {
	var result []common.Schedule
	return result, m.db.Transaction(func(tx *gorm.DB) error {
		var entries []schedule
		if tmp := tx.Find(&entries); tmp.Error != nil {
			return tmp.Error
		}
		for _, entry := range entries {
			result = append(result, entry.Schedule)
		}
		return nil
	})
}

func (m *persistenceManagerImpl) UpdateSchedule(ctxt context.Context, newSetting common.Schedule) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&schedule{}).Where("id = ?", newSetting.ID).Updates(map[string]interface{}{
			"name": newSetting.Name, "fixed_start_time_behavior": newSetting.FixedStartTimeBehavior,
			"shuffle_slots": newSetting.ShuffleSlots, "random_start_point": newSetting.RandomStartPoint,
		}).Error
	})
}

func (m *persistenceManagerImpl) DeleteSchedule(ctxt context.Context, id string) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		if tmp := tx.Where("schedule_id = ?", id).Delete(&slot{}); tmp.Error != nil {
			return tmp.Error
		}
		return tx.Delete(&schedule{Schedule: common.Schedule{ID: id}}).Error
	})
}

func (m *persistenceManagerImpl) DefineSlot(ctxt context.Context, entry common.Slot) (string, error) {
	return entry.ID, m.db.Transaction(func(tx *gorm.DB) error {
		entry.ID = uuid.NewString()
		wrapped := fromCommonSlot(entry)
		if err := m.validator.Struct(&entry); err != nil {
			return err
		}
		return tx.Create(&wrapped).Error
	})
}

func (m *persistenceManagerImpl) ListSlotsBySchedule(
	ctxt context.Context, scheduleID string,
) ([]common.Slot, error) {
	var result []common.Slot
	return result, m.db.Transaction(func(tx *gorm.DB) error {
		var entries []slot
		if tmp := tx.Where("schedule_id = ?", scheduleID).Order("slot_index").Find(&entries); tmp.Error != nil {
			return tmp.Error
		}
		for _, entry := range entries {
			result = append(result, entry.toCommon())
		}
		return nil
	})
}

func (m *persistenceManagerImpl) UpdateSlot(ctxt context.Context, newSetting common.Slot) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		wrapped := fromCommonSlot(newSetting)
		return tx.Save(&wrapped).Error
	})
}

func (m *persistenceManagerImpl) DeleteSlot(ctxt context.Context, id string) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&slot{ID: id}).Error
	})
}

// =====================================================================================
// Collections

func (m *persistenceManagerImpl) DefineCollection(ctxt context.Context, entry common.Collection) (string, error) {
	return entry.ID, m.db.Transaction(func(tx *gorm.DB) error {
		entry.ID = uuid.NewString()
		wrapped := collection{Collection: entry}
		if err := m.validator.Struct(&wrapped.Collection); err != nil {
			return err
		}
		return tx.Create(&wrapped).Error
	})
}

func (m *persistenceManagerImpl) GetCollection(ctxt context.Context, id string) (common.Collection, error) {
	var result common.Collection
	return result, m.db.Transaction(func(tx *gorm.DB) error {
		var entry collection
		if tmp := tx.First(&entry, "id = ?", id); tmp.Error != nil {
			return tmp.Error
		}
		result = entry.Collection
		return nil
	})
}

func (m *persistenceManagerImpl) ListCollections(ctxt context.Context) ([]common.Collection, error) {
	var result []common.Collection
	return result, m.db.Transaction(func(tx *gorm.DB) error {
		var entries []collection
		if tmp := tx.Find(&entries); tmp.Error != nil {
			return tmp.Error
		}
		for _, entry := range entries {
			result = append(result, entry.Collection)
		}
		return nil
	})
}

func (m *persistenceManagerImpl) UpdateCollection(ctxt context.Context, newSetting common.Collection) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&collection{}).Where("id = ?", newSetting.ID).Updates(map[string]interface{}{
			"name": newSetting.Name, "kind": newSetting.Kind, "config": newSetting.Config,
		}).Error
	})
}

func (m *persistenceManagerImpl) DeleteCollection(ctxt context.Context, id string) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		if tmp := tx.Where("collection_id = ?", id).Delete(&collectionItem{}); tmp.Error != nil {
			return tmp.Error
		}
		if tmp := tx.Where("collection_id = ?", id).Delete(&traktMapping{}); tmp.Error != nil {
			return tmp.Error
		}
		return tx.Delete(&collection{Collection: common.Collection{ID: id}}).Error
	})
}

func (m *persistenceManagerImpl) AddCollectionItem(
	ctxt context.Context, collectionID, mediaItemID string, customOrder *int,
) (string, error) {
	newID := ""
	return newID, m.db.Transaction(func(tx *gorm.DB) error {
		newID = uuid.NewString()
		entry := collectionItem{
			ID: newID, CollectionID: collectionID, MediaItemID: mediaItemID, CustomOrder: customOrder,
		}
		return tx.Create(&entry).Error
	})
}

func (m *persistenceManagerImpl) ListCollectionItems(
	ctxt context.Context, collectionID string,
) ([]common.MediaItem, error) {
	var result []common.MediaItem
	return result, m.db.Transaction(func(tx *gorm.DB) error {
		var items []mediaItem
		if tmp := tx.
			Joins("JOIN collection_items ON collection_items.media_item_id = media_items.id").
			Where("collection_items.collection_id = ?", collectionID).
			Order("COALESCE(collection_items.custom_order, collection_items.media_item_id)").
			Find(&items); tmp.Error != nil {
			return tmp.Error
		}
		for _, item := range items {
			result = append(result, item.MediaItem)
		}
		return nil
	})
}

func (m *persistenceManagerImpl) RemoveCollectionItem(ctxt context.Context, id string) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&collectionItem{ID: id}).Error
	})
}

func (m *persistenceManagerImpl) ListTraktMappedItems(
	ctxt context.Context, collectionID string,
) ([]common.MediaItem, error) {
	var result []common.MediaItem
	return result, m.db.Transaction(func(tx *gorm.DB) error {
		var items []mediaItem
		if tmp := tx.
			Joins("JOIN trakt_mappings ON trakt_mappings.media_item_id = media_items.id").
			Where("trakt_mappings.collection_id = ?", collectionID).
			Order("media_items.id").
			Find(&items); tmp.Error != nil {
			return tmp.Error
		}
		for _, item := range items {
			result = append(result, item.MediaItem)
		}
		return nil
	})
}

// =====================================================================================
// Media Items

func (m *persistenceManagerImpl) DefineMediaItem(ctxt context.Context, entry common.MediaItem) (string, error) {
	return entry.ID, m.db.Transaction(func(tx *gorm.DB) error {
		entry.ID = uuid.NewString()
		wrapped := mediaItem{MediaItem: entry}
		if err := m.validator.Struct(&wrapped.MediaItem); err != nil {
			return err
		}
		return tx.Create(&wrapped).Error
	})
}

func (m *persistenceManagerImpl) GetMediaItem(ctxt context.Context, id string) (common.MediaItem, error) {
	var result common.MediaItem
	return result, m.db.Transaction(func(tx *gorm.DB) error {
		var entry mediaItem
		if tmp := tx.First(&entry, "id = ?", id); tmp.Error != nil {
			return tmp.Error
		}
		result = entry.MediaItem
		return nil
	})
}

func (m *persistenceManagerImpl) ListMediaItems(ctxt context.Context) ([]common.MediaItem, error) {
	var result []common.MediaItem
	return result, m.db.Transaction(func(tx *gorm.DB) error {
		var entries []mediaItem
		if tmp := tx.Find(&entries); tmp.Error != nil {
			return tmp.Error
		}
		for _, entry := range entries {
			result = append(result, entry.MediaItem)
		}
		return nil
	})
}

func (m *persistenceManagerImpl) UpdateMediaItem(ctxt context.Context, newSetting common.MediaItem) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&mediaItem{}).Where("id = ?", newSetting.ID).Updates(map[string]interface{}{
			"title": newSetting.Title, "parent_id": newSetting.ParentID,
			"position": newSetting.Position, "duration": newSetting.Duration,
		}).Error
	})
}

func (m *persistenceManagerImpl) DeleteMediaItem(ctxt context.Context, id string) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&mediaItem{MediaItem: common.MediaItem{ID: id}}).Error
	})
}

// =====================================================================================
// Filler presets

func (m *persistenceManagerImpl) DefineFillerPreset(
	ctxt context.Context, entry common.FillerPreset,
) (string, error) {
	return entry.ID, m.db.Transaction(func(tx *gorm.DB) error {
		entry.ID = uuid.NewString()
		wrapped := fillerPreset{FillerPreset: entry}
		if err := m.validator.Struct(&wrapped.FillerPreset); err != nil {
			return err
		}
		return tx.Create(&wrapped).Error
	})
}

func (m *persistenceManagerImpl) GetFillerPreset(ctxt context.Context, id string) (common.FillerPreset, error) {
	var result common.FillerPreset
	return result, m.db.Transaction(func(tx *gorm.DB) error {
		var entry fillerPreset
		if tmp := tx.First(&entry, "id = ?", id); tmp.Error != nil {
			return tmp.Error
		}
		result = entry.FillerPreset
		return nil
	})
}

func (m *persistenceManagerImpl) ListFillerPresets(ctxt context.Context) ([]common.FillerPreset, error) {
	var result []common.FillerPreset
	return result, m.db.Transaction(func(tx *gorm.DB) error {
		var entries []fillerPreset
		if tmp := tx.Find(&entries); tmp.Error != nil {
			return tmp.Error
		}
		for _, entry := range entries {
			result = append(result, entry.FillerPreset)
		}
		return nil
	})
}

func (m *persistenceManagerImpl) DeleteFillerPreset(ctxt context.Context, id string) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&fillerPreset{FillerPreset: common.FillerPreset{ID: id}}).Error
	})
}

// =====================================================================================
// Playouts

func (m *persistenceManagerImpl) DefinePlayout(
	ctxt context.Context, channelID string, scheduleID *string, seed int64,
) (common.Playout, error) {
	var result common.Playout
	return result, m.db.Transaction(func(tx *gorm.DB) error {
		logTags := m.GetLogTagsForContext(ctxt)

		// No cursor is stored yet: the first build starts a fresh one at its
		// own clock's now.
		entry := playout{
			ID: uuid.NewString(), ChannelID: channelID, ScheduleID: scheduleID,
			Seed: seed,
		}
		if tmp := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "channel_id"}},
			DoNothing: true,
		}).Create(&entry); tmp.Error != nil {
			return tmp.Error
		}

		var stored playout
		if tmp := tx.First(&stored, "channel_id = ?", channelID); tmp.Error != nil {
			return tmp.Error
		}
		result = stored.toCommon()

		log.WithFields(logTags).WithField("channel-id", channelID).Info("Playout ready")
		return nil
	})
}

func (m *persistenceManagerImpl) GetPlayout(ctxt context.Context, id string) (common.Playout, error) {
	var result common.Playout
	return result, m.db.Transaction(func(tx *gorm.DB) error {
		var entry playout
		if tmp := tx.First(&entry, "id = ?", id); tmp.Error != nil {
			return tmp.Error
		}
		result = entry.toCommon()
		return nil
	})
}

func (m *persistenceManagerImpl) GetPlayoutByChannel(
	ctxt context.Context, channelID string,
) (common.Playout, error) {
	var result common.Playout
	return result, m.db.Transaction(func(tx *gorm.DB) error {
		var entry playout
		if tmp := tx.First(&entry, "channel_id = ?", channelID); tmp.Error != nil {
			return tmp.Error
		}
		result = entry.toCommon()
		return nil
	})
}

func (m *persistenceManagerImpl) ListPlayouts(ctxt context.Context) ([]common.Playout, error) {
	var result []common.Playout
	return result, m.db.Transaction(func(tx *gorm.DB) error {
		var entries []playout
		if tmp := tx.Find(&entries); tmp.Error != nil {
			return tmp.Error
		}
		for _, entry := range entries {
			result = append(result, entry.toCommon())
		}
		return nil
	})
}

func (m *persistenceManagerImpl) ApplyBuild(
	ctxt context.Context, playoutID string, horizon time.Time,
	newEvents []common.Event, cursorJSON string, builtAt time.Time,
) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		logTags := m.GetLogTagsForContext(ctxt)

		// Reap the non-manual suffix (§4.6 step 3).
		if tmp := tx.
			Where("playout_id = ? AND start_at >= ? AND is_manual = ?", playoutID, horizon, false).
			Delete(&event{}); tmp.Error != nil {
			return tmp.Error
		}

		// Bulk-insert the newly compiled events in one statement (§4.6 step 5).
		if len(newEvents) > 0 {
			wrapped := make([]event, len(newEvents))
			for i, e := range newEvents {
				e.ID = ulid.Make().String()
				e.PlayoutID = playoutID
				if e.FinishAt.Before(e.StartAt) || e.FinishAt.Equal(e.StartAt) {
					return fmt.Errorf("invariant_violation: finish_at must be after start_at")
				}
				if err := m.validator.Struct(&e); err != nil {
					return err
				}
				wrapped[i] = event{Event: e}
			}
			if tmp := tx.Create(&wrapped); tmp.Error != nil {
				return tmp.Error
			}
		}

		if tmp := tx.Model(&playout{}).Where("id = ?", playoutID).Updates(map[string]interface{}{
			"cursor": cursorJSON, "last_built_at": builtAt,
			"build_success": true, "build_message": nil,
		}); tmp.Error != nil {
			return tmp.Error
		}

		log.WithFields(logTags).
			WithField("playout-id", playoutID).
			WithField("events", len(newEvents)).
			Info("Applied playout build")
		return nil
	})
}

func (m *persistenceManagerImpl) RecordBuildFailure(
	ctxt context.Context, playoutID string, message string, builtAt time.Time,
) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&playout{}).Where("id = ?", playoutID).Updates(map[string]interface{}{
			"last_built_at": builtAt, "build_success": false, "build_message": message,
		}).Error
	})
}

// =====================================================================================
// Events

func (m *persistenceManagerImpl) ListManualEventsInWindow(
	ctxt context.Context, playoutID string, from, to time.Time,
) ([]common.Event, error) {
	var result []common.Event
	return result, m.db.Transaction(func(tx *gorm.DB) error {
		var entries []event
		if tmp := tx.
			Where("playout_id = ? AND is_manual = ? AND start_at < ? AND finish_at > ?", playoutID, true, to, from).
			Order("start_at").
			Find(&entries); tmp.Error != nil {
			return tmp.Error
		}
		for _, entry := range entries {
			result = append(result, entry.Event)
		}
		return nil
	})
}

func (m *persistenceManagerImpl) ListUpcomingEvents(
	ctxt context.Context, playoutID string, from time.Time, limit int,
) ([]common.Event, error) {
	var result []common.Event
	return result, m.db.Transaction(func(tx *gorm.DB) error {
		var entries []event
		if tmp := tx.
			Where("playout_id = ? AND start_at >= ?", playoutID, from).
			Order("start_at").
			Limit(limit).
			Find(&entries); tmp.Error != nil {
			return tmp.Error
		}
		for _, entry := range entries {
			result = append(result, entry.Event)
		}
		return nil
	})
}

func (m *persistenceManagerImpl) DefineManualEvent(ctxt context.Context, entry common.Event) (string, error) {
	return entry.ID, m.db.Transaction(func(tx *gorm.DB) error {
		entry.ID = ulid.Make().String()
		entry.IsManual = true
		if entry.FinishAt.Before(entry.StartAt) || entry.FinishAt.Equal(entry.StartAt) {
			return fmt.Errorf("invariant_violation: finish_at must be after start_at")
		}
		if err := m.validator.Struct(&entry); err != nil {
			return err
		}
		return tx.Create(&event{Event: entry}).Error
	})
}

func (m *persistenceManagerImpl) UpdateManualEvent(ctxt context.Context, newSetting common.Event) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&event{}).Where("id = ? AND is_manual = ?", newSetting.ID, true).Updates(map[string]interface{}{
			"start_at": newSetting.StartAt, "finish_at": newSetting.FinishAt,
			"media_item_id": newSetting.MediaItemID, "custom_title": newSetting.CustomTitle,
			"in_point": newSetting.InPoint, "out_point": newSetting.OutPoint,
		}).Error
	})
}

func (m *persistenceManagerImpl) DeleteManualEvent(ctxt context.Context, id string) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return tx.Where("id = ? AND is_manual = ?", id, true).Delete(&event{}).Error
	})
}
