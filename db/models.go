package db

import (
	"time"

	"github.com/pseudovision/pseudovision/common"
)

// channel a single broadcast stream
type channel struct {
	common.Channel
	FillerDefaults common.FillerOverrides `gorm:"column:filler_defaults;serializer:json"`
}

// TableName hard code table name
func (channel) TableName() string {
	return "channels"
}

// schedule a reusable ordered sequence of slots
type schedule struct {
	common.Schedule
	Slots []slot `gorm:"foreignKey:ScheduleID"`
}

// TableName hard code table name
func (schedule) TableName() string {
	return "schedules"
}

// slot one schedule entry
type slot struct {
	ID            string                  `gorm:"column:id;primaryKey"`
	ScheduleID    string                  `gorm:"column:schedule_id;not null;index:slot_schedule_id"`
	SlotIndex     int                     `gorm:"column:slot_index;not null"`
	Anchor        common.SlotAnchor       `gorm:"column:anchor;not null"`
	StartTime     *time.Duration          `gorm:"column:start_time"`
	FillMode      common.FillMode         `gorm:"column:fill_mode;not null"`
	ItemCount     *int                    `gorm:"column:item_count"`
	BlockDuration *time.Duration          `gorm:"column:block_duration"`
	TailMode      common.TailMode         `gorm:"column:tail_mode"`
	CollectionID  *string                 `gorm:"column:collection_id"`
	MediaItemID   *string                 `gorm:"column:media_item_id"`
	PlaybackOrder common.PlaybackOrder    `gorm:"column:playback_order"`
	Filler        common.FillerOverrides  `gorm:"column:filler;serializer:json"`
	CustomTitle   *string                 `gorm:"column:custom_title"`
	CreatedAt     time.Time               `gorm:"column:created_at"`
	UpdatedAt     time.Time               `gorm:"column:updated_at"`
}

// TableName hard code table name
func (slot) TableName() string {
	return "slots"
}

// toCommon projects the wrapper onto the pure domain type.
func (s slot) toCommon() common.Slot {
	return common.Slot{
		ID: s.ID, ScheduleID: s.ScheduleID, SlotIndex: s.SlotIndex, Anchor: s.Anchor,
		StartTime: s.StartTime, FillMode: s.FillMode, ItemCount: s.ItemCount,
		BlockDuration: s.BlockDuration, TailMode: s.TailMode, CollectionID: s.CollectionID,
		MediaItemID: s.MediaItemID, PlaybackOrder: s.PlaybackOrder, Filler: s.Filler,
		CustomTitle: s.CustomTitle, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

func fromCommonSlot(s common.Slot) slot {
	return slot{
		ID: s.ID, ScheduleID: s.ScheduleID, SlotIndex: s.SlotIndex, Anchor: s.Anchor,
		StartTime: s.StartTime, FillMode: s.FillMode, ItemCount: s.ItemCount,
		BlockDuration: s.BlockDuration, TailMode: s.TailMode, CollectionID: s.CollectionID,
		MediaItemID: s.MediaItemID, PlaybackOrder: s.PlaybackOrder, Filler: s.Filler,
		CustomTitle: s.CustomTitle, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

// collection a named container resolving to an ordered list of media items
type collection struct {
	common.Collection
}

// TableName hard code table name
func (collection) TableName() string {
	return "collections"
}

// collectionItem one junction row of a manual collection's membership
type collectionItem struct {
	ID           string  `gorm:"column:id;primaryKey"`
	CollectionID string  `gorm:"column:collection_id;not null;index:collection_item_collection_id"`
	MediaItemID  string  `gorm:"column:media_item_id;not null"`
	CustomOrder  *int    `gorm:"column:custom_order"`
}

// TableName hard code table name
func (collectionItem) TableName() string {
	return "collection_items"
}

// traktMapping one junction row linking a collection to a synced Trakt item
type traktMapping struct {
	ID           string `gorm:"column:id;primaryKey"`
	CollectionID string `gorm:"column:collection_id;not null;index:trakt_mapping_collection_id"`
	MediaItemID  string `gorm:"column:media_item_id;not null"`
}

// TableName hard code table name
func (traktMapping) TableName() string {
	return "trakt_mappings"
}

// mediaItem an addressable unit of playable content
type mediaItem struct {
	common.MediaItem
}

// TableName hard code table name
func (mediaItem) TableName() string {
	return "media_items"
}

// fillerPreset a named filler policy
type fillerPreset struct {
	common.FillerPreset
}

// TableName hard code table name
func (fillerPreset) TableName() string {
	return "filler_presets"
}

// playout the live compiled timeline for one channel
type playout struct {
	ID           string     `gorm:"column:id;primaryKey"`
	ChannelID    string     `gorm:"column:channel_id;not null;uniqueIndex:playout_channel_id"`
	ScheduleID   *string    `gorm:"column:schedule_id"`
	Seed         int64      `gorm:"column:seed"`
	Cursor       string     `gorm:"column:cursor;type:text"`
	LastBuiltAt  *time.Time `gorm:"column:last_built_at"`
	BuildSuccess bool       `gorm:"column:build_success"`
	BuildMessage *string    `gorm:"column:build_message"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

// TableName hard code table name
func (playout) TableName() string {
	return "playouts"
}

func (p playout) toCommon() common.Playout {
	return common.Playout{
		ID: p.ID, ChannelID: p.ChannelID, ScheduleID: p.ScheduleID, Seed: p.Seed,
		Cursor: p.Cursor, LastBuiltAt: p.LastBuiltAt, BuildSuccess: p.BuildSuccess,
		BuildMessage: p.BuildMessage, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

// event one scheduled airing
type event struct {
	common.Event
}

// TableName hard code table name
func (event) TableName() string {
	return "events"
}
