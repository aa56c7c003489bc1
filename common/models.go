package common

import "time"

// Channel a named broadcast stream carrying at most one active Playout.
type Channel struct {
	ID          string    `json:"id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Ordinal     int       `json:"ordinal" validate:"gte=0"`
	Description *string   `json:"description,omitempty"`
	// FillerDefaults channel-level fallback filler presets, consulted by the
	// filler engine when a slot carries no override for a role (§4.4).
	FillerDefaults FillerOverrides `json:"filler_defaults"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Schedule a named, reusable ordered sequence of Slots.
type Schedule struct {
	ID                     string                 `json:"id" validate:"required"`
	Name                   string                 `json:"name" validate:"required"`
	FixedStartTimeBehavior FixedStartTimeBehavior `json:"fixed_start_time_behavior" validate:"required,oneof=skip play"`
	ShuffleSlots           bool                   `json:"shuffle_slots"`
	RandomStartPoint       bool                   `json:"random_start_point"`
	CreatedAt              time.Time              `json:"created_at"`
	UpdatedAt              time.Time              `json:"updated_at"`
}

// FillerOverrides optional per-slot filler preset overrides, keyed by role.
type FillerOverrides struct {
	Pre      *string `json:"pre,omitempty"`
	Mid      *string `json:"mid,omitempty"`
	Post     *string `json:"post,omitempty"`
	Tail     *string `json:"tail,omitempty"`
	Fallback *string `json:"fallback,omitempty"`
}

// Slot one schedule entry: a content source plus a fill policy.
type Slot struct {
	ID            string          `json:"id" validate:"required"`
	ScheduleID    string          `json:"schedule_id" validate:"required"`
	SlotIndex     int             `json:"slot_index" validate:"gte=0"`
	Anchor        SlotAnchor      `json:"anchor" validate:"required,oneof=fixed sequential"`
	StartTime     *time.Duration  `json:"start_time,omitempty"`
	FillMode      FillMode        `json:"fill_mode" validate:"required,oneof=once count block flood"`
	ItemCount     *int            `json:"item_count,omitempty"`
	BlockDuration *time.Duration  `json:"block_duration,omitempty"`
	TailMode      TailMode        `json:"tail_mode"`
	CollectionID  *string         `json:"collection_id,omitempty"`
	MediaItemID   *string         `json:"media_item_id,omitempty"`
	PlaybackOrder PlaybackOrder   `json:"playback_order"`
	Filler        FillerOverrides `json:"filler"`
	CustomTitle   *string         `json:"custom_title,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CollectionKey returns the stable enumerator-state bucket key for this slot's source (§4.2).
func (s Slot) CollectionKey() string {
	if s.CollectionID != nil {
		return "collection:" + *s.CollectionID
	}
	return "item:" + *s.MediaItemID
}

// Collection a named container resolving to an ordered list of Media Items.
type Collection struct {
	ID        string         `json:"id" validate:"required"`
	Name      string         `json:"name" validate:"required"`
	Kind      CollectionKind `json:"kind" validate:"required,oneof=manual playlist multi trakt smart rerun"`
	Config    string         `json:"config"` // raw JSON document, shape depends on Kind
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// MediaItem an addressable unit of playable content.
type MediaItem struct {
	ID        string        `json:"id" validate:"required"`
	Title     string        `json:"title" validate:"required"`
	ParentID  *string       `json:"parent_id,omitempty"`
	Position  int           `json:"position"`
	Duration  time.Duration `json:"duration" validate:"gte=0"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// FillerPreset a named filler policy: role, mode, content source.
type FillerPreset struct {
	ID                  string     `json:"id" validate:"required"`
	Name                string     `json:"name" validate:"required"`
	Role                FillerRole `json:"role" validate:"required"`
	Mode                FillerMode `json:"mode" validate:"required"`
	Count               *int       `json:"count,omitempty"`
	PadToNearestMinutes *int       `json:"pad_to_nearest_minutes,omitempty"`
	CollectionID        *string    `json:"collection_id,omitempty"`
	MediaItemID         *string    `json:"media_item_id,omitempty"`
}

// CollectionKey mirrors Slot.CollectionKey for a filler preset's content source.
func (p FillerPreset) CollectionKey() string {
	if p.CollectionID != nil {
		return "collection:" + *p.CollectionID
	}
	return "item:" + *p.MediaItemID
}

// Playout the live compiled timeline for one Channel.
type Playout struct {
	ID           string     `json:"id" validate:"required"`
	ChannelID    string     `json:"channel_id" validate:"required"`
	ScheduleID   *string    `json:"schedule_id,omitempty"`
	Seed         int64      `json:"seed"`
	Cursor       string     `json:"cursor"` // opaque JSON blob, see cursor.Cursor
	LastBuiltAt  *time.Time `json:"last_built_at,omitempty"`
	BuildSuccess bool       `json:"build_success"`
	BuildMessage *string    `json:"build_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Event one scheduled airing.
type Event struct {
	ID        string `json:"id" validate:"required"`
	PlayoutID string `json:"playout_id" validate:"required"`
	// MediaItemID is required for every kind except offline: an offline
	// event spans a tail gap with no media item airing (§4.5 tail_mode=offline).
	MediaItemID string         `json:"media_item_id" validate:"required_unless=Kind offline"`
	Kind        EventKind      `json:"kind" validate:"required"`
	StartAt     time.Time      `json:"start_at" validate:"required"`
	FinishAt    time.Time      `json:"finish_at" validate:"required"`
	GuideGroup  int            `json:"guide_group"`
	SlotID      *string        `json:"slot_id,omitempty"`
	IsManual    bool           `json:"is_manual"`
	CustomTitle *string        `json:"custom_title,omitempty"`
	InPoint     *time.Duration `json:"in_point,omitempty"`
	OutPoint    *time.Duration `json:"out_point,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Overlaps reports whether two events' [start,finish) intervals intersect.
func (e Event) Overlaps(other Event) bool {
	return e.StartAt.Before(other.FinishAt) && other.StartAt.Before(e.FinishAt)
}
