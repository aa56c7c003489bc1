package jellyfin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/alwitt/goutils"
	"github.com/apex/log"
	"github.com/go-resty/resty/v2"
	"github.com/oklog/ulid/v2"
	"github.com/pseudovision/pseudovision/common"
	"github.com/pseudovision/pseudovision/db"
)

// ticksPerSecond Jellyfin reports RunTimeTicks in 100-nanosecond units.
const ticksPerSecond = int64(time.Second / 100)

// libraryItem one entry of a Jellyfin `/Items` response this poller cares about.
type libraryItem struct {
	ID           string `json:"Id"`
	Name         string `json:"Name"`
	RunTimeTicks int64  `json:"RunTimeTicks"`
}

// libraryResponse the envelope Jellyfin wraps library items in.
type libraryResponse struct {
	Items []libraryItem `json:"Items"`
}

// Poller is a fire-and-forget background collaborator that polls a Jellyfin
// server's library on an interval and upserts discovered items into one
// manual Collection. It never touches the build engine's transaction: it
// only performs discovery and upsert (§2).
type Poller struct {
	goutils.Component
	client       *resty.Client
	baseURL      string
	apiKey       string
	collectionID string
	persist      db.PersistenceManager
	interval     time.Duration

	seenLock sync.Mutex
	seen     map[string]bool
}

/*
NewPoller define a new Jellyfin library scanner

	@param baseURL string - Jellyfin server base URL, e.g. "http://jellyfin:8096"
	@param apiKey string - Jellyfin API key, sent as the "X-Emby-Token" header
	@param collectionID string - the manual Collection new Media Items are added to
	@param persist db.PersistenceManager - persistence layer
	@param interval time.Duration - polling interval
	@returns new Poller
*/
func NewPoller(
	baseURL, apiKey, collectionID string, persist db.PersistenceManager, interval time.Duration,
) (*Poller, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("jellyfin poll interval must be positive")
	}
	return &Poller{
		Component: goutils.Component{
			LogTags: log.Fields{"module": "scanner/jellyfin", "component": "poller", "server": baseURL},
		},
		client: resty.New(), baseURL: baseURL, apiKey: apiKey,
		collectionID: collectionID, persist: persist, interval: interval, seen: map[string]bool{},
	}, nil
}

/*
Run drives the poll loop on a fixed interval until ctxt is cancelled.

	@param ctxt context.Context - execution context
	@returns error
*/
func (p *Poller) Run(ctxt context.Context) error {
	logTags := p.GetLogTagsForContext(ctxt)

	log.WithFields(logTags).Info("Starting Jellyfin library scanner")
	defer log.WithFields(logTags).Info("Jellyfin library scanner stopped")

	if err := p.poll(ctxt); err != nil {
		log.WithError(err).WithFields(logTags).Error("Initial Jellyfin poll failed")
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctxt.Done():
			return nil
		case <-ticker.C:
			if err := p.poll(ctxt); err != nil {
				log.WithError(err).WithFields(logTags).Error("Jellyfin poll failed")
			}
		}
	}
}

// UseClient swaps the poller's underlying HTTP client, used by tests to splice in httpmock.
func (p *Poller) UseClient(c *http.Client) {
	p.client = resty.NewWithClient(c)
}

// poll fetches the current library listing and upserts any item not seen before.
func (p *Poller) poll(ctxt context.Context) error {
	logTags := p.GetLogTagsForContext(ctxt)
	reqID := ulid.Make().String()

	resp, err := p.client.R().
		SetHeader("X-Emby-Token", p.apiKey).
		SetHeader("X-Request-ID", reqID).
		SetQueryParams(map[string]string{
			"Recursive":        "true",
			"IncludeItemTypes": "Movie,Episode",
		}).
		SetError(goutils.RestAPIBaseResponse{}).
		Get(fmt.Sprintf("%s/Items", p.baseURL))
	if err != nil {
		return fmt.Errorf("jellyfin library query failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("jellyfin library query returned status %d", resp.StatusCode())
	}

	var listing libraryResponse
	if err := json.Unmarshal(resp.Body(), &listing); err != nil {
		return fmt.Errorf("unable to parse jellyfin library response: %w", err)
	}

	for _, item := range listing.Items {
		p.seenLock.Lock()
		alreadySeen := p.seen[item.ID]
		p.seen[item.ID] = true
		p.seenLock.Unlock()
		if alreadySeen {
			continue
		}

		itemID, err := p.persist.DefineMediaItem(ctxt, common.MediaItem{
			Title:    item.Name,
			Duration: time.Duration(item.RunTimeTicks/ticksPerSecond) * time.Second,
		})
		if err != nil {
			log.WithError(err).WithFields(logTags).WithField("jellyfin-id", item.ID).Error("Failed to define media item")
			continue
		}
		if _, err := p.persist.AddCollectionItem(ctxt, p.collectionID, itemID, nil); err != nil {
			log.WithError(err).WithFields(logTags).WithField("jellyfin-id", item.ID).Error("Failed to add media item to collection")
			continue
		}
		log.WithFields(logTags).WithField("jellyfin-id", item.ID).WithField("item", itemID).Info("Discovered Jellyfin media item")
	}

	return nil
}
