// Package resolver implements §4.3: expanding a Collection reference into an
// ordered list of Media Items.
package resolver

import (
	"context"
	"encoding/json"

	"github.com/apex/log"
	"github.com/pseudovision/pseudovision/common"
	"github.com/pseudovision/pseudovision/db"
)

// maxRecursionDepth bounds playlist/multi recursion; cycles are out of scope
// (§4.3) but a depth cap keeps a cyclic reference from looping forever.
const maxRecursionDepth = 8

// CollectionResolver expands a Collection reference to an ordered item list.
type CollectionResolver interface {
	Resolve(ctxt context.Context, collectionID string) ([]common.MediaItem, error)
}

type dbResolver struct {
	persist db.PersistenceManager
}

// NewDBResolver builds a CollectionResolver backed directly by persist.
func NewDBResolver(persist db.PersistenceManager) CollectionResolver {
	return &dbResolver{persist: persist}
}

func (r *dbResolver) Resolve(ctxt context.Context, collectionID string) ([]common.MediaItem, error) {
	return r.resolve(ctxt, collectionID, 0)
}

type playlistConfig struct {
	Items []string `json:"items"`
}

type multiConfig struct {
	Members []string `json:"members"`
}

func (r *dbResolver) resolve(
	ctxt context.Context, collectionID string, depth int,
) ([]common.MediaItem, error) {
	entry, err := r.persist.GetCollection(ctxt, collectionID)
	if err != nil {
		return nil, err
	}

	switch entry.Kind {
	case common.CollectionKindManual:
		return r.persist.ListCollectionItems(ctxt, collectionID)

	case common.CollectionKindTrakt:
		return r.persist.ListTraktMappedItems(ctxt, collectionID)

	case common.CollectionKindPlaylist:
		var cfg playlistConfig
		if err := json.Unmarshal([]byte(entry.Config), &cfg); err != nil {
			return nil, err
		}
		return r.flattenChildren(ctxt, entry.ID, cfg.Items, depth)

	case common.CollectionKindMulti:
		var cfg multiConfig
		if err := json.Unmarshal([]byte(entry.Config), &cfg); err != nil {
			return nil, err
		}
		return r.flattenChildren(ctxt, entry.ID, cfg.Members, depth)

	case common.CollectionKindSmart, common.CollectionKindRerun:
		log.WithField("collection", entry.ID).WithField("kind", entry.Kind).
			Warn("Smart/rerun collection resolution is deferred")
		return nil, nil

	default:
		log.WithField("collection", entry.ID).WithField("kind", entry.Kind).
			Error("Unknown collection kind")
		return nil, nil
	}
}

func (r *dbResolver) flattenChildren(
	ctxt context.Context, parentID string, childIDs []string, depth int,
) ([]common.MediaItem, error) {
	if depth >= maxRecursionDepth {
		log.WithField("collection", parentID).WithField("depth", depth).
			Warn("Collection recursion depth exceeded, truncating")
		return nil, nil
	}

	var result []common.MediaItem
	for _, childID := range childIDs {
		items, err := r.resolve(ctxt, childID, depth+1)
		if err != nil {
			return nil, err
		}
		result = append(result, items...)
	}
	return result, nil
}
