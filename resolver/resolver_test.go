package resolver_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pseudovision/pseudovision/common"
	"github.com/pseudovision/pseudovision/db"
	"github.com/pseudovision/pseudovision/resolver"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func newTestPersistence(t *testing.T) db.PersistenceManager {
	uut, err := db.NewManager(db.GetInMemSqliteDialector(t.Name()), logger.Silent)
	if err != nil {
		t.Fatalf("failed to build test persistence: %s", err)
	}
	return uut
}

func TestResolveManualCollection(t *testing.T) {
	assert := assert.New(t)
	persist := newTestPersistence(t)
	ctxt := context.Background()

	collectionID, err := persist.DefineCollection(ctxt, common.Collection{
		Name: "manual", Kind: common.CollectionKindManual,
	})
	assert.Nil(err)
	itemID, err := persist.DefineMediaItem(ctxt, common.MediaItem{Title: "movie", Duration: time.Minute})
	assert.Nil(err)
	_, err = persist.AddCollectionItem(ctxt, collectionID, itemID, nil)
	assert.Nil(err)

	uut := resolver.NewDBResolver(persist)
	items, err := uut.Resolve(ctxt, collectionID)
	assert.Nil(err)
	assert.Len(items, 1)
	assert.Equal(itemID, items[0].ID)
}

func TestResolvePlaylistFlattensChildrenInOrder(t *testing.T) {
	assert := assert.New(t)
	persist := newTestPersistence(t)
	ctxt := context.Background()

	childA, err := persist.DefineCollection(ctxt, common.Collection{Name: "a", Kind: common.CollectionKindManual})
	assert.Nil(err)
	itemA, err := persist.DefineMediaItem(ctxt, common.MediaItem{Title: "a", Duration: time.Minute})
	assert.Nil(err)
	_, err = persist.AddCollectionItem(ctxt, childA, itemA, nil)
	assert.Nil(err)

	childB, err := persist.DefineCollection(ctxt, common.Collection{Name: "b", Kind: common.CollectionKindManual})
	assert.Nil(err)
	itemB, err := persist.DefineMediaItem(ctxt, common.MediaItem{Title: "b", Duration: time.Minute})
	assert.Nil(err)
	_, err = persist.AddCollectionItem(ctxt, childB, itemB, nil)
	assert.Nil(err)

	cfg, err := json.Marshal(map[string][]string{"items": {childA, childB}})
	assert.Nil(err)
	playlistID, err := persist.DefineCollection(ctxt, common.Collection{
		Name: "playlist", Kind: common.CollectionKindPlaylist, Config: string(cfg),
	})
	assert.Nil(err)

	uut := resolver.NewDBResolver(persist)
	items, err := uut.Resolve(ctxt, playlistID)
	assert.Nil(err)
	assert.Len(items, 2)
	assert.Equal(itemA, items[0].ID)
	assert.Equal(itemB, items[1].ID)
}

func TestResolveSmartCollectionReturnsEmpty(t *testing.T) {
	assert := assert.New(t)
	persist := newTestPersistence(t)
	ctxt := context.Background()

	smartID, err := persist.DefineCollection(ctxt, common.Collection{Name: "smart", Kind: common.CollectionKindSmart})
	assert.Nil(err)

	uut := resolver.NewDBResolver(persist)
	items, err := uut.Resolve(ctxt, smartID)
	assert.Nil(err)
	assert.Len(items, 0)
}
