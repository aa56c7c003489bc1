package local_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pseudovision/pseudovision/common"
	"github.com/pseudovision/pseudovision/db"
	"github.com/pseudovision/pseudovision/scanner/local"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestWatcherScansExistingFiles(t *testing.T) {
	assert := assert.New(t)
	ctxt := context.Background()

	root := t.TempDir()
	assert.Nil(os.WriteFile(filepath.Join(root, "movie-1.mkv"), []byte("stub"), 0o644))
	assert.Nil(os.WriteFile(filepath.Join(root, "readme.txt"), []byte("stub"), 0o644))

	persist, err := db.NewManager(db.GetSqliteDialector(fmt.Sprintf("/tmp/scanner-ut-%s.db", uuid.NewString())), logger.Silent)
	assert.Nil(err)

	collectionID, err := persist.DefineCollection(ctxt, common.Collection{
		Name: "local-library", Kind: common.CollectionKindManual,
	})
	assert.Nil(err)

	watcher, err := local.NewWatcher(root, collectionID, persist)
	assert.Nil(err)

	runCtxt, cancel := context.WithTimeout(ctxt, 500*time.Millisecond)
	defer cancel()
	_ = watcher.Run(runCtxt)

	items, err := persist.ListCollectionItems(ctxt, collectionID)
	assert.Nil(err)
	assert.Len(items, 1)
	assert.Equal("movie-1", items[0].Title)
}
