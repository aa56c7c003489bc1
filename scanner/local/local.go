package local

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alwitt/goutils"
	"github.com/apex/log"
	"github.com/fsnotify/fsnotify"
	"github.com/pseudovision/pseudovision/common"
	"github.com/pseudovision/pseudovision/db"
)

// defaultExtensions file extensions the watcher treats as playable media.
var defaultExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".mov": true, ".avi": true, ".ts": true, ".m4v": true,
}

// Watcher is a fire-and-forget background collaborator that watches a
// filesystem tree and upserts discovered files as Media Items into one
// manual Collection. It never touches the build engine's transaction: it
// only performs discovery and upsert (§2).
type Watcher struct {
	goutils.Component
	root         string
	collectionID string
	persist      db.PersistenceManager
	fsWatcher    *fsnotify.Watcher
	extensions   map[string]bool

	seenLock sync.Mutex
	seen     map[string]bool
}

/*
NewWatcher define a new local filesystem scanner

	@param root string - filesystem root to watch, scanned recursively
	@param collectionID string - the manual Collection new Media Items are added to
	@param persist db.PersistenceManager - persistence layer
	@returns new Watcher
*/
func NewWatcher(root, collectionID string, persist db.PersistenceManager) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to define 'fsnotify' watcher: %w", err)
	}

	w := &Watcher{
		Component: goutils.Component{
			LogTags: log.Fields{"module": "scanner/local", "component": "watcher", "root": root},
		},
		root: root, collectionID: collectionID, persist: persist,
		fsWatcher: fsWatcher, extensions: defaultExtensions, seen: map[string]bool{},
	}

	if err := w.addRecursive(root); err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}

	return w, nil
}

// addRecursive adds root and every directory beneath it to the fsnotify watch list.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return w.fsWatcher.Add(path)
		}
		return nil
	})
}

/*
Run drives the watch loop until ctxt is cancelled. Existing files under root are
scanned once up front; new files observed afterwards are picked up via fsnotify.

	@param ctxt context.Context - execution context
	@returns error
*/
func (w *Watcher) Run(ctxt context.Context) error {
	logTags := w.GetLogTagsForContext(ctxt)

	if err := w.scanExisting(ctxt); err != nil {
		log.WithError(err).WithFields(logTags).Error("Initial local scan failed")
	}

	log.WithFields(logTags).Info("Starting local media scanner")
	defer log.WithFields(logTags).Info("Local media scanner stopped")

	for {
		select {
		case <-ctxt.Done():
			return w.fsWatcher.Close()
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return fmt.Errorf("local scanner event queue closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			w.handlePath(ctxt, event.Name)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return fmt.Errorf("local scanner error queue closed")
			}
			log.WithError(err).WithFields(logTags).Error("Local scanner watch error")
		}
	}
}

// scanExisting walks root once so files already present before startup are picked up.
func (w *Watcher) scanExisting(ctxt context.Context) error {
	return filepath.WalkDir(w.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			w.handlePath(ctxt, path)
		}
		return nil
	})
}

// handlePath inspects one filesystem path and upserts it if it looks like a new media file.
func (w *Watcher) handlePath(ctxt context.Context, path string) {
	logTags := w.GetLogTagsForContext(ctxt)

	stat, err := os.Stat(path)
	if err != nil {
		return
	}
	if stat.IsDir() {
		if err := w.fsWatcher.Add(path); err != nil {
			log.WithError(err).WithFields(logTags).WithField("path", path).Error("Failed to watch new directory")
		}
		return
	}
	if !w.extensions[strings.ToLower(filepath.Ext(path))] {
		return
	}

	w.seenLock.Lock()
	if w.seen[path] {
		w.seenLock.Unlock()
		return
	}
	w.seen[path] = true
	w.seenLock.Unlock()

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	itemID, err := w.persist.DefineMediaItem(ctxt, common.MediaItem{Title: title})
	if err != nil {
		log.WithError(err).WithFields(logTags).WithField("path", path).Error("Failed to define media item")
		return
	}
	if _, err := w.persist.AddCollectionItem(ctxt, w.collectionID, itemID, nil); err != nil {
		log.WithError(err).WithFields(logTags).WithField("path", path).Error("Failed to add media item to collection")
		return
	}
	log.WithFields(logTags).WithField("path", path).WithField("item", itemID).Info("Discovered local media item")
}
