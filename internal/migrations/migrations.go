package migrations

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"github.com/timetable-viewer/internal/cache"
)

// CacheVersion is bumped whenever the layout of cached responses changes.
const CacheVersion = 2

var versionKey = []byte("meta/cache-version")

func Run(logger *slog.Logger, db *badger.DB) error {
	if err := dropStaleCache(logger, db, CacheVersion); err != nil {
		return fmt.Errorf("drop stale cache: %w", err)
	}
	return nil
}

func dropStaleCache(logger *slog.Logger, db *badger.DB, version int) error {
	current, err := readVersion(db)
	if err != nil {
		return err
	}
	if current == version {
		return nil
	}
	if err := db.DropPrefix([]byte(cache.Prefix)); err != nil {
		return fmt.Errorf("drop prefix: %w", err)
	}
	if err := db.Update(func(txn *badger.Txn) error {
		return txn.Set(versionKey, []byte(strconv.Itoa(version)))
	}); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	logger.Info("cache migrated", "old_version", current, "new_version", version)
	return nil
}

func readVersion(db *badger.DB) (int, error) {
	var version int
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(versionKey)
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			version, err = strconv.Atoi(string(value))
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read version: %w", err)
	}
	return version, nil
}
