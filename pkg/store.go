package pkg

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/securevault/cli/pkg/model"
	bolt "go.etcd.io/bbolt"
)

func GetDB(path string) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to open db %s ", path), err)
	}
	return db, err
}

// createBuckets ensures every store bucket exists
func createBuckets(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		for _, store := range []model.VaultStore{
			model.KVConfig, model.RemoteFiles, model.StagedItems, model.WatchStates, model.WatchFiles,
		} {
			if _, err := tx.CreateBucketIfNotExists([]byte(store)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", store, err)
			}
		}
		return nil
	})
}

func (c *Ctrl) GetValue(store model.VaultStore, key []byte) ([]byte, error) {
	var value []byte
	err := c.DB.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(store))
		if bucket == nil {
			return fmt.Errorf("store %s not found", store)
		}
		value = bucket.Get(key)
		return nil
	})
	return value, err
}

func (c *Ctrl) PutValue(store model.VaultStore, key []byte, value []byte) error {
	return c.DB.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(store))
		if bucket == nil {
			return fmt.Errorf("store %s not found", store)
		}
		return bucket.Put(key, value)
	})
}

func (c *Ctrl) DeleteValue(store model.VaultStore, key []byte) error {
	return c.DB.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(store))
		if bucket == nil {
			return fmt.Errorf("store %s not found", store)
		}
		return bucket.Delete(key)
	})
}

func (c *Ctrl) GetAllValues(store model.VaultStore) ([][]byte, error) {
	result := make([][]byte, 0)
	err := c.DB.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(store))
		if bucket == nil {
			return fmt.Errorf("store %s not found", store)
		}
		return bucket.ForEach(func(_, v []byte) error {
			result = append(result, v)
			return nil
		})
	})
	return result, err
}

const stagedItemsKey = "items"

type stagedSnapshot struct {
	Items    []model.PendingUploadItem  `json:"items"`
	Defaults model.GlobalUploadDefaults `json:"defaults"`
}

// SaveStagedSet persists the staged set so it survives between CLI
// invocations. The snapshot is replaced wholesale on every mutation.
func (c *Ctrl) SaveStagedSet(items []model.PendingUploadItem, defaults model.GlobalUploadDefaults) error {
	value, err := json.Marshal(stagedSnapshot{Items: items, Defaults: defaults})
	if err != nil {
		return fmt.Errorf("failed to marshal staged set: %w", err)
	}
	return c.PutValue(model.StagedItems, []byte(stagedItemsKey), value)
}

// LoadStagedSet restores the persisted staged set, empty when none
func (c *Ctrl) LoadStagedSet() ([]model.PendingUploadItem, model.GlobalUploadDefaults, error) {
	value, err := c.GetValue(model.StagedItems, []byte(stagedItemsKey))
	if err != nil || value == nil {
		return nil, model.GlobalUploadDefaults{}, err
	}
	var snap stagedSnapshot
	if err := json.Unmarshal(value, &snap); err != nil {
		return nil, model.GlobalUploadDefaults{}, fmt.Errorf("failed to unmarshal staged set: %w", err)
	}
	return snap.Items, snap.Defaults, nil
}

// ReplaceFiles wholesale-replaces the persisted catalog mirror. Stale
// entries for files removed server-side disappear with the old bucket.
func (c *Ctrl) ReplaceFiles(files []model.CatalogFile) error {
	if files != nil {
		if err := c.RecordCatalogSync(time.Now()); err != nil {
			fmt.Printf("Warning: failed to record sync time: %v\n", err)
		}
	}
	return c.DB.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(model.RemoteFiles)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		bucket, err := tx.CreateBucket([]byte(model.RemoteFiles))
		if err != nil {
			return err
		}
		for _, f := range files {
			value, err := json.Marshal(f)
			if err != nil {
				return fmt.Errorf("failed to marshal catalog file: %w", err)
			}
			if err := bucket.Put([]byte(f.FileName), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// RecordCatalogSync stamps the time of the last successful refresh
func (c *Ctrl) RecordCatalogSync(t time.Time) error {
	return c.PutValue(model.KVConfig, []byte(model.CatalogSyncKey), []byte(t.UTC().Format(time.RFC3339)))
}

// LastCatalogSync returns the time of the last successful refresh,
// zero when the catalog has never been synced.
func (c *Ctrl) LastCatalogSync() (time.Time, error) {
	value, err := c.GetValue(model.KVConfig, []byte(model.CatalogSyncKey))
	if err != nil || value == nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, string(value))
}

// LoadFiles reads the persisted catalog mirror
func (c *Ctrl) LoadFiles() ([]model.CatalogFile, error) {
	values, err := c.GetAllValues(model.RemoteFiles)
	if err != nil {
		return nil, err
	}
	files := make([]model.CatalogFile, 0, len(values))
	for _, value := range values {
		var f model.CatalogFile
		if err := json.Unmarshal(value, &f); err != nil {
			return nil, fmt.Errorf("failed to unmarshal catalog file: %w", err)
		}
		files = append(files, f)
	}
	return files, nil
}

// GetWatchState retrieves the watch state for a watch path
func (c *Ctrl) GetWatchState(watchPath string) (*model.WatchState, error) {
	key := fmt.Sprintf("%x", watchPath)
	value, err := c.GetValue(model.WatchStates, []byte(key))
	if err != nil || value == nil {
		return nil, err
	}
	var state model.WatchState
	if err := json.Unmarshal(value, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal watch state: %w", err)
	}
	return &state, nil
}

// SaveWatchState saves the watch state for a watch path
func (c *Ctrl) SaveWatchState(state *model.WatchState) error {
	value, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal watch state: %w", err)
	}
	key := fmt.Sprintf("%x", state.WatchPath)
	return c.PutValue(model.WatchStates, []byte(key), value)
}

// GetProcessedFile retrieves the processed file record by file path
func (c *Ctrl) GetProcessedFile(filePath string) (*model.ProcessedFile, error) {
	key := fmt.Sprintf("%x", filePath)
	value, err := c.GetValue(model.WatchFiles, []byte(key))
	if err != nil || value == nil {
		return nil, err
	}
	var file model.ProcessedFile
	if err := json.Unmarshal(value, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal processed file: %w", err)
	}
	return &file, nil
}

// SaveProcessedFile saves the processed file record
func (c *Ctrl) SaveProcessedFile(file *model.ProcessedFile) error {
	value, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to marshal processed file: %w", err)
	}
	key := fmt.Sprintf("%x", file.FilePath)
	return c.PutValue(model.WatchFiles, []byte(key), value)
}
