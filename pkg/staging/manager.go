package staging

import (
	"fmt"
	"sync"

	"github.com/securevault/cli/pkg/model"
)

// Manager owns the staged upload set and the global tag/expiry defaults.
// All mutation goes through its methods; additions are serialized by an
// internal mutex so two concurrent Add calls never interleave.
type Manager struct {
	mu       sync.Mutex
	items    []model.PendingUploadItem
	defaults model.GlobalUploadDefaults
	maxFiles int
}

func NewManager() *Manager {
	return &Manager{maxFiles: model.MaxUploadFiles}
}

// AddResult reports what an Add call did
type AddResult struct {
	Added   int
	Dropped int // duplicates silently dropped
	Message string
}

// Add stages new files. Duplicate fingerprints are dropped. When the set
// is full no files are taken and a capacity message is reported; when
// the input exceeds remaining capacity only the first `remaining` files
// are taken and a truncation message is reported. Tag/expiry are seeded
// from the global defaults only while ApplyToAll is set.
func (m *Manager) Add(files []model.PendingUploadItem) AddResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := make(map[string]bool, len(m.items))
	for _, item := range m.items {
		staged[item.ID] = true
	}

	fresh := make([]model.PendingUploadItem, 0, len(files))
	dropped := 0
	for _, f := range files {
		if staged[f.ID] {
			dropped++
			continue
		}
		staged[f.ID] = true
		fresh = append(fresh, f)
	}

	remaining := m.maxFiles - len(m.items)
	if remaining <= 0 {
		return AddResult{
			Dropped: dropped,
			Message: fmt.Sprintf("you can upload at most %d files at once", m.maxFiles),
		}
	}

	result := AddResult{Dropped: dropped}
	if len(fresh) > remaining {
		fresh = fresh[:remaining]
		result.Message = fmt.Sprintf("only %d more file(s) can be staged; extra files were skipped", remaining)
	}

	for _, f := range fresh {
		if m.defaults.ApplyToAll {
			f.TagID = m.defaults.TagID
			f.Expiry = m.defaults.Expiry
		}
		f.TagOverridden = false
		f.ExpiryOverridden = false
		m.items = append(m.items, f)
	}
	result.Added = len(fresh)
	return result
}

// SetGlobalTag updates the default tag and, while ApplyToAll is set,
// cascades it to every staged item without a tag override.
func (m *Manager) SetGlobalTag(tagID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaults.TagID = tagID
	if !m.defaults.ApplyToAll {
		return
	}
	for i := range m.items {
		if !m.items[i].TagOverridden {
			m.items[i].TagID = tagID
		}
	}
}

// SetGlobalExpiry updates the default expiry and, while ApplyToAll is
// set, cascades it to every staged item without an expiry override.
func (m *Manager) SetGlobalExpiry(expiry string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaults.Expiry = expiry
	if !m.defaults.ApplyToAll {
		return
	}
	for i := range m.items {
		if !m.items[i].ExpiryOverridden {
			m.items[i].Expiry = expiry
		}
	}
}

// SetApplyToAll toggles cascading. Turning it on re-applies the current
// defaults immediately; overridden items are never reset.
func (m *Manager) SetApplyToAll(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaults.ApplyToAll = enabled
	if !enabled {
		return
	}
	for i := range m.items {
		if !m.items[i].TagOverridden {
			m.items[i].TagID = m.defaults.TagID
		}
		if !m.items[i].ExpiryOverridden {
			m.items[i].Expiry = m.defaults.Expiry
		}
	}
}

// SetItemTag sets one item's tag directly and marks it overridden,
// excluding it from future cascades until the set is cleared.
func (m *Manager) SetItemTag(id, tagID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].TagID = tagID
			m.items[i].TagOverridden = true
			return nil
		}
	}
	return fmt.Errorf("no staged file with id %s", id)
}

// SetItemExpiry sets one item's expiry directly and marks it overridden.
func (m *Manager) SetItemExpiry(id, expiry string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Expiry = expiry
			m.items[i].ExpiryOverridden = true
			return nil
		}
	}
	return fmt.Errorf("no staged file with id %s", id)
}

// Remove drops one staged item by id
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no staged file with id %s", id)
}

// Items returns a copy of the staged set in insertion order
func (m *Manager) Items() []model.PendingUploadItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.PendingUploadItem(nil), m.items...)
}

// Defaults returns the current global defaults
func (m *Manager) Defaults() model.GlobalUploadDefaults {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.defaults
}

// Count returns the staged set size
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Clear empties the staged set and resets defaults to initial values
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	m.defaults = model.GlobalUploadDefaults{}
}

// Restore replaces the in-memory state with a previously persisted
// snapshot. Used by the CLI to carry the staged set across invocations.
func (m *Manager) Restore(items []model.PendingUploadItem, defaults model.GlobalUploadDefaults) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(items) > m.maxFiles {
		items = items[:m.maxFiles]
	}
	m.items = append([]model.PendingUploadItem(nil), items...)
	m.defaults = defaults
}
