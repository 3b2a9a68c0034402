package staging

import (
	"fmt"
	"testing"

	"github.com/securevault/cli/pkg/model"
)

func makeItems(n int, prefix string) []model.PendingUploadItem {
	items := make([]model.PendingUploadItem, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("%s-%d.pdf", prefix, i)
		items = append(items, model.PendingUploadItem{
			ID:        Fingerprint(name, int64(100+i), int64(1000+i)),
			FileName:  name,
			SizeBytes: int64(100 + i),
		})
	}
	return items
}

func TestAddDeduplicatesByFingerprint(t *testing.T) {
	m := NewManager()

	first := m.Add(makeItems(3, "doc"))
	if first.Added != 3 {
		t.Fatalf("expected 3 added, got %d", first.Added)
	}

	again := m.Add(makeItems(3, "doc"))
	if again.Added != 0 {
		t.Errorf("duplicate add staged %d file(s)", again.Added)
	}
	if again.Dropped != 3 {
		t.Errorf("expected 3 dropped duplicates, got %d", again.Dropped)
	}
	if m.Count() != 3 {
		t.Errorf("staged set size = %d, want 3", m.Count())
	}
}

func TestAddCapacity(t *testing.T) {
	t.Run("full set rejects further adds entirely", func(t *testing.T) {
		m := NewManager()
		m.Add(makeItems(model.MaxUploadFiles, "doc"))
		if m.Count() != model.MaxUploadFiles {
			t.Fatalf("staged set size = %d, want %d", m.Count(), model.MaxUploadFiles)
		}

		result := m.Add(makeItems(2, "extra"))
		if result.Added != 0 {
			t.Errorf("add beyond cap staged %d file(s)", result.Added)
		}
		if result.Message == "" {
			t.Error("expected a capacity message")
		}
		if m.Count() != model.MaxUploadFiles {
			t.Errorf("staged set size = %d, want %d", m.Count(), model.MaxUploadFiles)
		}
	})

	t.Run("partial capacity takes files in order and reports truncation", func(t *testing.T) {
		m := NewManager()
		m.Add(makeItems(model.MaxUploadFiles-2, "doc"))

		extra := makeItems(5, "extra")
		result := m.Add(extra)
		if result.Added != 2 {
			t.Fatalf("expected 2 added, got %d", result.Added)
		}
		if result.Message == "" {
			t.Error("expected a truncation message")
		}

		items := m.Items()
		if items[len(items)-1].FileName != extra[1].FileName {
			t.Errorf("surviving files not taken in supplied order: last = %s", items[len(items)-1].FileName)
		}
	})
}

func TestAddSeedsDefaultsOnlyWhenApplyToAll(t *testing.T) {
	m := NewManager()
	m.SetGlobalTag("finance")
	m.SetGlobalExpiry("2026-12-31T18:00")

	m.Add(makeItems(1, "plain"))
	if got := m.Items()[0].TagID; got != "" {
		t.Errorf("tag seeded without apply-to-all: %q", got)
	}

	m.SetApplyToAll(true)
	m.Add(makeItems(1, "seeded"))
	items := m.Items()
	if items[1].TagID != "finance" || items[1].Expiry != "2026-12-31T18:00" {
		t.Errorf("defaults not seeded: tag=%q expiry=%q", items[1].TagID, items[1].Expiry)
	}
	if items[1].TagOverridden || items[1].ExpiryOverridden {
		t.Error("override flags must start false")
	}
}

// Mirrors the three-file override scenario: cascades respect per-item
// overrides and overridden items survive later global changes.
func TestCascadeRespectsOverrides(t *testing.T) {
	m := NewManager()
	m.Add(makeItems(3, "doc"))
	items := m.Items()

	m.SetApplyToAll(true)
	m.SetGlobalTag("T1")
	m.SetGlobalExpiry("E1")

	for i, item := range m.Items() {
		if item.TagID != "T1" || item.Expiry != "E1" {
			t.Fatalf("item %d not cascaded: tag=%q expiry=%q", i, item.TagID, item.Expiry)
		}
	}

	if err := m.SetItemTag(items[1].ID, "T2"); err != nil {
		t.Fatal(err)
	}

	m.SetGlobalTag("T3")

	got := m.Items()
	if got[0].TagID != "T3" || got[2].TagID != "T3" {
		t.Errorf("non-overridden items = %q/%q, want T3/T3", got[0].TagID, got[2].TagID)
	}
	if got[1].TagID != "T2" {
		t.Errorf("overridden item = %q, want T2", got[1].TagID)
	}
	if !got[1].TagOverridden {
		t.Error("tagOverridden not set")
	}
	if got[1].Expiry != "E1" {
		t.Errorf("expiry changed by tag override: %q", got[1].Expiry)
	}
}

func TestSetApplyToAllRecascadesImmediately(t *testing.T) {
	m := NewManager()
	m.Add(makeItems(2, "doc"))
	items := m.Items()

	m.SetGlobalTag("archive")
	if m.Items()[0].TagID != "" {
		t.Fatal("cascade ran while apply-to-all was off")
	}

	if err := m.SetItemTag(items[0].ID, "medical"); err != nil {
		t.Fatal(err)
	}

	m.SetApplyToAll(true)

	got := m.Items()
	if got[0].TagID != "medical" {
		t.Errorf("overridden item reset by apply-to-all: %q", got[0].TagID)
	}
	if got[1].TagID != "archive" {
		t.Errorf("item not re-cascaded: %q", got[1].TagID)
	}
}

func TestClearResetsDefaults(t *testing.T) {
	m := NewManager()
	m.Add(makeItems(2, "doc"))
	m.SetApplyToAll(true)
	m.SetGlobalTag("bills")

	m.Clear()

	if m.Count() != 0 {
		t.Errorf("staged set size = %d after clear", m.Count())
	}
	if defaults := m.Defaults(); defaults != (model.GlobalUploadDefaults{}) {
		t.Errorf("defaults not reset: %+v", defaults)
	}
}

func TestFingerprintStable(t *testing.T) {
	a := Fingerprint("a.pdf", 100, 5000)
	b := Fingerprint("a.pdf", 100, 5000)
	if a != b {
		t.Error("fingerprint not stable for identical inputs")
	}
	if a == Fingerprint("a.pdf", 101, 5000) {
		t.Error("fingerprint ignores size")
	}
	if a == Fingerprint("a.pdf", 100, 5001) {
		t.Error("fingerprint ignores mtime")
	}
}
