package directory

import (
	"context"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"startpage/internal/models"
	"startpage/internal/storage"
)

// StorageKey is where the directory snapshot lives in the backend.
const StorageKey = "startpage:commands"

// Persister loads and saves directory snapshots.
// Load reports found=false when nothing has been saved yet.
type Persister interface {
	Load(ctx context.Context) (entries []models.ShortcutEntry, found bool, err error)
	Save(ctx context.Context, entries []models.ShortcutEntry) error
}

// KVPersister stores the snapshot as a JSON object keyed by shortcut key,
// preserving order.
type KVPersister struct {
	Backend storage.Backend
	Key     string
}

// NewKVPersister returns a persister writing to StorageKey.
func NewKVPersister(b storage.Backend) *KVPersister {
	return &KVPersister{Backend: b, Key: StorageKey}
}

func (p *KVPersister) Load(ctx context.Context) ([]models.ShortcutEntry, bool, error) {
	data, err := p.Backend.Get(ctx, p.Key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load shortcuts: %w", err)
	}
	if data == nil {
		return nil, false, nil
	}

	entries, err := Decode(data)
	if err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

func (p *KVPersister) Save(ctx context.Context, entries []models.ShortcutEntry) error {
	data, err := Encode(entries)
	if err != nil {
		return err
	}
	if err := p.Backend.Set(ctx, p.Key, data, 0); err != nil {
		return fmt.Errorf("failed to save shortcuts: %w", err)
	}
	return nil
}

// Encode renders entries as an ordered JSON object.
func Encode(entries []models.ShortcutEntry) ([]byte, error) {
	om := orderedmap.New[string, models.Shortcut](len(entries))
	for _, e := range entries {
		om.Set(e.Key, e.Shortcut)
	}
	data, err := json.Marshal(om)
	if err != nil {
		return nil, fmt.Errorf("failed to encode shortcuts: %w", err)
	}
	return data, nil
}

// Decode parses an ordered JSON object of shortcuts.
func Decode(data []byte) ([]models.ShortcutEntry, error) {
	om := orderedmap.New[string, models.Shortcut]()
	if err := json.Unmarshal(data, om); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	entries := make([]models.ShortcutEntry, 0, om.Len())
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, models.ShortcutEntry{Key: pair.Key, Shortcut: pair.Value})
	}
	return entries, nil
}
