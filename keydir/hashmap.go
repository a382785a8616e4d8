package keydir

import "github.com/davidmasek/pollenstore/model"

var _ Keydir = (*Map)(nil)

// Map implement the keydir on a plain hash map. No internal locking: it
// relies on the store's single-caller model.
type Map struct {
	entries map[string]*model.KeyEntry
}

func NewMap() *Map {
	return &Map{entries: make(map[string]*model.KeyEntry)}
}

func (m *Map) Put(key string, entry *model.KeyEntry) {
	m.entries[key] = entry
}

func (m *Map) Get(key string) *model.KeyEntry {
	return m.entries[key]
}

func (m *Map) Delete(key string) bool {
	_, ok := m.entries[key]
	delete(m.entries, key)
	return ok
}

func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.entries))
	for key := range m.entries {
		keys = append(keys, key)
	}
	return keys
}

func (m *Map) Len() int {
	return len(m.entries)
}

func (m *Map) Close() error {
	clear(m.entries)
	return nil
}
