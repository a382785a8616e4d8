package pollenstore

// Store is the operation surface shared by the disk engine and the
// in-memory baseline. The shell, the load generator and the benchmark
// harness all program against it.
type Store interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Remove(key string) error
	List() ([]string, error)
	Close() error
}

// MemoryStore is a trivial map-backed Store. It exists as the comparison
// baseline for the benchmark harness and keeps the same missing-key
// semantics as DiskStore: Get returns "" for an absent key.
type MemoryStore struct {
	data map[string]string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Set(key, value string) error {
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Get(key string) (string, error) {
	return m.data[key], nil
}

func (m *MemoryStore) Remove(key string) error {
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) List() ([]string, error) {
	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}
	return keys, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
