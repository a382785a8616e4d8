package keydir

import "github.com/davidmasek/pollenstore/model"

// Keydir defined the key directory interface: the in-memory index mapping
// each live key to the location of its latest record in the log.
// you can use some other data structure once you implement this interface
type Keydir interface {
	Put(key string, entry *model.KeyEntry)

	// Get returns nil when the key is not present.
	Get(key string) *model.KeyEntry

	// Delete reports whether the key was present.
	Delete(key string) bool

	// Keys returns every live key, in no particular order.
	Keys() []string

	Len() int

	Close() error
}
