package keydir

import (
	"sync"

	"github.com/davidmasek/pollenstore/model"

	"github.com/google/btree"
)

var _ Keydir = (*BTree)(nil)

const defaultDegree = 32

// BTree implement the keydir on google/btree.
type BTree struct {
	tree *btree.BTree

	// guards tree; the store itself is single-caller but the keydir
	// stays safe to share
	lock *sync.RWMutex
}

// Item implement the btree.Item interface
type Item struct {
	key   string
	entry *model.KeyEntry
}

func (i *Item) Less(than btree.Item) bool {
	return i.key < than.(*Item).key
}

func NewBTree(degree int) *BTree {
	if degree <= 0 {
		degree = defaultDegree
	}
	return &BTree{
		tree: btree.New(degree),
		lock: &sync.RWMutex{},
	}
}

func (bt *BTree) Put(key string, entry *model.KeyEntry) {
	item := &Item{
		key:   key,
		entry: entry,
	}
	bt.lock.Lock()
	bt.tree.ReplaceOrInsert(item)
	bt.lock.Unlock()
}

func (bt *BTree) Get(key string) *model.KeyEntry {
	bt.lock.RLock()
	defer bt.lock.RUnlock()

	btItem := bt.tree.Get(&Item{key: key})
	if btItem == nil {
		return nil
	}
	return btItem.(*Item).entry
}

func (bt *BTree) Delete(key string) bool {
	bt.lock.Lock()
	res := bt.tree.Delete(&Item{key: key})
	bt.lock.Unlock()
	return res != nil
}

func (bt *BTree) Keys() []string {
	bt.lock.RLock()
	defer bt.lock.RUnlock()

	keys := make([]string, 0, bt.tree.Len())
	bt.tree.Ascend(func(item btree.Item) bool {
		keys = append(keys, item.(*Item).key)
		return true
	})
	return keys
}

func (bt *BTree) Len() int {
	bt.lock.RLock()
	defer bt.lock.RUnlock()
	return bt.tree.Len()
}

func (bt *BTree) Close() error {
	bt.lock.Lock()
	bt.tree.Clear(false)
	bt.lock.Unlock()
	return nil
}
