package fio

import "github.com/gofrs/flock"

const lockSuffix = ".lock"

// NewFlock creates a file lock next to the store file. The lock keeps a
// second process from appending to the same log.
func NewFlock(storePath string) *flock.Flock {
	return flock.New(storePath + lockSuffix)
}
