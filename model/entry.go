package model

// KeyEntry locates the latest live record for a key inside the log file.
// Entries live only in the key directory; they are never persisted and are
// rebuilt from the log on every open.
type KeyEntry struct {
	Timestamp uint32 // write time of the record, seconds since epoch
	Position  int64  // byte offset of the record start in the log file
	Size      int64  // total record length: header + key + value
}
