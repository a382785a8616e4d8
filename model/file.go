package model

import "github.com/davidmasek/pollenstore/fio"

// LogFile is the single append-only data file owned by a store.
// WriteOffset tracks the byte offset of the next append.
type LogFile struct {
	WriteOffset int64
	IoManager   fio.IOManager
}

func OpenLogFile(ioManager fio.IOManager) (*LogFile, error) {
	size, err := ioManager.Size()
	if err != nil {
		return nil, err
	}
	return &LogFile{
		WriteOffset: size,
		IoManager:   ioManager,
	}, nil
}

// Write appends binary data and advances the write offset.
func (lf *LogFile) Write(data []byte) (int64, error) {
	offset := lf.WriteOffset
	n, err := lf.IoManager.Write(data)
	if err != nil {
		return 0, err
	}
	lf.WriteOffset += int64(n)
	return offset, nil
}

// Read returns n bytes starting at offset.
func (lf *LogFile) Read(offset, n int64) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := lf.IoManager.Read(buf, offset); err != nil {
		return nil, err
	}
	return buf, nil
}

func (lf *LogFile) Sync() error {
	return lf.IoManager.Sync()
}

func (lf *LogFile) Size() (int64, error) {
	return lf.IoManager.Size()
}

func (lf *LogFile) Close() error {
	return lf.IoManager.Close()
}
