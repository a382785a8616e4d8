package pollenstore

import (
	"github.com/davidmasek/pollenstore/codec"
	"github.com/davidmasek/pollenstore/fio"
	"github.com/davidmasek/pollenstore/keydir"

	"github.com/phuslu/log"
)

type options struct {
	codec  codec.Codec
	keydir keydir.Keydir
	logger log.Logger

	ioManagerCreator func(path string) (fio.IOManager, error)
	fileLockCreator  func(path string) fio.FileLocker
}

type Option func(*options)

var defaultIOManagerCreator = func(path string) (fio.IOManager, error) {
	return fio.NewFileIO(path)
}

var defaultFileLockCreator = func(path string) fio.FileLocker {
	return fio.NewFlock(path)
}

func defaultOptions() options {
	return options{
		codec:            codec.NewCodecImpl(),
		keydir:           keydir.NewBTree(0),
		logger:           log.Logger{Level: log.InfoLevel},
		ioManagerCreator: defaultIOManagerCreator,
		fileLockCreator:  defaultFileLockCreator,
	}
}

func WithCodec(codec codec.Codec) Option {
	return func(o *options) {
		o.codec = codec
	}
}

func WithKeydir(keydir keydir.Keydir) Option {
	return func(o *options) {
		o.keydir = keydir
	}
}

func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithIOManagerCreator(fn func(path string) (fio.IOManager, error)) Option {
	return func(o *options) {
		o.ioManagerCreator = fn
	}
}

func WithFileLockCreator(fn func(path string) fio.FileLocker) Option {
	return func(o *options) {
		o.fileLockCreator = fn
	}
}
