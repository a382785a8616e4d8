package codec

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

/*
default codec:
	- header: timestamp(4) | keySize(4) | valueSize(4), little endian
	- record: header | key | value, no separator, no end-of-record marker
*/

type CodecImpl struct{}

var _ Codec = (*CodecImpl)(nil)

func NewCodecImpl() *CodecImpl {
	return &CodecImpl{}
}

func (cl *CodecImpl) EncodeHeader(timestamp, keySize, valueSize int64) ([]byte, error) {
	if err := checkRange("timestamp", timestamp); err != nil {
		return nil, err
	}
	if err := checkRange("key size", keySize); err != nil {
		return nil, err
	}
	if err := checkRange("value size", valueSize); err != nil {
		return nil, err
	}

	data := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(data[0:4], uint32(timestamp))
	binary.LittleEndian.PutUint32(data[4:8], uint32(keySize))
	binary.LittleEndian.PutUint32(data[8:12], uint32(valueSize))
	return data, nil
}

func (cl *CodecImpl) DecodeHeader(data []byte) (uint32, uint32, uint32, error) {
	if len(data) != HeaderSize {
		return 0, 0, 0, fmt.Errorf("%w: header must be %d bytes, got %d", ErrMalformedInput, HeaderSize, len(data))
	}

	timestamp := binary.LittleEndian.Uint32(data[0:4])
	keySize := binary.LittleEndian.Uint32(data[4:8])
	valueSize := binary.LittleEndian.Uint32(data[8:12])
	return timestamp, keySize, valueSize, nil
}

func (cl *CodecImpl) EncodeKV(timestamp int64, key, value string) (int64, []byte, error) {
	// reject non-UTF-8 input before any bytes hit the log: a record that
	// decodes with ErrInvalidEncoding would make replay reject the whole file
	if !utf8.ValidString(key) {
		return 0, nil, fmt.Errorf("%w: key", ErrInvalidEncoding)
	}
	if !utf8.ValidString(value) {
		return 0, nil, fmt.Errorf("%w: value", ErrInvalidEncoding)
	}

	keySize, valueSize := int64(len(key)), int64(len(value))
	header, err := cl.EncodeHeader(timestamp, keySize, valueSize)
	if err != nil {
		return 0, nil, err
	}

	size := int64(HeaderSize) + keySize + valueSize
	data := make([]byte, 0, size)
	data = append(data, header...)
	data = append(data, key...)
	data = append(data, value...)
	return size, data, nil
}

func (cl *CodecImpl) DecodeKV(data []byte) (uint32, string, string, error) {
	if len(data) < HeaderSize {
		return 0, "", "", fmt.Errorf("%w: buffer shorter than header", ErrMalformedInput)
	}

	timestamp, keySize, valueSize, err := cl.DecodeHeader(data[:HeaderSize])
	if err != nil {
		return 0, "", "", err
	}

	total := int64(HeaderSize) + int64(keySize) + int64(valueSize)
	if int64(len(data)) < total {
		return 0, "", "", fmt.Errorf("%w: record claims %d bytes, buffer holds %d", ErrMalformedInput, total, len(data))
	}

	key := data[HeaderSize : HeaderSize+keySize]
	value := data[HeaderSize+keySize : total]
	if !utf8.Valid(key) {
		return 0, "", "", fmt.Errorf("%w: key", ErrInvalidEncoding)
	}
	if !utf8.Valid(value) {
		return 0, "", "", fmt.Errorf("%w: value", ErrInvalidEncoding)
	}

	return timestamp, string(key), string(value), nil
}

func checkRange(field string, v int64) error {
	if v < 0 || v > MaxFieldValue {
		return fmt.Errorf("%w: %s %d", ErrFieldRange, field, v)
	}
	return nil
}
