// Package serialize encodes metadata result sets for Flight action responses.
//
// A result set travels as an Arrow IPC stream holding one record batch,
// compressed with ZStandard and wrapped in a MessagePack array
// [uncompressed_length, compressed_bytes].
package serialize

import (
	"bytes"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/hivemeta-go/internal/msgpack"
	"github.com/hugr-lab/hivemeta-go/result"
)

// CompressedContent is the [length, data] envelope of a compressed payload.
// It encodes as a MessagePack array, not a map.
type CompressedContent struct {
	_msgpack struct{} `msgpack:",as_array"`

	Length uint32
	Data   string
}

// EncodeIPC writes rs as an Arrow IPC stream with a single record batch.
func EncodeIPC(rs *result.ResultSet, alloc memory.Allocator) ([]byte, error) {
	if alloc == nil {
		alloc = memory.DefaultAllocator
	}

	record, err := rs.Record(alloc)
	if err != nil {
		return nil, err
	}
	defer record.Release()

	var buf bytes.Buffer
	writer := ipc.NewWriter(&buf, ipc.WithSchema(rs.Schema), ipc.WithAllocator(alloc))
	defer writer.Close()

	if err := writer.Write(record); err != nil {
		return nil, fmt.Errorf("failed to write IPC record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close IPC writer: %w", err)
	}

	return buf.Bytes(), nil
}

// DecodeIPC reads every record batch of an Arrow IPC stream.
// The caller must release the returned records.
func DecodeIPC(data []byte, alloc memory.Allocator) (*arrow.Schema, []arrow.RecordBatch, error) {
	if alloc == nil {
		alloc = memory.DefaultAllocator
	}

	reader, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(alloc))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open IPC stream: %w", err)
	}
	defer reader.Release()

	var records []arrow.RecordBatch
	for reader.Next() {
		rec := reader.RecordBatch()
		rec.Retain()
		records = append(records, rec)
	}
	if err := reader.Err(); err != nil {
		for _, rec := range records {
			rec.Release()
		}
		return nil, nil, fmt.Errorf("failed to read IPC stream: %w", err)
	}

	return reader.Schema(), records, nil
}

// Pack encodes rs as a compressed MessagePack envelope.
// It returns the envelope and the uncompressed IPC size.
func Pack(rs *result.ResultSet, alloc memory.Allocator, c *Compressor) ([]byte, int, error) {
	uncompressed, err := EncodeIPC(rs, alloc)
	if err != nil {
		return nil, 0, err
	}

	body, err := msgpack.Encode(CompressedContent{
		Length: uint32(len(uncompressed)),
		Data:   string(c.Compress(uncompressed)),
	})
	if err != nil {
		return nil, 0, err
	}
	return body, len(uncompressed), nil
}

// Unpack reverses Pack and returns the IPC stream bytes.
func Unpack(body []byte, d *Decompressor) ([]byte, error) {
	var content CompressedContent
	if err := msgpack.Decode(body, &content); err != nil {
		return nil, err
	}

	data, err := d.Decompress([]byte(content.Data))
	if err != nil {
		return nil, err
	}
	if uint32(len(data)) != content.Length {
		return nil, fmt.Errorf("decompressed %d bytes, envelope declares %d", len(data), content.Length)
	}
	return data, nil
}
