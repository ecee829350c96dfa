// Package msgpack provides MessagePack encoding/decoding for Flight commands and action bodies.
package msgpack

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrEmpty is returned when decoding an empty body.
var ErrEmpty = errors.New("empty MessagePack data")

// Decode deserializes MessagePack data into a Go value.
// The v parameter should be a pointer to the target structure.
//
// Example:
//
//	type Command struct {
//	    Type          string `msgpack:"type"`
//	    SchemaPattern string `msgpack:"schema_pattern,omitempty"`
//	}
//
//	var cmd Command
//	err := msgpack.Decode(data, &cmd)
func Decode(data []byte, v any) error {
	if len(data) == 0 {
		return ErrEmpty
	}

	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}

	return nil
}

// DecodeOptional is Decode for bodies that may be omitted; an empty body leaves v unchanged.
func DecodeOptional(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return Decode(data, v)
}

// Encode serializes a Go value into MessagePack format.
func Encode(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	return data, nil
}
