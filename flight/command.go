package flight

import (
	"encoding/json"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/flight"

	"github.com/hugr-lab/hivemeta-go/executor"
	"github.com/hugr-lab/hivemeta-go/internal/msgpack"
	"github.com/hugr-lab/hivemeta-go/operation"
)

// Command is the MessagePack body of a CMD descriptor.
//
// Example (MessagePack map):
//
//	{
//	  "type": "get_tables",
//	  "catalog_name": "memory",
//	  "schema_pattern": "db_",
//	  "table_pattern": "%",
//	  "table_types": ["TABLE"]
//	}
type Command = executor.Request

// EncodeCommand serializes cmd into a CMD descriptor.
func EncodeCommand(cmd Command) (*flight.FlightDescriptor, error) {
	data, err := msgpack.Encode(cmd)
	if err != nil {
		return nil, err
	}
	return &flight.FlightDescriptor{Type: flight.DescriptorCMD, Cmd: data}, nil
}

// DecodeCommand parses a CMD descriptor.
func DecodeCommand(desc *flight.FlightDescriptor) (Command, error) {
	if desc.GetType() != flight.DescriptorCMD {
		return Command{}, fmt.Errorf("%w: descriptor must be CMD type", ErrInvalidCommand)
	}
	var cmd Command
	if err := msgpack.Decode(desc.GetCmd(), &cmd); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	if cmd.Operation == "" {
		return Command{}, fmt.Errorf("%w: missing type", ErrInvalidCommand)
	}
	return cmd, nil
}

// TicketData is the decoded content of a DoGet ticket.
// Tickets name a submitted operation; they are JSON encoded for transparency.
type TicketData struct {
	// OperationID is the handle of the submitted operation.
	OperationID string `json:"operation_id"`

	// Type is the metadata operation, informational only.
	Type executor.Operation `json:"type"`
}

// EncodeTicket creates an opaque ticket for a submitted operation.
func EncodeTicket(handle operation.Handle, op executor.Operation) ([]byte, error) {
	if handle.IsZero() {
		return nil, fmt.Errorf("%w: operation handle cannot be empty", ErrInvalidTicket)
	}

	data, err := json.Marshal(TicketData{OperationID: handle.String(), Type: op})
	if err != nil {
		return nil, fmt.Errorf("failed to encode ticket: %w", err)
	}
	return data, nil
}

// DecodeTicket parses a ticket and returns the operation handle it names.
func DecodeTicket(ticketBytes []byte) (operation.Handle, *TicketData, error) {
	if len(ticketBytes) == 0 {
		return operation.Handle{}, nil, fmt.Errorf("%w: ticket cannot be empty", ErrInvalidTicket)
	}

	var ticket TicketData
	if err := json.Unmarshal(ticketBytes, &ticket); err != nil {
		return operation.Handle{}, nil, fmt.Errorf("%w: %v", ErrInvalidTicket, err)
	}

	handle, err := operation.ParseHandle(ticket.OperationID)
	if err != nil {
		return operation.Handle{}, nil, fmt.Errorf("%w: %v", ErrInvalidTicket, err)
	}
	return handle, &ticket, nil
}
