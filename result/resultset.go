package result

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ErrRowShape indicates a row does not agree with its result layout.
var ErrRowShape = errors.New("row does not match result layout")

// ProjectionError reports a value whose kind the layout column cannot hold.
type ProjectionError struct {
	Row      int
	Position int
	Column   string
	Type     arrow.DataType
	Kind     Kind
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("unsupported value kind %s at position %d of row %d (column %s is %s)",
		e.Kind, e.Position, e.Row, e.Column, e.Type)
}

func (e *ProjectionError) Unwrap() error { return ErrRowShape }

// ResultType tags a result batch.
type ResultType uint8

const (
	// ResultNotReady means the operation has not produced data yet.
	ResultNotReady ResultType = iota
	// ResultPayload is a batch with more batches to follow.
	ResultPayload
	// ResultEOS is the final batch of a result.
	ResultEOS
)

func (t ResultType) String() string {
	switch t {
	case ResultNotReady:
		return "NOT_READY"
	case ResultPayload:
		return "PAYLOAD"
	case ResultEOS:
		return "EOS"
	default:
		return fmt.Sprintf("ResultType(%d)", uint8(t))
	}
}

// ResultSet is one batch of metadata rows paired with their layout.
type ResultSet struct {
	Type ResultType

	// NextToken points at the following batch; nil for terminal batches.
	NextToken *int64

	// Schema is the column layout every row agrees with.
	Schema *arrow.Schema

	Data []Row
}

// NewEOS returns a terminal result set holding rows.
func NewEOS(schema *arrow.Schema, rows []Row) *ResultSet {
	if rows == nil {
		rows = []Row{}
	}
	return &ResultSet{
		Type:   ResultEOS,
		Schema: schema,
		Data:   rows,
	}
}

// Validate checks every row against the layout: arity first, then the kind
// of each non-null value, then nullability of null values.
func (rs *ResultSet) Validate() error {
	if rs.Schema == nil {
		return fmt.Errorf("%w: result set has no schema", ErrRowShape)
	}
	fields := rs.Schema.Fields()
	for r, row := range rs.Data {
		if len(row) != len(fields) {
			return fmt.Errorf("%w: row %d has %d values, layout has %d columns",
				ErrRowShape, r, len(row), len(fields))
		}
		for i, v := range row {
			f := fields[i]
			if v.IsNull() {
				if !f.Nullable {
					return fmt.Errorf("%w: null at position %d of row %d (column %s is not nullable)",
						ErrRowShape, i, r, f.Name)
				}
				continue
			}
			want, ok := kindOf(f.Type)
			if !ok || want != v.Kind() {
				return &ProjectionError{Row: r, Position: i, Column: f.Name, Type: f.Type, Kind: v.Kind()}
			}
		}
	}
	return nil
}

// Record converts the rows into a single Arrow record batch.
// The caller must release the returned record.
// No record is built unless every row agrees with the layout.
func (rs *ResultSet) Record(alloc memory.Allocator) (arrow.RecordBatch, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	if alloc == nil {
		alloc = memory.DefaultAllocator
	}

	builder := array.NewRecordBuilder(alloc, rs.Schema)
	defer builder.Release()
	builder.Reserve(len(rs.Data))

	for _, row := range rs.Data {
		for i, v := range row {
			appendValue(builder.Field(i), v)
		}
	}

	return builder.NewRecordBatch(), nil
}

// Reader wraps Record in a RecordReader yielding exactly one batch.
// The caller must release the returned reader.
func (rs *ResultSet) Reader(alloc memory.Allocator) (array.RecordReader, error) {
	record, err := rs.Record(alloc)
	if err != nil {
		return nil, err
	}
	defer record.Release()

	return array.NewRecordReader(rs.Schema, []arrow.RecordBatch{record})
}

// appendValue appends a validated value to its column builder.
func appendValue(b array.Builder, v Value) {
	switch v.Kind() {
	case KindText:
		b.(*array.StringBuilder).Append(v.text)
	case KindInt32:
		b.(*array.Int32Builder).Append(v.num)
	case KindInt16:
		b.(*array.Int16Builder).Append(int16(v.num))
	case KindBool:
		b.(*array.BooleanBuilder).Append(v.flag)
	default:
		b.AppendNull()
	}
}
