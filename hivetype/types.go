// Package hivetype describes the data types advertised by the get-type-info operation.
//
// The descriptor table is fixed at build time and never mutated; it is safe
// for unsynchronized concurrent reads.
package hivetype

// SQL type codes (java.sql.Types values used by JDBC clients).
const (
	SQLNull       int32 = 0
	SQLBoolean    int32 = 16
	SQLTinyInt    int32 = -6
	SQLSmallInt   int32 = 5
	SQLInteger    int32 = 4
	SQLBigInt     int32 = -5
	SQLFloat      int32 = 6
	SQLDouble     int32 = 8
	SQLChar       int32 = 1
	SQLVarchar    int32 = 12
	SQLDate       int32 = 91
	SQLTimestamp  int32 = 93
	SQLBinary     int32 = -2
	SQLDecimal    int32 = 3
	SQLArray      int32 = 2003
	SQLJavaObject int32 = 2000
	SQLStruct     int32 = 2002
	SQLOther      int32 = 1111
)

// Nullability of a type (DatabaseMetaData.typeNullable and friends).
const (
	NoNulls         int16 = 0
	Nullable        int16 = 1
	NullableUnknown int16 = 2
)

// Searchability of a type (DatabaseMetaData.typeSearchable and friends).
const (
	PredNone   int16 = 0
	PredChar   int16 = 1
	PredBasic  int16 = 2
	Searchable int16 = 3
)

// MaxDecimalPrecision is the largest precision of the DECIMAL type.
const MaxDecimalPrecision int32 = 38

// Type is one supported logical type with its JDBC type-info attributes.
// Optional attributes are nil when the protocol reports them as NULL.
type Type struct {
	Name           string
	SQLType        int32
	MaxPrecision   *int32
	LiteralPrefix  *string
	LiteralSuffix  *string
	CreateParams   *string
	Nullable       int16
	CaseSensitive  bool
	Searchable     int16
	Unsigned       bool
	FixedPrecScale bool
	AutoIncrement  bool
	LocalizedName  *string
	MinimumScale   int16
	MaximumScale   int16
	NumPrecRadix   *int32
}

// Numeric reports whether the type carries a precision and radix.
func (t Type) Numeric() bool {
	return t.NumPrecRadix != nil
}

var supported = []Type{
	primitive("VOID", SQLNull, false),
	primitive("BOOLEAN", SQLBoolean, false),
	primitive("STRING", SQLVarchar, true),
	primitive("BINARY", SQLBinary, false),
	numeric("TINYINT", SQLTinyInt, 3),
	numeric("SMALLINT", SQLSmallInt, 5),
	numeric("INT", SQLInteger, 10),
	numeric("BIGINT", SQLBigInt, 19),
	numeric("FLOAT", SQLFloat, 7),
	numeric("DOUBLE", SQLDouble, 15),
	numeric("DECIMAL", SQLDecimal, MaxDecimalPrecision),
	primitive("DATE", SQLDate, false),
	primitive("TIMESTAMP", SQLTimestamp, false),
	complexType("ARRAY", SQLArray),
	complexType("MAP", SQLJavaObject),
	complexType("STRUCT", SQLStruct),
	primitive("CHAR", SQLChar, false),
	primitive("VARCHAR", SQLVarchar, false),
	primitive("INTERVAL_YEAR_MONTH", SQLOther, false),
	primitive("INTERVAL_DAY_TIME", SQLOther, false),
}

// Supported returns the advertised types in their fixed order. The returned
// slice is a copy; the pointers it holds must not be written through.
func Supported() []Type {
	out := make([]Type, len(supported))
	copy(out, supported)
	return out
}

// Lookup returns the type with the given name.
func Lookup(name string) (Type, bool) {
	for _, t := range supported {
		if t.Name == name {
			return t, true
		}
	}
	return Type{}, false
}

func primitive(name string, sqlType int32, caseSensitive bool) Type {
	return Type{
		Name:          name,
		SQLType:       sqlType,
		Nullable:      Nullable,
		CaseSensitive: caseSensitive,
		Searchable:    Searchable,
		Unsigned:      true,
	}
}

func numeric(name string, sqlType int32, precision int32) Type {
	radix := int32(10)
	t := primitive(name, sqlType, false)
	t.MaxPrecision = &precision
	t.NumPrecRadix = &radix
	t.Unsigned = false
	return t
}

func complexType(name string, sqlType int32) Type {
	t := primitive(name, sqlType, false)
	t.Searchable = PredNone
	return t
}
