package result

import "github.com/apache/arrow-go/v18/arrow"

// Column layouts of the HiveServer2 metadata operations. Every column is nullable.
var (
	// GetCatalogsSchema is the layout of the get-catalogs operation.
	GetCatalogsSchema = newLayout(
		textColumn("TABLE_CAT"),
	)

	// GetSchemasSchema is the layout of the get-schemas operation.
	GetSchemasSchema = newLayout(
		textColumn("TABLE_SCHEM"),
		textColumn("TABLE_CATALOG"),
	)

	// GetTablesSchema is the layout of the get-tables operation.
	GetTablesSchema = newLayout(
		textColumn("TABLE_CAT"),
		textColumn("TABLE_SCHEM"),
		textColumn("TABLE_NAME"),
		textColumn("TABLE_TYPE"),
		textColumn("REMARKS"),
		textColumn("TYPE_CAT"),
		textColumn("TYPE_SCHEM"),
		textColumn("TYPE_NAME"),
		textColumn("SELF_REFERENCING_COL_NAME"),
		textColumn("REF_GENERATION"),
	)

	// GetTypeInfoSchema is the layout of the get-type-info operation.
	GetTypeInfoSchema = newLayout(
		textColumn("TYPE_NAME"),
		int32Column("DATA_TYPE"),
		int32Column("PRECISION"),
		textColumn("LITERAL_PREFIX"),
		textColumn("LITERAL_SUFFIX"),
		textColumn("CREATE_PARAMS"),
		int16Column("NULLABLE"),
		boolColumn("CASE_SENSITIVE"),
		int16Column("SEARCHABLE"),
		boolColumn("UNSIGNED_ATTRIBUTE"),
		boolColumn("FIXED_PREC_SCALE"),
		boolColumn("AUTO_INCREMENT"),
		textColumn("LOCAL_TYPE_NAME"),
		int16Column("MINIMUM_SCALE"),
		int16Column("MAXIMUM_SCALE"),
		int32Column("SQL_DATA_TYPE"),
		int32Column("SQL_DATETIME_SUB"),
		int32Column("NUM_PREC_RADIX"),
	)
)

func newLayout(fields ...arrow.Field) *arrow.Schema {
	return arrow.NewSchema(fields, nil)
}

func textColumn(name string) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
}

func int32Column(name string) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int32, Nullable: true}
}

func int16Column(name string) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int16, Nullable: true}
}

func boolColumn(name string) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.FixedWidthTypes.Boolean, Nullable: true}
}

// kindOf returns the value kind a column of type dt accepts, or false when
// the type cannot be produced by a Row.
func kindOf(dt arrow.DataType) (Kind, bool) {
	switch dt.ID() {
	case arrow.STRING:
		return KindText, true
	case arrow.INT32:
		return KindInt32, true
	case arrow.INT16:
		return KindInt16, true
	case arrow.BOOL:
		return KindBool, true
	default:
		return KindNull, false
	}
}
