// Package tensor provides the values threaded through layer stacks: concrete
// arrays, abstract signatures, tuples and the Empty sentinel, together with the
// numeric operations layers are built from.
package tensor

// DataType represents runtime element type information.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
	Uint8
	Uint32
	Bool
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32, Uint32:
		return 4
	case Float64, Int64:
		return 8
	case Uint8, Bool:
		return 1
	default:
		panic("unknown data type")
	}
}

// IsFloat reports whether the data type is a floating point type.
func (dt DataType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}

// IsInteger reports whether the data type is an integer type.
func (dt DataType) IsInteger() bool {
	switch dt {
	case Int32, Int64, Uint8, Uint32:
		return true
	default:
		return false
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint32:
		return "uint32"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// promote returns the result type of a binary elementwise op.
func promote(a, b DataType) DataType {
	if a == b {
		return a
	}
	if a.IsFloat() || b.IsFloat() {
		if a == Float64 || b == Float64 {
			return Float64
		}
		return Float32
	}
	if a == Int64 || b == Int64 {
		return Int64
	}
	return Int32
}
