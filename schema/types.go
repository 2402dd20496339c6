package schema

// BaseType is the built-in type a leaf type restricts.
type BaseType uint8

const (
	TypeString BaseType = iota
	TypeBoolean
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeDecimal64
	TypeBinary
	TypeEmpty
	TypeBits
	TypeEnumeration
	TypeIdentityRef
	TypeUnion
)

var baseTypeNames = map[string]BaseType{
	"string":      TypeString,
	"boolean":     TypeBoolean,
	"int8":        TypeInt8,
	"int16":       TypeInt16,
	"int32":       TypeInt32,
	"int64":       TypeInt64,
	"uint8":       TypeUint8,
	"uint16":      TypeUint16,
	"uint32":      TypeUint32,
	"uint64":      TypeUint64,
	"decimal64":   TypeDecimal64,
	"binary":      TypeBinary,
	"empty":       TypeEmpty,
	"bits":        TypeBits,
	"enumeration": TypeEnumeration,
	"identityref": TypeIdentityRef,
	"union":       TypeUnion,
}

func (b BaseType) String() string {
	for name, v := range baseTypeNames {
		if v == b {
			return name
		}
	}
	return "unknown"
}

// ParseBaseType maps a built-in type name to its BaseType.
func ParseBaseType(name string) (BaseType, bool) {
	b, ok := baseTypeNames[name]
	return b, ok
}

// Bit is one declared bit of a bits type.
type Bit struct {
	Name     string
	Position uint32
}

// Enum is one assigned name of an enumeration type.
type Enum struct {
	Name  string
	Value int32
}

// Range is an inclusive interval in lexical form. An empty bound is open.
type Range struct {
	Min string
	Max string
}

// Identity is a declared identity and the identities it derives from.
type Identity struct {
	Name  QName
	Bases []QName
}

// Type is the effective type of a leaf or leaf-list.
type Type struct {
	Name           string // typedef name, informational
	Base           BaseType
	Bits           []Bit
	Enums          []Enum
	FractionDigits int
	Ranges         []Range

	// Bases are the identities an identityref value derives from.
	Bases []QName
	// Identities are the valid identityref values in declaration order.
	// NewContext fills them in from Bases.
	Identities []QName
	// Members are the member types of a union, tried in order.
	Members []*Type
}
