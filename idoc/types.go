package idoc

// Type definitions for IDoc segment structures.

// Fragment is one serialized segment element taken from an IDoc container.
// It is opaque to everything but Decompose.
type Fragment []byte

// Attribute is a raw child of a segment as captured by Decompose. Scalar
// attributes carry Value, nested ones carry decomposed Children. Attribute
// with empty Name is an absent entry.
type Attribute struct {
	Name     string
	Value    string
	Nested   bool
	Children []Attribute
}

// IsAbsent reports whether attribute is a placeholder without name.
func (a Attribute) IsAbsent() bool {
	return len(a.Name) == 0
}

// Record is a raw record kind: name and its normalized attribute list.
type Record struct {
	Name       string
	Attributes []Attribute
}

// Type is the inferred type of a typed attribute.
type Type int

const (
	TypeString Type = iota
	TypeFloat
	TypeObject
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeFloat:
		return "float"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// TypedAttribute is an attribute with resolved type. Record is set if and
// only if Type is TypeObject, Value is only meaningful for scalar types.
type TypedAttribute struct {
	Name   string
	Type   Type
	Value  string
	Record *RecordDefinition
}

// RecordDefinition is the typed definition of a single record kind.
// Attribute names are unique within definition.
type RecordDefinition struct {
	Name       string
	Attributes []TypedAttribute
}

// Nested returns nested definitions of the record in attribute order.
func (d *RecordDefinition) Nested() []*RecordDefinition {
	var out []*RecordDefinition
	for i := range d.Attributes {
		if d.Attributes[i].Type == TypeObject {
			out = append(out, d.Attributes[i].Record)
		}
	}
	return out
}
