package frame

// Type is the element type of a column.
type Type uint8

const (
	TypeBad Type = iota
	TypeUUID
	TypeString
	TypeNumeric
	TypeEnum
	TypeTime
)

var typeNames = [...]string{
	TypeBad:     "BAD",
	TypeUUID:    "UUID",
	TypeString:  "String",
	TypeNumeric: "Numeric",
	TypeEnum:    "Enum",
	TypeTime:    "Time",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return typeNames[TypeBad]
}
