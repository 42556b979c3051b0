package domain

import dErrors "btocore/pkg/domain-errors"

// FlatTypeKind is a unit category within a project. Each project carries one
// inventory line item per kind.
type FlatTypeKind string

const (
	FlatTwoRoom   FlatTypeKind = "TWO_ROOM"
	FlatThreeRoom FlatTypeKind = "THREE_ROOM"
)

var validFlatTypeKinds = map[FlatTypeKind]bool{
	FlatTwoRoom:   true,
	FlatThreeRoom: true,
}

// ParseFlatTypeKind constructs a FlatTypeKind from external input.
func ParseFlatTypeKind(s string) (FlatTypeKind, error) {
	f := FlatTypeKind(s)
	if !validFlatTypeKinds[f] {
		return "", dErrors.New(dErrors.CodeValidation, "invalid flat type: "+s)
	}
	return f, nil
}

func (f FlatTypeKind) IsValid() bool {
	return validFlatTypeKinds[f]
}

func (f FlatTypeKind) String() string {
	return string(f)
}
