package fontface

import (
	"errors"
	"fmt"

	"fontpack/css"
)

var (
	// ErrUnexpectedNodeType is matched by every *UnexpectedNodeTypeError.
	ErrUnexpectedNodeType = errors.New("unexpected node type")
	// ErrMissingFontFormatURL is returned when format() in src has no url() to belong to.
	ErrMissingFontFormatURL = errors.New("found font format without associated font url")
)

// UnexpectedNodeTypeError reports declaration value of the wrong shape.
type UnexpectedNodeTypeError struct {
	Property string
	Expected []css.Kind
	Actual   css.Kind
}

func (e *UnexpectedNodeTypeError) Error() string {
	return fmt.Sprintf("%s: expected node type of %v but found %s", e.Property, e.Expected, e.Actual)
}

func (e *UnexpectedNodeTypeError) Is(target error) bool {
	return target == ErrUnexpectedNodeType
}

func unexpected(property string, actual css.Node, expected ...css.Kind) error {
	return &UnexpectedNodeTypeError{Property: property, Expected: expected, Actual: css.KindOf(actual)}
}
