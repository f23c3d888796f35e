package ast

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/soypat/go-pseudo/token"
)

// structural ignores source positions and treats nil and empty lists alike,
// so trees parsed from differently formatted sources compare equal.
var structural = cmp.Options{
	cmpopts.IgnoreTypes(token.Position{}),
	cmpopts.EquateEmpty(),
}

// Equal reports whether a and b have the same shape and leaf values.
// Positions are not compared.
func Equal(a, b any) bool {
	return cmp.Equal(a, b, structural)
}

// Diff returns a human readable difference between a and b, or the empty
// string if they are structurally equal.
func Diff(a, b any) string {
	return cmp.Diff(a, b, structural)
}
