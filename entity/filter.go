package entity

import (
	"fmt"
	"strconv"
)

// FilterOp represents a comparison operator.
type FilterOp int

const (
	Eq       FilterOp = iota // ==
	Contains                 // substring match
)

func (op FilterOp) String() string {
	switch op {
	case Eq:
		return "=="
	case Contains:
		return "contains"
	}
	return fmt.Sprintf("FilterOp(%d)", int(op))
}

// Node is a parsed display filter.
// The set of implementations is closed: Text, Comparison, And, Or and Not.
type Node interface {
	fmt.Stringer
	node()
}

// Text matches records whose text contains Value.
type Text struct {
	Value string
}

// Comparison tests a single record field against a value.
type Comparison struct {
	Field string
	Op    FilterOp
	Value string
}

// And matches when both sides match.
type And struct {
	Left  Node
	Right Node
}

// Or matches when either side matches.
type Or struct {
	Left  Node
	Right Node
}

// Not inverts its operand.
type Not struct {
	Operand Node
}

func (Text) node()       {}
func (Comparison) node() {}
func (And) node()        {}
func (Or) node()         {}
func (Not) node()        {}

// String renders nodes fully parenthesized, mostly for debugging and tests.

func (n Text) String() string {
	return strconv.Quote(n.Value)
}

func (n Comparison) String() string {
	return fmt.Sprintf("%s %s %s", n.Field, n.Op, strconv.Quote(n.Value))
}

func (n And) String() string {
	return fmt.Sprintf("(%s && %s)", n.Left, n.Right)
}

func (n Or) String() string {
	return fmt.Sprintf("(%s || %s)", n.Left, n.Right)
}

func (n Not) String() string {
	return fmt.Sprintf("!%s", n.Operand)
}
