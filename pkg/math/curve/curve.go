package curve

import (
	"encoding"

	"github.com/cronokirby/saferith"
)

// Curve represents a prime order group in which discrete logarithms are hard.
//
// Points and scalars obtained from one Curve must not be mixed with another.
type Curve interface {
	NewPoint() Point
	NewBasePoint() Point
	NewScalar() Scalar
	Name() string
	// ScalarBits is the bit length of the group order.
	ScalarBits() int
	// SafeScalarBytes is the number of random bytes to read so that reducing them
	// modulo the order yields a statistically uniform scalar.
	SafeScalarBytes() int
	Order() *saferith.Modulus
}

// Scalar is an element of the field of integers modulo the order of a Curve.
//
// Arithmetic methods modify the receiver and return it.
type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Mul(Scalar) Scalar
	Negate() Scalar
	Invert() Scalar
	Equal(Scalar) bool
	IsZero() bool
	Set(Scalar) Scalar
	SetNat(*saferith.Nat) Scalar
	Act(Point) Point
	ActOnBase() Point
}

// Point is an element of a Curve.
//
// Unlike Scalar, arithmetic methods return a fresh Point.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Point) Point
	Sub(Point) Point
	Negate() Point
	Set(Point) Point
	Equal(Point) bool
	IsIdentity() bool
}
