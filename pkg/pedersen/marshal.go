package pedersen

import (
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/cmp-zk/internal/params"
	"github.com/taurusgroup/cmp-zk/pkg/math/arith"
)

type parametersCBOR struct {
	N []byte `cbor:"1,keyasint"`
	S []byte `cbor:"2,keyasint"`
	T []byte `cbor:"3,keyasint"`
}

// MarshalBinary encodes (N, s, t) as CBOR.
func (p *Parameters) MarshalBinary() ([]byte, error) {
	if p == nil || p.n == nil || p.s == nil || p.t == nil {
		return nil, ErrNilFields
	}
	return cbor.Marshal(parametersCBOR{
		N: p.n.Bytes(),
		S: p.s.Bytes(),
		T: p.t.Bytes(),
	})
}

// UnmarshalBinary decodes parameters produced by MarshalBinary, and validates them.
func (p *Parameters) UnmarshalBinary(data []byte) error {
	var x parametersCBOR
	if err := cbor.Unmarshal(data, &x); err != nil {
		return fmt.Errorf("pedersen: unmarshal: %w", err)
	}
	if len(x.N) == 0 || len(x.S) == 0 || len(x.T) == 0 {
		return ErrNilFields
	}
	nNat := new(saferith.Nat).SetBytes(x.N)
	if nNat.TrueLen() != params.BitsIntModN || nNat.Byte(0)&1 != 1 {
		return ErrModulusSize
	}
	n := saferith.ModulusFromNat(nNat)
	s := new(saferith.Nat).SetBytes(x.S)
	t := new(saferith.Nat).SetBytes(x.T)
	if err := ValidateParameters(n, s, t); err != nil {
		return err
	}
	*p = Parameters{n: arith.ModulusFromN(n), s: s, t: t}
	return nil
}
