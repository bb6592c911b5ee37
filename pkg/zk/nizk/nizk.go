// Package nizk proves and verifies any of the proofs in zk.Kinds through a single entry point.
package nizk

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/taurusgroup/cmp-zk/internal/hash"
	"github.com/taurusgroup/cmp-zk/pkg/math/curve"
	"github.com/taurusgroup/cmp-zk/pkg/zk"
	zkaffg "github.com/taurusgroup/cmp-zk/pkg/zk/affg"
	zkdec "github.com/taurusgroup/cmp-zk/pkg/zk/dec"
	zklogstar "github.com/taurusgroup/cmp-zk/pkg/zk/logstar"
	zkmul "github.com/taurusgroup/cmp-zk/pkg/zk/mul"
	zkmulstar "github.com/taurusgroup/cmp-zk/pkg/zk/mulstar"
	"golang.org/x/sync/errgroup"
)

// Prove creates a proof of the kind shared by statement and witness.
//
// Every returned error wraps zk.ErrProofConstruction.
func Prove(group curve.Curve, h *hash.Hash, statement zk.Statement, witness zk.Witness) (zk.Proof, error) {
	if group == nil || h == nil || statement == nil || witness == nil {
		return nil, fmt.Errorf("%w: nil input", zk.ErrProofConstruction)
	}
	if statement.Kind() != witness.Kind() {
		return nil, fmt.Errorf("%w: statement is %s but witness is %s",
			zk.ErrProofConstruction, statement.Kind(), witness.Kind())
	}

	var (
		proof zk.Proof
		err   error
	)
	switch public := statement.(type) {
	case zkaffg.Public:
		proof, err = proveAs(witness, func(private zkaffg.Private) (zk.Proof, error) {
			return zkaffg.NewProof(group, h, public, private)
		})
	case zkdec.Public:
		proof, err = proveAs(witness, func(private zkdec.Private) (zk.Proof, error) {
			return zkdec.NewProof(group, h, public, private)
		})
	case zklogstar.Public:
		proof, err = proveAs(witness, func(private zklogstar.Private) (zk.Proof, error) {
			return zklogstar.NewProof(group, h, public, private)
		})
	case zkmul.Public:
		proof, err = proveAs(witness, func(private zkmul.Private) (zk.Proof, error) {
			return zkmul.NewProof(group, h, public, private)
		})
	case zkmulstar.Public:
		proof, err = proveAs(witness, func(private zkmulstar.Private) (zk.Proof, error) {
			return zkmulstar.NewProof(group, h, public, private)
		})
	default:
		err = fmt.Errorf("%w: unsupported statement %T", zk.ErrProofConstruction, statement)
	}
	if err != nil {
		Logger.WithFields(logrus.Fields{"kind": statement.Kind()}).WithError(err).Debug("proof construction failed")
		return nil, err
	}
	return proof, nil
}

// proveAs asserts the concrete witness type before calling newProof.
// A typed nil proof is never returned as a non-nil zk.Proof.
func proveAs[W zk.Witness](witness zk.Witness, newProof func(W) (zk.Proof, error)) (zk.Proof, error) {
	private, ok := witness.(W)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported witness %T", zk.ErrProofConstruction, witness)
	}
	proof, err := newProof(private)
	if err != nil {
		return nil, err
	}
	return proof, nil
}

// Verify checks proof against statement.
//
// It never panics: a mismatched or malformed input is Rejected.
func Verify(group curve.Curve, h *hash.Hash, statement zk.Statement, proof zk.Proof) (outcome zk.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			Logger.WithField("panic", r).Warn("proof verification panicked")
			outcome = zk.Rejected
		}
	}()

	if group == nil || h == nil || statement == nil || proof == nil {
		return zk.Rejected
	}
	if statement.Kind() != proof.Kind() {
		return zk.Rejected
	}

	var ok bool
	switch public := statement.(type) {
	case zkaffg.Public:
		p, isKind := proof.(*zkaffg.Proof)
		ok = isKind && p.Verify(group, h, public)
	case zkdec.Public:
		p, isKind := proof.(*zkdec.Proof)
		ok = isKind && p.Verify(group, h, public)
	case zklogstar.Public:
		p, isKind := proof.(*zklogstar.Proof)
		ok = isKind && p.Verify(group, h, public)
	case zkmul.Public:
		p, isKind := proof.(*zkmul.Proof)
		ok = isKind && p.Verify(group, h, public)
	case zkmulstar.Public:
		p, isKind := proof.(*zkmulstar.Proof)
		ok = isKind && p.Verify(group, h, public)
	}
	return zk.OutcomeOf(ok)
}

// Empty returns a proof of the given kind, ready to be decoded into.
func Empty(kind zk.Kind, group curve.Curve) (zk.Proof, error) {
	switch kind {
	case zk.AffG:
		return zkaffg.Empty(group), nil
	case zk.Dec:
		return zkdec.Empty(group), nil
	case zk.LogStar:
		return zklogstar.Empty(group), nil
	case zk.Mul:
		return zkmul.Empty(group), nil
	case zk.MulStar:
		return zkmulstar.Empty(group), nil
	}
	return nil, fmt.Errorf("nizk: unknown proof kind %d", kind)
}

// Job is a single statement and its proof.
type Job struct {
	Statement zk.Statement
	Proof     zk.Proof
}

var errRejected = errors.New("nizk: proof rejected")

// VerifyAll verifies independent proofs concurrently.
// Each proof is checked against its own clone of h, so every job starts from the same transcript.
//
// The outcome is Verified only if every job is. An error is returned only when ctx is done first.
func VerifyAll(ctx context.Context, group curve.Curve, h *hash.Hash, jobs []Job) (zk.Outcome, error) {
	if h == nil {
		return zk.Rejected, nil
	}
	errGroup, ctx := errgroup.WithContext(ctx)
	for i := range jobs {
		idx := i
		job := jobs[idx]
		transcript := h.Clone()
		errGroup.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if Verify(group, transcript, job.Statement, job.Proof) == zk.Rejected {
				Logger.WithFields(logrus.Fields{"job": idx, "kind": kindOf(job)}).Debug("proof rejected")
				return fmt.Errorf("%w: job %d", errRejected, idx)
			}
			return nil
		})
	}
	if err := errGroup.Wait(); err != nil {
		if errors.Is(err, errRejected) {
			return zk.Rejected, nil
		}
		return zk.Rejected, err
	}
	return zk.Verified, nil
}

func kindOf(job Job) zk.Kind {
	if job.Statement == nil {
		return 0
	}
	return job.Statement.Kind()
}
