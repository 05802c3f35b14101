package governance

import (
	"testing"

	"quantum-energy-chain/chain/types"
)

func vpAddr(b byte) types.Address {
	var a types.Address
	a[19] = b
	return a
}

func TestVotePowerIndex_SeedThenVotesAt(t *testing.T) {
	idx := NewVotePowerIndex()
	a := vpAddr(1)

	if err := idx.Seed(a, 10, 500); err != nil {
		t.Fatalf("Seed(): %v", err)
	}
	if got := idx.VotesAt(a, 9); got != 0 {
		t.Fatalf("VotesAt(9) = %d, want 0 (before seed block)", got)
	}
	if got := idx.VotesAt(a, 10); got != 500 {
		t.Fatalf("VotesAt(10) = %d, want 500", got)
	}
	if got := idx.VotesAt(a, 100); got != 500 {
		t.Fatalf("VotesAt(100) = %d, want 500 (no later checkpoint)", got)
	}
}

func TestVotePowerIndex_MoveOnTransferUpdatesBothEndpoints(t *testing.T) {
	idx := NewVotePowerIndex()
	from, to := vpAddr(1), vpAddr(2)
	if err := idx.Seed(from, 1, 1_000); err != nil {
		t.Fatalf("Seed(): %v", err)
	}

	if err := idx.MoveOnTransfer(from, to, 300, 5); err != nil {
		t.Fatalf("MoveOnTransfer(): %v", err)
	}

	if got := idx.VotesAt(from, 5); got != 700 {
		t.Fatalf("VotesAt(from, 5) = %d, want 700", got)
	}
	if got := idx.VotesAt(to, 5); got != 300 {
		t.Fatalf("VotesAt(to, 5) = %d, want 300", got)
	}
	// History before the move is unaffected.
	if got := idx.VotesAt(from, 1); got != 1_000 {
		t.Fatalf("VotesAt(from, 1) = %d, want 1000", got)
	}
}

func TestVotePowerIndex_CoalescesSameBlockCheckpoints(t *testing.T) {
	idx := NewVotePowerIndex()
	from, to := vpAddr(1), vpAddr(2)
	if err := idx.Seed(from, 1, 1_000); err != nil {
		t.Fatalf("Seed(): %v", err)
	}

	if err := idx.MoveOnTransfer(from, to, 100, 5); err != nil {
		t.Fatalf("MoveOnTransfer() 1: %v", err)
	}
	if err := idx.MoveOnTransfer(from, to, 100, 5); err != nil {
		t.Fatalf("MoveOnTransfer() 2: %v", err)
	}

	if got := idx.VotesAt(from, 5); got != 800 {
		t.Fatalf("VotesAt(from, 5) = %d, want 800", got)
	}
	if len(idx.checkpoints[from]) != 2 {
		t.Fatalf("checkpoints[from] len = %d, want 2 (seed + one coalesced block-5 entry)", len(idx.checkpoints[from]))
	}
}

func TestVotePowerIndex_UnderflowRejected(t *testing.T) {
	idx := NewVotePowerIndex()
	from, to := vpAddr(1), vpAddr(2)
	if err := idx.Seed(from, 1, 50); err != nil {
		t.Fatalf("Seed(): %v", err)
	}

	if err := idx.MoveOnTransfer(from, to, 100, 2); err != ErrVotePowerUnderflow {
		t.Fatalf("MoveOnTransfer() error = %v, want %v", err, ErrVotePowerUnderflow)
	}
	if got := idx.VotesAt(from, 2); got != 50 {
		t.Fatalf("VotesAt(from, 2) = %d, want 50 (unchanged on rejected transfer)", got)
	}
}

func TestVotePowerIndex_ZeroAddressRejected(t *testing.T) {
	idx := NewVotePowerIndex()
	if err := idx.Seed(types.ZeroAddress, 1, 100); err != ErrZeroAddressVoter {
		t.Fatalf("Seed() error = %v, want %v", err, ErrZeroAddressVoter)
	}
	if err := idx.MoveOnTransfer(types.ZeroAddress, vpAddr(1), 10, 1); err != ErrZeroAddressVoter {
		t.Fatalf("MoveOnTransfer() error = %v, want %v", err, ErrZeroAddressVoter)
	}
}
