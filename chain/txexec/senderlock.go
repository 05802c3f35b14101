package txexec

import (
	"sync"

	"quantum-energy-chain/chain/types"
)

// SenderLockTable serializes VerifyPhase's fee_limit reservation per
// sender: a sender may have many transactions in flight across the
// tx-pool admission path, but only one reservation for that sender may be
// computed at a time. Block-level ApplyPhase does not use this table: it
// is already sequential on the single block-production goroutine,
// mirroring the teacher's MultiValidatorConsensus.mu single-mutex shape
// but split into a per-address stripe since VerifyPhase must allow
// distinct senders to proceed concurrently.
type SenderLockTable struct {
	mu     sync.Mutex
	stripe map[types.Address]*sync.Mutex
}

// NewSenderLockTable returns an empty striped lock table.
func NewSenderLockTable() *SenderLockTable {
	return &SenderLockTable{stripe: make(map[types.Address]*sync.Mutex)}
}

// Lock acquires the per-sender stripe and returns the unlock function.
func (s *SenderLockTable) Lock(addr types.Address) func() {
	s.mu.Lock()
	m, ok := s.stripe[addr]
	if !ok {
		m = &sync.Mutex{}
		s.stripe[addr] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// LockPair locks both endpoints of a delegation edge in canonical address
// order (sorted by bytes, matching energy.LockOrder), so two concurrent
// edge mutations touching the same pair of accounts never deadlock.
func (s *SenderLockTable) LockPair(a, b types.Address) func() {
	first, second := a, b
	if string(a.Bytes()) > string(b.Bytes()) {
		first, second = b, a
	}
	unlockFirst := s.Lock(first)
	if first == second {
		return unlockFirst
	}
	unlockSecond := s.Lock(second)
	return func() {
		unlockSecond()
		unlockFirst()
	}
}
