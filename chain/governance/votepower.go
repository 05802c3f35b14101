package governance

import (
	"errors"
	"sort"
	"sync"

	"quantum-energy-chain/chain/types"
)

var (
	// ErrZeroAddressVoter is returned when a vote-power mutation names the
	// zero address as either endpoint.
	ErrZeroAddressVoter = errors.New("governance: zero address cannot hold vote power")
	// ErrVotePowerUnderflow is returned when a transfer would move more
	// vote power out of an account than it currently mirrors.
	ErrVotePowerUnderflow = errors.New("governance: vote power transfer exceeds mirrored balance")
)

// votePowerCheckpoint is one recorded balance at a given block height.
// Multiple writes within the same block coalesce into the last checkpoint
// for that height rather than appending a new entry, so VotesAt's history
// never carries more than one entry per block per account.
type votePowerCheckpoint struct {
	block   uint64
	balance uint64
}

// VotePowerIndex tracks each account's spendable-balance-derived voting
// power over time as a checkpoint history, so governance tallies can ask
// "what was this account's power at block N" without replaying every
// transfer. It mirrors a balance of its own (seeded lazily at zero) rather
// than reading the transaction pipeline's ledger directly, so the energy
// core never depends on governance and governance never depends on txexec's
// concrete Ledger type.
type VotePowerIndex struct {
	mu          sync.RWMutex
	balances    map[types.Address]uint64
	checkpoints map[types.Address][]votePowerCheckpoint
}

// NewVotePowerIndex returns an empty index.
func NewVotePowerIndex() *VotePowerIndex {
	return &VotePowerIndex{
		balances:    make(map[types.Address]uint64),
		checkpoints: make(map[types.Address][]votePowerCheckpoint),
	}
}

// MoveOnTransfer mirrors a spendable-balance transfer into the vote-power
// ledger and writes a checkpoint for both endpoints at block, satisfying
// txexec.VotePowerUpdater. It runs before the pipeline's own balance
// mutation (§4.8), so on a later failure both ledgers stay untouched.
func (v *VotePowerIndex) MoveOnTransfer(from, to types.Address, amount uint64, block uint64) error {
	if from.IsZero() || to.IsZero() {
		return ErrZeroAddressVoter
	}
	if amount == 0 {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.balances[from] < amount {
		return ErrVotePowerUnderflow
	}
	v.balances[from] -= amount
	v.balances[to] += amount

	v.checkpoint(from, block)
	v.checkpoint(to, block)
	return nil
}

// checkpoint records addr's current balance at block, coalescing with an
// existing same-block entry. Caller must hold v.mu.
func (v *VotePowerIndex) checkpoint(addr types.Address, block uint64) {
	hist := v.checkpoints[addr]
	balance := v.balances[addr]
	if n := len(hist); n > 0 && hist[n-1].block == block {
		hist[n-1].balance = balance
		return
	}
	v.checkpoints[addr] = append(hist, votePowerCheckpoint{block: block, balance: balance})
}

// SeedIfZero seeds addr's vote power from currentBalance the first time
// this index is asked to mutate an account it has never checkpointed,
// provided currentBalance is non-zero (§4.10: "the first mutation that
// observes a zero vote-power for an account with non-zero balance seeds it
// from the balance"). Accounts already checkpointed, or with a zero
// currentBalance, are left untouched. Called ahead of MoveOnTransfer so a
// genesis holder who has never transferred still has a mirrored balance.
func (v *VotePowerIndex) SeedIfZero(addr types.Address, block, currentBalance uint64) error {
	if addr.IsZero() {
		return ErrZeroAddressVoter
	}
	if currentBalance == 0 {
		return nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.checkpoints[addr]) > 0 {
		return nil
	}
	v.balances[addr] = currentBalance
	v.checkpoint(addr, block)
	return nil
}

// Seed sets addr's initial balance and writes its first checkpoint at
// block, for accounts whose vote power predates this index (e.g. genesis
// allocations) rather than arising from a tracked transfer.
func (v *VotePowerIndex) Seed(addr types.Address, block, balance uint64) error {
	if addr.IsZero() {
		return ErrZeroAddressVoter
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.balances[addr] = balance
	v.checkpoint(addr, block)
	return nil
}

// VotesAt returns addr's voting power as of block, via binary search over
// its checkpoint history: the last checkpoint at or before block. An
// account with no checkpoint at or before block has zero power there.
func (v *VotePowerIndex) VotesAt(addr types.Address, block uint64) uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()

	hist := v.checkpoints[addr]
	if len(hist) == 0 {
		return 0
	}
	i := sort.Search(len(hist), func(i int) bool { return hist[i].block > block })
	if i == 0 {
		return 0
	}
	return hist[i-1].balance
}
