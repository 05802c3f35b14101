package energy

import (
	"bytes"
	"sync"

	"quantum-energy-chain/chain/types"
)

// delegationKey identifies one directed edge.
type delegationKey struct {
	from types.Address
	to   types.Address
}

// DelegationRecord is one directed delegation edge.
type DelegationRecord struct {
	From       types.Address
	To         types.Address
	Amount     uint64
	ExpireTime uint64
}

// CanUndelegate reports whether the lock period has elapsed.
func (d *DelegationRecord) CanUndelegate(nowMs uint64) bool {
	return nowMs >= d.ExpireTime
}

// DelegationTable holds directed delegation edges plus a reverse index
// (delegatee -> set of delegators) for governance-style queries, and
// accessor accounts to apply the counter-only mutations on. It never
// touches FrozenBalance: that is the central known-defect fix (§9).
type DelegationTable struct {
	mu        sync.Mutex
	edges     map[delegationKey]*DelegationRecord
	reverse   map[types.Address]map[types.Address]struct{}
}

// NewDelegationTable returns an empty table.
func NewDelegationTable() *DelegationTable {
	return &DelegationTable{
		edges:   make(map[delegationKey]*DelegationRecord),
		reverse: make(map[types.Address]map[types.Address]struct{}),
	}
}

// lockOrder returns the two addresses sorted so two concurrent edge
// mutations that touch the same pair always acquire locks in the same
// order, avoiding deadlock. The table's own mutex already serializes all
// edge mutations; this ordering matters to callers that additionally lock
// the two endpoint AccountEnergy rows themselves.
func lockOrder(a, b types.Address) (types.Address, types.Address) {
	if bytes.Compare(a.Bytes(), b.Bytes()) <= 0 {
		return a, b
	}
	return b, a
}

// LockOrder is exported so txexec can lock the two endpoint account rows
// in the same canonical order this table uses internally.
func LockOrder(a, b types.Address) (types.Address, types.Address) {
	return lockOrder(a, b)
}

// ValidateDelegate checks Delegate's preconditions without mutating
// anything, so VerifyPhase can reject early.
func ValidateDelegate(from *AccountEnergy, fromAddr, toAddr types.Address, amount uint64, lockDays uint32) error {
	if err := requireNonZero(fromAddr); err != nil {
		return err
	}
	if err := requireNonZero(toAddr); err != nil {
		return err
	}
	if fromAddr.Equal(toAddr) {
		return ErrSelfDelegation
	}
	if amount < MinDelegationAmount {
		return ErrDelegationTooSmall
	}
	if amount%CoinValue != 0 {
		return ErrDelegationNotWhole
	}
	if lockDays > MaxDelegateLockDays {
		return ErrLockDaysExceedsMax
	}
	if amount > from.AvailableForDelegation() {
		return ErrDelegationInsufficient
	}
	return nil
}

// Delegate moves amount of stake-backed energy allocation from "from" to
// "to" for lockDays, without ever touching either account's FrozenBalance.
// from.AvailableForDelegation() is the bound, not from.FrozenBalance.
func (t *DelegationTable) Delegate(from, to *AccountEnergy, fromAddr, toAddr types.Address, amount uint64, lockDays uint32, nowMs uint64) error {
	if err := ValidateDelegate(from, fromAddr, toAddr, amount, lockDays); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := delegationKey{from: fromAddr, to: toAddr}
	expire := nowMs + uint64(lockDays)*86_400_000
	if lockDays == 0 {
		expire = 0
	}
	if rec, ok := t.edges[key]; ok {
		rec.Amount = saturatingAdd(rec.Amount, amount)
		rec.ExpireTime = expire
	} else {
		t.edges[key] = &DelegationRecord{From: fromAddr, To: toAddr, Amount: amount, ExpireTime: expire}
	}
	if t.reverse[toAddr] == nil {
		t.reverse[toAddr] = make(map[types.Address]struct{})
	}
	t.reverse[toAddr][fromAddr] = struct{}{}

	from.DelegatedFrozenBalance = saturatingAdd(from.DelegatedFrozenBalance, amount)
	to.AcquiredDelegatedBalance = saturatingAdd(to.AcquiredDelegatedBalance, amount)
	return nil
}

// Undelegate reverses up to amount of a prior delegation once its lock
// period has expired. Like Delegate, FrozenBalance is never touched.
func (t *DelegationTable) Undelegate(from, to *AccountEnergy, fromAddr, toAddr types.Address, amount, nowMs uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := delegationKey{from: fromAddr, to: toAddr}
	rec, ok := t.edges[key]
	if !ok {
		return ErrDelegationNotFound
	}
	if !rec.CanUndelegate(nowMs) {
		return ErrDelegationLocked
	}
	if amount > rec.Amount {
		return ErrUndelegateExceeds
	}

	rec.Amount -= amount
	if rec.Amount == 0 {
		delete(t.edges, key)
		if dels := t.reverse[toAddr]; dels != nil {
			delete(dels, fromAddr)
			if len(dels) == 0 {
				delete(t.reverse, toAddr)
			}
		}
	}

	from.DelegatedFrozenBalance = saturatingSub(from.DelegatedFrozenBalance, amount)
	to.AcquiredDelegatedBalance = saturatingSub(to.AcquiredDelegatedBalance, amount)
	return nil
}

// Get returns the current edge, if any.
func (t *DelegationTable) Get(from, to types.Address) (*DelegationRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.edges[delegationKey{from: from, to: to}]
	return rec, ok
}

// Delegators returns the current set of delegators for a delegatee, for
// governance-style queries. Order is not guaranteed.
func (t *DelegationTable) Delegators(to types.Address) []types.Address {
	t.mu.Lock()
	defer t.mu.Unlock()
	set := t.reverse[to]
	out := make([]types.Address, 0, len(set))
	for addr := range set {
		out = append(out, addr)
	}
	return out
}

// EdgeCount returns the current number of active delegation edges, for
// monitoring's delegation_edges_total gauge.
func (t *DelegationTable) EdgeCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.edges)
}
