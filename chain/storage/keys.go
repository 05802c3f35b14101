package storage

import "quantum-energy-chain/chain/types"

// Key prefixes, following the teacher's existing "balance-"+addr.Bytes()
// convention in chain/node/blockchain.go's StateDB rather than introducing
// a new key-encoding scheme.
const (
	prefixAccountEnergy = "energy-account-"
	prefixGlobalEnergy  = "energy-global"
	prefixDelegation    = "energy-delegation-"
	prefixDelegatorIdx  = "energy-delegator-idx-"
	prefixBalanceCkpt   = "energy-balance-ckpt-"
	prefixSupplyCkpt    = "energy-supply-ckpt"
	prefixRoleConfig    = "energy-role-"
	prefixTimelock      = "energy-timelock-"
)

// AccountEnergyKey is the persisted row for one account's energy state.
func AccountEnergyKey(addr types.Address) []byte {
	return append([]byte(prefixAccountEnergy), addr.Bytes()...)
}

// GlobalEnergyKey is the single hot row for GlobalEnergyState.
func GlobalEnergyKey() []byte {
	return []byte(prefixGlobalEnergy)
}

// DelegationKey is the directed edge row keyed by (from, to); neither
// endpoint owns the record.
func DelegationKey(from, to types.Address) []byte {
	key := make([]byte, 0, len(prefixDelegation)+2*types.AddressLength)
	key = append(key, prefixDelegation...)
	key = append(key, from.Bytes()...)
	key = append(key, to.Bytes()...)
	return key
}

// DelegatorIndexKey is the reverse-index row (delegatee -> one delegator)
// that must be kept consistent with DelegationKey by the same batch write.
func DelegatorIndexKey(delegatee, delegator types.Address) []byte {
	key := make([]byte, 0, len(prefixDelegatorIdx)+2*types.AddressLength)
	key = append(key, prefixDelegatorIdx...)
	key = append(key, delegatee.Bytes()...)
	key = append(key, delegator.Bytes()...)
	return key
}

// DelegatorIndexPrefix is the iteration prefix for all delegators of one
// delegatee.
func DelegatorIndexPrefix(delegatee types.Address) []byte {
	key := make([]byte, 0, len(prefixDelegatorIdx)+types.AddressLength)
	key = append(key, prefixDelegatorIdx...)
	key = append(key, delegatee.Bytes()...)
	return key
}

// BalanceCheckpointKey is one vote-power checkpoint row for an account at
// a given block.
func BalanceCheckpointKey(addr types.Address, block uint64) []byte {
	key := make([]byte, 0, len(prefixBalanceCkpt)+types.AddressLength+8)
	key = append(key, prefixBalanceCkpt...)
	key = append(key, addr.Bytes()...)
	key = append(key, uint64ToBytes(block)...)
	return key
}

// SupplyCheckpointKey is the ledger-level supply checkpoint row (P9:
// supply = balances_total + fees_burned).
func SupplyCheckpointKey() []byte {
	return []byte(prefixSupplyCkpt)
}

// RoleConfigKey is a role-member configuration row.
func RoleConfigKey(role string) []byte {
	return append([]byte(prefixRoleConfig), []byte(role)...)
}

// TimelockKey is one timelock operation row.
func TimelockKey(id [32]byte) []byte {
	return append([]byte(prefixTimelock), id[:]...)
}

func uint64ToBytes(v uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * (7 - i)))
	}
	return b
}
