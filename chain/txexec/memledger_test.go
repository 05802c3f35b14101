package txexec

import "quantum-energy-chain/chain/types"

// memLedger is an in-memory Ledger for tests.
type memLedger map[types.Address]uint64

func (l memLedger) Balance(addr types.Address) uint64 { return l[addr] }
func (l memLedger) SetBalance(addr types.Address, balance uint64) { l[addr] = balance }
