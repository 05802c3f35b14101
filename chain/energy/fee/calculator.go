// Package fee implements the per-transaction-kind energy cost formulas and
// the free -> staked -> coin-burn consumption priority order.
package fee

import "quantum-energy-chain/chain/energy"

// TransactionKind is the closed set of transaction shapes the fee engine
// prices. It mirrors the tagged-variant payload set of the wider
// transaction surface, restricted to the kinds that carry an energy cost.
type TransactionKind uint8

const (
	KindTransfer TransactionKind = iota
	KindPrivacyTransfer
	KindBurn
	KindContractDeploy
	KindContractInvoke
	KindFreeze
	KindUnfreeze
	KindWithdraw
	KindCancelUnfreeze
	KindDelegate
	KindUndelegate
)

// CostParams carries the fields any one formula below may need; unused
// fields for a given kind are simply ignored.
type CostParams struct {
	TxSizeBytes   uint64
	Outputs       uint64
	NewAccounts   uint64
	BytecodeBytes uint64
	MaxGas        uint64
}

// EnergyFeeCalculator computes the energy-unit cost of a transaction. It
// holds no state: costs are pure functions of (kind, params).
type EnergyFeeCalculator struct{}

// NewEnergyFeeCalculator returns a ready-to-use calculator.
func NewEnergyFeeCalculator() *EnergyFeeCalculator {
	return &EnergyFeeCalculator{}
}

// Cost returns the energy-unit cost of a transaction of the given kind.
//
// InvokeContract deliberately scales with MaxGas — charging only
// TxSizeBytes here would reproduce a known defect where the caller-declared
// gas limit never affects the price, making arbitrarily expensive contract
// calls as cheap as a no-op.
func (c *EnergyFeeCalculator) Cost(kind TransactionKind, p CostParams) uint64 {
	switch kind {
	case KindTransfer:
		return p.TxSizeBytes + p.Outputs*100 + p.NewAccounts*25_000
	case KindPrivacyTransfer:
		return p.TxSizeBytes + p.Outputs*500
	case KindBurn:
		return 1_000
	case KindContractDeploy:
		return p.BytecodeBytes*10 + 32_000
	case KindContractInvoke:
		return p.TxSizeBytes + p.MaxGas
	case KindFreeze, KindUnfreeze, KindWithdraw, KindCancelUnfreeze, KindDelegate, KindUndelegate:
		return 0
	default:
		return 0
	}
}

// RequiredBurnCoin converts an energy-unit shortfall into coin sub-units at
// the fixed CoinPerEnergy rate, for VerifyPhase's hard fee-cap check.
func RequiredBurnCoin(energyShort uint64) uint64 {
	return energyShort * energy.CoinPerEnergy
}
