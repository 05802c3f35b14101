package node

import (
	"fmt"
	"math/big"

	"github.com/syndtr/goleveldb/leveldb"

	"quantum-energy-chain/chain/energy"
	"quantum-energy-chain/chain/energy/fee"
	"quantum-energy-chain/chain/storage"
	"quantum-energy-chain/chain/txexec"
	"quantum-energy-chain/chain/types"
)

// stateDBLedger adapts the node's *big.Int, 18-decimal StateDB balances to
// txexec.Ledger's narrow uint64 sub-unit view. Values above MaxUint64 are
// truncated rather than rejected, the same convention cmd/validator-cli's
// cliLedger already applies against the same "balance-"+addr key; both
// read and write through *StateDB so the node's in-memory/LevelDB balance
// stays the single source of truth.
type stateDBLedger struct {
	stateDB *StateDB
}

func (l *stateDBLedger) Balance(addr types.Address) uint64 {
	return l.stateDB.GetBalance(addr).Uint64()
}

func (l *stateDBLedger) SetBalance(addr types.Address, balance uint64) {
	l.stateDB.SetBalance(addr, new(big.Int).SetUint64(balance))
}

// EnergyEngine is block production's entry point into the staked-energy
// pipeline (SPEC_FULL.md §4.7/§4.8): it admits a pending transaction with
// Verify at proposal time and, once the block is assembled, charges it with
// Apply against the same reservation. It shares the blockchain's own
// LevelDB handle and StateDB rather than opening a second store.
type EnergyEngine struct {
	provider    storage.Provider
	ledger      *stateDBLedger
	calculator  *fee.EnergyFeeCalculator
	resource    *fee.EnergyResourceManager
	delegations *energy.DelegationTable
	votePower   governanceVotePower
	locks       *txexec.SenderLockTable
}

// governanceVotePower is a narrow alias kept local to avoid an import cycle
// with chain/governance for packages that never need the full type; it is
// satisfied by *governance.VotePowerIndex, wired in from NewNode.
type governanceVotePower interface {
	MoveOnTransfer(from, to types.Address, amount uint64, block uint64) error
	SeedIfZero(addr types.Address, block uint64, currentBalance uint64) error
}

// NewEnergyEngine wraps db (the blockchain's own already-open LevelDB
// handle) in a storage.Provider and binds it to stateDB's balances.
func NewEnergyEngine(db *leveldb.DB, stateDB *StateDB) (*EnergyEngine, error) {
	provider := storage.NewLevelDBProvider(db)
	return &EnergyEngine{
		provider:    provider,
		ledger:      &stateDBLedger{stateDB: stateDB},
		calculator:  fee.NewEnergyFeeCalculator(),
		resource:    fee.NewEnergyResourceManager(),
		delegations: energy.NewDelegationTable(),
		locks:       txexec.NewSenderLockTable(),
	}, nil
}

// SetVotePower attaches the governance vote-power index this engine's
// transfers should mirror into, once NewNode has constructed one. nil
// (the zero value) leaves transfers ungoverned, matching ApplyContext's own
// "nil is a valid asset" contract.
func (e *EnergyEngine) SetVotePower(vp governanceVotePower) {
	e.votePower = vp
}

// PayloadForTransaction classifies a pending QuantumTransaction into the
// closed Payload shape the energy pipeline understands. A nil recipient is
// a contract deployment; a recipient with call data is a contract
// invocation; anything else is a plain transfer. FeeLimit is derived from
// the transaction's own gas*gasPrice declaration, the closest analogue the
// teacher's transaction format has to an explicit fee_limit field.
func PayloadForTransaction(tx *types.QuantumTransaction) *txexec.Payload {
	feeLimit := new(big.Int).Mul(tx.GetGasPrice(), big.NewInt(int64(tx.GetGas()))).Uint64()

	p := &txexec.Payload{
		Sender:      tx.From(),
		FeeLimit:    feeLimit,
		TxSizeBytes: tx.Size(),
		Outputs:     1,
		MaxGas:      tx.GetGas(),
	}

	switch {
	case tx.GetTo() == nil:
		p.Kind = txexec.PayloadDeployContract
		p.BytecodeBytes = uint64(len(tx.GetData()))
	case len(tx.GetData()) > 0:
		p.Kind = txexec.PayloadInvokeContract
		p.To = *tx.GetTo()
	default:
		p.Kind = txexec.PayloadTransfer
		p.To = *tx.GetTo()
		p.TransferAmount = tx.GetValue().Uint64()
	}
	return p
}

// Verify runs VerifyPhase for tx, serialized per-sender so two pending
// transactions from the same account never reserve against a stale
// balance. The fee_limit reservation it returns must eventually reach
// exactly one of Apply or Release.
func (e *EnergyEngine) Verify(tx *types.QuantumTransaction, global *energy.GlobalEnergyState, nowMs uint64) (*txexec.Reservation, error) {
	payload := PayloadForTransaction(tx)

	unlock := e.locks.Lock(payload.Sender)
	defer unlock()

	ctx := &txexec.VerifyContext{
		Provider:    e.provider,
		Ledger:      e.ledger,
		Global:      global,
		Delegations: e.delegations,
		Calculator:  e.calculator,
		NowMs:       nowMs,
	}
	return txexec.VerifyPhase(ctx, payload)
}

// Apply runs ApplyPhase for a reservation a prior Verify produced, staging
// every mutation in a fresh batch against the same LevelDB handle the
// blockchain already holds open and committing it atomically.
func (e *EnergyEngine) Apply(reservation *txexec.Reservation, nowMs, blockHeight uint64) (*energy.TransactionResult, error) {
	global, err := storage.LoadGlobalEnergyState(e.provider)
	if err != nil {
		return nil, fmt.Errorf("energy: load global state: %w", err)
	}

	ctx := &txexec.ApplyContext{
		Batch:       e.provider.NewBatch(),
		Provider:    e.provider,
		Ledger:      e.ledger,
		Global:      global,
		Delegations: e.delegations,
		Calculator:  e.calculator,
		Resource:    e.resource,
		BlockHeight: blockHeight,
		NowMs:       nowMs,
	}
	if e.votePower != nil {
		ctx.VotePower = e.votePower
	}
	return txexec.ApplyPhase(ctx, reservation)
}

// Release returns a reservation's fee_limit to the sender without applying
// it, for a transaction that was verified for a candidate block but ended
// up excluded (e.g. the proposer lost its slot before broadcasting).
func (e *EnergyEngine) Release(reservation *txexec.Reservation) {
	e.ledger.SetBalance(reservation.Sender, e.ledger.Balance(reservation.Sender)+reservation.FeeLimit)
}

// LoadGlobalEnergyState exposes the engine's global weight snapshot so
// node.go's block-production loop can pass a single consistent read to
// every Verify call in a round.
func (e *EnergyEngine) LoadGlobalEnergyState() (*energy.GlobalEnergyState, error) {
	return storage.LoadGlobalEnergyState(e.provider)
}
