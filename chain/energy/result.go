package energy

// TransactionResult is the four-way breakdown of how a transaction's
// energy requirement was satisfied. Whenever a transaction succeeds:
//
//	FreeEnergyUsed + FrozenEnergyUsed + Fee/CoinPerEnergy == EnergyUsed
type TransactionResult struct {
	Fee              uint64
	EnergyUsed       uint64
	FreeEnergyUsed   uint64
	FrozenEnergyUsed uint64
}
