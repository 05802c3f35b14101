package energy

// GlobalEnergyState is the process-wide, single-row counter set: the
// network's energy budget, the sum of effective frozen balances across all
// accounts (the allocation denominator), and the last mutation time.
type GlobalEnergyState struct {
	TotalEnergyLimit  uint64
	TotalEnergyWeight uint64
	LastUpdate        uint64
}

// NewGlobalEnergyState returns the default state: TotalEnergyLimit seeded
// from the policy constant, not zero.
func NewGlobalEnergyState() *GlobalEnergyState {
	return &GlobalEnergyState{TotalEnergyLimit: TotalEnergyLimit}
}

// AddWeight saturates at MaxUint64.
func (g *GlobalEnergyState) AddWeight(delta, nowMs uint64) {
	g.TotalEnergyWeight = saturatingAdd(g.TotalEnergyWeight, delta)
	g.LastUpdate = nowMs
}

// RemoveWeight saturates at 0.
func (g *GlobalEnergyState) RemoveWeight(delta, nowMs uint64) {
	g.TotalEnergyWeight = saturatingSub(g.TotalEnergyWeight, delta)
	g.LastUpdate = nowMs
}
