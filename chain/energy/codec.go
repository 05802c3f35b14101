package energy

import (
	"encoding/binary"
	"fmt"
)

// AccountEnergy record layout (little-endian):
//
//	0..8    frozen_balance
//	8..16   delegated_frozen_balance
//	16..24  acquired_delegated_balance
//	24..32  energy_usage
//	32..40  latest_consume_time
//	40..48  free_energy_usage
//	48..56  latest_free_consume_time
//	56..57  unfreezing_list length N (u8, 0..=32)
//	57..    N * 16 bytes: (amount:u64 LE | expire_time:u64 LE)
const (
	accountEnergyMinSize   = 57
	unfreezeEntrySize      = 16
	accountEnergyMaxSize   = accountEnergyMinSize + MaxUnfreezingListSize*unfreezeEntrySize
	globalEnergyStateSize  = 24
)

// EncodeAccountEnergy serializes a to its fixed on-disk layout.
func EncodeAccountEnergy(a *AccountEnergy) ([]byte, error) {
	n := len(a.UnfreezingList)
	if n > MaxUnfreezingListSize {
		return nil, fmt.Errorf("energy: unfreezing list length %d exceeds max %d", n, MaxUnfreezingListSize)
	}

	buf := make([]byte, accountEnergyMinSize+n*unfreezeEntrySize)
	binary.LittleEndian.PutUint64(buf[0:8], a.FrozenBalance)
	binary.LittleEndian.PutUint64(buf[8:16], a.DelegatedFrozenBalance)
	binary.LittleEndian.PutUint64(buf[16:24], a.AcquiredDelegatedBalance)
	binary.LittleEndian.PutUint64(buf[24:32], a.EnergyUsage)
	binary.LittleEndian.PutUint64(buf[32:40], a.LatestConsumeTime)
	binary.LittleEndian.PutUint64(buf[40:48], a.FreeEnergyUsage)
	binary.LittleEndian.PutUint64(buf[48:56], a.LatestFreeConsumeTime)
	buf[56] = byte(n)

	off := accountEnergyMinSize
	for _, e := range a.UnfreezingList {
		binary.LittleEndian.PutUint64(buf[off:off+8], e.Amount)
		binary.LittleEndian.PutUint64(buf[off+8:off+16], e.ExpireTime)
		off += unfreezeEntrySize
	}
	return buf, nil
}

// DecodeAccountEnergy parses the fixed on-disk layout. It returns an error
// on truncated or oversized input rather than silently defaulting, per the
// Fatal error taxonomy: a deserialization failure on a known-good key must
// surface, not be swallowed.
func DecodeAccountEnergy(buf []byte) (*AccountEnergy, error) {
	if len(buf) < accountEnergyMinSize {
		return nil, fmt.Errorf("energy: account record too short: %d bytes", len(buf))
	}
	if len(buf) > accountEnergyMaxSize {
		return nil, fmt.Errorf("energy: account record too long: %d bytes", len(buf))
	}

	a := &AccountEnergy{
		FrozenBalance:            binary.LittleEndian.Uint64(buf[0:8]),
		DelegatedFrozenBalance:   binary.LittleEndian.Uint64(buf[8:16]),
		AcquiredDelegatedBalance: binary.LittleEndian.Uint64(buf[16:24]),
		EnergyUsage:              binary.LittleEndian.Uint64(buf[24:32]),
		LatestConsumeTime:        binary.LittleEndian.Uint64(buf[32:40]),
		FreeEnergyUsage:          binary.LittleEndian.Uint64(buf[40:48]),
		LatestFreeConsumeTime:    binary.LittleEndian.Uint64(buf[48:56]),
	}

	n := int(buf[56])
	if n > MaxUnfreezingListSize {
		return nil, fmt.Errorf("energy: unfreezing list length %d exceeds max %d", n, MaxUnfreezingListSize)
	}
	want := accountEnergyMinSize + n*unfreezeEntrySize
	if len(buf) != want {
		return nil, fmt.Errorf("energy: account record length %d does not match declared list length %d (want %d)", len(buf), n, want)
	}

	a.UnfreezingList = make([]UnfreezeEntry, n)
	off := accountEnergyMinSize
	for i := 0; i < n; i++ {
		a.UnfreezingList[i] = UnfreezeEntry{
			Amount:     binary.LittleEndian.Uint64(buf[off : off+8]),
			ExpireTime: binary.LittleEndian.Uint64(buf[off+8 : off+16]),
		}
		off += unfreezeEntrySize
	}
	return a, nil
}

// EncodeGlobalEnergyState serializes g to its fixed 24-byte layout.
func EncodeGlobalEnergyState(g *GlobalEnergyState) []byte {
	buf := make([]byte, globalEnergyStateSize)
	binary.LittleEndian.PutUint64(buf[0:8], g.TotalEnergyLimit)
	binary.LittleEndian.PutUint64(buf[8:16], g.TotalEnergyWeight)
	binary.LittleEndian.PutUint64(buf[16:24], g.LastUpdate)
	return buf
}

// DecodeGlobalEnergyState parses the fixed 24-byte layout.
func DecodeGlobalEnergyState(buf []byte) (*GlobalEnergyState, error) {
	if len(buf) != globalEnergyStateSize {
		return nil, fmt.Errorf("energy: global state record must be %d bytes, got %d", globalEnergyStateSize, len(buf))
	}
	return &GlobalEnergyState{
		TotalEnergyLimit:  binary.LittleEndian.Uint64(buf[0:8]),
		TotalEnergyWeight: binary.LittleEndian.Uint64(buf[8:16]),
		LastUpdate:        binary.LittleEndian.Uint64(buf[16:24]),
	}, nil
}
