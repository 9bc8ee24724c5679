package staking

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// Snapshot is the full serializable state of the ledger - the on-chain-style
// state that survives process restarts via the state file.
type Snapshot struct {
	Admin      common.Address            `json:"admin"`
	FeePercent uint64                    `json:"feePercent"`
	FeeWallet  common.Address            `json:"feeWallet"`
	Minted     uint64                    `json:"minted"`
	Pools      []Pool                    `json:"pools,omitempty"`
	Positions  []PositionRecord          `json:"positions,omitempty"`
	Minters    map[uint64]common.Address `json:"minters,omitempty"`
	Events     []Event                   `json:"events,omitempty"`
}

func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	snap := Snapshot{
		Admin:      l.admin,
		FeePercent: l.feePercent,
		FeeWallet:  l.feeWallet,
		Minted:     l.minted,
		Pools:      make([]Pool, len(l.pools)),
		Minters:    map[uint64]common.Address{},
		Events:     make([]Event, len(l.events)),
	}
	copy(snap.Pools, l.pools)
	copy(snap.Events, l.events)
	for id, minter := range l.minters {
		snap.Minters[id] = minter
	}
	for key, pos := range l.positions {
		snap.Positions = append(snap.Positions, PositionRecord{Pool: key.Pool, Holder: key.Holder, Position: *pos})
	}
	return snap
}

// Restore replaces the ledger state with a previously taken snapshot and
// refreshes the exported gauges from it.
func (l *Ledger) Restore(snap Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.admin = snap.Admin
	l.feePercent = snap.FeePercent
	l.feeWallet = snap.FeeWallet
	l.minted = snap.Minted
	l.pools = make([]Pool, len(snap.Pools))
	copy(l.pools, snap.Pools)
	l.events = make([]Event, len(snap.Events))
	copy(l.events, snap.Events)
	l.minters = map[uint64]common.Address{}
	for id, minter := range snap.Minters {
		l.minters[id] = minter
	}
	l.positions = map[PositionKey]*Position{}
	for _, rec := range snap.Positions {
		pos := rec.Position
		l.positions[PositionKey{Pool: rec.Pool, Holder: rec.Holder}] = &pos
	}
	l.refreshGauges()
}

// RefreshMetrics recomputes the exported gauges from current state - called
// periodically by the daemon so the scrape reflects accrual over time.
func (l *Ledger) RefreshMetrics() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refreshGauges()
}

func (l *Ledger) refreshGauges() {
	promPoolCount.Set(float64(len(l.pools)))
	promPositionCount.Set(float64(len(l.positions)))
	promTokensMinted.Set(float64(l.minted))
	var staked uint64
	for _, pool := range l.pools {
		staked += pool.TotalDeposit
	}
	promTotalStaked.Set(float64(staked))
}

// PoolAccruedRewards sums the accrued-but-unpaid reward across every
// position in a pool and publishes it to the per-pool gauge.
func (l *Ledger) PoolAccruedRewards(poolID uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.poolAt(poolID); err != nil {
		return 0, err
	}
	var accrued uint64
	for key := range l.positions {
		if key.Pool != poolID {
			continue
		}
		value, err := l.payout(poolID, key.Holder)
		if err != nil {
			return 0, err
		}
		accrued += value
	}
	promRewardAccrued.WithLabelValues(strconv.FormatUint(poolID, 10)).Set(float64(accrued))
	return accrued, nil
}
