package staking

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/misc"
)

// Pool is one time-bounded reward program.  Pools live in an append-only
// slice addressed by stable integer handles - they are never removed or
// compacted, so external references to pool ids stay valid indefinitely.
type Pool struct {
	Apy            uint64 `json:"apy"` // fixed-point percent x10: 120 = 12%
	LockPeriodDays uint64 `json:"lockPeriodDays"`
	TotalDeposit   uint64 `json:"totalDeposit"`
	StartDate      int64  `json:"startDate"` // unix seconds, set at creation
	EndDate        int64  `json:"endDate"`
	MinContrib     uint64 `json:"minContrib"`
	MaxContrib     uint64 `json:"maxContrib"`
	HardCap        uint64 `json:"hardCap"`
}

// PoolParams are the administrator-settable pool fields.  StartDate and
// TotalDeposit are owned by the ledger and not part of the params.
type PoolParams struct {
	Apy            uint64
	LockPeriodDays uint64
	EndDate        int64
	MinContrib     uint64
	MaxContrib     uint64
	HardCap        uint64
}

// AddPool appends a new pool with a zero deposit total and StartDate of now.
// Returns the id (index) of the new pool.  There is no upper bound on pool
// count.
func (l *Ledger) AddPool(caller common.Address, params PoolParams) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.requireAdmin(caller); err != nil {
		return 0, err
	}
	l.pools = append(l.pools, Pool{
		Apy:            params.Apy,
		LockPeriodDays: params.LockPeriodDays,
		StartDate:      l.now().Unix(),
		EndDate:        params.EndDate,
		MinContrib:     params.MinContrib,
		MaxContrib:     params.MaxContrib,
		HardCap:        params.HardCap,
	})
	id := uint64(len(l.pools) - 1)
	promPoolCount.Set(float64(len(l.pools)))
	misc.Infof(l.logger, "pool added, id:%d apy:%d lockDays:%d hardCap:%d", id, params.Apy, params.LockPeriodDays, params.HardCap)
	return id, nil
}

// SetPool overwrites the mutable fields of an existing pool in place.  The
// pool keeps its id, StartDate and accumulated TotalDeposit.
func (l *Ledger) SetPool(caller common.Address, poolID uint64, params PoolParams) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.requireAdmin(caller); err != nil {
		return err
	}
	pool, err := l.poolAt(poolID)
	if err != nil {
		return err
	}
	pool.Apy = params.Apy
	pool.LockPeriodDays = params.LockPeriodDays
	pool.EndDate = params.EndDate
	pool.MinContrib = params.MinContrib
	pool.MaxContrib = params.MaxContrib
	pool.HardCap = params.HardCap
	misc.Infof(l.logger, "pool updated, id:%d apy:%d lockDays:%d hardCap:%d", poolID, params.Apy, params.LockPeriodDays, params.HardCap)
	return nil
}

func (l *Ledger) PoolLength() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return uint64(len(l.pools))
}

// GetPools returns a copy of every pool, indexed by pool id.
func (l *Ledger) GetPools() []Pool {
	l.mu.Lock()
	defer l.mu.Unlock()
	pools := make([]Pool, len(l.pools))
	copy(pools, l.pools)
	return pools
}

// GetPool returns a copy of a single pool.
func (l *Ledger) GetPool(poolID uint64) (Pool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pool, err := l.poolAt(poolID)
	if err != nil {
		return Pool{}, err
	}
	return *pool, nil
}

// poolAt resolves a pool id to its record; callers hold the ledger mutex.
func (l *Ledger) poolAt(poolID uint64) (*Pool, error) {
	if poolID >= uint64(len(l.pools)) {
		return nil, ErrInvalidPoolID
	}
	return &l.pools[poolID], nil
}
