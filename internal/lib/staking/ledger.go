package staking

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/misc"
	"github.com/0xask3/StakingWithPOS-NFT/internal/lib/token"
)

// Ledger is the multi-pool staking accounting engine.  It owns pool
// parameters, per-(pool,holder) positions and the ownership registry, and
// drives the two external token collaborators.  Every entry point is a
// serialized, all-or-nothing state transition: the mutex is held across the
// whole operation, and validations complete before the asset is touched so a
// failed call never leaves partial state behind.
type Ledger struct {
	logger *slog.Logger
	asset  token.AssetToken
	nft    token.OwnershipToken

	// custody account the ledger controls on the asset contract
	addr common.Address

	mu         sync.Mutex
	admin      common.Address
	feePercent uint64 // basis points out of 1000
	feeWallet  common.Address
	pools      []Pool
	positions  map[PositionKey]*Position
	minters    map[uint64]common.Address // position id -> minting address
	minted     uint64                    // global position id counter; ids start at 1
	events     []Event

	now func() time.Time
}

// PositionKey addresses one holder's position within one pool.  Positions are
// keyed by the minting address - transferring the position token does not
// re-key the position.
type PositionKey struct {
	Pool   uint64
	Holder common.Address
}

// Position is the accounting record of one holder's stake within one pool.
// Created implicitly on first stake, never deleted - a fully unstaked
// position stays on the books with a zero balance.
type Position struct {
	TotalInvested  uint64 `json:"totalInvested"`
	TotalWithdrawn uint64 `json:"totalWithdrawn"`
	LastPayout     int64  `json:"lastPayout"`
	DepositTime    int64  `json:"depositTime"`
	PositionID     uint64 `json:"positionId"` // 0 = unassigned
	TotalClaimed   uint64 `json:"totalClaimed"`
}

// Option configures a Ledger at construction.
type Option func(*Ledger)

// WithTimeSource overrides the wall clock - used by tests to make reward
// accrual deterministic.
func WithTimeSource(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

func New(logger *slog.Logger, asset token.AssetToken, nft token.OwnershipToken,
	custody, admin common.Address, opts ...Option) *Ledger {

	l := &Ledger{
		logger:    logger,
		asset:     asset,
		nft:       nft,
		addr:      custody,
		admin:     admin,
		positions: map[PositionKey]*Position{},
		minters:   map[uint64]common.Address{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	misc.Infof(logger, "ledger initialized, custody:%s admin:%s", custody, admin)
	return l
}

func (l *Ledger) requireAdmin(caller common.Address) error {
	if caller != l.admin {
		return ErrNotAdmin
	}
	return nil
}

// UpdateFeeValues sets the claim fee rate (basis points out of 1000) and the
// wallet receiving it.  No bounds check beyond the range of the field.
func (l *Ledger) UpdateFeeValues(caller common.Address, feePercent uint64, feeWallet common.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.requireAdmin(caller); err != nil {
		return err
	}
	l.feePercent = feePercent
	l.feeWallet = feeWallet
	misc.Infof(l.logger, "fee values updated, feePercent:%d feeWallet:%s", feePercent, feeWallet)
	return nil
}

// ReceiveNative rejects any deposit of the chain's native currency; the
// ledger only ever holds the staking asset.
func (l *Ledger) ReceiveNative(from common.Address, amount uint64) error {
	return ErrNativeNotAccepted
}

func (l *Ledger) Admin() common.Address {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.admin
}

func (l *Ledger) FeeValues() (uint64, common.Address) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.feePercent, l.feeWallet
}

// CustodyAddress is the account on the asset contract holding staked funds.
func (l *Ledger) CustodyAddress() common.Address {
	return l.addr
}

// GetPosition returns a copy of the position for (poolID, holder), reporting
// whether one exists yet.
func (l *Ledger) GetPosition(poolID uint64, holder common.Address) (Position, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pos, ok := l.positions[PositionKey{Pool: poolID, Holder: holder}]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// MinterOf resolves a position id to the address whose stake minted it.
func (l *Ledger) MinterOf(positionID uint64) (common.Address, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	minter, ok := l.minters[positionID]
	return minter, ok
}

// TokensMinted is the count of position tokens minted across all pools.
func (l *Ledger) TokensMinted() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.minted
}

// PositionRecord pairs a position with its key for listings and snapshots.
type PositionRecord struct {
	Pool   uint64         `json:"pool"`
	Holder common.Address `json:"holder"`
	Position
}

// PoolPositions lists every position in a pool, ordered by position id.
func (l *Ledger) PoolPositions(poolID uint64) []PositionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	var recs []PositionRecord
	for key, pos := range l.positions {
		if key.Pool != poolID {
			continue
		}
		recs = append(recs, PositionRecord{Pool: key.Pool, Holder: key.Holder, Position: *pos})
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].PositionID < recs[j].PositionID })
	return recs
}
