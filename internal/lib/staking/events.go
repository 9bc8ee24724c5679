package staking

import (
	"github.com/ethereum/go-ethereum/common"
)

type EventKind string

const (
	EventStake EventKind = "stake"
	EventClaim EventKind = "claim"
)

// Event is one entry in the ledger's append-only event log.  Stake carries
// the deposited amount; Claim carries the pre-fee reward amount and fires
// even when zero accrued.
type Event struct {
	Kind   EventKind      `json:"kind"`
	Holder common.Address `json:"holder"`
	Amount uint64         `json:"amount"`
	Pool   uint64         `json:"pool"`
	Time   int64          `json:"time"`
}

// emit appends to the event log; callers hold the ledger mutex.
func (l *Ledger) emit(kind EventKind, holder common.Address, amount, poolID uint64) {
	l.events = append(l.events, Event{
		Kind:   kind,
		Holder: holder,
		Amount: amount,
		Pool:   poolID,
		Time:   l.now().Unix(),
	})
}

// Events returns a copy of the event log in emission order.
func (l *Ledger) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	events := make([]Event, len(l.events))
	copy(events, l.events)
	return events
}
