package services

import (
	"sync"

	"github.com/Rakhulsr/go-storefront/app/utils/calc"
	"go.uber.org/zap"
)

// TotalsNotifier receives freshly computed totals after a cart changes.
type TotalsNotifier interface {
	Publish(cartID string, totals calc.OrderTotals)
}

type NopNotifier struct{}

func (NopNotifier) Publish(string, calc.OrderTotals) {}

const subscriberBuffer = 8

// TotalsHub fans totals out to every live subscriber of a cart.
type TotalsHub struct {
	mu   sync.RWMutex
	subs map[string]map[chan calc.OrderTotals]struct{}
	log  *zap.Logger
}

func NewTotalsHub(log *zap.Logger) *TotalsHub {
	if log == nil {
		log = zap.NewNop()
	}
	return &TotalsHub{
		subs: make(map[string]map[chan calc.OrderTotals]struct{}),
		log:  log,
	}
}

// Subscribe registers a listener for cartID. The returned cancel func closes
// the channel and must be called once the listener goes away.
func (h *TotalsHub) Subscribe(cartID string) (<-chan calc.OrderTotals, func()) {
	ch := make(chan calc.OrderTotals, subscriberBuffer)

	h.mu.Lock()
	set, ok := h.subs[cartID]
	if !ok {
		set = make(map[chan calc.OrderTotals]struct{})
		h.subs[cartID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[cartID], ch)
			if len(h.subs[cartID]) == 0 {
				delete(h.subs, cartID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish never blocks. A subscriber whose buffer is full loses its oldest
// pending update so the latest totals are always delivered.
func (h *TotalsHub) Publish(cartID string, totals calc.OrderTotals) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[cartID] {
		select {
		case ch <- totals:
			continue
		default:
		}

		select {
		case <-ch:
			h.log.Debug("replacing stale totals for slow subscriber", zap.String("cart_id", cartID))
		default:
		}
		select {
		case ch <- totals:
		default:
		}
	}
}

func (h *TotalsHub) Subscribers(cartID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[cartID])
}
