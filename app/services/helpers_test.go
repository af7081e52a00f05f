package services

import (
	"sync"
	"testing"

	"github.com/Rakhulsr/go-storefront/app/db/testdb"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/utils/calc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events map[string][]calc.OrderTotals
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(map[string][]calc.OrderTotals)}
}

func (n *recordingNotifier) Publish(cartID string, totals calc.OrderTotals) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events[cartID] = append(n.events[cartID], totals)
}

func (n *recordingNotifier) last(cartID string) (calc.OrderTotals, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	ev := n.events[cartID]
	if len(ev) == 0 {
		return calc.OrderTotals{}, false
	}
	return ev[len(ev)-1], true
}

func (n *recordingNotifier) count(cartID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events[cartID])
}

func newTestStore(t *testing.T) (*gorm.DB, *repositories.Store) {
	t.Helper()
	db := testdb.Open(t)
	return db, repositories.NewStore(db, repositories.Options{})
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}
