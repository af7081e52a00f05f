package services

import (
	"testing"

	"github.com/Rakhulsr/go-storefront/app/utils/calc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTotalsHub_PublishReachesCartSubscribersOnly(t *testing.T) {
	hub := NewTotalsHub(zap.NewNop())

	mine, cancelMine := hub.Subscribe("c1")
	defer cancelMine()
	other, cancelOther := hub.Subscribe("c2")
	defer cancelOther()

	totals := calc.OrderTotals{ItemsTotal: decimal.NewFromInt(900), DeliveryFee: decimal.NewFromInt(50), GrandTotal: decimal.NewFromInt(950)}
	hub.Publish("c1", totals)

	select {
	case got := <-mine:
		assert.True(t, got.GrandTotal.Equal(decimal.NewFromInt(950)))
	default:
		t.Fatal("subscriber did not receive totals")
	}

	select {
	case <-other:
		t.Fatal("unrelated cart received totals")
	default:
	}
}

func TestTotalsHub_CancelUnsubscribes(t *testing.T) {
	hub := NewTotalsHub(nil)

	ch, cancel := hub.Subscribe("c1")
	require.Equal(t, 1, hub.Subscribers("c1"))

	cancel()
	cancel()

	assert.Zero(t, hub.Subscribers("c1"))
	_, open := <-ch
	assert.False(t, open)

	hub.Publish("c1", calc.OrderTotals{})
}

func TestTotalsHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewTotalsHub(zap.NewNop())
	_, cancel := hub.Subscribe("c1")
	defer cancel()

	for i := 0; i < subscriberBuffer*3; i++ {
		hub.Publish("c1", calc.OrderTotals{})
	}
}

func TestTotalsHub_SlowSubscriberEndsOnLatestTotals(t *testing.T) {
	hub := NewTotalsHub(zap.NewNop())
	ch, cancel := hub.Subscribe("c1")
	defer cancel()

	published := subscriberBuffer * 3
	for i := 1; i <= published; i++ {
		hub.Publish("c1", calc.OrderTotals{GrandTotal: decimal.NewFromInt(int64(i))})
	}

	var last calc.OrderTotals
	received := 0
	for {
		select {
		case got := <-ch:
			last = got
			received++
			continue
		default:
		}
		break
	}

	assert.Equal(t, subscriberBuffer, received)
	assert.True(t, last.GrandTotal.Equal(decimal.NewFromInt(int64(published))), "latest totals lost, got %s", last.GrandTotal)
}
