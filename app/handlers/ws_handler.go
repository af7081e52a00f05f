package handlers

import (
	"net/http"
	"time"

	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// TotalsSocketHandler streams cart totals over a websocket.
type TotalsSocketHandler struct {
	carts    *services.CartService
	hub      *services.TotalsHub
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewTotalsSocketHandler(carts *services.CartService, hub *services.TotalsHub, log *zap.Logger) *TotalsSocketHandler {
	return &TotalsSocketHandler{
		carts: carts,
		hub:   hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

func (h *TotalsSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	id := cartID(r)

	// Subscribe before reading the current totals so no update is lost in between.
	updates, cancel := h.hub.Subscribe(id)
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	totals, err := h.carts.GetOrderTotals(r.Context(), id)
	if err != nil {
		h.log.Warn("failed to load initial totals", zap.String("cart_id", id), zap.Error(err))
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteJSON(totals); err != nil {
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case t, ok := <-updates:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(t); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
