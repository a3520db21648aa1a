package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/simrat12/Prediction-Engine/internal/adapter"
)

const (
	pingInterval = 50 * time.Second
	readTimeout  = 90 * time.Second
	streamBuffer = 256
)

// wsSubscribeMsg is the CLOB market channel subscription request.
type wsSubscribeMsg struct {
	AssetIDs []string `json:"assets_ids"`
	Type     string   `json:"type"`
}

// wsPriceChangeEvent mirrors one entry of the CLOB market channel's
// price_change event.
type wsPriceChangeEvent struct {
	EventType string `json:"event_type"`
	AssetID   string `json:"asset_id"`
	Timestamp string `json:"timestamp"` // venue epoch-millisecond string, optional
	Changes   []struct {
		Side  string `json:"side"`
		Price string `json:"price"`
	} `json:"changes"`
}

// Subscribe dials the CLOB market-channel websocket, sends a single
// subscription covering every token id, and returns a channel of
// translated price-change batches. The channel is closed, and the
// connection torn down, when the read loop errors or ctx is cancelled
// — reconnection is the caller's (adapter.Adapter's) responsibility.
func (d *Driver) Subscribe(ctx context.Context, tokenIDs []string) (<-chan []adapter.PriceChangeMsg, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, d.wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("polymarket: dial ws: %w", err)
	}

	sub := wsSubscribeMsg{AssetIDs: tokenIDs, Type: "market"}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return nil, fmt.Errorf("polymarket: subscribe: %w", err)
	}

	out := make(chan []adapter.PriceChangeMsg, streamBuffer)

	pingCtx, cancelPing := context.WithCancel(ctx)
	go d.pingLoop(pingCtx, conn)

	go func() {
		defer close(out)
		defer cancelPing()
		defer conn.Close()

		for {
			if ctx.Err() != nil {
				return
			}

			conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				d.logger.Warn("websocket read error", "error", err)
				return
			}

			batch, ok := d.parseMessage(msg)
			if !ok {
				continue
			}

			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (d *Driver) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// parseMessage decodes an in-band WS message. A malformed message is
// logged and dropped (data-skipping per spec §7), never treated as a
// stream error — only stream end triggers reconnect.
func (d *Driver) parseMessage(raw []byte) ([]adapter.PriceChangeMsg, bool) {
	var events []wsPriceChangeEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		// Not a price_change batch (could be a book snapshot or an ack);
		// ignore rather than error the stream.
		d.logger.Debug("dropping unparseable websocket message", "error", err)
		return nil, false
	}

	var out []adapter.PriceChangeMsg
	for _, ev := range events {
		if ev.EventType != "price_change" {
			continue
		}
		exchangeTime := parseExchangeTimestamp(ev.Timestamp)
		for _, change := range ev.Changes {
			var price float64
			if _, err := fmt.Sscanf(change.Price, "%f", &price); err != nil {
				continue
			}
			out = append(out, adapter.PriceChangeMsg{
				AssetID:      ev.AssetID,
				Side:         change.Side,
				Price:        price,
				ExchangeTime: exchangeTime,
			})
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// parseExchangeTimestamp parses the market channel's epoch-millisecond
// timestamp string. A missing or malformed value yields the zero Time,
// which the adapter treats as "no latency data" rather than an error.
func parseExchangeTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
