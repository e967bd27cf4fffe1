package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderType_DefaultResponseType(t *testing.T) {
	tests := []struct {
		orderType OrderType
		want      ResponseType
	}{
		{TypeMarket, ResponseFull},
		{TypeLimit, ResponseFull},
		{TypeStopLoss, ResponseAck},
		{TypeStopLossLimit, ResponseAck},
		{TypeTakeProfit, ResponseAck},
		{TypeTakeProfitLimit, ResponseAck},
		{TypeLimitMaker, ResponseAck},
	}

	for _, tt := range tests {
		t.Run(tt.orderType.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.orderType.DefaultResponseType())
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   OrderStatus
		terminal bool
	}{
		{StatusNew, false},
		{StatusPartiallyFilled, false},
		{StatusPendingCancel, false},
		{StatusFilled, true},
		{StatusCanceled, true},
		{StatusRejected, true},
		{StatusExpired, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestOrderBookLimit(t *testing.T) {
	tests := []struct {
		limit  OrderBookLimit
		valid  bool
		weight int
	}{
		{5, true, 1},
		{100, true, 1},
		{500, true, 5},
		{1000, true, 10},
		{5000, true, 50},
		{7, false, 1},
		{0, false, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.limit.IsValid(), "limit %d", tt.limit)
		assert.Equal(t, tt.weight, tt.limit.Weight(), "limit %d", tt.limit)
	}
}

func TestKlineInterval_IsValid(t *testing.T) {
	assert.True(t, Interval1m.IsValid())
	assert.True(t, Interval1M.IsValid())
	assert.False(t, KlineInterval("2m").IsValid())
	assert.False(t, KlineInterval("").IsValid())
}

func TestEnums_String(t *testing.T) {
	assert.Equal(t, "BUY", SideBuy.String())
	assert.Equal(t, "SELL", SideSell.String())
	assert.Equal(t, "LIMIT_MAKER", TypeLimitMaker.String())
	assert.Equal(t, "PENDING_CANCEL", StatusPendingCancel.String())
	assert.Equal(t, "FOK", FOK.String())
}
