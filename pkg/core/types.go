package core

import "slices"

// OrderSide represents the direction of an order.
type OrderSide string

// Order side constants define the direction of a trade.
const (
	// SideBuy indicates an order to purchase an asset.
	SideBuy OrderSide = "BUY"
	// SideSell indicates an order to sell an asset.
	SideSell OrderSide = "SELL"
)

// String returns the wire representation of the order side.
func (s OrderSide) String() string {
	return string(s)
}

// OrderType represents the type of order to place.
type OrderType string

// Order type constants define how an order is executed.
const (
	// TypeLimit executes at a specified price or better.
	TypeLimit OrderType = "LIMIT"
	// TypeMarket executes immediately at the best available price.
	TypeMarket OrderType = "MARKET"
	// TypeStopLoss triggers a market order when price reaches stop price.
	TypeStopLoss OrderType = "STOP_LOSS"
	// TypeStopLossLimit triggers a limit order when price reaches stop price.
	TypeStopLossLimit OrderType = "STOP_LOSS_LIMIT"
	// TypeTakeProfit triggers a market order when price reaches target.
	TypeTakeProfit OrderType = "TAKE_PROFIT"
	// TypeTakeProfitLimit triggers a limit order when price reaches target.
	TypeTakeProfitLimit OrderType = "TAKE_PROFIT_LIMIT"
	// TypeLimitMaker is a limit order rejected if it would immediately match as a taker.
	TypeLimitMaker OrderType = "LIMIT_MAKER"
)

// String returns the wire representation of the order type.
func (t OrderType) String() string {
	return string(t)
}

// DefaultResponseType is the response type the exchange uses when
// newOrderRespType is omitted: FULL for MARKET and LIMIT, ACK otherwise.
func (t OrderType) DefaultResponseType() ResponseType {
	if t == TypeMarket || t == TypeLimit {
		return ResponseFull
	}
	return ResponseAck
}

// OrderStatus represents the current state of an order.
type OrderStatus string

// Order status constants define the lifecycle state of an order.
const (
	StatusNew             OrderStatus = "NEW"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusCanceled        OrderStatus = "CANCELED"
	StatusPendingCancel   OrderStatus = "PENDING_CANCEL"
	StatusRejected        OrderStatus = "REJECTED"
	StatusExpired         OrderStatus = "EXPIRED"
)

// String returns the wire representation of the order status.
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the order is in a terminal state (no further changes possible).
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case StatusFilled, StatusCanceled, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// TimeInForce specifies how long an order remains active.
type TimeInForce string

const (
	// GTC (Good Till Canceled) remains active until filled or canceled.
	GTC TimeInForce = "GTC"
	// IOC (Immediate Or Cancel) fills what it can immediately and cancels the rest.
	IOC TimeInForce = "IOC"
	// FOK (Fill Or Kill) fills completely or not at all.
	FOK TimeInForce = "FOK"
)

// String returns the wire representation of the time in force.
func (t TimeInForce) String() string {
	return string(t)
}

// ResponseType selects how much detail an order placement returns.
type ResponseType string

const (
	ResponseAck    ResponseType = "ACK"
	ResponseResult ResponseType = "RESULT"
	ResponseFull   ResponseType = "FULL"
)

// KlineInterval is a candlestick period.
type KlineInterval string

const (
	Interval1m  KlineInterval = "1m"
	Interval3m  KlineInterval = "3m"
	Interval5m  KlineInterval = "5m"
	Interval15m KlineInterval = "15m"
	Interval30m KlineInterval = "30m"
	Interval1h  KlineInterval = "1h"
	Interval2h  KlineInterval = "2h"
	Interval4h  KlineInterval = "4h"
	Interval6h  KlineInterval = "6h"
	Interval8h  KlineInterval = "8h"
	Interval12h KlineInterval = "12h"
	Interval1d  KlineInterval = "1d"
	Interval3d  KlineInterval = "3d"
	Interval1w  KlineInterval = "1w"
	Interval1M  KlineInterval = "1M"
)

var klineIntervals = []KlineInterval{
	Interval1m, Interval3m, Interval5m, Interval15m, Interval30m,
	Interval1h, Interval2h, Interval4h, Interval6h, Interval8h, Interval12h,
	Interval1d, Interval3d, Interval1w, Interval1M,
}

// IsValid reports whether the interval is one the exchange accepts.
func (i KlineInterval) IsValid() bool {
	return slices.Contains(klineIntervals, i)
}

// OrderBookLimit is the depth requested from the order book endpoint.
type OrderBookLimit int

// DefaultOrderBookLimit is used when no depth is requested.
const DefaultOrderBookLimit OrderBookLimit = 100

var orderBookLimits = []OrderBookLimit{5, 10, 20, 50, 100, 500, 1000, 5000}

// IsValid reports whether the depth is one the exchange accepts.
func (l OrderBookLimit) IsValid() bool {
	return slices.Contains(orderBookLimits, l)
}

// Weight returns the request weight of a depth query.
func (l OrderBookLimit) Weight() int {
	switch {
	case l <= 100:
		return 1
	case l <= 500:
		return 5
	case l <= 1000:
		return 10
	default:
		return 50
	}
}

// SymbolStatus is the trading state of a symbol.
type SymbolStatus string

const (
	SymbolPreTrading   SymbolStatus = "PRE_TRADING"
	SymbolTrading      SymbolStatus = "TRADING"
	SymbolPostTrading  SymbolStatus = "POST_TRADING"
	SymbolEndOfDay     SymbolStatus = "END_OF_DAY"
	SymbolHalt         SymbolStatus = "HALT"
	SymbolAuctionMatch SymbolStatus = "AUCTION_MATCH"
	SymbolBreak        SymbolStatus = "BREAK"
)

// Permission is an account or symbol permission.
type Permission string

const (
	PermissionSpot   Permission = "SPOT"
	PermissionMargin Permission = "MARGIN"
)

// RateLimitType identifies what a published rate limit counts.
type RateLimitType string

const (
	RateLimitRequestWeight RateLimitType = "REQUEST_WEIGHT"
	RateLimitOrders        RateLimitType = "ORDERS"
	RateLimitRawRequests   RateLimitType = "RAW_REQUESTS"
)

// RateLimitInterval is the window unit of a published rate limit.
type RateLimitInterval string

const (
	RateLimitSecond RateLimitInterval = "SECOND"
	RateLimitMinute RateLimitInterval = "MINUTE"
	RateLimitDay    RateLimitInterval = "DAY"
)

// ContingencyType is the kind of order list.
type ContingencyType string

const ContingencyOCO ContingencyType = "OCO"

// ListStatusType is the status of an order list as a whole.
type ListStatusType string

const (
	ListStatusResponse    ListStatusType = "RESPONSE"
	ListStatusExecStarted ListStatusType = "EXEC_STARTED"
	ListStatusAllDone     ListStatusType = "ALL_DONE"
)

// ListOrderStatus is the status of the orders inside an order list.
type ListOrderStatus string

const (
	ListOrderExecuting ListOrderStatus = "EXECUTING"
	ListOrderAllDone   ListOrderStatus = "ALL_DONE"
	ListOrderReject    ListOrderStatus = "REJECT"
)
