package exchange

import (
	"context"

	"github.com/cockroachdb/apd/v3"

	"nakula/pkg/core"
)

// Spot is the typed surface of the spot REST API. Each method is one
// request/response round trip; every failure is a *core.ExchangeError.
type Spot interface {
	Name() string
	Version() string

	Ping(ctx context.Context) error
	ServerTime(ctx context.Context) (*core.ServerTime, error)
	ExchangeInfo(ctx context.Context, symbols ...string) (*core.ExchangeInfo, error)
	OrderBook(ctx context.Context, symbol string, limit core.OrderBookLimit) (*core.OrderBook, error)
	RecentTrades(ctx context.Context, symbol string, opts ...Option) ([]core.Trade, error)
	HistoricalTrades(ctx context.Context, symbol string, opts ...Option) ([]core.Trade, error)
	AggregateTrades(ctx context.Context, symbol string, opts ...Option) ([]core.AggTrade, error)
	Klines(ctx context.Context, symbol string, interval core.KlineInterval, opts ...Option) ([]core.Kline, error)
	AveragePrice(ctx context.Context, symbol string) (*core.AveragePrice, error)
	Ticker24h(ctx context.Context, symbol string) (*core.Ticker24h, error)
	Tickers24h(ctx context.Context) ([]core.Ticker24h, error)
	TickerPrice(ctx context.Context, symbol string) (*core.PriceTicker, error)
	TickerPrices(ctx context.Context) ([]core.PriceTicker, error)
	BookTicker(ctx context.Context, symbol string) (*core.BookTicker, error)
	BookTickers(ctx context.Context) ([]core.BookTicker, error)

	CreateOrder(ctx context.Context, req *OrderRequest) (*core.NewOrderResponse, error)
	TestOrder(ctx context.Context, req *OrderRequest) error
	GetOrder(ctx context.Context, req *OrderQuery) (*core.Order, error)
	CancelOrder(ctx context.Context, req *CancelRequest) (*core.Order, error)
	CancelOpenOrders(ctx context.Context, symbol string, opts ...Option) ([]core.CanceledOpenOrder, error)
	OpenOrders(ctx context.Context, symbol string, opts ...Option) ([]core.Order, error)
	AllOrders(ctx context.Context, symbol string, opts ...Option) ([]core.Order, error)

	CreateOCO(ctx context.Context, req *OCORequest) (*core.OrderList, error)
	CancelOCO(ctx context.Context, req *CancelOCORequest) (*core.OrderList, error)
	GetOCO(ctx context.Context, req *OrderListQuery) (*core.OrderList, error)
	AllOCO(ctx context.Context, opts ...Option) ([]core.OrderList, error)
	OpenOCO(ctx context.Context, opts ...Option) ([]core.OrderList, error)

	Account(ctx context.Context, opts ...Option) (*core.AccountInfo, error)
	AccountTrades(ctx context.Context, symbol string, opts ...Option) ([]core.AccountTrade, error)
	OrderCountUsage(ctx context.Context, opts ...Option) ([]core.OrderCountUsage, error)

	StartUserDataStream(ctx context.Context) (string, error)
	KeepaliveUserDataStream(ctx context.Context, listenKey string) error
	CloseUserDataStream(ctx context.Context, listenKey string) error
}

// OrderRequest contains the parameters of a new order. Nil decimals and
// empty strings are left out of the request.
type OrderRequest struct {
	Symbol           string
	Side             core.OrderSide
	Type             core.OrderType
	TimeInForce      core.TimeInForce
	Quantity         *apd.Decimal
	QuoteOrderQty    *apd.Decimal
	Price            *apd.Decimal
	StopPrice        *apd.Decimal
	IcebergQty       *apd.Decimal
	NewClientOrderID string
	NewOrderRespType core.ResponseType

	RecvWindow *int64
	Timestamp  *int64
}

// ResponseType returns the requested response type, or the exchange default
// for the order type when none was requested.
func (r *OrderRequest) ResponseType() core.ResponseType {
	if r.NewOrderRespType != "" {
		return r.NewOrderRespType
	}
	return r.Type.DefaultResponseType()
}

// OCORequest places a limit maker leg and a stop leg as one order list.
type OCORequest struct {
	Symbol               string
	Side                 core.OrderSide
	Quantity             *apd.Decimal
	Price                *apd.Decimal
	StopPrice            *apd.Decimal
	StopLimitPrice       *apd.Decimal
	StopLimitTimeInForce core.TimeInForce
	ListClientOrderID    string
	LimitClientOrderID   string
	LimitIcebergQty      *apd.Decimal
	StopClientOrderID    string
	StopIcebergQty       *apd.Decimal
	NewOrderRespType     core.ResponseType

	RecvWindow *int64
	Timestamp  *int64
}

// OrderQuery identifies one order by exchange id or client id, never both.
type OrderQuery struct {
	Symbol            string
	OrderID           *int64
	OrigClientOrderID string

	RecvWindow *int64
	Timestamp  *int64
}

// CancelRequest identifies the order to cancel by exchange id or client id, never both.
type CancelRequest struct {
	Symbol            string
	OrderID           *int64
	OrigClientOrderID string
	NewClientOrderID  string

	RecvWindow *int64
	Timestamp  *int64
}

// OrderListQuery identifies one OCO order list by id or client id, never both.
type OrderListQuery struct {
	OrderListID       *int64
	ListClientOrderID string

	RecvWindow *int64
	Timestamp  *int64
}

// CancelOCORequest identifies the OCO order list to cancel.
type CancelOCORequest struct {
	Symbol            string
	OrderListID       *int64
	ListClientOrderID string
	NewClientOrderID  string

	RecvWindow *int64
	Timestamp  *int64
}

// Int64 returns a pointer to v, for the optional id fields.
func Int64(v int64) *int64 {
	return &v
}
