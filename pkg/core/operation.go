package core

import "net/http"

// Operation represents a single REST endpoint of the spot API.
type Operation int

// Operation constants define all supported endpoints.
const (
	// OpPing tests connectivity.
	OpPing Operation = iota
	// OpServerTime retrieves the server clock.
	OpServerTime
	// OpExchangeInfo retrieves trading rules and symbol information.
	OpExchangeInfo
	// OpOrderBook retrieves order book depth.
	OpOrderBook
	// OpRecentTrades retrieves recent trades.
	OpRecentTrades
	// OpHistoricalTrades retrieves older trades by id.
	OpHistoricalTrades
	// OpAggTrades retrieves compressed, aggregate trades.
	OpAggTrades
	// OpKlines retrieves candlestick data.
	OpKlines
	// OpAvgPrice retrieves the current average price.
	OpAvgPrice
	// OpTicker24h retrieves 24 hour rolling window statistics.
	OpTicker24h
	// OpTickerPrice retrieves the latest price.
	OpTickerPrice
	// OpBookTicker retrieves the best bid and ask.
	OpBookTicker
	// OpNewOrder places an order.
	OpNewOrder
	// OpTestOrder validates an order without sending it to the matching engine.
	OpTestOrder
	// OpQueryOrder retrieves one order.
	OpQueryOrder
	// OpCancelOrder cancels one order.
	OpCancelOrder
	// OpCancelOpenOrders cancels every open order on a symbol, OCO lists included.
	OpCancelOpenOrders
	// OpOpenOrders retrieves open orders.
	OpOpenOrders
	// OpAllOrders retrieves all orders, active, canceled or filled.
	OpAllOrders
	// OpNewOCO places an OCO order list.
	OpNewOCO
	// OpCancelOCO cancels an OCO order list.
	OpCancelOCO
	// OpQueryOCO retrieves one OCO order list.
	OpQueryOCO
	// OpAllOCO retrieves all OCO order lists.
	OpAllOCO
	// OpOpenOCO retrieves open OCO order lists.
	OpOpenOCO
	// OpAccount retrieves account information and balances.
	OpAccount
	// OpMyTrades retrieves the account's trades for a symbol.
	OpMyTrades
	// OpOrderCount retrieves the current order count usage.
	OpOrderCount
	// OpStartUserStream creates a listen key.
	OpStartUserStream
	// OpKeepaliveUserStream extends a listen key's validity.
	OpKeepaliveUserStream
	// OpCloseUserStream closes a listen key.
	OpCloseUserStream
)

// Endpoint describes how an operation is sent.
type Endpoint struct {
	Method   string
	Path     string
	Weight   int
	Security Security
	// CountsOrder marks endpoints that count against the order placement limits.
	CountsOrder bool
}

var endpoints = [...]struct {
	name string
	ep   Endpoint
}{
	OpPing:                {"PING", Endpoint{http.MethodGet, "/api/v3/ping", 1, SecurityNone, false}},
	OpServerTime:          {"SERVER_TIME", Endpoint{http.MethodGet, "/api/v3/time", 1, SecurityNone, false}},
	OpExchangeInfo:        {"EXCHANGE_INFO", Endpoint{http.MethodGet, "/api/v3/exchangeInfo", 10, SecurityNone, false}},
	OpOrderBook:           {"ORDER_BOOK", Endpoint{http.MethodGet, "/api/v3/depth", 1, SecurityNone, false}},
	OpRecentTrades:        {"RECENT_TRADES", Endpoint{http.MethodGet, "/api/v3/trades", 1, SecurityNone, false}},
	OpHistoricalTrades:    {"HISTORICAL_TRADES", Endpoint{http.MethodGet, "/api/v3/historicalTrades", 5, SecurityAPIKey, false}},
	OpAggTrades:           {"AGG_TRADES", Endpoint{http.MethodGet, "/api/v3/aggTrades", 1, SecurityNone, false}},
	OpKlines:              {"KLINES", Endpoint{http.MethodGet, "/api/v3/klines", 1, SecurityNone, false}},
	OpAvgPrice:            {"AVG_PRICE", Endpoint{http.MethodGet, "/api/v3/avgPrice", 1, SecurityNone, false}},
	OpTicker24h:           {"TICKER_24H", Endpoint{http.MethodGet, "/api/v3/ticker/24hr", 1, SecurityNone, false}},
	OpTickerPrice:         {"TICKER_PRICE", Endpoint{http.MethodGet, "/api/v3/ticker/price", 1, SecurityNone, false}},
	OpBookTicker:          {"BOOK_TICKER", Endpoint{http.MethodGet, "/api/v3/ticker/bookTicker", 1, SecurityNone, false}},
	OpNewOrder:            {"NEW_ORDER", Endpoint{http.MethodPost, "/api/v3/order", 1, SecuritySigned, true}},
	OpTestOrder:           {"TEST_ORDER", Endpoint{http.MethodPost, "/api/v3/order/test", 1, SecuritySigned, false}},
	OpQueryOrder:          {"QUERY_ORDER", Endpoint{http.MethodGet, "/api/v3/order", 2, SecuritySigned, false}},
	OpCancelOrder:         {"CANCEL_ORDER", Endpoint{http.MethodDelete, "/api/v3/order", 1, SecuritySigned, false}},
	OpCancelOpenOrders:    {"CANCEL_OPEN_ORDERS", Endpoint{http.MethodDelete, "/api/v3/openOrders", 1, SecuritySigned, false}},
	OpOpenOrders:          {"OPEN_ORDERS", Endpoint{http.MethodGet, "/api/v3/openOrders", 3, SecuritySigned, false}},
	OpAllOrders:           {"ALL_ORDERS", Endpoint{http.MethodGet, "/api/v3/allOrders", 10, SecuritySigned, false}},
	OpNewOCO:              {"NEW_OCO", Endpoint{http.MethodPost, "/api/v3/order/oco", 1, SecuritySigned, true}},
	OpCancelOCO:           {"CANCEL_OCO", Endpoint{http.MethodDelete, "/api/v3/orderList", 1, SecuritySigned, false}},
	OpQueryOCO:            {"QUERY_OCO", Endpoint{http.MethodGet, "/api/v3/orderList", 2, SecuritySigned, false}},
	OpAllOCO:              {"ALL_OCO", Endpoint{http.MethodGet, "/api/v3/allOrderList", 10, SecuritySigned, false}},
	OpOpenOCO:             {"OPEN_OCO", Endpoint{http.MethodGet, "/api/v3/openOrderList", 3, SecuritySigned, false}},
	OpAccount:             {"ACCOUNT", Endpoint{http.MethodGet, "/api/v3/account", 10, SecuritySigned, false}},
	OpMyTrades:            {"MY_TRADES", Endpoint{http.MethodGet, "/api/v3/myTrades", 10, SecuritySigned, false}},
	OpOrderCount:          {"ORDER_COUNT", Endpoint{http.MethodGet, "/api/v3/rateLimit/order", 20, SecuritySigned, false}},
	OpStartUserStream:     {"START_USER_STREAM", Endpoint{http.MethodPost, "/api/v3/userDataStream", 1, SecurityAPIKey, false}},
	OpKeepaliveUserStream: {"KEEPALIVE_USER_STREAM", Endpoint{http.MethodPut, "/api/v3/userDataStream", 1, SecurityAPIKey, false}},
	OpCloseUserStream:     {"CLOSE_USER_STREAM", Endpoint{http.MethodDelete, "/api/v3/userDataStream", 1, SecurityAPIKey, false}},
}

// String returns the string representation of the operation.
func (o Operation) String() string {
	if o < 0 || int(o) >= len(endpoints) {
		return "UNKNOWN"
	}
	return endpoints[o].name
}

// Endpoint returns the method, path, default weight and security of the operation.
func (o Operation) Endpoint() Endpoint {
	return endpoints[o].ep
}

// Operations returns every defined operation in declaration order.
func Operations() []Operation {
	ops := make([]Operation, len(endpoints))
	for i := range endpoints {
		ops[i] = Operation(i)
	}
	return ops
}
