package core

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/apd/v3"
)

// Millis is a Unix timestamp in milliseconds as sent by the exchange.
type Millis int64

// Time converts the timestamp to a time.Time.
func (m Millis) Time() time.Time {
	return time.UnixMilli(int64(m))
}

// Empty is the payload of endpoints that answer with {}.
type Empty struct{}

// ServerTime is the payload of the server time endpoint.
type ServerTime struct {
	ServerTime Millis `json:"serverTime"`
}

// RateLimit is one published rate limit.
type RateLimit struct {
	RateLimitType RateLimitType     `json:"rateLimitType"`
	Interval      RateLimitInterval `json:"interval"`
	IntervalNum   int               `json:"intervalNum"`
	Limit         int               `json:"limit"`
}

// Duration returns the window length of the limit.
func (r RateLimit) Duration() time.Duration {
	var unit time.Duration
	switch r.Interval {
	case RateLimitSecond:
		unit = time.Second
	case RateLimitMinute:
		unit = time.Minute
	case RateLimitDay:
		unit = 24 * time.Hour
	}
	return unit * time.Duration(r.IntervalNum)
}

// ExchangeFilter is an exchange-wide filter. Only the fields of its FilterType are set.
type ExchangeFilter struct {
	FilterType       string `json:"filterType"`
	MaxNumOrders     int    `json:"maxNumOrders,omitempty"`
	MaxNumAlgoOrders int    `json:"maxNumAlgoOrders,omitempty"`
}

// SymbolFilter is a per-symbol trading rule. Only the fields of its FilterType are set.
type SymbolFilter struct {
	FilterType string `json:"filterType"`

	// PRICE_FILTER
	MinPrice *apd.Decimal `json:"minPrice,omitempty"`
	MaxPrice *apd.Decimal `json:"maxPrice,omitempty"`
	TickSize *apd.Decimal `json:"tickSize,omitempty"`

	// PERCENT_PRICE
	MultiplierUp   *apd.Decimal `json:"multiplierUp,omitempty"`
	MultiplierDown *apd.Decimal `json:"multiplierDown,omitempty"`
	AvgPriceMins   int          `json:"avgPriceMins,omitempty"`

	// LOT_SIZE, MARKET_LOT_SIZE
	MinQty   *apd.Decimal `json:"minQty,omitempty"`
	MaxQty   *apd.Decimal `json:"maxQty,omitempty"`
	StepSize *apd.Decimal `json:"stepSize,omitempty"`

	// MIN_NOTIONAL
	MinNotional   *apd.Decimal `json:"minNotional,omitempty"`
	ApplyToMarket bool         `json:"applyToMarket,omitempty"`

	// ICEBERG_PARTS
	Limit int `json:"limit,omitempty"`

	// MAX_NUM_ORDERS, MAX_NUM_ALGO_ORDERS, MAX_NUM_ICEBERG_ORDERS
	MaxNumOrders        int `json:"maxNumOrders,omitempty"`
	MaxNumAlgoOrders    int `json:"maxNumAlgoOrders,omitempty"`
	MaxNumIcebergOrders int `json:"maxNumIcebergOrders,omitempty"`

	// MAX_POSITION
	MaxPosition *apd.Decimal `json:"maxPosition,omitempty"`
}

// Symbol describes a trading pair and its rules.
type Symbol struct {
	Symbol                     string         `json:"symbol"`
	Status                     SymbolStatus   `json:"status"`
	BaseAsset                  string         `json:"baseAsset"`
	BaseAssetPrecision         int            `json:"baseAssetPrecision"`
	QuoteAsset                 string         `json:"quoteAsset"`
	QuotePrecision             int            `json:"quotePrecision"`
	QuoteAssetPrecision        int            `json:"quoteAssetPrecision"`
	BaseCommissionPrecision    int            `json:"baseCommissionPrecision"`
	QuoteCommissionPrecision   int            `json:"quoteCommissionPrecision"`
	OrderTypes                 []OrderType    `json:"orderTypes"`
	IcebergAllowed             bool           `json:"icebergAllowed"`
	OCOAllowed                 bool           `json:"ocoAllowed"`
	QuoteOrderQtyMarketAllowed bool           `json:"quoteOrderQtyMarketAllowed"`
	IsSpotTradingAllowed       bool           `json:"isSpotTradingAllowed"`
	IsMarginTradingAllowed     bool           `json:"isMarginTradingAllowed"`
	Filters                    []SymbolFilter `json:"filters"`
	Permissions                []Permission   `json:"permissions"`
}

// Filter returns the symbol's filter of the given type.
func (s *Symbol) Filter(filterType string) (SymbolFilter, bool) {
	for _, f := range s.Filters {
		if f.FilterType == filterType {
			return f, true
		}
	}
	return SymbolFilter{}, false
}

// ExchangeInfo is the payload of the exchange information endpoint.
type ExchangeInfo struct {
	Timezone        string           `json:"timezone"`
	ServerTime      Millis           `json:"serverTime"`
	RateLimits      []RateLimit      `json:"rateLimits"`
	ExchangeFilters []ExchangeFilter `json:"exchangeFilters"`
	Symbols         []Symbol         `json:"symbols"`
}

// Symbol looks up a symbol by name.
func (e *ExchangeInfo) Symbol(name string) (*Symbol, bool) {
	for i := range e.Symbols {
		if e.Symbols[i].Symbol == name {
			return &e.Symbols[i], true
		}
	}
	return nil, false
}

// PriceLevel is one order book level, sent as ["price", "qty"].
type PriceLevel struct {
	Price    apd.Decimal
	Quantity apd.Decimal
}

// UnmarshalJSON decodes the two-element array form.
func (l *PriceLevel) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode price level: %w", err)
	}
	if len(raw) < 2 {
		return fmt.Errorf("decode price level: expected 2 elements, got %d", len(raw))
	}
	if _, _, err := l.Price.SetString(raw[0]); err != nil {
		return fmt.Errorf("parse price: %w", err)
	}
	if _, _, err := l.Quantity.SetString(raw[1]); err != nil {
		return fmt.Errorf("parse quantity: %w", err)
	}
	return nil
}

// MarshalJSON encodes the level back to its array form.
func (l PriceLevel) MarshalJSON() ([]byte, error) {
	return sonic.Marshal([2]string{l.Price.Text('f'), l.Quantity.Text('f')})
}

// OrderBook is the payload of the depth endpoint.
type OrderBook struct {
	LastUpdateID int64        `json:"lastUpdateId"`
	Bids         []PriceLevel `json:"bids"`
	Asks         []PriceLevel `json:"asks"`
}

// Trade is one public trade.
type Trade struct {
	ID           int64       `json:"id"`
	Price        apd.Decimal `json:"price"`
	Qty          apd.Decimal `json:"qty"`
	QuoteQty     apd.Decimal `json:"quoteQty"`
	Time         Millis      `json:"time"`
	IsBuyerMaker bool        `json:"isBuyerMaker"`
	IsBestMatch  bool        `json:"isBestMatch"`
}

// AggTrade is one compressed trade covering fills at the same price and time.
type AggTrade struct {
	AggTradeID   int64       `json:"a"`
	Price        apd.Decimal `json:"p"`
	Quantity     apd.Decimal `json:"q"`
	FirstTradeID int64       `json:"f"`
	LastTradeID  int64       `json:"l"`
	Timestamp    Millis      `json:"T"`
	IsBuyerMaker bool        `json:"m"`
	IsBestMatch  bool        `json:"M"`
}

// Kline is one candlestick, sent as a 12-element array.
type Kline struct {
	OpenTime                 Millis
	Open                     apd.Decimal
	High                     apd.Decimal
	Low                      apd.Decimal
	Close                    apd.Decimal
	Volume                   apd.Decimal
	CloseTime                Millis
	QuoteAssetVolume         apd.Decimal
	NumberOfTrades           int64
	TakerBuyBaseAssetVolume  apd.Decimal
	TakerBuyQuoteAssetVolume apd.Decimal
}

// UnmarshalJSON decodes the array form.
func (k *Kline) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode kline: %w", err)
	}
	if len(raw) < 11 {
		return fmt.Errorf("decode kline: expected 12 elements, got %d", len(raw))
	}

	ints := []struct {
		idx int
		dst *int64
	}{
		{0, (*int64)(&k.OpenTime)},
		{6, (*int64)(&k.CloseTime)},
		{8, &k.NumberOfTrades},
	}
	for _, f := range ints {
		n, ok := raw[f.idx].(float64)
		if !ok {
			return fmt.Errorf("decode kline: element %d is %T, want number", f.idx, raw[f.idx])
		}
		*f.dst = int64(n)
	}

	decimals := []struct {
		idx int
		dst *apd.Decimal
	}{
		{1, &k.Open},
		{2, &k.High},
		{3, &k.Low},
		{4, &k.Close},
		{5, &k.Volume},
		{7, &k.QuoteAssetVolume},
		{9, &k.TakerBuyBaseAssetVolume},
		{10, &k.TakerBuyQuoteAssetVolume},
	}
	for _, f := range decimals {
		s, ok := raw[f.idx].(string)
		if !ok {
			return fmt.Errorf("decode kline: element %d is %T, want string", f.idx, raw[f.idx])
		}
		if _, _, err := f.dst.SetString(s); err != nil {
			return fmt.Errorf("decode kline: element %d: %w", f.idx, err)
		}
	}
	return nil
}

// AveragePrice is the payload of the average price endpoint.
type AveragePrice struct {
	Mins  int         `json:"mins"`
	Price apd.Decimal `json:"price"`
}

// Ticker24h is 24 hour rolling window price change statistics.
type Ticker24h struct {
	Symbol             string      `json:"symbol"`
	PriceChange        apd.Decimal `json:"priceChange"`
	PriceChangePercent apd.Decimal `json:"priceChangePercent"`
	WeightedAvgPrice   apd.Decimal `json:"weightedAvgPrice"`
	PrevClosePrice     apd.Decimal `json:"prevClosePrice"`
	LastPrice          apd.Decimal `json:"lastPrice"`
	LastQty            apd.Decimal `json:"lastQty"`
	BidPrice           apd.Decimal `json:"bidPrice"`
	BidQty             apd.Decimal `json:"bidQty"`
	AskPrice           apd.Decimal `json:"askPrice"`
	AskQty             apd.Decimal `json:"askQty"`
	OpenPrice          apd.Decimal `json:"openPrice"`
	HighPrice          apd.Decimal `json:"highPrice"`
	LowPrice           apd.Decimal `json:"lowPrice"`
	Volume             apd.Decimal `json:"volume"`
	QuoteVolume        apd.Decimal `json:"quoteVolume"`
	OpenTime           Millis      `json:"openTime"`
	CloseTime          Millis      `json:"closeTime"`
	FirstID            int64       `json:"firstId"`
	LastID             int64       `json:"lastId"`
	Count              int64       `json:"count"`
}

// PriceTicker is the latest price of a symbol.
type PriceTicker struct {
	Symbol string      `json:"symbol"`
	Price  apd.Decimal `json:"price"`
}

// BookTicker is the best bid and ask of a symbol.
type BookTicker struct {
	Symbol   string      `json:"symbol"`
	BidPrice apd.Decimal `json:"bidPrice"`
	BidQty   apd.Decimal `json:"bidQty"`
	AskPrice apd.Decimal `json:"askPrice"`
	AskQty   apd.Decimal `json:"askQty"`
}

// Fill is one execution reported with a FULL order response.
type Fill struct {
	Price           apd.Decimal `json:"price"`
	Qty             apd.Decimal `json:"qty"`
	Commission      apd.Decimal `json:"commission"`
	CommissionAsset string      `json:"commissionAsset"`
}

// NewOrderResponse covers the ACK, RESULT and FULL response types. Fields
// beyond the ACK set are zero when a smaller response type was returned.
type NewOrderResponse struct {
	Symbol        string `json:"symbol"`
	OrderID       int64  `json:"orderId"`
	OrderListID   int64  `json:"orderListId"`
	ClientOrderID string `json:"clientOrderId"`
	TransactTime  Millis `json:"transactTime"`

	Price               *apd.Decimal `json:"price,omitempty"`
	OrigQty             *apd.Decimal `json:"origQty,omitempty"`
	ExecutedQty         *apd.Decimal `json:"executedQty,omitempty"`
	CummulativeQuoteQty *apd.Decimal `json:"cummulativeQuoteQty,omitempty"`
	Status              OrderStatus  `json:"status,omitempty"`
	TimeInForce         TimeInForce  `json:"timeInForce,omitempty"`
	Type                OrderType    `json:"type,omitempty"`
	Side                OrderSide    `json:"side,omitempty"`

	Fills []Fill `json:"fills,omitempty"`
}

// ResponseType reports which response type the payload carries.
func (r *NewOrderResponse) ResponseType() ResponseType {
	switch {
	case r.Fills != nil:
		return ResponseFull
	case r.Status != "":
		return ResponseResult
	default:
		return ResponseAck
	}
}

// Order is the full state of an order.
type Order struct {
	Symbol              string      `json:"symbol"`
	OrigClientOrderID   string      `json:"origClientOrderId,omitempty"`
	OrderID             int64       `json:"orderId"`
	OrderListID         int64       `json:"orderListId"`
	ClientOrderID       string      `json:"clientOrderId"`
	Price               apd.Decimal `json:"price"`
	OrigQty             apd.Decimal `json:"origQty"`
	ExecutedQty         apd.Decimal `json:"executedQty"`
	CummulativeQuoteQty apd.Decimal `json:"cummulativeQuoteQty"`
	Status              OrderStatus `json:"status"`
	TimeInForce         TimeInForce `json:"timeInForce"`
	Type                OrderType   `json:"type"`
	Side                OrderSide   `json:"side"`
	StopPrice           apd.Decimal `json:"stopPrice"`
	IcebergQty          apd.Decimal `json:"icebergQty"`
	Time                Millis      `json:"time,omitempty"`
	UpdateTime          Millis      `json:"updateTime,omitempty"`
	TransactTime        Millis      `json:"transactTime,omitempty"`
	IsWorking           bool        `json:"isWorking"`
	OrigQuoteOrderQty   apd.Decimal `json:"origQuoteOrderQty"`
}

// OrderListEntry identifies one order inside an order list.
type OrderListEntry struct {
	Symbol        string `json:"symbol"`
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
}

// OrderList is an OCO order list.
type OrderList struct {
	OrderListID       int64            `json:"orderListId"`
	ContingencyType   ContingencyType  `json:"contingencyType"`
	ListStatusType    ListStatusType   `json:"listStatusType"`
	ListOrderStatus   ListOrderStatus  `json:"listOrderStatus"`
	ListClientOrderID string           `json:"listClientOrderId"`
	TransactionTime   Millis           `json:"transactionTime"`
	Symbol            string           `json:"symbol"`
	Orders            []OrderListEntry `json:"orders"`
	OrderReports      []Order          `json:"orderReports,omitempty"`
}

// CanceledOpenOrder is one entry of a cancel-all response: either a single
// order or an OCO order list, told apart by the presence of orderListId
// with contingencyType.
type CanceledOpenOrder struct {
	Order     *Order
	OrderList *OrderList
}

// IsOrderList reports whether the entry is an OCO order list.
func (c *CanceledOpenOrder) IsOrderList() bool {
	return c.OrderList != nil
}

// UnmarshalJSON decodes either variant.
func (c *CanceledOpenOrder) UnmarshalJSON(data []byte) error {
	var probe struct {
		ContingencyType string `json:"contingencyType"`
	}
	if err := sonic.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("decode canceled order: %w", err)
	}
	if probe.ContingencyType != "" {
		c.OrderList = new(OrderList)
		return sonic.Unmarshal(data, c.OrderList)
	}
	c.Order = new(Order)
	return sonic.Unmarshal(data, c.Order)
}

// MarshalJSON encodes whichever variant is set.
func (c CanceledOpenOrder) MarshalJSON() ([]byte, error) {
	if c.OrderList != nil {
		return sonic.Marshal(c.OrderList)
	}
	return sonic.Marshal(c.Order)
}

// Balance is one asset balance of the account.
type Balance struct {
	Asset  string      `json:"asset"`
	Free   apd.Decimal `json:"free"`
	Locked apd.Decimal `json:"locked"`
}

// AccountInfo is the payload of the account endpoint.
type AccountInfo struct {
	MakerCommission  int          `json:"makerCommission"`
	TakerCommission  int          `json:"takerCommission"`
	BuyerCommission  int          `json:"buyerCommission"`
	SellerCommission int          `json:"sellerCommission"`
	CanTrade         bool         `json:"canTrade"`
	CanWithdraw      bool         `json:"canWithdraw"`
	CanDeposit       bool         `json:"canDeposit"`
	UpdateTime       Millis       `json:"updateTime"`
	AccountType      Permission   `json:"accountType"`
	Balances         []Balance    `json:"balances"`
	Permissions      []Permission `json:"permissions"`
}

// Balance returns the balance of one asset.
func (a *AccountInfo) Balance(asset string) (Balance, bool) {
	for _, b := range a.Balances {
		if b.Asset == asset {
			return b, true
		}
	}
	return Balance{}, false
}

// AccountTrade is one trade of the account.
type AccountTrade struct {
	Symbol          string      `json:"symbol"`
	ID              int64       `json:"id"`
	OrderID         int64       `json:"orderId"`
	OrderListID     int64       `json:"orderListId"`
	Price           apd.Decimal `json:"price"`
	Qty             apd.Decimal `json:"qty"`
	QuoteQty        apd.Decimal `json:"quoteQty"`
	Commission      apd.Decimal `json:"commission"`
	CommissionAsset string      `json:"commissionAsset"`
	Time            Millis      `json:"time"`
	IsBuyer         bool        `json:"isBuyer"`
	IsMaker         bool        `json:"isMaker"`
	IsBestMatch     bool        `json:"isBestMatch"`
}

// OrderCountUsage is the current usage of one order rate limit.
type OrderCountUsage struct {
	RateLimitType RateLimitType     `json:"rateLimitType"`
	Interval      RateLimitInterval `json:"interval"`
	IntervalNum   int               `json:"intervalNum"`
	Limit         int               `json:"limit"`
	Count         int               `json:"count"`
}

// ListenKey identifies a user data stream.
type ListenKey struct {
	ListenKey string `json:"listenKey"`
}
