package order

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"

	"nakula/pkg/core"
	"nakula/pkg/exchange"
)

// Builder provides a fluent interface for constructing order requests.
// It keeps the first parse error and reports it on Build.
//
// Example:
//
//	req, err := order.NewBuilder("BTCUSDT").
//	    Buy().
//	    Limit().
//	    Price("50000").
//	    Quantity("0.001").
//	    GTC().
//	    Build()
type Builder struct {
	req *exchange.OrderRequest
	err error
}

// NewBuilder creates a builder for an order on symbol.
func NewBuilder(symbol string) *Builder {
	return &Builder{req: &exchange.OrderRequest{Symbol: symbol}}
}

// GenerateClientOrderID returns a random id accepted as newClientOrderId.
func GenerateClientOrderID() string {
	return uuid.NewString()
}

func parseDecimal(field, value string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return nil, core.NewValidationError(core.ErrCodeInvalidParameter, "parse %s %q: %v", field, value, err).WithRaw(err)
	}
	return d, nil
}

func (b *Builder) setDecimal(dst **apd.Decimal, field, value string) *Builder {
	if b.err != nil {
		return b
	}
	d, err := parseDecimal(field, value)
	if err != nil {
		b.err = err
		return b
	}
	*dst = d
	return b
}

func (b *Builder) Side(side core.OrderSide) *Builder {
	b.req.Side = side
	return b
}

func (b *Builder) Buy() *Builder {
	return b.Side(core.SideBuy)
}

func (b *Builder) Sell() *Builder {
	return b.Side(core.SideSell)
}

func (b *Builder) Type(orderType core.OrderType) *Builder {
	b.req.Type = orderType
	return b
}

func (b *Builder) Market() *Builder {
	return b.Type(core.TypeMarket)
}

func (b *Builder) Limit() *Builder {
	return b.Type(core.TypeLimit)
}

func (b *Builder) StopLoss() *Builder {
	return b.Type(core.TypeStopLoss)
}

func (b *Builder) StopLossLimit() *Builder {
	return b.Type(core.TypeStopLossLimit)
}

func (b *Builder) TakeProfit() *Builder {
	return b.Type(core.TypeTakeProfit)
}

func (b *Builder) TakeProfitLimit() *Builder {
	return b.Type(core.TypeTakeProfitLimit)
}

// LimitMaker sets a limit order that is rejected if it would match immediately.
func (b *Builder) LimitMaker() *Builder {
	return b.Type(core.TypeLimitMaker)
}

// Price sets the limit price from a string representation.
func (b *Builder) Price(price string) *Builder {
	return b.setDecimal(&b.req.Price, "price", price)
}

// PriceDecimal sets the limit price from an apd.Decimal value.
func (b *Builder) PriceDecimal(price apd.Decimal) *Builder {
	b.req.Price = new(apd.Decimal).Set(&price)
	return b
}

// Quantity sets the base asset quantity from a string representation.
func (b *Builder) Quantity(qty string) *Builder {
	return b.setDecimal(&b.req.Quantity, "quantity", qty)
}

func (b *Builder) QuantityDecimal(qty apd.Decimal) *Builder {
	b.req.Quantity = new(apd.Decimal).Set(&qty)
	return b
}

// QuoteQuantity sets the quote asset amount to spend or receive. MARKET only.
func (b *Builder) QuoteQuantity(qty string) *Builder {
	return b.setDecimal(&b.req.QuoteOrderQty, "quoteOrderQty", qty)
}

// StopPrice sets the trigger price of stop-loss and take-profit orders.
func (b *Builder) StopPrice(price string) *Builder {
	return b.setDecimal(&b.req.StopPrice, "stopPrice", price)
}

// IcebergQuantity makes a limit order an iceberg showing only qty.
func (b *Builder) IcebergQuantity(qty string) *Builder {
	return b.setDecimal(&b.req.IcebergQty, "icebergQty", qty)
}

func (b *Builder) TimeInForce(tif core.TimeInForce) *Builder {
	b.req.TimeInForce = tif
	return b
}

// GTC sets the time-in-force to Good-Till-Cancelled.
func (b *Builder) GTC() *Builder {
	return b.TimeInForce(core.GTC)
}

// IOC sets the time-in-force to Immediate-Or-Cancel.
func (b *Builder) IOC() *Builder {
	return b.TimeInForce(core.IOC)
}

// FOK sets the time-in-force to Fill-Or-Kill.
func (b *Builder) FOK() *Builder {
	return b.TimeInForce(core.FOK)
}

// ClientOrderID sets a client-assigned identifier for order tracking.
func (b *Builder) ClientOrderID(id string) *Builder {
	b.req.NewClientOrderID = id
	return b
}

// WithGeneratedClientOrderID assigns a random client order id.
func (b *Builder) WithGeneratedClientOrderID() *Builder {
	return b.ClientOrderID(GenerateClientOrderID())
}

func (b *Builder) ResponseType(rt core.ResponseType) *Builder {
	b.req.NewOrderRespType = rt
	return b
}

func (b *Builder) RecvWindow(ms int64) *Builder {
	b.req.RecvWindow = exchange.Int64(ms)
	return b
}

// Build validates and returns the order request. The same per-type rules
// as the client apply, and every given amount must be positive.
func (b *Builder) Build() (*exchange.OrderRequest, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.req.Validate(); err != nil {
		return nil, err
	}
	if err := positive(map[string]*apd.Decimal{
		"quantity":      b.req.Quantity,
		"quoteOrderQty": b.req.QuoteOrderQty,
		"price":         b.req.Price,
		"stopPrice":     b.req.StopPrice,
		"icebergQty":    b.req.IcebergQty,
	}); err != nil {
		return nil, err
	}
	return b.req, nil
}

func positive(values map[string]*apd.Decimal) error {
	for field, v := range values {
		if v != nil && (v.IsZero() || v.Negative) {
			return core.NewValidationError(core.ErrCodeInvalidParameter, "%s must be positive, got %s", field, v.Text('f'))
		}
	}
	return nil
}
