package order

import (
	"github.com/cockroachdb/apd/v3"

	"nakula/pkg/core"
	"nakula/pkg/exchange"
)

// OCOBuilder constructs an OCO order list: a LIMIT_MAKER leg at Price and a
// stop leg triggered at StopPrice.
type OCOBuilder struct {
	req *exchange.OCORequest
	err error
}

func NewOCOBuilder(symbol string) *OCOBuilder {
	return &OCOBuilder{req: &exchange.OCORequest{Symbol: symbol}}
}

func (b *OCOBuilder) setDecimal(dst **apd.Decimal, field, value string) *OCOBuilder {
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

func (b *OCOBuilder) Buy() *OCOBuilder {
	b.req.Side = core.SideBuy
	return b
}

func (b *OCOBuilder) Sell() *OCOBuilder {
	b.req.Side = core.SideSell
	return b
}

func (b *OCOBuilder) Quantity(qty string) *OCOBuilder {
	return b.setDecimal(&b.req.Quantity, "quantity", qty)
}

// Price sets the price of the limit leg.
func (b *OCOBuilder) Price(price string) *OCOBuilder {
	return b.setDecimal(&b.req.Price, "price", price)
}

// StopPrice sets the trigger of the stop leg.
func (b *OCOBuilder) StopPrice(price string) *OCOBuilder {
	return b.setDecimal(&b.req.StopPrice, "stopPrice", price)
}

// StopLimit turns the stop leg into a STOP_LOSS_LIMIT order at price.
func (b *OCOBuilder) StopLimit(price string, tif core.TimeInForce) *OCOBuilder {
	b.req.StopLimitTimeInForce = tif
	return b.setDecimal(&b.req.StopLimitPrice, "stopLimitPrice", price)
}

func (b *OCOBuilder) ListClientOrderID(id string) *OCOBuilder {
	b.req.ListClientOrderID = id
	return b
}

// WithGeneratedClientOrderIDs assigns random ids to the list and both legs.
func (b *OCOBuilder) WithGeneratedClientOrderIDs() *OCOBuilder {
	b.req.ListClientOrderID = GenerateClientOrderID()
	b.req.LimitClientOrderID = GenerateClientOrderID()
	b.req.StopClientOrderID = GenerateClientOrderID()
	return b
}

func (b *OCOBuilder) ResponseType(rt core.ResponseType) *OCOBuilder {
	b.req.NewOrderRespType = rt
	return b
}

// Build validates and returns the OCO request.
func (b *OCOBuilder) Build() (*exchange.OCORequest, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.req.Validate(); err != nil {
		return nil, err
	}
	if err := positive(map[string]*apd.Decimal{
		"quantity":       b.req.Quantity,
		"price":          b.req.Price,
		"stopPrice":      b.req.StopPrice,
		"stopLimitPrice": b.req.StopLimitPrice,
	}); err != nil {
		return nil, err
	}
	return b.req, nil
}
