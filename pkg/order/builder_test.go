package order

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nakula/pkg/core"
	"nakula/pkg/exchange"
)

func TestBuilder_Build(t *testing.T) {
	tests := []struct {
		name       string
		build      func() (*exchange.OrderRequest, error)
		wantErr    bool
		errContain string
	}{
		{
			name: "valid limit buy order",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("BTCUSDT").
					Buy().
					Limit().
					Price("50000.00").
					Quantity("0.1").
					GTC().
					Build()
			},
		},
		{
			name: "valid market sell order",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("ETHUSDT").
					Sell().
					Market().
					Quantity("1.5").
					Build()
			},
		},
		{
			name: "valid market order by quote quantity",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("ETHUSDT").
					Buy().
					Market().
					QuoteQuantity("100").
					Build()
			},
		},
		{
			name: "valid stop loss limit",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("BTCUSDT").
					Sell().
					StopLossLimit().
					Quantity("0.1").
					Price("49000").
					StopPrice("49500").
					IOC().
					Build()
			},
		},
		{
			name: "valid take profit",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("BTCUSDT").
					Sell().
					TakeProfit().
					Quantity("0.1").
					StopPrice("60000").
					Build()
			},
		},
		{
			name: "valid limit maker with decimal price",
			build: func() (*exchange.OrderRequest, error) {
				var price apd.Decimal
				price.SetString("50000.50")
				return NewBuilder("BTCUSDT").
					Buy().
					LimitMaker().
					PriceDecimal(price).
					Quantity("0.1").
					Build()
			},
		},
		{
			name: "limit without time in force",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("BTCUSDT").
					Buy().
					Limit().
					Price("50000").
					Quantity("0.1").
					Build()
			},
			wantErr:    true,
			errContain: "One of the following argument is undefined: 'timeInForce', 'quantity' or 'price'",
		},
		{
			name: "market with both quantities",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("BTCUSDT").
					Buy().
					Market().
					Quantity("1").
					QuoteQuantity("100").
					Build()
			},
			wantErr:    true,
			errContain: "Either 'quantity' or 'quoteOrderQty' must be given",
		},
		{
			name: "stop loss without stop price",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("BTCUSDT").
					Sell().
					StopLoss().
					Quantity("1").
					Build()
			},
			wantErr:    true,
			errContain: "'stopPrice'",
		},
		{
			name: "take profit limit missing price",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("BTCUSDT").
					Sell().
					TakeProfitLimit().
					Quantity("1").
					StopPrice("60000").
					FOK().
					Build()
			},
			wantErr:    true,
			errContain: "'price'",
		},
		{
			name: "invalid price string",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("BTCUSDT").
					Buy().
					Limit().
					Price("abc").
					Quantity("0.1").
					GTC().
					Build()
			},
			wantErr:    true,
			errContain: "parse price",
		},
		{
			name: "first parse error wins",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("BTCUSDT").
					Buy().
					Limit().
					Quantity("x").
					Price("y").
					GTC().
					Build()
			},
			wantErr:    true,
			errContain: "parse quantity",
		},
		{
			name: "negative quantity",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("BTCUSDT").
					Sell().
					Market().
					Quantity("-1").
					Build()
			},
			wantErr:    true,
			errContain: "quantity must be positive",
		},
		{
			name: "zero price",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("BTCUSDT").
					Buy().
					Limit().
					Price("0").
					Quantity("1").
					GTC().
					Build()
			},
			wantErr:    true,
			errContain: "price must be positive",
		},
		{
			name: "missing symbol",
			build: func() (*exchange.OrderRequest, error) {
				return NewBuilder("").
					Buy().
					Market().
					Quantity("1").
					Build()
			},
			wantErr:    true,
			errContain: "'symbol'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.build()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, core.IsValidationError(err))
				assert.Contains(t, err.Error(), tt.errContain)
				assert.Nil(t, req)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, req)
		})
	}
}

func TestBuilder_Fields(t *testing.T) {
	req, err := NewBuilder("BTCUSDT").
		Sell().
		Limit().
		Price("50000.10").
		Quantity("0.25").
		IcebergQuantity("0.05").
		GTC().
		ClientOrderID("client-123").
		ResponseType(core.ResponseResult).
		RecvWindow(5000).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", req.Symbol)
	assert.Equal(t, core.SideSell, req.Side)
	assert.Equal(t, core.TypeLimit, req.Type)
	assert.Equal(t, core.GTC, req.TimeInForce)
	assert.Equal(t, "50000.10", req.Price.Text('f'))
	assert.Equal(t, "0.25", req.Quantity.Text('f'))
	assert.Equal(t, "0.05", req.IcebergQty.Text('f'))
	assert.Nil(t, req.StopPrice)
	assert.Equal(t, "client-123", req.NewClientOrderID)
	assert.Equal(t, core.ResponseResult, req.ResponseType())
	assert.Equal(t, int64(5000), *req.RecvWindow)
}

func TestBuilder_PriceDecimalCopies(t *testing.T) {
	var price apd.Decimal
	price.SetString("100")

	b := NewBuilder("BTCUSDT").Buy().Limit().PriceDecimal(price).Quantity("1").GTC()
	price.SetString("200")

	req, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "100", req.Price.Text('f'))
}

func TestGenerateClientOrderID(t *testing.T) {
	a := GenerateClientOrderID()
	b := GenerateClientOrderID()

	assert.NotEqual(t, a, b)
	assert.LessOrEqual(t, len(a), 36)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)

	req, err := NewBuilder("BTCUSDT").Buy().Market().Quantity("1").WithGeneratedClientOrderID().Build()
	require.NoError(t, err)
	assert.NotEmpty(t, req.NewClientOrderID)
}

func TestOCOBuilder_Build(t *testing.T) {
	req, err := NewOCOBuilder("BTCUSDT").
		Sell().
		Quantity("1").
		Price("110").
		StopPrice("90").
		StopLimit("89", core.GTC).
		WithGeneratedClientOrderIDs().
		Build()
	require.NoError(t, err)

	assert.Equal(t, "89", req.StopLimitPrice.Text('f'))
	assert.Equal(t, core.GTC, req.StopLimitTimeInForce)
	assert.NotEmpty(t, req.ListClientOrderID)
	assert.NotEqual(t, req.LimitClientOrderID, req.StopClientOrderID)

	_, err = NewOCOBuilder("BTCUSDT").Sell().Quantity("1").Price("110").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'stopPrice'")

	_, err = NewOCOBuilder("BTCUSDT").Sell().Quantity("1").Price("oops").StopPrice("90").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse price")

	_, err = NewOCOBuilder("BTCUSDT").Buy().Quantity("0").Price("90").StopPrice("110").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantity must be positive")
}
