package exchange

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nakula/pkg/core"
)

func dec(s string) *apd.Decimal {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestOrderRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     OrderRequest
		wantErr string
		code    core.ErrorCode
	}{
		{
			name: "limit complete",
			req:  OrderRequest{Symbol: "BTCUSDT", Side: core.SideBuy, Type: core.TypeLimit, TimeInForce: core.GTC, Quantity: dec("1"), Price: dec("100")},
		},
		{
			name:    "limit missing price",
			req:     OrderRequest{Symbol: "BTCUSDT", Side: core.SideBuy, Type: core.TypeLimit, TimeInForce: core.GTC, Quantity: dec("1")},
			wantErr: "One of the following argument is undefined: 'timeInForce', 'quantity' or 'price'",
			code:    core.ErrCodeMissingParameter,
		},
		{
			name:    "limit missing time in force",
			req:     OrderRequest{Symbol: "BTCUSDT", Side: core.SideBuy, Type: core.TypeLimit, Quantity: dec("1"), Price: dec("100")},
			wantErr: "One of the following argument is undefined: 'timeInForce', 'quantity' or 'price'",
			code:    core.ErrCodeMissingParameter,
		},
		{
			name: "market by quantity",
			req:  OrderRequest{Symbol: "BTCUSDT", Side: core.SideSell, Type: core.TypeMarket, Quantity: dec("0.5")},
		},
		{
			name: "market by quote quantity",
			req:  OrderRequest{Symbol: "BTCUSDT", Side: core.SideBuy, Type: core.TypeMarket, QuoteOrderQty: dec("50")},
		},
		{
			name:    "market with both",
			req:     OrderRequest{Symbol: "BTCUSDT", Side: core.SideBuy, Type: core.TypeMarket, Quantity: dec("1"), QuoteOrderQty: dec("50")},
			wantErr: "Either 'quantity' or 'quoteOrderQty' must be given",
			code:    core.ErrCodeExclusiveParameters,
		},
		{
			name:    "market with neither",
			req:     OrderRequest{Symbol: "BTCUSDT", Side: core.SideBuy, Type: core.TypeMarket},
			wantErr: "Either 'quantity' or 'quoteOrderQty' must be given",
			code:    core.ErrCodeExclusiveParameters,
		},
		{
			name:    "stop loss missing stop price",
			req:     OrderRequest{Symbol: "BTCUSDT", Side: core.SideSell, Type: core.TypeStopLoss, Quantity: dec("1")},
			wantErr: "One of the following argument is undefined: 'quantity' or 'stopPrice'",
			code:    core.ErrCodeMissingParameter,
		},
		{
			name: "stop loss complete",
			req:  OrderRequest{Symbol: "BTCUSDT", Side: core.SideSell, Type: core.TypeStopLoss, Quantity: dec("1"), StopPrice: dec("90")},
		},
		{
			name:    "stop loss limit missing price",
			req:     OrderRequest{Symbol: "BTCUSDT", Side: core.SideSell, Type: core.TypeStopLossLimit, TimeInForce: core.GTC, Quantity: dec("1"), StopPrice: dec("90")},
			wantErr: "One of the following argument is undefined: 'timeInForce', 'quantity', 'price' or 'stopPrice'",
			code:    core.ErrCodeMissingParameter,
		},
		{
			name:    "take profit missing quantity",
			req:     OrderRequest{Symbol: "BTCUSDT", Side: core.SideSell, Type: core.TypeTakeProfit, StopPrice: dec("110")},
			wantErr: "One of the following argument is undefined: 'quantity' or 'stopPrice'",
			code:    core.ErrCodeMissingParameter,
		},
		{
			name: "take profit limit complete",
			req:  OrderRequest{Symbol: "BTCUSDT", Side: core.SideSell, Type: core.TypeTakeProfitLimit, TimeInForce: core.GTC, Quantity: dec("1"), Price: dec("111"), StopPrice: dec("110")},
		},
		{
			name:    "limit maker missing price",
			req:     OrderRequest{Symbol: "BTCUSDT", Side: core.SideBuy, Type: core.TypeLimitMaker, Quantity: dec("1")},
			wantErr: "One of the following argument is undefined: 'quantity' or 'price'",
			code:    core.ErrCodeMissingParameter,
		},
		{
			name:    "missing symbol",
			req:     OrderRequest{Side: core.SideBuy, Type: core.TypeMarket, Quantity: dec("1")},
			wantErr: "One of the following argument is undefined: 'symbol'",
			code:    core.ErrCodeMissingParameter,
		},
		{
			name:    "unknown type",
			req:     OrderRequest{Symbol: "BTCUSDT", Side: core.SideBuy, Type: "ICEBERG"},
			wantErr: `unsupported order type "ICEBERG"`,
			code:    core.ErrCodeInvalidParameter,
		},
		{
			name:    "recv window too large",
			req:     OrderRequest{Symbol: "BTCUSDT", Side: core.SideBuy, Type: core.TypeMarket, Quantity: dec("1"), RecvWindow: Int64(60001)},
			wantErr: "'recvWindow' must be between 0 and 60000, got 60001",
			code:    core.ErrCodeInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			exErr, ok := core.AsExchangeError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantErr, exErr.Message)
			assert.Equal(t, core.ErrorTypeValidation, exErr.Type)
			assert.Equal(t, 0, exErr.StatusCode)
			assert.True(t, core.IsErrorCode(err, tt.code))
		})
	}
}

func TestOrderRequest_ResponseType(t *testing.T) {
	tests := []struct {
		req  OrderRequest
		want core.ResponseType
	}{
		{OrderRequest{Type: core.TypeMarket}, core.ResponseFull},
		{OrderRequest{Type: core.TypeLimit}, core.ResponseFull},
		{OrderRequest{Type: core.TypeStopLoss}, core.ResponseAck},
		{OrderRequest{Type: core.TypeLimitMaker}, core.ResponseAck},
		{OrderRequest{Type: core.TypeMarket, NewOrderRespType: core.ResponseResult}, core.ResponseResult},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.req.ResponseType(), string(tt.req.Type))
	}
}

func TestOCORequest_Validate(t *testing.T) {
	base := func() OCORequest {
		return OCORequest{Symbol: "BTCUSDT", Side: core.SideSell, Quantity: dec("1"), Price: dec("110"), StopPrice: dec("90")}
	}

	ok := base()
	assert.NoError(t, ok.Validate())

	noStop := base()
	noStop.StopPrice = nil
	assert.True(t, core.IsErrorCode(noStop.Validate(), core.ErrCodeMissingParameter))

	stopLimit := base()
	stopLimit.StopLimitPrice = dec("89")
	err := stopLimit.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'stopLimitTimeInForce'")

	stopLimit.StopLimitTimeInForce = core.GTC
	assert.NoError(t, stopLimit.Validate())
}

func TestOrderQuery_Validate(t *testing.T) {
	tests := []struct {
		name  string
		query OrderQuery
		ok    bool
	}{
		{"by order id", OrderQuery{Symbol: "BTCUSDT", OrderID: Int64(1)}, true},
		{"by client id", OrderQuery{Symbol: "BTCUSDT", OrigClientOrderID: "abc"}, true},
		{"both", OrderQuery{Symbol: "BTCUSDT", OrderID: Int64(1), OrigClientOrderID: "abc"}, false},
		{"neither", OrderQuery{Symbol: "BTCUSDT"}, false},
		{"zero order id is defined", OrderQuery{Symbol: "BTCUSDT", OrderID: Int64(0)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Either 'orderId' or 'origClientOrderId' must be given")
		})
	}
}

func TestCancelRequest_Validate(t *testing.T) {
	assert.NoError(t, (&CancelRequest{Symbol: "BTCUSDT", OrderID: Int64(7)}).Validate())
	assert.True(t, core.IsErrorCode((&CancelRequest{Symbol: "BTCUSDT"}).Validate(), core.ErrCodeExclusiveParameters))
	assert.True(t, core.IsErrorCode((&CancelRequest{OrderID: Int64(7)}).Validate(), core.ErrCodeMissingParameter))
}

func TestOrderList_Validate(t *testing.T) {
	assert.NoError(t, (&OrderListQuery{OrderListID: Int64(3)}).Validate())
	assert.NoError(t, (&OrderListQuery{ListClientOrderID: "list"}).Validate())

	err := (&OrderListQuery{OrderListID: Int64(3), ListClientOrderID: "list"}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Either 'orderListId' or 'listClientOrderId' must be given")

	assert.NoError(t, (&CancelOCORequest{Symbol: "BTCUSDT", ListClientOrderID: "list"}).Validate())
	assert.Error(t, (&CancelOCORequest{Symbol: "BTCUSDT"}).Validate())
}

func TestApplyOptions(t *testing.T) {
	opts := ApplyOptions(WithLimit(10), WithFromID(5), WithRecvWindow(5000), nil)

	require.NotNil(t, opts.Limit)
	assert.Equal(t, 10, *opts.Limit)
	assert.Equal(t, int64(5), *opts.FromID)
	assert.Equal(t, int64(5000), *opts.RecvWindow)
	assert.Nil(t, opts.StartTime)
	assert.Nil(t, opts.Timestamp)
}
