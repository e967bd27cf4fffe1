package core

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderBook_Decode(t *testing.T) {
	body := `{"lastUpdateId":1027024,"bids":[["4.00000000","431.00000000"]],"asks":[["4.00000200","12.00000000"],["4.10000000","1.5"]]}`

	var ob OrderBook
	require.NoError(t, sonic.Unmarshal([]byte(body), &ob))

	assert.Equal(t, int64(1027024), ob.LastUpdateID)
	require.Len(t, ob.Bids, 1)
	require.Len(t, ob.Asks, 2)
	assert.Equal(t, "4.00000000", ob.Bids[0].Price.Text('f'))
	assert.Equal(t, "431.00000000", ob.Bids[0].Quantity.Text('f'))
	assert.Equal(t, "1.5", ob.Asks[1].Quantity.Text('f'))
}

func TestPriceLevel_DecodeInvalid(t *testing.T) {
	var l PriceLevel
	assert.Error(t, sonic.Unmarshal([]byte(`["1.0"]`), &l))
	assert.Error(t, sonic.Unmarshal([]byte(`["abc","1"]`), &l))
}

func TestKline_Decode(t *testing.T) {
	body := `[[1499040000000,"0.01634790","0.80000000","0.01575800","0.01577100","148976.11427815",1499644799999,"2434.19055334",308,"1756.87402397","28.46694368","17928899.62484339"]]`

	var klines []Kline
	require.NoError(t, sonic.Unmarshal([]byte(body), &klines))
	require.Len(t, klines, 1)

	k := klines[0]
	assert.Equal(t, Millis(1499040000000), k.OpenTime)
	assert.Equal(t, Millis(1499644799999), k.CloseTime)
	assert.Equal(t, int64(308), k.NumberOfTrades)
	assert.Equal(t, "0.01634790", k.Open.Text('f'))
	assert.Equal(t, "0.80000000", k.High.Text('f'))
	assert.Equal(t, "0.01575800", k.Low.Text('f'))
	assert.Equal(t, "0.01577100", k.Close.Text('f'))
	assert.Equal(t, "28.46694368", k.TakerBuyQuoteAssetVolume.Text('f'))
	assert.Equal(t, time.UnixMilli(1499040000000), k.OpenTime.Time())
}

func TestKline_DecodeInvalid(t *testing.T) {
	var k Kline
	assert.Error(t, sonic.Unmarshal([]byte(`[1,"2"]`), &k))
	assert.Error(t, sonic.Unmarshal([]byte(`["x","1","1","1","1","1",1,"1",1,"1","1","0"]`), &k))
}

func TestAggTrade_Decode(t *testing.T) {
	body := `{"a":26129,"p":"0.01633102","q":"4.70443515","f":27781,"l":27781,"T":1498793709153,"m":true,"M":true}`

	var tr AggTrade
	require.NoError(t, sonic.Unmarshal([]byte(body), &tr))

	assert.Equal(t, int64(26129), tr.AggTradeID)
	assert.Equal(t, "0.01633102", tr.Price.Text('f'))
	assert.Equal(t, int64(27781), tr.FirstTradeID)
	assert.Equal(t, Millis(1498793709153), tr.Timestamp)
	assert.True(t, tr.IsBuyerMaker)
}

func TestNewOrderResponse_ResponseType(t *testing.T) {
	tests := []struct {
		name string
		body string
		want ResponseType
	}{
		{
			name: "ack",
			body: `{"symbol":"BTCUSDT","orderId":28,"orderListId":-1,"clientOrderId":"6gCrw2kRUAF9CvJDGP16IP","transactTime":1507725176595}`,
			want: ResponseAck,
		},
		{
			name: "result",
			body: `{"symbol":"BTCUSDT","orderId":28,"orderListId":-1,"clientOrderId":"x","transactTime":1507725176595,"price":"0.00000000","origQty":"10.00000000","executedQty":"10.00000000","cummulativeQuoteQty":"10.00000000","status":"FILLED","timeInForce":"GTC","type":"MARKET","side":"SELL"}`,
			want: ResponseResult,
		},
		{
			name: "full",
			body: `{"symbol":"BTCUSDT","orderId":28,"orderListId":-1,"clientOrderId":"x","transactTime":1507725176595,"status":"FILLED","type":"MARKET","side":"SELL","fills":[{"price":"4000.00000000","qty":"1.00000000","commission":"4.00000000","commissionAsset":"USDT"}]}`,
			want: ResponseFull,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r NewOrderResponse
			require.NoError(t, sonic.Unmarshal([]byte(tt.body), &r))
			assert.Equal(t, tt.want, r.ResponseType())
			assert.Equal(t, int64(28), r.OrderID)
			assert.Equal(t, int64(-1), r.OrderListID)
		})
	}
}

func TestCanceledOpenOrder_Decode(t *testing.T) {
	body := `[
		{"symbol":"BTCUSDT","origClientOrderId":"E6APeyTJvkMvLMYMqu1KQ4","orderId":11,"orderListId":-1,"clientOrderId":"pXLV6Hz6mprAcVYpVMTGgx","price":"0.089853","origQty":"0.178622","executedQty":"0.000000","cummulativeQuoteQty":"0.000000","status":"CANCELED","timeInForce":"GTC","type":"LIMIT","side":"BUY"},
		{"orderListId":1929,"contingencyType":"OCO","listStatusType":"ALL_DONE","listOrderStatus":"ALL_DONE","listClientOrderId":"2inzWQdDvZLHbbAmAozX2N","transactionTime":1585230948299,"symbol":"BTCUSDT","orders":[{"symbol":"BTCUSDT","orderId":20,"clientOrderId":"CwOOIPHSmYywx6jZX77TdL"}]}
	]`

	var entries []CanceledOpenOrder
	require.NoError(t, sonic.Unmarshal([]byte(body), &entries))
	require.Len(t, entries, 2)

	assert.False(t, entries[0].IsOrderList())
	require.NotNil(t, entries[0].Order)
	assert.Equal(t, StatusCanceled, entries[0].Order.Status)

	assert.True(t, entries[1].IsOrderList())
	assert.Equal(t, ListStatusAllDone, entries[1].OrderList.ListStatusType)
	assert.Len(t, entries[1].OrderList.Orders, 1)
}

func TestExchangeInfo_Lookup(t *testing.T) {
	body := `{"timezone":"UTC","serverTime":1565246363776,"rateLimits":[{"rateLimitType":"REQUEST_WEIGHT","interval":"MINUTE","intervalNum":1,"limit":1200}],"exchangeFilters":[],"symbols":[{"symbol":"ETHBTC","status":"TRADING","baseAsset":"ETH","quoteAsset":"BTC","orderTypes":["LIMIT","MARKET"],"filters":[{"filterType":"PRICE_FILTER","minPrice":"0.00000100","maxPrice":"100000.00000000","tickSize":"0.00000100"},{"filterType":"LOT_SIZE","minQty":"0.00100000","maxQty":"100000.00000000","stepSize":"0.00100000"}],"permissions":["SPOT","MARGIN"]}]}`

	var info ExchangeInfo
	require.NoError(t, sonic.Unmarshal([]byte(body), &info))

	require.Len(t, info.RateLimits, 1)
	assert.Equal(t, time.Minute, info.RateLimits[0].Duration())

	sym, ok := info.Symbol("ETHBTC")
	require.True(t, ok)
	assert.Equal(t, SymbolTrading, sym.Status)

	lot, ok := sym.Filter("LOT_SIZE")
	require.True(t, ok)
	require.NotNil(t, lot.StepSize)
	assert.Equal(t, "0.00100000", lot.StepSize.Text('f'))

	_, ok = info.Symbol("XRPBTC")
	assert.False(t, ok)
}

func TestAccountInfo_Balance(t *testing.T) {
	body := `{"makerCommission":15,"takerCommission":15,"buyerCommission":0,"sellerCommission":0,"canTrade":true,"canWithdraw":true,"canDeposit":true,"updateTime":123456789,"accountType":"SPOT","balances":[{"asset":"BTC","free":"4723846.89208129","locked":"0.00000000"}],"permissions":["SPOT"]}`

	var acc AccountInfo
	require.NoError(t, sonic.Unmarshal([]byte(body), &acc))

	b, ok := acc.Balance("BTC")
	require.True(t, ok)
	assert.Equal(t, "4723846.89208129", b.Free.Text('f'))
	assert.Equal(t, PermissionSpot, acc.AccountType)

	_, ok = acc.Balance("LTC")
	assert.False(t, ok)
}
