package binance

import (
	"context"

	"nakula/pkg/core"
	"nakula/pkg/exchange"
)

// openOrdersAllWeight is the weight of openOrders without a symbol.
const openOrdersAllWeight = 40

func orderRequest(op core.Operation, r *exchange.OrderRequest) *core.Request {
	return core.NewRequest(op).
		SetQuery("symbol", r.Symbol).
		SetQuery("side", r.Side).
		SetQuery("type", r.Type).
		SetQuery("timeInForce", r.TimeInForce).
		SetQuery("quantity", r.Quantity).
		SetQuery("quoteOrderQty", r.QuoteOrderQty).
		SetQuery("price", r.Price).
		SetQuery("newClientOrderId", r.NewClientOrderID).
		SetQuery("stopPrice", r.StopPrice).
		SetQuery("icebergQty", r.IcebergQty).
		SetQuery("newOrderRespType", r.NewOrderRespType)
}

// CreateOrder places an order. The parameters the order type needs are
// checked before anything is sent.
func (c *Client) CreateOrder(ctx context.Context, r *exchange.OrderRequest) (*core.NewOrderResponse, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	req := orderRequest(core.OpNewOrder, r)
	resp, err := callPtr[core.NewOrderResponse](ctx, c, req, signing{r.RecvWindow, r.Timestamp})
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("symbol", resp.Symbol).
		Int64("order_id", resp.OrderID).
		Str("client_order_id", resp.ClientOrderID).
		Str("type", string(r.Type)).
		Str("side", string(r.Side)).
		Msg("order created")
	return resp, nil
}

// TestOrder validates r against the matching engine without placing it.
func (c *Client) TestOrder(ctx context.Context, r *exchange.OrderRequest) error {
	if err := r.Validate(); err != nil {
		return err
	}
	_, err := call[core.Empty](ctx, c, orderRequest(core.OpTestOrder, r), signing{r.RecvWindow, r.Timestamp})
	return err
}

func (c *Client) GetOrder(ctx context.Context, q *exchange.OrderQuery) (*core.Order, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	req := core.NewRequest(core.OpQueryOrder).
		SetQuery("symbol", q.Symbol).
		SetQuery("orderId", q.OrderID).
		SetQuery("origClientOrderId", q.OrigClientOrderID)
	return callPtr[core.Order](ctx, c, req, signing{q.RecvWindow, q.Timestamp})
}

// CancelOrder cancels one order by orderId or origClientOrderId.
func (c *Client) CancelOrder(ctx context.Context, r *exchange.CancelRequest) (*core.Order, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	req := core.NewRequest(core.OpCancelOrder).
		SetQuery("symbol", r.Symbol).
		SetQuery("orderId", r.OrderID).
		SetQuery("origClientOrderId", r.OrigClientOrderID).
		SetQuery("newClientOrderId", r.NewClientOrderID)
	return callPtr[core.Order](ctx, c, req, signing{r.RecvWindow, r.Timestamp})
}

// CancelOpenOrders cancels every open order on symbol, OCO lists included.
func (c *Client) CancelOpenOrders(ctx context.Context, symbol string, opts ...exchange.Option) ([]core.CanceledOpenOrder, error) {
	if err := exchange.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	options := exchange.ApplyOptions(opts...)
	if err := exchange.ValidateRecvWindow(options.RecvWindow); err != nil {
		return nil, err
	}

	req := core.NewRequest(core.OpCancelOpenOrders).SetQuery("symbol", symbol)
	return call[[]core.CanceledOpenOrder](ctx, c, req, signingFrom(options))
}

// OpenOrders returns open orders on symbol, or on every symbol when symbol
// is empty. The latter costs 40 weight.
func (c *Client) OpenOrders(ctx context.Context, symbol string, opts ...exchange.Option) ([]core.Order, error) {
	options := exchange.ApplyOptions(opts...)
	if err := exchange.ValidateRecvWindow(options.RecvWindow); err != nil {
		return nil, err
	}

	req := core.NewRequest(core.OpOpenOrders).SetQuery("symbol", symbol)
	if symbol == "" {
		req.SetWeight(openOrdersAllWeight)
	}
	return call[[]core.Order](ctx, c, req, signingFrom(options))
}

// AllOrders returns active, canceled and filled orders. Accepts WithOrderID,
// a time range and WithLimit; the limit defaults to DefaultTradeLimit.
func (c *Client) AllOrders(ctx context.Context, symbol string, opts ...exchange.Option) ([]core.Order, error) {
	if err := exchange.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	options := exchange.ApplyOptions(opts...)
	if err := exchange.ValidateRecvWindow(options.RecvWindow); err != nil {
		return nil, err
	}

	req := core.NewRequest(core.OpAllOrders).
		SetQuery("symbol", symbol).
		SetQuery("orderId", options.OrderID).
		SetQuery("startTime", options.StartTime).
		SetQuery("endTime", options.EndTime).
		SetQuery("limit", limitOrDefault(options))
	return call[[]core.Order](ctx, c, req, signingFrom(options))
}

// CreateOCO places a limit order and a stop order as one list.
func (c *Client) CreateOCO(ctx context.Context, r *exchange.OCORequest) (*core.OrderList, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	req := core.NewRequest(core.OpNewOCO).
		SetQuery("symbol", r.Symbol).
		SetQuery("listClientOrderId", r.ListClientOrderID).
		SetQuery("side", r.Side).
		SetQuery("quantity", r.Quantity).
		SetQuery("limitClientOrderId", r.LimitClientOrderID).
		SetQuery("price", r.Price).
		SetQuery("limitIcebergQty", r.LimitIcebergQty).
		SetQuery("stopClientOrderId", r.StopClientOrderID).
		SetQuery("stopPrice", r.StopPrice).
		SetQuery("stopLimitPrice", r.StopLimitPrice).
		SetQuery("stopIcebergQty", r.StopIcebergQty).
		SetQuery("stopLimitTimeInForce", r.StopLimitTimeInForce).
		SetQuery("newOrderRespType", r.NewOrderRespType)

	list, err := callPtr[core.OrderList](ctx, c, req, signing{r.RecvWindow, r.Timestamp})
	if err != nil {
		return nil, err
	}
	c.logger.Info().
		Str("symbol", list.Symbol).
		Int64("order_list_id", list.OrderListID).
		Str("list_client_order_id", list.ListClientOrderID).
		Msg("oco created")
	return list, nil
}

func (c *Client) CancelOCO(ctx context.Context, r *exchange.CancelOCORequest) (*core.OrderList, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	req := core.NewRequest(core.OpCancelOCO).
		SetQuery("symbol", r.Symbol).
		SetQuery("orderListId", r.OrderListID).
		SetQuery("listClientOrderId", r.ListClientOrderID).
		SetQuery("newClientOrderId", r.NewClientOrderID)
	return callPtr[core.OrderList](ctx, c, req, signing{r.RecvWindow, r.Timestamp})
}

func (c *Client) GetOCO(ctx context.Context, q *exchange.OrderListQuery) (*core.OrderList, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	req := core.NewRequest(core.OpQueryOCO).
		SetQuery("orderListId", q.OrderListID).
		SetQuery("listClientOrderId", q.ListClientOrderID)
	return callPtr[core.OrderList](ctx, c, req, signing{q.RecvWindow, q.Timestamp})
}

// AllOCO returns order lists. Accepts WithFromID, a time range and WithLimit.
func (c *Client) AllOCO(ctx context.Context, opts ...exchange.Option) ([]core.OrderList, error) {
	options := exchange.ApplyOptions(opts...)
	if err := exchange.ValidateRecvWindow(options.RecvWindow); err != nil {
		return nil, err
	}

	req := core.NewRequest(core.OpAllOCO).
		SetQuery("fromId", options.FromID).
		SetQuery("startTime", options.StartTime).
		SetQuery("endTime", options.EndTime).
		SetQuery("limit", options.Limit)
	return call[[]core.OrderList](ctx, c, req, signingFrom(options))
}

func (c *Client) OpenOCO(ctx context.Context, opts ...exchange.Option) ([]core.OrderList, error) {
	options := exchange.ApplyOptions(opts...)
	if err := exchange.ValidateRecvWindow(options.RecvWindow); err != nil {
		return nil, err
	}
	return call[[]core.OrderList](ctx, c, core.NewRequest(core.OpOpenOCO), signingFrom(options))
}
