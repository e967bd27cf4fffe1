package binance

import (
	"context"

	"nakula/pkg/core"
	"nakula/pkg/exchange"
)

// Account returns balances and permissions of the account.
func (c *Client) Account(ctx context.Context, opts ...exchange.Option) (*core.AccountInfo, error) {
	options := exchange.ApplyOptions(opts...)
	if err := exchange.ValidateRecvWindow(options.RecvWindow); err != nil {
		return nil, err
	}
	return callPtr[core.AccountInfo](ctx, c, core.NewRequest(core.OpAccount), signingFrom(options))
}

// AccountTrades returns the account's trades on symbol. Accepts a time
// range, WithFromID and WithLimit.
func (c *Client) AccountTrades(ctx context.Context, symbol string, opts ...exchange.Option) ([]core.AccountTrade, error) {
	if err := exchange.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	options := exchange.ApplyOptions(opts...)
	if err := exchange.ValidateRecvWindow(options.RecvWindow); err != nil {
		return nil, err
	}

	req := core.NewRequest(core.OpMyTrades).
		SetQuery("symbol", symbol).
		SetQuery("startTime", options.StartTime).
		SetQuery("endTime", options.EndTime).
		SetQuery("fromId", options.FromID).
		SetQuery("limit", options.Limit)
	return call[[]core.AccountTrade](ctx, c, req, signingFrom(options))
}

// OrderCountUsage returns how much of each order rate limit is used.
func (c *Client) OrderCountUsage(ctx context.Context, opts ...exchange.Option) ([]core.OrderCountUsage, error) {
	options := exchange.ApplyOptions(opts...)
	if err := exchange.ValidateRecvWindow(options.RecvWindow); err != nil {
		return nil, err
	}
	return call[[]core.OrderCountUsage](ctx, c, core.NewRequest(core.OpOrderCount), signingFrom(options))
}
