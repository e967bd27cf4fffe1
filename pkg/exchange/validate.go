package exchange

import (
	"strings"

	"nakula/pkg/core"
)

// required lists the parameters each order type must carry, in the order
// they are reported.
var required = map[core.OrderType][]string{
	core.TypeLimit:           {"timeInForce", "quantity", "price"},
	core.TypeStopLoss:        {"quantity", "stopPrice"},
	core.TypeStopLossLimit:   {"timeInForce", "quantity", "price", "stopPrice"},
	core.TypeTakeProfit:      {"quantity", "stopPrice"},
	core.TypeTakeProfitLimit: {"timeInForce", "quantity", "price", "stopPrice"},
	core.TypeLimitMaker:      {"quantity", "price"},
}

// quoteList renders names as 'a', 'b' or 'c'.
func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	if len(quoted) == 1 {
		return quoted[0]
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
}

func missingError(names []string) error {
	return core.NewValidationError(core.ErrCodeMissingParameter,
		"One of the following argument is undefined: %s", quoteList(names))
}

func exclusiveError(a, b string) error {
	return core.NewValidationError(core.ErrCodeExclusiveParameters,
		"Either '%s' or '%s' must be given", a, b)
}

// exactlyOne reports whether exactly one of the two values is defined.
func exactlyOne(a, b bool) bool {
	return a != b
}

// ValidateSymbol rejects an empty symbol.
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return missingError([]string{"symbol"})
	}
	return nil
}

// ValidateRecvWindow rejects a recvWindow outside 0..60000.
func ValidateRecvWindow(recvWindow *int64) error {
	if recvWindow == nil {
		return nil
	}
	if *recvWindow < 0 || *recvWindow > core.MaxRecvWindow {
		return core.NewValidationError(core.ErrCodeInvalidParameter,
			"'recvWindow' must be between 0 and %d, got %d", core.MaxRecvWindow, *recvWindow)
	}
	return nil
}

// Validate checks that the parameters the order type depends on are present.
func (r *OrderRequest) Validate() error {
	if err := ValidateSymbol(r.Symbol); err != nil {
		return err
	}
	if r.Side == "" || r.Type == "" {
		return missingError([]string{"side", "type"})
	}
	if err := ValidateRecvWindow(r.RecvWindow); err != nil {
		return err
	}

	if r.Type == core.TypeMarket {
		if !exactlyOne(r.Quantity != nil, r.QuoteOrderQty != nil) {
			return exclusiveError("quantity", "quoteOrderQty")
		}
		return nil
	}

	names, ok := required[r.Type]
	if !ok {
		return core.NewValidationError(core.ErrCodeInvalidParameter, "unsupported order type %q", r.Type)
	}
	present := map[string]bool{
		"timeInForce": r.TimeInForce != "",
		"quantity":    r.Quantity != nil,
		"price":       r.Price != nil,
		"stopPrice":   r.StopPrice != nil,
	}
	for _, name := range names {
		if !present[name] {
			return missingError(names)
		}
	}
	return nil
}

// Validate checks the OCO legs. stopLimitPrice turns the stop leg into a
// STOP_LOSS_LIMIT order, which needs stopLimitTimeInForce.
func (r *OCORequest) Validate() error {
	if err := ValidateSymbol(r.Symbol); err != nil {
		return err
	}
	if r.Side == "" || r.Quantity == nil || r.Price == nil || r.StopPrice == nil {
		return missingError([]string{"side", "quantity", "price", "stopPrice"})
	}
	if r.StopLimitPrice != nil && r.StopLimitTimeInForce == "" {
		return missingError([]string{"stopLimitTimeInForce"})
	}
	return ValidateRecvWindow(r.RecvWindow)
}

func (q *OrderQuery) Validate() error {
	if err := ValidateSymbol(q.Symbol); err != nil {
		return err
	}
	if !exactlyOne(q.OrderID != nil, q.OrigClientOrderID != "") {
		return exclusiveError("orderId", "origClientOrderId")
	}
	return ValidateRecvWindow(q.RecvWindow)
}

func (r *CancelRequest) Validate() error {
	if err := ValidateSymbol(r.Symbol); err != nil {
		return err
	}
	if !exactlyOne(r.OrderID != nil, r.OrigClientOrderID != "") {
		return exclusiveError("orderId", "origClientOrderId")
	}
	return ValidateRecvWindow(r.RecvWindow)
}

func (q *OrderListQuery) Validate() error {
	if !exactlyOne(q.OrderListID != nil, q.ListClientOrderID != "") {
		return exclusiveError("orderListId", "listClientOrderId")
	}
	return ValidateRecvWindow(q.RecvWindow)
}

func (r *CancelOCORequest) Validate() error {
	if err := ValidateSymbol(r.Symbol); err != nil {
		return err
	}
	if !exactlyOne(r.OrderListID != nil, r.ListClientOrderID != "") {
		return exclusiveError("orderListId", "listClientOrderId")
	}
	return ValidateRecvWindow(r.RecvWindow)
}
