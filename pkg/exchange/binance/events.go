package binance

import (
	"github.com/bytedance/sonic"
	"github.com/cockroachdb/apd/v3"

	"nakula/pkg/core"
)

// User data stream event names.
const (
	EventExecutionReport  = "executionReport"
	EventAccountPosition  = "outboundAccountPosition"
	EventBalanceUpdate    = "balanceUpdate"
	EventListStatus       = "listStatus"
	EventListenKeyExpired = "listenKeyExpired"
)

// Stream payloads reuse single letters that differ only by case ("c" and
// "C", "l" and "L"), so keys must match exactly.
var streamJSON = sonic.Config{CaseSensitive: true}.Froze()

// ExecutionReport is sent whenever an order of the account changes.
type ExecutionReport struct {
	EventType           string           `json:"e"`
	EventTime           core.Millis      `json:"E"`
	Symbol              string           `json:"s"`
	ClientOrderID       string           `json:"c"`
	Side                core.OrderSide   `json:"S"`
	Type                core.OrderType   `json:"o"`
	TimeInForce         core.TimeInForce `json:"f"`
	Quantity            apd.Decimal      `json:"q"`
	Price               apd.Decimal      `json:"p"`
	StopPrice           apd.Decimal      `json:"P"`
	IcebergQty          apd.Decimal      `json:"F"`
	OrderListID         int64            `json:"g"`
	OrigClientOrderID   string           `json:"C"`
	ExecutionType       string           `json:"x"`
	Status              core.OrderStatus `json:"X"`
	RejectReason        string           `json:"r"`
	OrderID             int64            `json:"i"`
	LastExecutedQty     apd.Decimal      `json:"l"`
	CumulativeFilledQty apd.Decimal      `json:"z"`
	LastExecutedPrice   apd.Decimal      `json:"L"`
	Commission          apd.Decimal      `json:"n"`
	CommissionAsset     string           `json:"N"`
	TransactionTime     core.Millis      `json:"T"`
	TradeID             int64            `json:"t"`
	IsWorking           bool             `json:"w"`
	IsMaker             bool             `json:"m"`
	CreationTime        core.Millis      `json:"O"`
	CumulativeQuoteQty  apd.Decimal      `json:"Z"`
	LastQuoteQty        apd.Decimal      `json:"Y"`
	QuoteOrderQty       apd.Decimal      `json:"Q"`
}

// StreamBalance is one asset of an account position update.
type StreamBalance struct {
	Asset  string      `json:"a"`
	Free   apd.Decimal `json:"f"`
	Locked apd.Decimal `json:"l"`
}

// AccountPosition carries the balances that changed with an event.
type AccountPosition struct {
	EventType      string          `json:"e"`
	EventTime      core.Millis     `json:"E"`
	LastUpdateTime core.Millis     `json:"u"`
	Balances       []StreamBalance `json:"B"`
}

// BalanceUpdate is sent on deposits, withdrawals and transfers.
type BalanceUpdate struct {
	EventType string      `json:"e"`
	EventTime core.Millis `json:"E"`
	Asset     string      `json:"a"`
	Delta     apd.Decimal `json:"d"`
	ClearTime core.Millis `json:"T"`
}

// ListStatus is sent whenever an OCO order list changes.
type ListStatus struct {
	EventType         string                `json:"e"`
	EventTime         core.Millis           `json:"E"`
	Symbol            string                `json:"s"`
	OrderListID       int64                 `json:"g"`
	ContingencyType   core.ContingencyType  `json:"c"`
	ListStatusType    core.ListStatusType   `json:"l"`
	ListOrderStatus   core.ListOrderStatus  `json:"L"`
	ListRejectReason  string                `json:"r"`
	ListClientOrderID string                `json:"C"`
	TransactionTime   core.Millis           `json:"T"`
	Orders            []StreamListEntry     `json:"O"`
}

// StreamListEntry identifies one order of a list status event.
type StreamListEntry struct {
	Symbol        string `json:"s"`
	OrderID       int64  `json:"i"`
	ClientOrderID string `json:"c"`
}
