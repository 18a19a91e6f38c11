package models

// Canonical records exposed to the trading engine. Amounts are integer
// counts of the currency's smallest sub-unit (satoshi, cent); sign encodes
// direction where direction applies.

// OrderState tracks whether an order is still working or fully settled.
type OrderState string

const (
	OrderStateOpen   OrderState = "open"
	OrderStateClosed OrderState = "closed"
)

// Order is a normalized exchange order. QuoteAmount, FeeAmount and
// FeeCurrency are only populated once the order is closed. BaseAmount is
// negative for sell orders; a closed buy order has a negative QuoteAmount
// since the quote currency flows out.
type Order struct {
	ExternalID    string     `json:"externalId"`
	Type          string     `json:"type"`
	State         OrderState `json:"state"`
	BaseAmount    int64      `json:"baseAmount"`
	BaseCurrency  string     `json:"baseCurrency"`
	QuoteCurrency string     `json:"quoteCurrency"`
	LimitPrice    float64    `json:"limitPrice"`
	QuoteAmount   int64      `json:"quoteAmount,omitempty"`
	FeeAmount     int64      `json:"feeAmount,omitempty"`
	FeeCurrency   string     `json:"feeCurrency,omitempty"`
	Raw           ItBitOrder `json:"raw"`
}

// Balance holds per-currency wallet balances keyed by canonical currency
// code, rebuilt on every fetch.
type Balance struct {
	Available map[string]int64 `json:"available"`
	Total     map[string]int64 `json:"total"`
}

// TransactionState enumerates the ledger states the exchange reports.
// Anything else maps to TransactionStateUnknown with a diagnostic warning.
type TransactionState string

const (
	TransactionStateCompleted TransactionState = "completed"
	TransactionStateCancelled TransactionState = "cancelled"
	TransactionStateRelayed   TransactionState = "relayed"
	TransactionStateUnknown   TransactionState = "unknown"
)

// TransactionType is the ledger entry kind.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

// Transaction is a normalized deposit or withdrawal. ExternalID is a
// derived stable hash, not a remote numeric id; Amount is negative for
// withdrawals; Timestamp is ISO-8601 with a UTC marker.
type Transaction struct {
	ExternalID string           `json:"externalId"`
	State      TransactionState `json:"state"`
	Type       TransactionType  `json:"type"`
	Currency   string           `json:"currency"`
	Amount     int64            `json:"amount"`
	Timestamp  string           `json:"timestamp"`
	ChainTxID  string           `json:"chainTxId,omitempty"`
	Raw        FundingRecord    `json:"raw"`
}

// OrderBookLevel is one price level with its base amount in sub-units.
type OrderBookLevel struct {
	Price      float64 `json:"price"`
	BaseAmount int64   `json:"baseAmount"`
}

// OrderBook keeps the exchange's own level ordering; no re-sorting is done.
type OrderBook struct {
	BaseCurrency  string           `json:"baseCurrency"`
	QuoteCurrency string           `json:"quoteCurrency"`
	Asks          []OrderBookLevel `json:"asks"`
	Bids          []OrderBookLevel `json:"bids"`
}

// Ticker is a normalized market ticker. Volume24Hours is the one field
// expressed in base currency sub-units; the rest stay plain decimals.
type Ticker struct {
	BaseCurrency  string  `json:"baseCurrency"`
	QuoteCurrency string  `json:"quoteCurrency"`
	Bid           float64 `json:"bid"`
	Ask           float64 `json:"ask"`
	LastPrice     float64 `json:"lastPrice"`
	High24Hours   float64 `json:"high24Hours"`
	Low24Hours    float64 `json:"low24Hours"`
	Vwap24Hours   float64 `json:"vwap24Hours"`
	Volume24Hours int64   `json:"volume24Hours"`
}
