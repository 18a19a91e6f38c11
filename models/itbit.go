package models

// Wire-level payload shapes of the itBit REST API. Decimal amounts are
// string encoded by the exchange and stay strings here; conversion to
// sub-unit integers happens in the normalize package.

// ItBitOrder is an order as returned by the order endpoints.
type ItBitOrder struct {
	ID                         string            `json:"id"`
	WalletID                   string            `json:"walletId"`
	Side                       string            `json:"side"`
	Instrument                 string            `json:"instrument"`
	Type                       string            `json:"type"`
	Currency                   string            `json:"currency"`
	Amount                     string            `json:"amount"`
	Price                      string            `json:"price"`
	AmountFilled               string            `json:"amountFilled"`
	VolumeWeightedAveragePrice string            `json:"volumeWeightedAveragePrice"`
	CreatedTime                string            `json:"createdTime"`
	Status                     string            `json:"status"`
	Metadata                   map[string]string `json:"metadata,omitempty"`
	ClientOrderIdentifier      string            `json:"clientOrderIdentifier,omitempty"`
}

// NewOrderRequest is the body of the add-order call. Amount and price are
// already rounded to the precision the exchange accepts.
type NewOrderRequest struct {
	Side                  string `json:"side"`
	Type                  string `json:"type"`
	Currency              string `json:"currency"`
	Amount                string `json:"amount"`
	Price                 string `json:"price"`
	Instrument            string `json:"instrument"`
	ClientOrderIdentifier string `json:"clientOrderIdentifier,omitempty"`
}

// ItBitWallet is the wallet detail payload including per-currency balances.
type ItBitWallet struct {
	ID       string               `json:"id"`
	UserID   string               `json:"userId"`
	Name     string               `json:"name"`
	Balances []ItBitWalletBalance `json:"balances"`
}

type ItBitWalletBalance struct {
	Currency         string `json:"currency"`
	AvailableBalance string `json:"availableBalance"`
	TotalBalance     string `json:"totalBalance"`
}

// FundingRecord is one deposit or withdrawal in the funding history ledger.
// WithdrawalID is only present on withdrawals and TxnHash only on
// cryptocurrency deposits.
type FundingRecord struct {
	BankName                    string `json:"bankName,omitempty"`
	WithdrawalID                int64  `json:"withdrawalId,omitempty"`
	HoldingPeriodCompletionDate string `json:"holdingPeriodCompletionDate,omitempty"`
	DestinationAddress          string `json:"destinationAddress,omitempty"`
	TxnHash                     string `json:"txnHash,omitempty"`
	Time                        string `json:"time"`
	Currency                    string `json:"currency"`
	TransactionType             string `json:"transactionType"`
	Amount                      string `json:"amount"`
	WalletName                  string `json:"walletName,omitempty"`
	Status                      string `json:"status"`
}

// FundingHistoryResponse is one page of the funding history ledger.
type FundingHistoryResponse struct {
	TotalNumberOfRecords FlexInt         `json:"totalNumberOfRecords"`
	CurrentPageNumber    FlexInt         `json:"currentPageNumber"`
	LatestExecutionID    string          `json:"latestExecutionId,omitempty"`
	RecordsPerPage       FlexInt         `json:"recordsPerPage"`
	FundingHistory       []FundingRecord `json:"fundingHistory"`
}

// WalletTrade is one trade execution in the wallet trading history.
type WalletTrade struct {
	OrderID            string `json:"orderId"`
	Timestamp          string `json:"timestamp"`
	Instrument         string `json:"instrument"`
	Direction          string `json:"direction"`
	CurrencyOne        string `json:"currency1"`
	Currency1Amount    string `json:"currency1Amount"`
	CurrencyTwo        string `json:"currency2"`
	Currency2Amount    string `json:"currency2Amount"`
	Rate               string `json:"rate"`
	CommissionPaid     string `json:"commissionPaid"`
	CommissionCurrency string `json:"commissionCurrency"`
	RebatesApplied     string `json:"rebatesApplied,omitempty"`
	RebateCurrency     string `json:"rebateCurrency,omitempty"`
}

// TradesResponse is one page of the wallet trading history.
type TradesResponse struct {
	TotalNumberOfRecords FlexInt       `json:"totalNumberOfRecords"`
	CurrentPageNumber    FlexInt       `json:"currentPageNumber"`
	LatestExecutionID    string        `json:"latestExecutionId,omitempty"`
	RecordsPerPage       FlexInt       `json:"recordsPerPage"`
	TradingHistory       []WalletTrade `json:"tradingHistory"`
}

// OrderBookResponse is the raw order book: price levels as
// [priceString, amountString] pairs, best first.
type OrderBookResponse struct {
	Asks [][]string `json:"asks"`
	Bids [][]string `json:"bids"`
}

// TickerResponse is the raw market ticker.
type TickerResponse struct {
	Pair          string `json:"pair"`
	Bid           string `json:"bid"`
	BidAmt        string `json:"bidAmt"`
	Ask           string `json:"ask"`
	AskAmt        string `json:"askAmt"`
	LastPrice     string `json:"lastPrice"`
	LastQuantity  string `json:"lastQuantity"`
	High24h       string `json:"high24h"`
	Low24h        string `json:"low24h"`
	OpenToday     string `json:"openToday"`
	Vwap24h       string `json:"vwap24h"`
	Volume24h     string `json:"volume24h"`
	VolumeToday   string `json:"volumeToday"`
	ServertimeUTC string `json:"serverTimeUTC"`
}

// APIError is the error payload itBit returns on failed requests.
type APIError struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
	RequestID   string `json:"requestId"`
}
