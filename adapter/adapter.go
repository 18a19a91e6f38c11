// Package adapter is the canonical-facing surface of the module: amounts
// in signed currency sub-units, normalized currency codes, and typed
// errors. It validates inputs, drives the itbit transport, and hands wire
// payloads to the normalize package.
package adapter

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"itbitflow/config"
	"itbitflow/currency"
	"itbitflow/internal/paginate"
	"itbitflow/logger"
	"itbitflow/models"
	"itbitflow/normalize"
)

const orderStatusFilled = "filled"

// Transport is the slice of the itBit REST client the adapter drives.
// *itbit.Client satisfies it.
type Transport interface {
	AddOrder(ctx context.Context, walletID string, order models.NewOrderRequest) (*models.ItBitOrder, error)
	GetOrder(ctx context.Context, walletID, orderID string) (*models.ItBitOrder, error)
	GetWallet(ctx context.Context, walletID string) (*models.ItBitWallet, error)
	GetFundingHistory(ctx context.Context, walletID string, page, perPage int) (*models.FundingHistoryResponse, error)
	GetWalletTrades(ctx context.Context, walletID string, page, perPage int, rangeStart, rangeEnd string) (*models.TradesResponse, error)
	GetOrderBook(ctx context.Context, instrument string) (*models.OrderBookResponse, error)
	GetTicker(ctx context.Context, instrument string) (*models.TickerResponse, error)
}

// TradeRequest describes an order to place. BaseAmount is in signed
// sub-units of the base currency: positive buys, negative sells.
type TradeRequest struct {
	Type          string
	BaseAmount    int64
	BaseCurrency  string
	QuoteCurrency string
	LimitPrice    float64
}

// Exchange is the adapter surface. Every operation returns *Error on
// failure.
type Exchange interface {
	PlaceTrade(ctx context.Context, req TradeRequest) (*models.Order, error)
	GetTrade(ctx context.Context, order *models.Order) (*models.Order, error)
	GetBalance(ctx context.Context) (*models.Balance, error)
	ListTransactions(ctx context.Context, latest *models.Transaction) ([]*models.Transaction, error)
	GetOrderBook(ctx context.Context, baseCurrency, quoteCurrency string) (*models.OrderBook, error)
	GetTicker(ctx context.Context, baseCurrency, quoteCurrency string) (*models.Ticker, error)
}

// ItBit implements Exchange against the itBit REST API.
type ItBit struct {
	cfg       config.ExchangeConfig
	transport Transport
	log       *logger.Entry
}

// New builds the adapter. The transport is injected so tests can run
// against a fake.
func New(cfg config.ExchangeConfig, transport Transport) *ItBit {
	return &ItBit{
		cfg:       cfg,
		transport: transport,
		log:       logger.WithComponent("adapter"),
	}
}

// checkCredentials reports the first missing credential by name so a
// misconfigured deployment fails with an actionable message.
func (a *ItBit) checkCredentials() *Error {
	switch {
	case a.cfg.Key == "":
		return moduleError(nil, "missing credential: key")
	case a.cfg.Secret == "":
		return moduleError(nil, "missing credential: secret")
	case a.cfg.WalletID == "":
		return moduleError(nil, "missing credential: wallet id")
	}
	return nil
}

// PlaceTrade places a limit order. The price is rounded to two decimal
// places and the base amount truncated to the four decimal places the
// exchange accepts; truncation that loses precision is logged, not
// rejected. The order side comes from the sign of BaseAmount.
func (a *ItBit) PlaceTrade(ctx context.Context, req TradeRequest) (*models.Order, error) {
	if err := a.checkCredentials(); err != nil {
		return nil, err
	}
	if req.Type != "limit" {
		return nil, moduleError(nil, "unsupported order type %q", req.Type)
	}
	if req.BaseAmount == 0 {
		return nil, moduleError(nil, "trade amount is zero")
	}
	if req.BaseCurrency == "" || req.QuoteCurrency == "" {
		return nil, moduleError(nil, "trade currency pair is incomplete")
	}
	if req.LimitPrice <= 0 {
		return nil, moduleError(nil, "limit price %v is not positive", req.LimitPrice)
	}

	side := "buy"
	baseAmount := req.BaseAmount
	if baseAmount < 0 {
		side = "sell"
		baseAmount = -baseAmount
	}

	amount := currency.FromSubUnit(baseAmount, req.BaseCurrency)
	truncated := currency.TruncateToTradable(amount)
	if !truncated.Equal(amount) {
		a.log.WithFields(logger.Fields{
			"requested": amount.String(),
			"sent":      truncated.String(),
			"currency":  req.BaseCurrency,
		}).Info("trade amount truncated to tradable precision")
	}
	if truncated.IsZero() {
		return nil, moduleError(nil, "trade amount %s truncates to zero", amount.String())
	}
	price := currency.RoundPrice(decimal.NewFromFloat(req.LimitPrice))

	exchangeCode := currency.ToExchange(req.BaseCurrency)
	wireOrder := models.NewOrderRequest{
		Side:                  side,
		Type:                  req.Type,
		Currency:              exchangeCode,
		Amount:                truncated.StringFixed(4),
		Price:                 price.StringFixed(2),
		Instrument:            exchangeCode + req.QuoteCurrency,
		ClientOrderIdentifier: uuid.New().String(),
	}

	placed, err := a.transport.AddOrder(ctx, a.cfg.WalletID, wireOrder)
	if err != nil {
		return nil, serverError(err, "placing order")
	}

	order, err := normalize.ParseOpenOrder(*placed)
	if err != nil {
		return nil, moduleError(err, "normalizing placed order")
	}
	return order, nil
}

// GetTrade re-fetches an order. An unfilled order maps directly to an
// open record; a filled one is reconciled against the wallet trade
// executions inside a window around its creation time, and the matching
// executions are aggregated into the closed record.
func (a *ItBit) GetTrade(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := a.checkCredentials(); err != nil {
		return nil, err
	}
	if order == nil || order.Raw.ID == "" {
		return nil, moduleError(nil, "order has no exchange id")
	}
	orderID := order.Raw.ID

	wireOrder, err := a.transport.GetOrder(ctx, a.cfg.WalletID, orderID)
	if err != nil {
		return nil, serverError(err, "fetching order %s", orderID)
	}

	if wireOrder.Status != orderStatusFilled {
		order, err := normalize.ParseOpenOrder(*wireOrder)
		if err != nil {
			return nil, moduleError(err, "normalizing order %s", orderID)
		}
		return order, nil
	}

	created, err := normalize.ParseTime(wireOrder.CreatedTime)
	if err != nil {
		return nil, moduleError(err, "order %s created time", orderID)
	}
	rangeStart := normalize.FormatTimestamp(created.Add(-a.timeRangeBeforeCreated()))
	rangeEnd := normalize.FormatTimestamp(created.Add(a.timeRangeAfterCreated()))

	trades, err := paginate.All(ctx, func(ctx context.Context, page, perPage int) (paginate.Page[models.WalletTrade], error) {
		resp, err := a.transport.GetWalletTrades(ctx, a.cfg.WalletID, page, perPage, rangeStart, rangeEnd)
		if err != nil {
			return paginate.Page[models.WalletTrade]{}, err
		}
		return paginate.Page[models.WalletTrade]{
			Items:          resp.TradingHistory,
			CurrentPage:    resp.CurrentPageNumber.Int(),
			RecordsPerPage: resp.RecordsPerPage.Int(),
			TotalRecords:   resp.TotalNumberOfRecords.Int(),
		}, nil
	}, nil, paginate.DefaultPerPage)
	if err != nil {
		return nil, serverError(err, "fetching executions for order %s", orderID)
	}

	var executions []models.WalletTrade
	for _, trade := range trades {
		if trade.OrderID == orderID {
			executions = append(executions, trade)
		}
	}
	// A filled order with no executions in the window is a ledger
	// inconsistency, not a transport failure.
	if len(executions) == 0 {
		return nil, moduleError(nil,
			"order %s is filled but no executions found between %s and %s",
			orderID, rangeStart, rangeEnd)
	}

	closed, err := normalize.ParseClosedOrder(*wireOrder, executions)
	if err != nil {
		return nil, moduleError(err, "normalizing order %s", orderID)
	}
	return closed, nil
}

// GetBalance fetches the wallet and returns per-currency available and
// total balances in sub-units.
func (a *ItBit) GetBalance(ctx context.Context) (*models.Balance, error) {
	if err := a.checkCredentials(); err != nil {
		return nil, err
	}

	wallet, err := a.transport.GetWallet(ctx, a.cfg.WalletID)
	if err != nil {
		return nil, serverError(err, "fetching wallet")
	}

	balance, err := normalize.ParseBalance(*wallet)
	if err != nil {
		return nil, moduleError(err, "normalizing wallet balances")
	}
	return balance, nil
}

// ListTransactions walks the funding history, newest first, and returns
// the deposits and withdrawals strictly newer than the latest known
// transaction. A nil latest returns the full history. Results come back
// in the exchange's newest-first order.
func (a *ItBit) ListTransactions(ctx context.Context, latest *models.Transaction) ([]*models.Transaction, error) {
	if err := a.checkCredentials(); err != nil {
		return nil, err
	}

	watermark := ""
	if latest != nil {
		watermark = latest.Raw.Time
	}

	stop := func(record models.FundingRecord) bool {
		// Raw timestamps are zone-less and fixed width, so the
		// lexicographic order is the chronological order.
		return watermark != "" && strings.Compare(record.Time, watermark) <= 0
	}

	records, err := paginate.All(ctx, func(ctx context.Context, page, perPage int) (paginate.Page[models.FundingRecord], error) {
		resp, err := a.transport.GetFundingHistory(ctx, a.cfg.WalletID, page, perPage)
		if err != nil {
			return paginate.Page[models.FundingRecord]{}, err
		}
		return paginate.Page[models.FundingRecord]{
			Items:          resp.FundingHistory,
			CurrentPage:    resp.CurrentPageNumber.Int(),
			RecordsPerPage: resp.RecordsPerPage.Int(),
			TotalRecords:   resp.TotalNumberOfRecords.Int(),
		}, nil
	}, stop, paginate.DefaultPerPage)
	if err != nil {
		return nil, serverError(err, "fetching funding history")
	}

	result := make([]*models.Transaction, 0, len(records))
	for _, record := range records {
		txn, err := normalize.ParseTransaction(record, a.log)
		if err != nil {
			return nil, moduleError(err, "normalizing transaction")
		}
		result = append(result, txn)
	}
	return result, nil
}

// GetOrderBook fetches the public order book for a currency pair.
func (a *ItBit) GetOrderBook(ctx context.Context, baseCurrency, quoteCurrency string) (*models.OrderBook, error) {
	if baseCurrency == "" || quoteCurrency == "" {
		return nil, moduleError(nil, "currency pair is incomplete")
	}

	instrument := currency.ToExchange(baseCurrency) + quoteCurrency
	book, err := a.transport.GetOrderBook(ctx, instrument)
	if err != nil {
		return nil, serverError(err, "fetching order book for %s", instrument)
	}

	parsed, err := normalize.ParseOrderBook(*book, currency.Normalize(baseCurrency), quoteCurrency)
	if err != nil {
		return nil, moduleError(err, "normalizing order book for %s", instrument)
	}
	return parsed, nil
}

// GetTicker fetches the public market ticker for a currency pair.
func (a *ItBit) GetTicker(ctx context.Context, baseCurrency, quoteCurrency string) (*models.Ticker, error) {
	if baseCurrency == "" || quoteCurrency == "" {
		return nil, moduleError(nil, "currency pair is incomplete")
	}

	instrument := currency.ToExchange(baseCurrency) + quoteCurrency
	ticker, err := a.transport.GetTicker(ctx, instrument)
	if err != nil {
		return nil, serverError(err, "fetching ticker for %s", instrument)
	}

	parsed, err := normalize.ParseTicker(*ticker, currency.Normalize(baseCurrency), quoteCurrency)
	if err != nil {
		return nil, moduleError(err, "normalizing ticker for %s", instrument)
	}
	return parsed, nil
}

func (a *ItBit) timeRangeBeforeCreated() time.Duration {
	if a.cfg.TimeRangeBeforeCreated > 0 {
		return a.cfg.TimeRangeBeforeCreated
	}
	return config.DefaultTimeRangeBeforeCreated
}

func (a *ItBit) timeRangeAfterCreated() time.Duration {
	if a.cfg.TimeRangeAfterCreated > 0 {
		return a.cfg.TimeRangeAfterCreated
	}
	return config.DefaultTimeRangeAfterCreated
}
