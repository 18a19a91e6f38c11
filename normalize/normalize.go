// Package normalize maps itBit wire payloads to canonical records. All
// functions are pure: no I/O, and a record is either fully populated or an
// error is returned, never a partial mix.
package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"itbitflow/currency"
	"itbitflow/logger"
	"itbitflow/models"
)

var (
	// ErrUnknownTransactionType marks a funding record whose type is
	// neither Deposit nor Withdrawal.
	ErrUnknownTransactionType = errors.New("unrecognized transaction type")
	// ErrUnknownTransactionShape marks a funding record with no field
	// usable as a unique identity.
	ErrUnknownTransactionShape = errors.New("no unique identifier for transaction")
	// ErrFeeCurrencyMismatch marks executions of one order that disagree
	// on the commission currency.
	ErrFeeCurrencyMismatch = errors.New("executions disagree on commission currency")
)

const (
	sideBuy  = "buy"
	sideSell = "sell"
)

// ParseOpenOrder maps an exchange order to a canonical open Order. The
// base currency comes from the first three characters of the instrument,
// the quote currency from the rest; a sell order gets a negative base
// amount.
func ParseOpenOrder(order models.ItBitOrder) (*models.Order, error) {
	if order.ID == "" {
		return nil, fmt.Errorf("order has no id")
	}
	if len(order.Instrument) < 4 {
		return nil, fmt.Errorf("order %s has malformed instrument %q", order.ID, order.Instrument)
	}

	baseCurrency := currency.Normalize(order.Instrument[:3])
	quoteCurrency := order.Instrument[3:]

	baseAmount, err := currency.ParseToSubUnit(order.Amount, baseCurrency)
	if err != nil {
		return nil, fmt.Errorf("order %s amount: %w", order.ID, err)
	}
	if order.Side == sideSell {
		baseAmount = -baseAmount
	}

	price, err := decimal.NewFromString(order.Price)
	if err != nil {
		return nil, fmt.Errorf("order %s price: %w", order.ID, err)
	}

	return &models.Order{
		ExternalID:    order.ID,
		Type:          order.Type,
		State:         models.OrderStateOpen,
		BaseAmount:    baseAmount,
		BaseCurrency:  baseCurrency,
		QuoteCurrency: quoteCurrency,
		LimitPrice:    price.InexactFloat64(),
		Raw:           order,
	}, nil
}

// ParseClosedOrder aggregates the trade executions that filled an order
// into a closed Order: the quote amounts and commissions are summed, the
// summed quote amount is negated on a buy since the quote currency flows
// out. All executions must agree on a single commission currency.
func ParseClosedOrder(order models.ItBitOrder, executions []models.WalletTrade) (*models.Order, error) {
	result, err := ParseOpenOrder(order)
	if err != nil {
		return nil, err
	}

	quoteSum := decimal.Zero
	feeSum := decimal.Zero
	feeCurrency := ""

	for _, exec := range executions {
		amount, err := decimal.NewFromString(exec.Currency2Amount)
		if err != nil {
			return nil, fmt.Errorf("execution for order %s currency2Amount: %w", order.ID, err)
		}
		commission, err := decimal.NewFromString(exec.CommissionPaid)
		if err != nil {
			return nil, fmt.Errorf("execution for order %s commissionPaid: %w", order.ID, err)
		}
		if feeCurrency != "" && exec.CommissionCurrency != feeCurrency {
			return nil, fmt.Errorf("order %s: %w: %q vs %q",
				order.ID, ErrFeeCurrencyMismatch, feeCurrency, exec.CommissionCurrency)
		}
		feeCurrency = exec.CommissionCurrency

		quoteSum = quoteSum.Add(amount)
		feeSum = feeSum.Add(commission)
	}

	quoteAmount := currency.ToSubUnit(quoteSum, result.QuoteCurrency)
	if order.Side == sideBuy {
		quoteAmount = -quoteAmount
	}

	result.State = models.OrderStateClosed
	result.QuoteAmount = quoteAmount
	result.FeeAmount = currency.ToSubUnit(feeSum, currency.Normalize(feeCurrency))
	result.FeeCurrency = currency.Normalize(feeCurrency)

	return result, nil
}

// ParseBalance converts every wallet balance entry to sub-units keyed by
// canonical currency code.
func ParseBalance(wallet models.ItBitWallet) (*models.Balance, error) {
	result := &models.Balance{
		Available: make(map[string]int64, len(wallet.Balances)),
		Total:     make(map[string]int64, len(wallet.Balances)),
	}

	for _, balance := range wallet.Balances {
		code := currency.Normalize(balance.Currency)

		available, err := currency.ParseToSubUnit(balance.AvailableBalance, code)
		if err != nil {
			return nil, fmt.Errorf("balance %s availableBalance: %w", code, err)
		}
		total, err := currency.ParseToSubUnit(balance.TotalBalance, code)
		if err != nil {
			return nil, fmt.Errorf("balance %s totalBalance: %w", code, err)
		}

		result.Available[code] = available
		result.Total[code] = total
	}

	return result, nil
}

// ParseTransaction maps a funding record to a canonical Transaction. An
// unrecognized status is kept, flagged as unknown and logged through the
// supplied entry; an unrecognized type is a hard failure. Withdrawals get
// a negative amount.
func ParseTransaction(record models.FundingRecord, log *logger.Entry) (*models.Transaction, error) {
	var state models.TransactionState
	switch record.Status {
	case "completed":
		state = models.TransactionStateCompleted
	case "cancelled":
		state = models.TransactionStateCancelled
	case "relayed":
		state = models.TransactionStateRelayed
	default:
		state = models.TransactionStateUnknown
		if log != nil {
			log.WithFields(logger.Fields{
				"status":   record.Status,
				"currency": record.Currency,
				"time":     record.Time,
			}).Warn("transaction status not recognized")
		}
	}

	var txType models.TransactionType
	switch strings.ToLower(record.TransactionType) {
	case "withdrawal":
		txType = models.TransactionTypeWithdrawal
	case "deposit":
		txType = models.TransactionTypeDeposit
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransactionType, record.TransactionType)
	}

	externalID, err := TransactionID(record)
	if err != nil {
		return nil, err
	}

	code := currency.Normalize(record.Currency)
	amount, err := currency.ParseToSubUnit(record.Amount, code)
	if err != nil {
		return nil, fmt.Errorf("transaction amount: %w", err)
	}
	if txType == models.TransactionTypeWithdrawal {
		amount = -amount
	}

	timestamp, err := NormalizeTimestamp(record.Time)
	if err != nil {
		return nil, fmt.Errorf("transaction time: %w", err)
	}

	return &models.Transaction{
		ExternalID: externalID,
		State:      state,
		Type:       txType,
		Currency:   code,
		Amount:     amount,
		Timestamp:  timestamp,
		ChainTxID:  record.TxnHash,
		Raw:        record,
	}, nil
}

// ParseOrderBook maps raw [price, amount] level pairs to typed levels with
// sub-unit base amounts, keeping the exchange's ordering. Missing sides
// default to empty.
func ParseOrderBook(book models.OrderBookResponse, baseCurrency, quoteCurrency string) (*models.OrderBook, error) {
	asks, err := parseLevels(book.Asks, baseCurrency)
	if err != nil {
		return nil, fmt.Errorf("asks: %w", err)
	}
	bids, err := parseLevels(book.Bids, baseCurrency)
	if err != nil {
		return nil, fmt.Errorf("bids: %w", err)
	}

	return &models.OrderBook{
		BaseCurrency:  baseCurrency,
		QuoteCurrency: quoteCurrency,
		Asks:          asks,
		Bids:          bids,
	}, nil
}

func parseLevels(levels [][]string, baseCurrency string) ([]models.OrderBookLevel, error) {
	result := make([]models.OrderBookLevel, 0, len(levels))
	for i, level := range levels {
		if len(level) < 2 {
			return nil, fmt.Errorf("level %d has %d fields, want 2", i, len(level))
		}
		price, err := decimal.NewFromString(level[0])
		if err != nil {
			return nil, fmt.Errorf("level %d price: %w", i, err)
		}
		amount, err := currency.ParseToSubUnit(level[1], baseCurrency)
		if err != nil {
			return nil, fmt.Errorf("level %d amount: %w", i, err)
		}
		result = append(result, models.OrderBookLevel{
			Price:      price.InexactFloat64(),
			BaseAmount: amount,
		})
	}
	return result, nil
}

// ParseTicker maps the raw market ticker. The 24 hour volume is the one
// field converted to base currency sub-units; everything else stays a
// plain decimal.
func ParseTicker(ticker models.TickerResponse, baseCurrency, quoteCurrency string) (*models.Ticker, error) {
	fields := []struct {
		name  string
		value string
	}{
		{"bid", ticker.Bid},
		{"ask", ticker.Ask},
		{"lastPrice", ticker.LastPrice},
		{"high24h", ticker.High24h},
		{"low24h", ticker.Low24h},
		{"vwap24h", ticker.Vwap24h},
	}

	result := &models.Ticker{
		BaseCurrency:  baseCurrency,
		QuoteCurrency: quoteCurrency,
	}
	outs := []*float64{&result.Bid, &result.Ask, &result.LastPrice,
		&result.High24Hours, &result.Low24Hours, &result.Vwap24Hours}

	for i, f := range fields {
		d, err := decimal.NewFromString(f.value)
		if err != nil {
			return nil, fmt.Errorf("ticker %s: %w", f.name, err)
		}
		*outs[i] = d.InexactFloat64()
	}

	volume, err := currency.ParseToSubUnit(ticker.Volume24h, baseCurrency)
	if err != nil {
		return nil, fmt.Errorf("ticker volume24h: %w", err)
	}
	result.Volume24Hours = volume

	return result, nil
}
