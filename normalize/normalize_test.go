package normalize

import (
	"errors"
	"strings"
	"testing"

	"itbitflow/models"
)

func openOrderFixture() models.ItBitOrder {
	return models.ItBitOrder{
		ID:                         "148ffda4-83a0-4033-a5bb-8929d523f59f",
		WalletID:                   "7e037345-1288-4c39-12fe-d0f99a475a98",
		Side:                       "buy",
		Instrument:                 "XBTUSD",
		Type:                       "limit",
		Currency:                   "XBT",
		Amount:                     "0.0010",
		Price:                      "400.99",
		AmountFilled:               "0",
		VolumeWeightedAveragePrice: "0",
		CreatedTime:                "2014-02-11T17:05:15Z",
		Status:                     "submitted",
	}
}

func TestParseOpenOrderBuy(t *testing.T) {
	order, err := ParseOpenOrder(openOrderFixture())
	if err != nil {
		t.Fatalf("ParseOpenOrder failed: %v", err)
	}
	if order.ExternalID != "148ffda4-83a0-4033-a5bb-8929d523f59f" {
		t.Errorf("externalId = %s", order.ExternalID)
	}
	if order.Type != "limit" {
		t.Errorf("type = %s", order.Type)
	}
	if order.State != models.OrderStateOpen {
		t.Errorf("state = %s", order.State)
	}
	if order.BaseAmount != 100000 {
		t.Errorf("baseAmount = %d, want 100000", order.BaseAmount)
	}
	if order.BaseCurrency != "BTC" {
		t.Errorf("baseCurrency = %s", order.BaseCurrency)
	}
	if order.QuoteCurrency != "USD" {
		t.Errorf("quoteCurrency = %s", order.QuoteCurrency)
	}
	if order.LimitPrice != 400.99 {
		t.Errorf("limitPrice = %v", order.LimitPrice)
	}
	if order.QuoteAmount != 0 || order.FeeAmount != 0 || order.FeeCurrency != "" {
		t.Error("open order must not carry settlement fields")
	}
}

func TestParseOpenOrderSellNegatesBaseAmount(t *testing.T) {
	fixture := openOrderFixture()
	fixture.Side = "sell"

	order, err := ParseOpenOrder(fixture)
	if err != nil {
		t.Fatalf("ParseOpenOrder failed: %v", err)
	}
	if order.BaseAmount != -100000 {
		t.Errorf("baseAmount = %d, want -100000", order.BaseAmount)
	}
}

func TestParseOpenOrderRejectsBadPayloads(t *testing.T) {
	fixture := openOrderFixture()
	fixture.Instrument = "XBT"
	if _, err := ParseOpenOrder(fixture); err == nil {
		t.Error("expected error for short instrument")
	}

	fixture = openOrderFixture()
	fixture.Amount = "oops"
	if _, err := ParseOpenOrder(fixture); err == nil {
		t.Error("expected error for bad amount")
	}

	fixture = openOrderFixture()
	fixture.ID = ""
	if _, err := ParseOpenOrder(fixture); err == nil {
		t.Error("expected error for missing id")
	}
}

func executionsFixture() []models.WalletTrade {
	return []models.WalletTrade{
		{
			OrderID:            "248ffda4-83a0-4033-a5bb-8929d523f59f",
			Timestamp:          "2015-05-11T14:48:01.9870000Z",
			Instrument:         "XBTUSD",
			Direction:          "buy",
			CurrencyOne:        "XBT",
			Currency1Amount:    "0.00010000",
			CurrencyTwo:        "USD",
			Currency2Amount:    "200.0250530000000000",
			Rate:               "250.53000000",
			CommissionPaid:     "0.0200000",
			CommissionCurrency: "USD",
		},
		{
			OrderID:            "248ffda4-83a0-4033-a5bb-8929d523f59f",
			Timestamp:          "2015-05-01T16:12:26.4670000Z",
			Instrument:         "XBTUSD",
			Direction:          "buy",
			CurrencyOne:        "XBT",
			Currency1Amount:    "10.00000000",
			CurrencyTwo:        "USD",
			Currency2Amount:    "1955.3000000000000000",
			Rate:               "195.53000000",
			CommissionPaid:     "0.00000000",
			CommissionCurrency: "USD",
		},
	}
}

func TestParseClosedOrderAggregatesExecutions(t *testing.T) {
	fixture := openOrderFixture()
	fixture.ID = "248ffda4-83a0-4033-a5bb-8929d523f59f"
	fixture.Status = "filled"

	order, err := ParseClosedOrder(fixture, executionsFixture())
	if err != nil {
		t.Fatalf("ParseClosedOrder failed: %v", err)
	}
	if order.State != models.OrderStateClosed {
		t.Errorf("state = %s", order.State)
	}
	if order.BaseAmount != 100000 {
		t.Errorf("baseAmount = %d", order.BaseAmount)
	}
	// 200.025053 + 1955.30 = 2155.325053 USD -> 215533 cents, negated on buy
	if order.QuoteAmount != -215533 {
		t.Errorf("quoteAmount = %d, want -215533", order.QuoteAmount)
	}
	if order.FeeAmount != 2 {
		t.Errorf("feeAmount = %d, want 2", order.FeeAmount)
	}
	if order.FeeCurrency != "USD" {
		t.Errorf("feeCurrency = %s", order.FeeCurrency)
	}
}

func TestParseClosedOrderSellKeepsQuotePositive(t *testing.T) {
	fixture := openOrderFixture()
	fixture.Side = "sell"
	fixture.Status = "filled"

	order, err := ParseClosedOrder(fixture, executionsFixture())
	if err != nil {
		t.Fatalf("ParseClosedOrder failed: %v", err)
	}
	if order.QuoteAmount != 215533 {
		t.Errorf("quoteAmount = %d, want 215533", order.QuoteAmount)
	}
	if order.BaseAmount != -100000 {
		t.Errorf("baseAmount = %d, want -100000", order.BaseAmount)
	}
}

func TestParseClosedOrderFeeCurrencyMismatch(t *testing.T) {
	execs := executionsFixture()
	execs[1].CommissionCurrency = "EUR"

	_, err := ParseClosedOrder(openOrderFixture(), execs)
	if !errors.Is(err, ErrFeeCurrencyMismatch) {
		t.Fatalf("expected fee currency mismatch, got %v", err)
	}
}

func TestParseBalance(t *testing.T) {
	wallet := models.ItBitWallet{
		ID:     "7e037345-1288-4c39-12fe-d0f99a475a98",
		UserID: "5591e419-a356-4fc0-b43c-3c84c2fd8013",
		Name:   "My New Wallet",
		Balances: []models.ItBitWalletBalance{
			{Currency: "USD", AvailableBalance: "50000.0000000", TotalBalance: "50000.0000000"},
			{Currency: "XBT", AvailableBalance: "100.0000010", TotalBalance: "100.0000000"},
		},
	}

	balance, err := ParseBalance(wallet)
	if err != nil {
		t.Fatalf("ParseBalance failed: %v", err)
	}
	if balance.Available["USD"] != 5000000 {
		t.Errorf("available USD = %d", balance.Available["USD"])
	}
	if balance.Available["BTC"] != 10000000100 {
		t.Errorf("available BTC = %d, want 10000000100", balance.Available["BTC"])
	}
	if balance.Total["BTC"] != 10000000000 {
		t.Errorf("total BTC = %d, want 10000000000", balance.Total["BTC"])
	}
	if _, ok := balance.Available["XBT"]; ok {
		t.Error("exchange currency code leaked into balance")
	}
}

func withdrawalFixture() models.FundingRecord {
	return models.FundingRecord{
		BankName:                    "test",
		WithdrawalID:                19,
		HoldingPeriodCompletionDate: "2015-02-21T23:43:37.1230000",
		Time:                        "2015-02-18T23:43:37.1230000",
		Currency:                    "EUR",
		TransactionType:             "Withdrawal",
		Amount:                      "100.00000000",
		WalletName:                  "Wallet",
		Status:                      "completed",
	}
}

func TestParseTransactionWithdrawal(t *testing.T) {
	txn, err := ParseTransaction(withdrawalFixture(), nil)
	if err != nil {
		t.Fatalf("ParseTransaction failed: %v", err)
	}
	if txn.Type != models.TransactionTypeWithdrawal {
		t.Errorf("type = %s", txn.Type)
	}
	if txn.State != models.TransactionStateCompleted {
		t.Errorf("state = %s", txn.State)
	}
	if txn.Amount != -10000 {
		t.Errorf("amount = %d, want -10000", txn.Amount)
	}
	if txn.Currency != "EUR" {
		t.Errorf("currency = %s", txn.Currency)
	}
	// sha256("19")
	if txn.ExternalID != "9400f1b21cb527d7fa3d3eabba93557a18ebe7a2ca4e471cfe5e4c5b4ca7f767" {
		t.Errorf("externalId = %s", txn.ExternalID)
	}
	if txn.Timestamp != "2015-02-18T23:43:37.123Z" {
		t.Errorf("timestamp = %s", txn.Timestamp)
	}
}

func TestParseTransactionBtcDeposit(t *testing.T) {
	record := models.FundingRecord{
		Time:            "2015-03-21T17:37:39.9170000",
		Currency:        "XBT",
		TransactionType: "Deposit",
		Amount:          "0.50000000",
		Status:          "relayed",
		TxnHash:         "abcdef0123456789",
	}

	txn, err := ParseTransaction(record, nil)
	if err != nil {
		t.Fatalf("ParseTransaction failed: %v", err)
	}
	if txn.Type != models.TransactionTypeDeposit {
		t.Errorf("type = %s", txn.Type)
	}
	if txn.State != models.TransactionStateRelayed {
		t.Errorf("state = %s", txn.State)
	}
	if txn.Currency != "BTC" {
		t.Errorf("currency = %s", txn.Currency)
	}
	if txn.Amount != 50000000 {
		t.Errorf("amount = %d, want 50000000", txn.Amount)
	}
	if txn.ChainTxID != "abcdef0123456789" {
		t.Errorf("chainTxId = %s", txn.ChainTxID)
	}
	// sha256("abcdef0123456789")
	if txn.ExternalID != "f445801e0cb899262c9b9e219836880d73ca2d1b0b9c15fb959c90eb121234e3" {
		t.Errorf("externalId = %s", txn.ExternalID)
	}
}

func TestParseTransactionFiatDepositID(t *testing.T) {
	record := models.FundingRecord{
		Time:            "2015-02-18T23:43:37.1230000",
		Currency:        "EUR",
		TransactionType: "Deposit",
		Amount:          "250.00",
		Status:          "completed",
	}

	txn, err := ParseTransaction(record, nil)
	if err != nil {
		t.Fatalf("ParseTransaction failed: %v", err)
	}
	// sha256("2015-02-18T23:43:37.1230000-EUR"): the amount is deliberately
	// not part of the identity key.
	if txn.ExternalID != "a1e92ec08bedf07ce4707ca00a9f648f4bb54f299e7d0e5ae83b1440333dac2f" {
		t.Errorf("externalId = %s", txn.ExternalID)
	}

	record.Amount = "250.000000"
	again, err := ParseTransaction(record, nil)
	if err != nil {
		t.Fatalf("ParseTransaction failed: %v", err)
	}
	if again.ExternalID != txn.ExternalID {
		t.Error("externalId changed with amount formatting")
	}
}

func TestParseTransactionUnknownStatus(t *testing.T) {
	record := withdrawalFixture()
	record.Status = "pending_admin_approval"

	txn, err := ParseTransaction(record, nil)
	if err != nil {
		t.Fatalf("ParseTransaction failed: %v", err)
	}
	if txn.State != models.TransactionStateUnknown {
		t.Errorf("state = %s, want unknown", txn.State)
	}
}

func TestParseTransactionUnknownType(t *testing.T) {
	record := withdrawalFixture()
	record.TransactionType = "Transfer"

	_, err := ParseTransaction(record, nil)
	if !errors.Is(err, ErrUnknownTransactionType) {
		t.Fatalf("expected unknown type error, got %v", err)
	}
}

func TestTransactionIDUnknownShape(t *testing.T) {
	record := models.FundingRecord{
		TransactionType: "Deposit",
		Amount:          "1.00",
	}

	_, err := TransactionID(record)
	if !errors.Is(err, ErrUnknownTransactionShape) {
		t.Fatalf("expected unknown shape error, got %v", err)
	}
}

func TestNormalizeTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2015-02-18T23:43:37.1230000", "2015-02-18T23:43:37.123Z"},
		{"2015-02-18T23:43:37.1230000Z", "2015-02-18T23:43:37.123Z"},
		{"2014-02-11T17:05:15Z", "2014-02-11T17:05:15.000Z"},
		{"2015-02-18T23:43:37.123+02:00", "2015-02-18T21:43:37.123Z"},
	}
	for _, c := range cases {
		got, err := NormalizeTimestamp(c.in)
		if err != nil {
			t.Fatalf("NormalizeTimestamp(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("NormalizeTimestamp(%q) = %s, want %s", c.in, got, c.want)
		}
	}

	if _, err := NormalizeTimestamp("yesterday"); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
	if _, err := NormalizeTimestamp(""); err == nil {
		t.Error("expected error for empty timestamp")
	}
}

func TestParseOrderBook(t *testing.T) {
	book := models.OrderBookResponse{
		Bids: [][]string{
			{"420.24", "60.1103"},
			{"419.98", "23.739"},
			{"419.97", "15.92"},
			{"419.95", "0.251"},
		},
		Asks: [][]string{
			{"420.32", "25"},
			{"420.43", "7"},
			{"420.96", "58.7777"},
			{"421.16", "1.544"},
		},
	}

	parsed, err := ParseOrderBook(book, "BTC", "USD")
	if err != nil {
		t.Fatalf("ParseOrderBook failed: %v", err)
	}
	if parsed.BaseCurrency != "BTC" || parsed.QuoteCurrency != "USD" {
		t.Errorf("pair = %s/%s", parsed.BaseCurrency, parsed.QuoteCurrency)
	}
	if len(parsed.Asks) != 4 || len(parsed.Bids) != 4 {
		t.Fatalf("levels = %d asks, %d bids", len(parsed.Asks), len(parsed.Bids))
	}
	if parsed.Bids[0].Price != 420.24 || parsed.Bids[0].BaseAmount != 6011030000 {
		t.Errorf("bid[0] = %+v", parsed.Bids[0])
	}
	if parsed.Asks[0].Price != 420.32 || parsed.Asks[0].BaseAmount != 2500000000 {
		t.Errorf("ask[0] = %+v", parsed.Asks[0])
	}
	// Input ordering must be preserved, not re-sorted.
	if parsed.Bids[3].Price != 419.95 {
		t.Errorf("bid[3] = %+v", parsed.Bids[3])
	}
}

func TestParseOrderBookMissingSides(t *testing.T) {
	parsed, err := ParseOrderBook(models.OrderBookResponse{}, "BTC", "USD")
	if err != nil {
		t.Fatalf("ParseOrderBook failed: %v", err)
	}
	if len(parsed.Asks) != 0 || len(parsed.Bids) != 0 {
		t.Errorf("expected empty sides, got %d asks %d bids", len(parsed.Asks), len(parsed.Bids))
	}
}

func TestParseOrderBookMalformedLevel(t *testing.T) {
	book := models.OrderBookResponse{Asks: [][]string{{"420.32"}}}
	if _, err := ParseOrderBook(book, "BTC", "USD"); err == nil {
		t.Fatal("expected error for short level")
	}
	if _, err := ParseOrderBook(models.OrderBookResponse{
		Asks: [][]string{{"420.32", "umpteen"}},
	}, "BTC", "USD"); err == nil {
		t.Fatal("expected error for bad amount")
	}
}

func TestParseTicker(t *testing.T) {
	ticker := models.TickerResponse{
		Pair:      "XBTUSD",
		Bid:       "622",
		BidAmt:    "0.0006",
		Ask:       "641.29",
		AskAmt:    "0.5",
		LastPrice: "618.00000000",
		High24h:   "637.00000000",
		Low24h:    "583.00000000",
		Vwap24h:   "612.00000000",
		Volume24h: "0.25000000",
	}

	parsed, err := ParseTicker(ticker, "BTC", "USD")
	if err != nil {
		t.Fatalf("ParseTicker failed: %v", err)
	}
	if parsed.Bid != 622 || parsed.Ask != 641.29 {
		t.Errorf("bid/ask = %v/%v", parsed.Bid, parsed.Ask)
	}
	if parsed.LastPrice != 618 {
		t.Errorf("lastPrice = %v", parsed.LastPrice)
	}
	// Volume is the one field converted to sub-units.
	if parsed.Volume24Hours != 25000000 {
		t.Errorf("volume24Hours = %d, want 25000000", parsed.Volume24Hours)
	}
	if parsed.Vwap24Hours != 612 {
		t.Errorf("vwap24Hours = %v", parsed.Vwap24Hours)
	}
}

func TestParseTickerBadField(t *testing.T) {
	ticker := models.TickerResponse{
		Bid: "n/a", Ask: "1", LastPrice: "1", High24h: "1", Low24h: "1",
		Vwap24h: "1", Volume24h: "1",
	}
	_, err := ParseTicker(ticker, "BTC", "USD")
	if err == nil || !strings.Contains(err.Error(), "bid") {
		t.Fatalf("expected bid parse error, got %v", err)
	}
}
