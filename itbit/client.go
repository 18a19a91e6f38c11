// Package itbit is the REST transport for the itBit exchange. It signs
// private requests, applies the configured rate limit, and decodes wire
// payloads into models types. Interpreting those payloads is left to the
// normalize package.
package itbit

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"itbitflow/config"
	"itbitflow/logger"
	"itbitflow/models"
)

const (
	endpointWallets = "wallets"
	endpointMarkets = "markets"
)

// Client talks to the itBit REST API. All exported methods honor the
// context and block on the rate limiter before sending.
type Client struct {
	baseURL    string
	key        string
	secret     string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Entry

	// test hook, defaults to time.Now
	now func() time.Time
}

// NewClient builds a Client from the exchange section of the config. The
// HTTP transport is pooled per the connection pool settings.
func NewClient(cfg config.ExchangeConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Server, "/"),
		key:     cfg.Key,
		secret:  cfg.Secret,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:    cfg.ConnectionPool.MaxIdleConns,
				MaxConnsPerHost: cfg.ConnectionPool.MaxConnsPerHost,
				IdleConnTimeout: cfg.ConnectionPool.IdleConnTimeout,
			},
		},
		limiter: rate.NewLimiter(
			rate.Limit(cfg.RateLimit.RequestsPerSecond),
			cfg.RateLimit.BurstSize),
		log: logger.WithComponent("itbit"),
		now: time.Now,
	}
}

// AddOrder places a new order in the wallet.
func (c *Client) AddOrder(ctx context.Context, walletID string, order models.NewOrderRequest) (*models.ItBitOrder, error) {
	var result models.ItBitOrder
	path := fmt.Sprintf("%s/%s/orders", endpointWallets, walletID)
	if err := c.do(ctx, http.MethodPost, path, nil, order, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetOrder fetches a single order by id.
func (c *Client) GetOrder(ctx context.Context, walletID, orderID string) (*models.ItBitOrder, error) {
	var result models.ItBitOrder
	path := fmt.Sprintf("%s/%s/orders/%s", endpointWallets, walletID, orderID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetWallet fetches the wallet detail including all currency balances.
func (c *Client) GetWallet(ctx context.Context, walletID string) (*models.ItBitWallet, error) {
	var result models.ItBitWallet
	path := fmt.Sprintf("%s/%s", endpointWallets, walletID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetFundingHistory fetches one page of the wallet funding history,
// newest records first.
func (c *Client) GetFundingHistory(ctx context.Context, walletID string, page, perPage int) (*models.FundingHistoryResponse, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("perPage", strconv.Itoa(perPage))

	var result models.FundingHistoryResponse
	path := fmt.Sprintf("%s/%s/funding_history", endpointWallets, walletID)
	if err := c.do(ctx, http.MethodGet, path, params, nil, &result); err != nil {
		return nil, err
	}
	logger.RecordPage("funding_history")
	return &result, nil
}

// GetWalletTrades fetches one page of the wallet trade executions inside
// [rangeStart, rangeEnd], newest first. The range bounds are ISO 8601
// timestamps; empty bounds are omitted.
func (c *Client) GetWalletTrades(ctx context.Context, walletID string, page, perPage int, rangeStart, rangeEnd string) (*models.TradesResponse, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("perPage", strconv.Itoa(perPage))
	if rangeStart != "" {
		params.Set("rangeStart", rangeStart)
	}
	if rangeEnd != "" {
		params.Set("rangeEnd", rangeEnd)
	}

	var result models.TradesResponse
	path := fmt.Sprintf("%s/%s/trades", endpointWallets, walletID)
	if err := c.do(ctx, http.MethodGet, path, params, nil, &result); err != nil {
		return nil, err
	}
	logger.RecordPage("trades")
	return &result, nil
}

// GetOrderBook fetches the public order book for an instrument, e.g.
// XBTUSD. No authentication is attached.
func (c *Client) GetOrderBook(ctx context.Context, instrument string) (*models.OrderBookResponse, error) {
	var result models.OrderBookResponse
	path := fmt.Sprintf("%s/%s/order_book", endpointMarkets, instrument)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTicker fetches the public market ticker for an instrument.
func (c *Client) GetTicker(ctx context.Context, instrument string) (*models.TickerResponse, error) {
	var result models.TickerResponse
	path := fmt.Sprintf("%s/%s/ticker", endpointMarkets, instrument)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	fullURL := c.baseURL + "/" + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var bodyJSON []byte
	if body != nil {
		var err error
		bodyJSON, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bytes.NewReader(bodyJSON))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	// Public market data endpoints are unsigned.
	if !strings.HasPrefix(path, endpointMarkets) {
		if err := c.sign(req, fullURL, string(bodyJSON)); err != nil {
			return err
		}
	}

	logger.RecordRequest(strings.SplitN(path, "/", 2)[0])
	c.log.WithFields(logger.Fields{"method": method, "path": path}).Debug("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr models.APIError
		if json.Unmarshal(payload, &apiErr) == nil && apiErr.Description != "" {
			return fmt.Errorf("%s %s: status %d: code %d: %s",
				method, path, resp.StatusCode, apiErr.Code, apiErr.Description)
		}
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, payload)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(payload, result); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// sign attaches itBit's authentication headers. The signature covers the
// method, full URL, body, a nonce and a millisecond timestamp: the tuple
// is JSON-encoded, hashed with SHA-256 keyed by the nonce, and the URL
// plus hash is HMAC-SHA512 signed with the API secret.
func (c *Client) sign(req *http.Request, fullURL, body string) error {
	timestamp := strconv.FormatInt(c.now().UnixMilli(), 10)
	nonce, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return err
	}
	nonceStr := strconv.FormatInt(nonce-1, 10)

	message, err := json.Marshal([]string{req.Method, fullURL, body, nonceStr, timestamp})
	if err != nil {
		return err
	}

	hash := sha256.Sum256(append([]byte(nonceStr), message...))
	mac := hmac.New(sha512.New, []byte(c.secret))
	mac.Write(append([]byte(fullURL), hash[:]...))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	req.Header.Set("Authorization", c.key+":"+signature)
	req.Header.Set("X-Auth-Timestamp", timestamp)
	req.Header.Set("X-Auth-Nonce", nonceStr)
	return nil
}
