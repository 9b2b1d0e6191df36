package alphavantage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"resty.dev/v3"

	companyentity "stockwatch/internal/feature/companyinfo/domain/entity"
	companyusecase "stockwatch/internal/feature/companyinfo/usecase"
	intradayusecase "stockwatch/internal/feature/intraday/usecase"
	listingsusecase "stockwatch/internal/feature/listings/usecase"
	"stockwatch/internal/platform/externalapi/alphavantage/dto"
	"stockwatch/internal/shared/ratelimiter"
	"stockwatch/internal/shared/remote"
)

const intradayInterval = "60min"

// Client はAlphaVantage APIから銘柄一覧・日中足・企業情報を取得します。
type Client struct {
	cfg     Config
	http    *resty.Client
	limiter ratelimiter.RateLimiterInterface
}

// Clientが各フィーチャーのリモートインターフェースを実装していることをコンパイル時に検証します。
var (
	_ listingsusecase.ListingsRemote   = (*Client)(nil)
	_ intradayusecase.IntradayRemote   = (*Client)(nil)
	_ companyusecase.CompanyInfoRemote = (*Client)(nil)
)

// NewClient は hc を使う Client を生成します。
// limiter が nil なら cfg.RequestsPerMinute から生成します。
func NewClient(cfg Config, hc *http.Client, limiter ratelimiter.RateLimiterInterface) *Client {
	if limiter == nil {
		limiter = ratelimiter.NewRateLimiter(cfg.RequestsPerMinute, time.Minute)
	}
	c := resty.NewWithClient(hc).
		SetBaseURL(cfg.BaseURL).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWaitTime).
		SetRetryMaxWaitTime(cfg.RetryMaxWaitTime).
		AddRetryConditions(retryCondition).
		AddRetryHooks(retryHook)

	return &Client{cfg: cfg, http: c, limiter: limiter}
}

// Close は内部のHTTPクライアントを解放します。
func (c *Client) Close() error {
	return c.http.Close()
}

// GetListings は function=LISTING_STATUS のCSVを返します。
func (c *Client) GetListings(ctx context.Context) (io.ReadCloser, error) {
	b, err := c.get(ctx, "text/csv", map[string]string{
		"function": "LISTING_STATUS",
	})
	if err != nil {
		return nil, err
	}
	if err := checkCSV(b); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// GetIntradayInfo は symbol の60分足 (function=TIME_SERIES_INTRADAY) のCSVを返します。
func (c *Client) GetIntradayInfo(ctx context.Context, symbol string) (io.ReadCloser, error) {
	b, err := c.get(ctx, "text/csv", map[string]string{
		"function": "TIME_SERIES_INTRADAY",
		"symbol":   symbol,
		"interval": intradayInterval,
		"datatype": "csv",
	})
	if err != nil {
		return nil, err
	}
	if err := checkCSV(b); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// GetCompanyInfo は symbol の企業情報 (function=OVERVIEW) を返します。
// APIに該当が無い場合は (nil, nil) を返します。
func (c *Client) GetCompanyInfo(ctx context.Context, symbol string) (*companyentity.CompanyInfo, error) {
	b, err := c.get(ctx, "application/json", map[string]string{
		"function": "OVERVIEW",
		"symbol":   symbol,
	})
	if err != nil {
		return nil, err
	}

	var msg dto.APIMessage
	if err := json.Unmarshal(b, &msg); err != nil {
		return nil, remote.Protocol(0, fmt.Sprintf("decode overview: %v", err))
	}
	if text := msg.Text(); text != "" {
		return nil, remote.Protocol(0, text)
	}

	var body dto.OverviewResponse
	if err := json.Unmarshal(b, &body); err != nil {
		return nil, remote.Protocol(0, fmt.Sprintf("decode overview: %v", err))
	}
	if body.Symbol == "" {
		return nil, nil
	}
	return &companyentity.CompanyInfo{
		Symbol:      body.Symbol,
		Name:        body.Name,
		Description: body.Description,
		Country:     body.Country,
		Industry:    body.Industry,
		Address:     body.Address,
	}, nil
}

// get はレート制限を待ってからリクエストし、2xx のボディを返します。
func (c *Client) get(ctx context.Context, accept string, params map[string]string) ([]byte, error) {
	if err := c.limiter.WaitIfNeeded(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", accept).
		SetQueryParams(params).
		SetQueryParam("apikey", c.cfg.APIKey).
		Get("")
	if err != nil {
		slog.Warn("alphavantage request failed", "function", params["function"], "error", err)
		return nil, remote.Connectivity(err)
	}
	if resp.StatusCode() >= 400 {
		slog.Warn("alphavantage returned error status", "function", params["function"], "status", resp.StatusCode())
		return nil, remote.FromStatus(resp.StatusCode())
	}
	// String() は前後の空白を削るため Bytes() を使う
	return resp.Bytes(), nil
}

// checkCSV は CSV を期待したエンドポイントが JSON の通知を返していないか確認します。
func checkCSV(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var msg dto.APIMessage
	if err := json.Unmarshal(trimmed, &msg); err != nil || msg.Text() == "" {
		return remote.Protocol(0, "unexpected JSON payload")
	}
	return remote.Protocol(0, msg.Text())
}

// retryCondition determines whether a request should be retried based on the response and error
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	switch code := r.StatusCode(); {
	case code >= 500, code == http.StatusTooManyRequests, code == http.StatusRequestTimeout:
		return true
	default:
		return false
	}
}

// retryHook logs retry attempts for observability
func retryHook(r *resty.Response, err error) {
	if err != nil {
		slog.Debug("retrying request due to error",
			"url", r.Request.URL,
			"attempt", r.Request.Attempt,
			"error", err.Error())
		return
	}

	slog.Debug("retrying request due to status code",
		"url", r.Request.URL,
		"attempt", r.Request.Attempt,
		"status_code", r.StatusCode())
}
