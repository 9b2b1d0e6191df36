package usecase

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"stockwatch/internal/feature/intraday/domain/entity"
	"stockwatch/internal/platform/csvdecode"
	"stockwatch/internal/shared/outcome"
	"stockwatch/internal/shared/syncpolicy"
)

// IntradayRepository は日中足のローカルストアを抽象化します。
// 銘柄ごとに1件のまとまりとして保存し、更新時は丸ごと置き換えます。
type IntradayRepository interface {
	// Get は symbol の保存済みサンプルを返します。無い場合は空です。
	Get(ctx context.Context, symbol string) ([]entity.RawSample, error)
	// Replace は symbol のサンプルを1トランザクションで置き換えます。
	Replace(ctx context.Context, symbol string, samples []entity.RawSample) error
}

// IntradayRemote は日中足CSVを返すリモートAPIです。
type IntradayRemote interface {
	GetIntradayInfo(ctx context.Context, symbol string) (io.ReadCloser, error)
}

// Config は IntradayUsecase の動作設定です。
type Config struct {
	// TradingDayStaleness が true の場合、最新サンプルが直近の営業日より古ければ取り直します。
	TradingDayStaleness bool
	// Now は現在時刻を返します。nil なら time.Now です。
	Now func() time.Time
}

// IntradayUsecase は日中足の同期を提供します。
type IntradayUsecase struct {
	repo   IntradayRepository
	remote IntradayRemote
	cfg    Config
	policy *syncpolicy.Policy[[]entity.IntradayInfo]
}

// NewIntradayUsecase はIntradayUsecaseの新しいインスタンスを生成します。
func NewIntradayUsecase(repo IntradayRepository, remote IntradayRemote, cfg Config, opts ...syncpolicy.Option) *IntradayUsecase {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	u := &IntradayUsecase{repo: repo, remote: remote, cfg: cfg}
	u.policy = syncpolicy.New(syncpolicy.Source[[]entity.IntradayInfo]{
		Kind:  "intraday",
		Local: u.local,
		Exists: func(_ string, local []entity.IntradayInfo) bool {
			return len(local) > 0
		},
		ShouldFetch: u.shouldFetch,
		Refresh:     u.refresh,
	}, opts...)
	return u
}

// NormalizeSymbol は前後の空白を除き大文字にした銘柄コードを返します。
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", ErrInvalidSymbol
	}
	return s, nil
}

// Sync は symbol の日中足を時刻の昇順で返し、必要ならリモートから取り直します。
func (u *IntradayUsecase) Sync(ctx context.Context, symbol string, force bool) <-chan outcome.Outcome[[]entity.IntradayInfo] {
	return u.policy.Sync(ctx, strings.ToUpper(strings.TrimSpace(symbol)), force)
}

// IngestAll は symbols の日中足を順に強制更新します。
// 1つの銘柄で失敗しても止めずにログに出力し、次の銘柄へ進みます。
func (u *IntradayUsecase) IngestAll(ctx context.Context, symbols []string) (failed int, err error) {
	for _, raw := range symbols {
		if err := ctx.Err(); err != nil {
			return failed, err
		}
		s, err := NormalizeSymbol(raw)
		if err != nil {
			failed++
			slog.Error("skipping symbol", "symbol", raw, "error", err)
			continue
		}
		var last outcome.Outcome[[]entity.IntradayInfo]
		for o := range u.Sync(ctx, s, true) {
			last = o
		}
		// 取り消されると出力はエラー無しで途切れる
		if err := ctx.Err(); err != nil {
			failed++
			slog.Warn("intraday ingest interrupted", "symbol", s, "error", err)
			return failed, err
		}
		if last.IsError() {
			failed++
			slog.Error("failed to ingest intraday series", "symbol", s, "message", last.Message)
			continue
		}
		slog.Info("ingested intraday series", "symbol", s)
	}
	return failed, ctx.Err()
}

func (u *IntradayUsecase) shouldFetch(_ string, local []entity.IntradayInfo, exists, force bool) bool {
	if !exists || force {
		return true
	}
	return u.cfg.TradingDayStaleness && entity.IsStale(local, u.cfg.Now())
}

// local は保存済みサンプルを解釈し、時刻の昇順に並べて返します。
func (u *IntradayUsecase) local(ctx context.Context, symbol string) ([]entity.IntradayInfo, error) {
	raw, err := u.repo.Get(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: get intraday %s: %w", syncpolicy.ErrLocalStore, symbol, err)
	}

	out := make([]entity.IntradayInfo, 0, len(raw))
	for _, r := range raw {
		info, err := r.Parse()
		if err != nil {
			// 壊れていたら落とす
			slog.Warn("dropping intraday sample with bad timestamp", "symbol", symbol, "timestamp", r.Timestamp, "error", err)
			continue
		}
		out = append(out, info)
	}
	slices.SortStableFunc(out, func(a, b entity.IntradayInfo) int {
		return cmp.Compare(a.Date.UnixNano(), b.Date.UnixNano())
	})
	return out, nil
}

func (u *IntradayUsecase) refresh(ctx context.Context, symbol string) error {
	body, err := u.remote.GetIntradayInfo(ctx, symbol)
	if err != nil {
		return fmt.Errorf("get intraday %s: %w", symbol, err)
	}
	recs := csvdecode.Decode(body, csvdecode.IntradayRow)

	samples := make([]entity.RawSample, 0, len(recs))
	for _, r := range recs {
		samples = append(samples, entity.RawSample{Timestamp: r.Timestamp, High: r.High, Low: r.Low})
	}
	if err := u.repo.Replace(ctx, symbol, samples); err != nil {
		return fmt.Errorf("%w: replace intraday %s: %w", syncpolicy.ErrLocalStore, symbol, err)
	}
	return nil
}
