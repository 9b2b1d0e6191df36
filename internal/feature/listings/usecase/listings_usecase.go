package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"stockwatch/internal/feature/listings/domain/entity"
	"stockwatch/internal/platform/csvdecode"
	"stockwatch/internal/shared/outcome"
	"stockwatch/internal/shared/syncpolicy"
)

const (
	// DefaultMoversLimit は上昇・下落ランキングのデフォルト件数です。
	DefaultMoversLimit = 10
	// MaxMoversLimit はランキングの最大件数です。
	MaxMoversLimit = 100

	// 一覧は全件をまとめて置き換えるため、リフレッシュの単位は常に1つです。
	refreshKeyAll = "all"
)

// ListingRepository は銘柄一覧のローカルストアを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type ListingRepository interface {
	// Search は名前または銘柄コードに query を含む一覧を返します。空の query は全件です。
	Search(ctx context.Context, query string) ([]entity.CompanyListing, error)
	// ReplaceAll は一覧を1トランザクションで全件置き換えます。
	ReplaceAll(ctx context.Context, listings []entity.CompanyListing) error
}

// ListingsRemote は銘柄一覧CSVを返すリモートAPIです。
type ListingsRemote interface {
	GetListings(ctx context.Context) (io.ReadCloser, error)
}

// ListingsUsecase は銘柄一覧の同期と検索を提供します。
type ListingsUsecase struct {
	repo   ListingRepository
	remote ListingsRemote
	layout csvdecode.ListingLayout
	policy *syncpolicy.Policy[[]entity.CompanyListing]
}

// NewListingsUsecase は layout で一覧CSVを解釈する ListingsUsecase を生成します。
func NewListingsUsecase(repo ListingRepository, remote ListingsRemote, layout csvdecode.ListingLayout, opts ...syncpolicy.Option) *ListingsUsecase {
	u := &ListingsUsecase{repo: repo, remote: remote, layout: layout}
	u.policy = syncpolicy.New(syncpolicy.Source[[]entity.CompanyListing]{
		Kind:  "listings",
		Local: u.local,
		// 検索語がある場合は0件でも有効な結果として扱う
		Exists: func(query string, local []entity.CompanyListing) bool {
			return len(local) > 0 || query != ""
		},
		ShouldFetch: func(query string, local []entity.CompanyListing, _, force bool) bool {
			return (len(local) == 0 && query == "") || force
		},
		Refresh:    u.refresh,
		RefreshKey: func(string) string { return refreshKeyAll },
	}, opts...)
	return u
}

// Sync はローカルの一覧を返し、必要ならリモートから取り直します。
// 結果のチャネルは同期の終了時に閉じられます。
func (u *ListingsUsecase) Sync(ctx context.Context, query string, force bool) <-chan outcome.Outcome[[]entity.CompanyListing] {
	return u.policy.Sync(ctx, strings.TrimSpace(query), force)
}

// Movers はローカルの一覧から上昇・下落ランキングを返します。リモートには問い合わせません。
func (u *ListingsUsecase) Movers(ctx context.Context, limit int) (gainers, losers []entity.CompanyListing, err error) {
	if limit == 0 {
		limit = DefaultMoversLimit
	}
	if limit < 0 || limit > MaxMoversLimit {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	all, err := u.local(ctx, "")
	if err != nil {
		return nil, nil, err
	}
	return entity.TopGainers(all, limit), entity.TopLosers(all, limit), nil
}

func (u *ListingsUsecase) local(ctx context.Context, query string) ([]entity.CompanyListing, error) {
	ls, err := u.repo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: search listings: %w", syncpolicy.ErrLocalStore, err)
	}
	return ls, nil
}

// refresh はリモートの一覧を取得・デコードし、ローカルを置き換えます。
func (u *ListingsUsecase) refresh(ctx context.Context, _ string) error {
	body, err := u.remote.GetListings(ctx)
	if err != nil {
		return fmt.Errorf("get listings: %w", err)
	}
	recs := csvdecode.Decode(body, csvdecode.ListingRow(u.layout))

	ls := make([]entity.CompanyListing, 0, len(recs))
	for _, r := range recs {
		ls = append(ls, entity.CompanyListing{
			Symbol:             r.Symbol,
			Name:               r.Name,
			Exchange:           r.Exchange,
			Price:              r.Price,
			PriceChange:        r.PriceChange,
			PriceChangePercent: r.PriceChangePercent,
		})
	}
	if err := u.repo.ReplaceAll(ctx, ls); err != nil {
		return fmt.Errorf("%w: replace listings: %w", syncpolicy.ErrLocalStore, err)
	}
	return nil
}
