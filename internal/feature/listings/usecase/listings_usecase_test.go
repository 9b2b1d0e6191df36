package usecase_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockwatch/internal/feature/listings/domain/entity"
	"stockwatch/internal/feature/listings/usecase"
	"stockwatch/internal/platform/csvdecode"
	"stockwatch/internal/shared/outcome"
	"stockwatch/internal/shared/remote"
	"stockwatch/internal/shared/syncpolicy"
)

// ErrDB はモックと期待値の間で共有されるセンチネルエラーです。
var ErrDB = errors.New("database error")

const listingCSV = `symbol,name,exchange,price,change,changePercent
AAPL,Apple Inc,NASDAQ,190.1,2.1,1.12%
MSFT,Microsoft Corp,NASDAQ,410.5,-2.25,-0.54%
BAD,Broken Quote,NYSE,n/a,1,1
IBM,International Business Machines,NYSE,170,0.5,0.29%
`

// memListingRepository はListingRepositoryのインメモリ実装です。
type memListingRepository struct {
	mu          sync.Mutex
	rows        []entity.CompanyListing
	SearchErr   error
	ReplaceErr  error
	ReplaceCall int
}

func (m *memListingRepository) Search(_ context.Context, query string) ([]entity.CompanyListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	out := []entity.CompanyListing{}
	for _, r := range m.rows {
		if strings.Contains(strings.ToLower(r.Name), strings.ToLower(query)) ||
			strings.Contains(r.Symbol, strings.ToUpper(query)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memListingRepository) ReplaceAll(_ context.Context, ls []entity.CompanyListing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceCall++
	if m.ReplaceErr != nil {
		return m.ReplaceErr
	}
	m.rows = append([]entity.CompanyListing(nil), ls...)
	return nil
}

// mockListingsRemote はListingsRemoteのモック実装です。
type mockListingsRemote struct {
	GetListingsFunc func(ctx context.Context) (io.ReadCloser, error)
	Calls           int
}

func (m *mockListingsRemote) GetListings(ctx context.Context) (io.ReadCloser, error) {
	m.Calls++
	if m.GetListingsFunc != nil {
		return m.GetListingsFunc(ctx)
	}
	return io.NopCloser(strings.NewReader(listingCSV)), nil
}

func seeded() *memListingRepository {
	return &memListingRepository{rows: []entity.CompanyListing{
		{Symbol: "AAPL", Name: "Apple Inc", Exchange: "NASDAQ", PriceChangePercent: 1.1},
		{Symbol: "TSLA", Name: "Tesla Inc", Exchange: "NASDAQ", PriceChangePercent: -4},
	}}
}

func statuses[T any](seq []outcome.Outcome[T]) []string {
	out := make([]string, 0, len(seq))
	for _, o := range seq {
		if o.IsLoading() {
			if o.Loading {
				out = append(out, "loading:true")
			} else {
				out = append(out, "loading:false")
			}
			continue
		}
		out = append(out, o.Status.String())
	}
	return out
}

// TestListingsUsecase_Sync_EmptyStoreFetchesRemote は空のローカルストアでリモートから取得し、
// 不正な行を除いた3件が保存されることを検証します。
func TestListingsUsecase_Sync_EmptyStoreFetchesRemote(t *testing.T) {
	t.Parallel()

	repo := &memListingRepository{}
	rem := &mockListingsRemote{}
	uc := usecase.NewListingsUsecase(repo, rem, csvdecode.QuoteLayout)

	got := outcome.Collect(uc.Sync(context.Background(), "", false))

	assert.Equal(t, []string{"loading:true", "success", "loading:false"}, statuses(got))
	require.Len(t, got[1].Data, 3)
	assert.Equal(t, "AAPL", got[1].Data[0].Symbol)
	assert.InDelta(t, -0.54, got[1].Data[1].PriceChangePercent, 1e-9)
	assert.Equal(t, 1, rem.Calls)
	assert.Equal(t, 1, repo.ReplaceCall)
}

// TestListingsUsecase_Sync_CacheOnly はキャッシュがあればリモートを呼ばないことを検証します。
func TestListingsUsecase_Sync_CacheOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		query     string
		wantCount int
	}{
		{name: "all listings", query: "", wantCount: 2},
		{name: "matching query", query: "tes", wantCount: 1},
		{name: "query without matches is still an answer", query: "zzz", wantCount: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rem := &mockListingsRemote{}
			uc := usecase.NewListingsUsecase(seeded(), rem, csvdecode.QuoteLayout)

			got := outcome.Collect(uc.Sync(context.Background(), tt.query, false))

			assert.Equal(t, []string{"loading:true", "success", "loading:false"}, statuses(got))
			assert.Len(t, got[1].Data, tt.wantCount)
			assert.Zero(t, rem.Calls)
		})
	}
}

// TestListingsUsecase_Sync_ForceRefresh は強制更新時に置き換え後のデータが同じ検索条件で返ることを検証します。
func TestListingsUsecase_Sync_ForceRefresh(t *testing.T) {
	t.Parallel()

	repo := seeded()
	rem := &mockListingsRemote{}
	uc := usecase.NewListingsUsecase(repo, rem, csvdecode.QuoteLayout)

	got := outcome.Collect(uc.Sync(context.Background(), "  micro ", true))

	assert.Equal(t, []string{"loading:true", "success", "success", "loading:false"}, statuses(got))
	assert.Empty(t, got[1].Data)
	require.Len(t, got[2].Data, 1)
	assert.Equal(t, "MSFT", got[2].Data[0].Symbol)
	assert.Equal(t, 1, rem.Calls)
}

// TestListingsUsecase_Sync_RemoteErrors はリモート失敗時に古いデータ付きのエラーで終わることを検証します。
func TestListingsUsecase_Sync_RemoteErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"connectivity", remote.Connectivity(errors.New("no route to host")), syncpolicy.MsgConnectivity},
		{"protocol", remote.FromStatus(503), syncpolicy.MsgCouldNotLoad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := seeded()
			rem := &mockListingsRemote{GetListingsFunc: func(context.Context) (io.ReadCloser, error) {
				return nil, tt.err
			}}
			uc := usecase.NewListingsUsecase(repo, rem, csvdecode.QuoteLayout)

			got := outcome.Collect(uc.Sync(context.Background(), "", true))

			require.Equal(t, []string{"loading:true", "success", "error"}, statuses(got))
			last := got[2]
			assert.Equal(t, tt.wantMsg, last.Message)
			assert.True(t, last.HasData)
			assert.Len(t, last.Data, 2)
			assert.Zero(t, repo.ReplaceCall)
		})
	}
}

// TestListingsUsecase_Sync_LocalStoreErrors はローカルストアの失敗がエラーとして報告されることを検証します。
func TestListingsUsecase_Sync_LocalStoreErrors(t *testing.T) {
	t.Parallel()

	t.Run("search fails", func(t *testing.T) {
		t.Parallel()
		repo := &memListingRepository{SearchErr: ErrDB}
		rem := &mockListingsRemote{}
		got := outcome.Collect(usecase.NewListingsUsecase(repo, rem, csvdecode.QuoteLayout).Sync(context.Background(), "", true))

		assert.Equal(t, []string{"loading:true", "error"}, statuses(got))
		assert.Equal(t, syncpolicy.MsgLocalStore, got[1].Message)
		assert.Zero(t, rem.Calls)
	})

	t.Run("replace fails", func(t *testing.T) {
		t.Parallel()
		repo := &memListingRepository{ReplaceErr: ErrDB}
		got := outcome.Collect(usecase.NewListingsUsecase(repo, &mockListingsRemote{}, csvdecode.QuoteLayout).Sync(context.Background(), "", false))

		assert.Equal(t, []string{"loading:true", "error"}, statuses(got))
		assert.Equal(t, syncpolicy.MsgLocalStore, got[1].Message)
	})
}

// TestListingsUsecase_Sync_ListingStatusLayout は価格列のないCSVでも取り込めることを検証します。
func TestListingsUsecase_Sync_ListingStatusLayout(t *testing.T) {
	t.Parallel()

	csv := "symbol,name,exchange,assetType,ipoDate,delistingDate,status\nA,Agilent Technologies Inc,NYSE,Stock,1999-11-18,null,Active\n"
	rem := &mockListingsRemote{GetListingsFunc: func(context.Context) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(csv)), nil
	}}
	uc := usecase.NewListingsUsecase(&memListingRepository{}, rem, csvdecode.ListingStatusLayout)

	got := outcome.Collect(uc.Sync(context.Background(), "", false))

	require.Len(t, got, 3)
	assert.Equal(t, []entity.CompanyListing{{Symbol: "A", Name: "Agilent Technologies Inc", Exchange: "NYSE"}}, got[1].Data)
}

// TestListingsUsecase_Movers はランキングがローカルのみから計算されることを検証します。
func TestListingsUsecase_Movers(t *testing.T) {
	t.Parallel()

	rem := &mockListingsRemote{}
	uc := usecase.NewListingsUsecase(seeded(), rem, csvdecode.QuoteLayout)

	gainers, losers, err := uc.Movers(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", gainers[0].Symbol)
	assert.Equal(t, "TSLA", losers[0].Symbol)
	assert.Zero(t, rem.Calls)

	_, _, err = uc.Movers(context.Background(), usecase.MaxMoversLimit+1)
	assert.ErrorIs(t, err, usecase.ErrInvalidLimit)

	_, _, err = usecase.NewListingsUsecase(&memListingRepository{SearchErr: ErrDB}, rem, csvdecode.QuoteLayout).Movers(context.Background(), 5)
	assert.ErrorIs(t, err, ErrDB)
	assert.ErrorIs(t, err, syncpolicy.ErrLocalStore)
}
