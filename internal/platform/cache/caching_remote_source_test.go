package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"stockwatch/internal/feature/companyinfo/domain/entity"
	"stockwatch/internal/shared/remote"
)

// mockRemoteSource はテスト用のRemoteSourceモック実装です。
type mockRemoteSource struct {
	listingsFn func(ctx context.Context) (io.ReadCloser, error)
	intradayFn func(ctx context.Context, symbol string) (io.ReadCloser, error)
	companyFn  func(ctx context.Context, symbol string) (*entity.CompanyInfo, error)
	calls      int
}

func (m *mockRemoteSource) GetListings(ctx context.Context) (io.ReadCloser, error) {
	m.calls++
	if m.listingsFn != nil {
		return m.listingsFn(ctx)
	}
	return io.NopCloser(strings.NewReader("")), nil
}

func (m *mockRemoteSource) GetIntradayInfo(ctx context.Context, symbol string) (io.ReadCloser, error) {
	m.calls++
	if m.intradayFn != nil {
		return m.intradayFn(ctx, symbol)
	}
	return io.NopCloser(strings.NewReader("")), nil
}

func (m *mockRemoteSource) GetCompanyInfo(ctx context.Context, symbol string) (*entity.CompanyInfo, error) {
	m.calls++
	if m.companyFn != nil {
		return m.companyFn(ctx, symbol)
	}
	return nil, nil
}

func read(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

const intradayCSV = "timestamp,open,high,low,close,volume\n2024-01-05 19:00:00,1,2,0.5,1.5,100\n"

// TestNewCachingRemoteSource_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingRemoteSource_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", time.Minute, "remote"},
		{"negative ttl uses default", -time.Second, "", time.Minute, "remote"},
		{"custom values preserved", 10 * time.Minute, "custom", 10 * time.Minute, "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := NewCachingRemoteSource(nil, tt.ttl, &mockRemoteSource{}, tt.namespace)

			if src.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, src.ttl)
			}
			if src.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, src.namespace)
			}
		})
	}
}

// TestCachingRemoteSource_NilRedis はRedisがnilの場合に毎回内部ソースを呼び出すことを検証します。
func TestCachingRemoteSource_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockRemoteSource{}
	src := NewCachingRemoteSource(nil, time.Minute, inner, "")

	for i := 0; i < 2; i++ {
		if _, err := src.GetListings(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := src.Purge(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 inner calls, got %d", inner.calls)
	}
}

// TestCachingRemoteSource_Intraday_CacheHit はキャッシュヒット時に内部ソースを呼ばないことを検証します。
func TestCachingRemoteSource_Intraday_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("remote:intraday:IBM").SetVal(intradayCSV)

	inner := &mockRemoteSource{}
	src := NewCachingRemoteSource(rdb, time.Minute, inner, "remote")

	rc, err := src.GetIntradayInfo(context.Background(), "IBM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := read(t, rc); got != intradayCSV {
		t.Errorf("unexpected body %q", got)
	}
	if inner.calls != 0 {
		t.Error("inner source should not be called on cache hit")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingRemoteSource_Intraday_CacheMiss はキャッシュミス時に取得したボディを保存して返すことを検証します。
func TestCachingRemoteSource_Intraday_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("remote:intraday:BRK_B").RedisNil()
	mock.ExpectSet("remote:intraday:BRK_B", []byte(intradayCSV), time.Minute).SetVal("OK")

	inner := &mockRemoteSource{intradayFn: func(_ context.Context, symbol string) (io.ReadCloser, error) {
		if symbol != "BRK B" {
			t.Errorf("unexpected symbol %q", symbol)
		}
		return io.NopCloser(strings.NewReader(intradayCSV)), nil
	}}
	src := NewCachingRemoteSource(rdb, time.Minute, inner, "remote")

	rc, err := src.GetIntradayInfo(context.Background(), "BRK B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := read(t, rc); got != intradayCSV {
		t.Errorf("unexpected body %q", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingRemoteSource_Intraday_BypassCache は強制更新のコンテキストではキャッシュを読まずにAPIから取得し、
// 取得結果でキャッシュを更新することを検証します。
func TestCachingRemoteSource_Intraday_BypassCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	// Get は期待しない。呼ばれれば ExpectationsWereMet か戻り値で失敗する
	mock.ExpectSet("remote:intraday:IBM", []byte(intradayCSV), time.Minute).SetVal("OK")

	inner := &mockRemoteSource{intradayFn: func(context.Context, string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(intradayCSV)), nil
	}}
	src := NewCachingRemoteSource(rdb, time.Minute, inner, "remote")

	rc, err := src.GetIntradayInfo(remote.WithBypassCache(context.Background()), "IBM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := read(t, rc); got != intradayCSV {
		t.Errorf("unexpected body %q", got)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 remote call, got %d", inner.calls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingRemoteSource_Listings_ErrorNotCached はエラーがキャッシュされずに伝播されることを検証します。
func TestCachingRemoteSource_Listings_ErrorNotCached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("connection refused")
	mock.ExpectGet("remote:listings").RedisNil()

	inner := &mockRemoteSource{listingsFn: func(context.Context) (io.ReadCloser, error) {
		return nil, expectedErr
	}}
	src := NewCachingRemoteSource(rdb, time.Minute, inner, "")

	_, err := src.GetListings(context.Background())
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingRemoteSource_Company はヒット・ミス・破損データ・該当なしの各ケースを検証します。
func TestCachingRemoteSource_Company(t *testing.T) {
	t.Parallel()

	ibm := entity.CompanyInfo{Symbol: "IBM", Name: "International Business Machines", Country: "USA"}
	ibmJSON, _ := json.Marshal(ibm)

	t.Run("cache hit", func(t *testing.T) {
		t.Parallel()
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()
		mock.ExpectGet("remote:company:IBM").SetVal(string(ibmJSON))

		inner := &mockRemoteSource{}
		got, err := NewCachingRemoteSource(rdb, time.Minute, inner, "").GetCompanyInfo(context.Background(), "IBM")
		if err != nil || got == nil || *got != ibm {
			t.Fatalf("unexpected result %v, %v", got, err)
		}
		if inner.calls != 0 {
			t.Error("inner source should not be called on cache hit")
		}
	})

	t.Run("corrupted entry is deleted and refetched", func(t *testing.T) {
		t.Parallel()
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()
		mock.ExpectGet("remote:company:IBM").SetVal("{not json")
		mock.ExpectDel("remote:company:IBM").SetVal(1)
		mock.ExpectSet("remote:company:IBM", ibmJSON, time.Minute).SetVal("OK")

		inner := &mockRemoteSource{companyFn: func(context.Context, string) (*entity.CompanyInfo, error) {
			c := ibm
			return &c, nil
		}}
		got, err := NewCachingRemoteSource(rdb, time.Minute, inner, "").GetCompanyInfo(context.Background(), "IBM")
		if err != nil || got == nil || *got != ibm {
			t.Fatalf("unexpected result %v, %v", got, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled mock expectations: %v", err)
		}
	})

	t.Run("absent record is not cached", func(t *testing.T) {
		t.Parallel()
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()
		mock.ExpectGet("remote:company:ZZZZ").RedisNil()

		got, err := NewCachingRemoteSource(rdb, time.Minute, &mockRemoteSource{}, "").GetCompanyInfo(context.Background(), "ZZZZ")
		if err != nil || got != nil {
			t.Fatalf("expected nil, nil; got %v, %v", got, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled mock expectations: %v", err)
		}
	})
}

// TestCachingRemoteSource_Purge はSCANで見つかったキーが削除されることを検証します。
func TestCachingRemoteSource_Purge(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "remote:*", 200).SetVal([]string{"remote:listings", "remote:intraday:IBM"}, 0)
	mock.ExpectDel("remote:listings", "remote:intraday:IBM").SetVal(2)

	if err := NewCachingRemoteSource(rdb, time.Minute, &mockRemoteSource{}, "").Purge(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

func TestSafe(t *testing.T) {
	t.Parallel()

	if got := safe("a b:c"); got != "a_b_c" {
		t.Errorf("expected a_b_c, got %q", got)
	}
}
