package usecase

import (
	"context"
	"fmt"
	"strings"

	"stockwatch/internal/feature/companyinfo/domain/entity"
	"stockwatch/internal/shared/outcome"
	"stockwatch/internal/shared/syncpolicy"
)

// CompanyInfoRepository は企業情報のローカルストアを抽象化します。
type CompanyInfoRepository interface {
	// Get は symbol の企業情報を返します。存在しない場合は (nil, nil) です。
	Get(ctx context.Context, symbol string) (*entity.CompanyInfo, error)
	// Replace は symbol の企業情報を1トランザクションで置き換えます。
	Replace(ctx context.Context, info entity.CompanyInfo) error
}

// CompanyInfoRemote は企業情報を返すリモートAPIです。
type CompanyInfoRemote interface {
	// GetCompanyInfo は symbol の企業情報を返します。リモートに無い場合は (nil, nil) です。
	GetCompanyInfo(ctx context.Context, symbol string) (*entity.CompanyInfo, error)
}

// CompanyInfoUsecase は企業情報の同期を提供します。
// 企業情報は一度取得すればリモートを正とみなし、ローカルに無いときだけ取得します。
type CompanyInfoUsecase struct {
	repo   CompanyInfoRepository
	remote CompanyInfoRemote
	policy *syncpolicy.Policy[*entity.CompanyInfo]
}

// NewCompanyInfoUsecase はCompanyInfoUsecaseの新しいインスタンスを生成します。
func NewCompanyInfoUsecase(repo CompanyInfoRepository, remote CompanyInfoRemote, opts ...syncpolicy.Option) *CompanyInfoUsecase {
	u := &CompanyInfoUsecase{repo: repo, remote: remote}
	u.policy = syncpolicy.New(syncpolicy.Source[*entity.CompanyInfo]{
		Kind:  "company_info",
		Local: u.local,
		Exists: func(_ string, local *entity.CompanyInfo) bool {
			return local != nil
		},
		ShouldFetch: func(_ string, local *entity.CompanyInfo, _, _ bool) bool {
			return local == nil
		},
		Refresh: u.refresh,
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

// Sync は symbol の企業情報を返し、ローカルに無ければリモートから取得します。
func (u *CompanyInfoUsecase) Sync(ctx context.Context, symbol string) <-chan outcome.Outcome[*entity.CompanyInfo] {
	return u.policy.Sync(ctx, strings.ToUpper(strings.TrimSpace(symbol)), false)
}

func (u *CompanyInfoUsecase) local(ctx context.Context, symbol string) (*entity.CompanyInfo, error) {
	info, err := u.repo.Get(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: get company info %s: %w", syncpolicy.ErrLocalStore, symbol, err)
	}
	return info, nil
}

func (u *CompanyInfoUsecase) refresh(ctx context.Context, symbol string) error {
	info, err := u.remote.GetCompanyInfo(ctx, symbol)
	if err != nil {
		return fmt.Errorf("get company info %s: %w", symbol, err)
	}
	if info == nil {
		return fmt.Errorf("company info %s: %w", symbol, syncpolicy.ErrNotAvailable)
	}

	rec := *info
	rec.Symbol = symbol
	if err := u.repo.Replace(ctx, rec); err != nil {
		return fmt.Errorf("%w: replace company info %s: %w", syncpolicy.ErrLocalStore, symbol, err)
	}
	return nil
}
