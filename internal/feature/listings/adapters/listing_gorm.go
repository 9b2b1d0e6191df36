// Package adapters はlistingsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"stockwatch/internal/feature/listings/domain/entity"
	"stockwatch/internal/feature/listings/usecase"
)

const insertBatchSize = 500

// ListingModel は company_listings テーブルの行です。
type ListingModel struct {
	Symbol             string  `gorm:"primaryKey;size:32"`
	Name               string  `gorm:"size:255;not null;index"`
	Exchange           string  `gorm:"size:32"`
	Price              float64 `gorm:"not null;default:0"`
	PriceChange        float64 `gorm:"not null;default:0"`
	PriceChangePercent float64 `gorm:"not null;default:0"`
}

func (ListingModel) TableName() string {
	return "company_listings"
}

// listingGorm はListingRepositoryインターフェースのGORM実装です。
type listingGorm struct {
	db *gorm.DB
}

var _ usecase.ListingRepository = (*listingGorm)(nil)

// NewListingRepository は指定されたDB接続でlistingGormの新しいインスタンスを生成します。
func NewListingRepository(db *gorm.DB) *listingGorm {
	return &listingGorm{db: db}
}

// Search は名前（大文字小文字を区別しない）または銘柄コードに query を含む一覧を銘柄コード順で返します。
func (r *listingGorm) Search(ctx context.Context, query string) ([]entity.CompanyListing, error) {
	var rows []ListingModel
	q := r.db.WithContext(ctx).Order("symbol ASC")
	if query != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\' OR UPPER(symbol) LIKE ? ESCAPE '\'`,
			"%"+escapeLike(strings.ToLower(query))+"%",
			"%"+escapeLike(strings.ToUpper(query))+"%",
		)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]entity.CompanyListing, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// ReplaceAll は既存の一覧を削除し、listings を挿入します。全体が1トランザクションです。
// 銘柄コードが重複する場合は最初の行を採用します。
func (r *listingGorm) ReplaceAll(ctx context.Context, listings []entity.CompanyListing) error {
	ms := make([]ListingModel, 0, len(listings))
	seen := make(map[string]struct{}, len(listings))
	for _, e := range listings {
		if _, ok := seen[e.Symbol]; ok {
			continue
		}
		seen[e.Symbol] = struct{}{}
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&ListingModel{}).Error; err != nil {
			return err
		}
		if len(ms) == 0 {
			return nil
		}
		return tx.CreateInBatches(&ms, insertBatchSize).Error
	})
}

func toModel(e entity.CompanyListing) ListingModel {
	return ListingModel{
		Symbol:             e.Symbol,
		Name:               e.Name,
		Exchange:           e.Exchange,
		Price:              e.Price,
		PriceChange:        e.PriceChange,
		PriceChangePercent: e.PriceChangePercent,
	}
}

func toEntity(m ListingModel) entity.CompanyListing {
	return entity.CompanyListing{
		Symbol:             m.Symbol,
		Name:               m.Name,
		Exchange:           m.Exchange,
		Price:              m.Price,
		PriceChange:        m.PriceChange,
		PriceChangePercent: m.PriceChangePercent,
	}
}

// escapeLike は LIKE のワイルドカードを文字として扱うためにエスケープします。
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
