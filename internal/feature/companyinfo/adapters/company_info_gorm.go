// Package adapters はcompanyinfoフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"stockwatch/internal/feature/companyinfo/domain/entity"
	"stockwatch/internal/feature/companyinfo/usecase"
)

// CompanyInfoModel は company_infos テーブルの行です。
type CompanyInfoModel struct {
	Symbol      string `gorm:"primaryKey;size:32"`
	Name        string `gorm:"size:255"`
	Description string `gorm:"type:text"`
	Country     string `gorm:"size:64"`
	Industry    string `gorm:"size:255"`
	Address     string `gorm:"size:512"`
}

func (CompanyInfoModel) TableName() string {
	return "company_infos"
}

type companyInfoGorm struct {
	db *gorm.DB
}

var _ usecase.CompanyInfoRepository = (*companyInfoGorm)(nil)

// NewCompanyInfoRepository は指定されたDB接続でcompanyInfoGormの新しいインスタンスを生成します。
func NewCompanyInfoRepository(db *gorm.DB) *companyInfoGorm {
	return &companyInfoGorm{db: db}
}

// Get は symbol の企業情報を返します。該当が無い場合は (nil, nil) を返します。
func (r *companyInfoGorm) Get(ctx context.Context, symbol string) (*entity.CompanyInfo, error) {
	var m CompanyInfoModel
	err := r.db.WithContext(ctx).Where("symbol = ?", symbol).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity.CompanyInfo{
		Symbol:      m.Symbol,
		Name:        m.Name,
		Description: m.Description,
		Country:     m.Country,
		Industry:    m.Industry,
		Address:     m.Address,
	}, nil
}

// Replace は symbol の行を削除してから挿入します。
func (r *companyInfoGorm) Replace(ctx context.Context, info entity.CompanyInfo) error {
	m := CompanyInfoModel{
		Symbol:      info.Symbol,
		Name:        info.Name,
		Description: info.Description,
		Country:     info.Country,
		Industry:    info.Industry,
		Address:     info.Address,
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("symbol = ?", info.Symbol).Delete(&CompanyInfoModel{}).Error; err != nil {
			return err
		}
		return tx.Create(&m).Error
	})
}
