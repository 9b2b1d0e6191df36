// Package adapters はintradayフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"stockwatch/internal/feature/intraday/domain/entity"
	"stockwatch/internal/feature/intraday/usecase"
)

// IntradayModel は銘柄ごとに1行で日中足をJSONとして保持します。
type IntradayModel struct {
	Symbol    string             `gorm:"primaryKey;size:32"`
	Samples   []entity.RawSample `gorm:"serializer:json;type:text;not null"`
	UpdatedAt time.Time
}

func (IntradayModel) TableName() string {
	return "intraday_infos"
}

type intradayGorm struct {
	db *gorm.DB
}

var _ usecase.IntradayRepository = (*intradayGorm)(nil)

// NewIntradayRepository は指定されたDB接続でintradayGormの新しいインスタンスを生成します。
func NewIntradayRepository(db *gorm.DB) *intradayGorm {
	return &intradayGorm{db: db}
}

// Get は symbol の保存済みサンプルを保存時の順序のまま返します。
func (r *intradayGorm) Get(ctx context.Context, symbol string) ([]entity.RawSample, error) {
	var m IntradayModel
	err := r.db.WithContext(ctx).Where("symbol = ?", symbol).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []entity.RawSample{}, nil
	}
	if err != nil {
		return nil, err
	}
	return m.Samples, nil
}

// Replace は symbol の行を削除してから挿入します。
func (r *intradayGorm) Replace(ctx context.Context, symbol string, samples []entity.RawSample) error {
	if samples == nil {
		samples = []entity.RawSample{}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("symbol = ?", symbol).Delete(&IntradayModel{}).Error; err != nil {
			return err
		}
		return tx.Create(&IntradayModel{Symbol: symbol, Samples: samples}).Error
	})
}
