// Package handler はcompanyinfoフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockwatch/internal/feature/companyinfo/domain/entity"
	"stockwatch/internal/feature/companyinfo/transport/http/dto"
	"stockwatch/internal/feature/companyinfo/usecase"
	"stockwatch/internal/platform/http/response"
	"stockwatch/internal/platform/http/stream"
	"stockwatch/internal/shared/outcome"
)

// CompanyInfoUsecase は企業情報のユースケースインターフェースを定義します。
type CompanyInfoUsecase interface {
	Sync(ctx context.Context, symbol string) <-chan outcome.Outcome[*entity.CompanyInfo]
}

// CompanyInfoHandler は企業情報のHTTPリクエストを処理します。
type CompanyInfoHandler struct {
	uc CompanyInfoUsecase
}

// NewCompanyInfoHandler は指定されたusecaseでCompanyInfoHandlerの新しいインスタンスを生成します。
func NewCompanyInfoHandler(uc CompanyInfoUsecase) *CompanyInfoHandler {
	return &CompanyInfoHandler{uc: uc}
}

// Get は銘柄の企業情報の同期結果をNDJSONで返します。
//
// エンドポイント例:
// GET /api/companies/IBM
func (h *CompanyInfoHandler) Get(c *gin.Context) {
	symbol, err := usecase.NormalizeSymbol(c.Param("symbol"))
	if err != nil {
		response.AbortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	ch := h.uc.Sync(c.Request.Context(), symbol)
	if err := stream.Write(c, ch, dto.FromCompanyInfo); err != nil {
		slog.Warn("company info stream aborted", "symbol", symbol, "error", err)
	}
}
