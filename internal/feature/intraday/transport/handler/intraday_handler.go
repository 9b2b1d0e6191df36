// Package handler はintradayフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockwatch/internal/feature/intraday/domain/entity"
	"stockwatch/internal/feature/intraday/transport/http/dto"
	"stockwatch/internal/feature/intraday/usecase"
	"stockwatch/internal/platform/http/response"
	"stockwatch/internal/platform/http/stream"
	jwtmw "stockwatch/internal/platform/jwt"
	"stockwatch/internal/shared/outcome"
)

// IntradayUsecase は日中足のユースケースインターフェースを定義します。
type IntradayUsecase interface {
	Sync(ctx context.Context, symbol string, force bool) <-chan outcome.Outcome[[]entity.IntradayInfo]
}

// IntradayHandler は日中足のHTTPリクエストを処理します。
type IntradayHandler struct {
	uc IntradayUsecase
}

// NewIntradayHandler は指定されたusecaseでIntradayHandlerの新しいインスタンスを生成します。
func NewIntradayHandler(uc IntradayUsecase) *IntradayHandler {
	return &IntradayHandler{uc: uc}
}

// Get は銘柄の日中足の同期結果をNDJSONで返します。
//
// エンドポイント例:
// GET /api/intraday/IBM?refresh=true
func (h *IntradayHandler) Get(c *gin.Context) {
	symbol, err := usecase.NormalizeSymbol(c.Param("symbol"))
	if err != nil {
		response.AbortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	ch := h.uc.Sync(c.Request.Context(), symbol, jwtmw.WantsRefresh(c))
	if err := stream.Write(c, ch, dto.FromIntraday); err != nil {
		slog.Warn("intraday stream aborted", "symbol", symbol, "error", err)
	}
}
