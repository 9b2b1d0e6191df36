// Package handler はlistingsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"stockwatch/internal/feature/listings/domain/entity"
	"stockwatch/internal/feature/listings/transport/http/dto"
	"stockwatch/internal/feature/listings/usecase"
	"stockwatch/internal/platform/http/response"
	"stockwatch/internal/platform/http/stream"
	jwtmw "stockwatch/internal/platform/jwt"
	"stockwatch/internal/shared/outcome"
	"stockwatch/internal/shared/syncpolicy"
)

// ListingsUsecase は銘柄一覧のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ListingsUsecase interface {
	Sync(ctx context.Context, query string, force bool) <-chan outcome.Outcome[[]entity.CompanyListing]
	Movers(ctx context.Context, limit int) (gainers, losers []entity.CompanyListing, err error)
}

// ListingsHandler は銘柄一覧のHTTPリクエストを処理します。
type ListingsHandler struct {
	uc ListingsUsecase
}

// NewListingsHandler は指定されたusecaseでListingsHandlerの新しいインスタンスを生成します。
func NewListingsHandler(uc ListingsUsecase) *ListingsHandler {
	return &ListingsHandler{uc: uc}
}

// Search は検索語に一致する銘柄一覧の同期結果をNDJSONで返します。
//
// エンドポイント例:
// GET /api/listings?q=apple&refresh=true
func (h *ListingsHandler) Search(c *gin.Context) {
	query := c.Query("q")
	ch := h.uc.Sync(c.Request.Context(), query, jwtmw.WantsRefresh(c))
	if err := stream.Write(c, ch, dto.FromListings); err != nil {
		slog.Warn("listings stream aborted", "query", query, "error", err)
	}
}

// Movers はローカルの一覧から値上がり・値下がりランキングをJSONで返します。
//
// エンドポイント例:
// GET /api/listings/movers?limit=10
func (h *ListingsHandler) Movers(c *gin.Context) {
	limit := 0
	if s := strings.TrimSpace(c.Query("limit")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			response.AbortWithError(c, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	gainers, losers, err := h.uc.Movers(c.Request.Context(), limit)
	switch {
	case errors.Is(err, usecase.ErrInvalidLimit):
		response.AbortWithError(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, syncpolicy.ErrLocalStore):
		slog.Error("failed to compute movers", "error", err)
		response.AbortWithError(c, http.StatusServiceUnavailable, syncpolicy.MsgLocalStore)
		return
	case err != nil:
		slog.Error("failed to compute movers", "error", err)
		response.AbortWithError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, dto.MoversResponse{
		Gainers: dto.FromListings(gainers),
		Losers:  dto.FromListings(losers),
	})
}
