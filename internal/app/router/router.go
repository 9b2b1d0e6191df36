package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	companyhandler "stockwatch/internal/feature/companyinfo/transport/handler"
	intradayhandler "stockwatch/internal/feature/intraday/transport/handler"
	listingshandler "stockwatch/internal/feature/listings/transport/handler"
	"stockwatch/internal/platform/http/middleware"
	jwtmw "stockwatch/internal/platform/jwt"
)

// Handlers はルーターに登録するハンドラーの集まりです。
type Handlers struct {
	Listings  *listingshandler.ListingsHandler
	Companies *companyhandler.CompanyInfoHandler
	Intraday  *intradayhandler.IntradayHandler
	Health    gin.HandlerFunc
}

// NewRouter はAPIのルーティングを設定したginエンジンを返します。
// jwtSecret が空でなければ、?refresh=true の強制更新にトークンを要求します。
func NewRouter(h Handlers, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog("/healthz"))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders:    []string{"Authorization", middleware.RequestIDHeader},
		ExposeHeaders:   []string{middleware.RequestIDHeader},
	}))

	// 導通確認用
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)

	api := r.Group("/api")
	// 強制更新はリモートAPIの呼び出し枠を消費するため保護する
	api.Use(jwtmw.RefreshGuard(jwtSecret))
	{
		api.GET("/listings", h.Listings.Search)
		api.GET("/listings/movers", h.Listings.Movers)
		api.GET("/companies/:symbol", h.Companies.Get)
		api.GET("/intraday/:symbol", h.Intraday.Get)
	}

	return r
}
