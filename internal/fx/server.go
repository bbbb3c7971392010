package fx

import (
	"context"
	"time"

	"Doare/config"
	"Doare/internal/logger"
	"Doare/internal/middleware"
	"Doare/internal/routes"

	docs "Doare/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"go.uber.org/fx"
)

// ServerModule fornece a configuração do servidor HTTP
var ServerModule = fx.Module("server",
	fx.Provide(
		newRouter,
	),
	fx.Invoke(
		setupRoutes,
	),
)

func newRouter() *gin.Engine {
	return gin.Default()
}

func setupRoutes(
	lc fx.Lifecycle,
	cfg *config.Config,
	router *gin.Engine,
	handler *routes.Handler,
	jwtSvc *middleware.JwtService,
	authRateLimiter *middleware.RateLimiter,
) {
	router.Use(middleware.CORSMiddleware())

	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	public := router.Group("/api")
	public.Use(middleware.Throttle(authRateLimiter, middleware.ByClientIP()))
	{
		public.POST("/auth/login", handler.Login)
		public.POST("/auth/register", handler.Register)

		// Vitrine pública de campanhas
		public.GET("/campaigns", handler.ListCampaigns)
		public.GET("/campaigns/root", handler.GetRootCampaign)
		public.GET("/campaigns/:id", handler.GetCampaign)
	}

	// Callbacks do gateway de pagamento; autenticados pelo próprio gateway
	// na camada de rede, não por JWT de usuário.
	webhooks := router.Group("/api/webhooks")
	webhooks.Use(middleware.Throttle(authRateLimiter, middleware.ByClientIP()))
	{
		webhooks.POST("/payments/:id/confirm", handler.ConfirmPayment)
		webhooks.POST("/payments/:id/fail", handler.FailPayment)
		webhooks.POST("/payments/:id/cancel", handler.CancelPayment)
	}

	// Tráfego autenticado tem teto próprio, contado por doador.
	donorRateLimiter := middleware.NewRateLimiter(300, time.Minute)

	private := router.Group("/api")
	private.Use(middleware.AuthMiddleware(jwtSvc))
	private.Use(middleware.Throttle(donorRateLimiter, middleware.ByDonor()))
	{
		private.GET("/users/me", handler.Me)

		campaigns := private.Group("/campaigns")
		{
			campaigns.POST("", handler.CreateCampaign)
			campaigns.PATCH("/:id", middleware.RequireAdmin(), handler.UpdateCampaign)
			campaigns.PATCH("/:id/status", middleware.RequireAdmin(), handler.ChangeCampaignStatus)
			campaigns.POST("/:id/root", middleware.RequireAdmin(), handler.SetRootCampaign)
			campaigns.DELETE("/:id", middleware.RequireAdmin(), handler.DeleteCampaign)
			campaigns.GET("/:id/donations", middleware.RequireAdmin(), handler.ListCampaignDonations)
		}

		donations := private.Group("/donations")
		{
			donations.POST("", handler.CreateDonation)
			donations.GET("", handler.ListMyDonations)
			donations.GET("/:id", handler.GetDonation)
			donations.PATCH("/:id/periodicity", handler.SetDonationPeriodicity)
			donations.POST("/:id/cancel", handler.CancelRecurringDonation)
			donations.POST("/process-due", middleware.RequireAdmin(), handler.ProcessDueCharges)
		}

		payments := private.Group("/payments")
		{
			payments.GET("/:id", handler.GetPayment)
			payments.POST("/:id/refund", middleware.RequireAdmin(), handler.RefundPayment)
			payments.POST("/expire-pending", middleware.RequireAdmin(), handler.ExpirePendingPayments)
		}

		metrics := private.Group("/metrics")
		metrics.Use(middleware.RequireAdmin())
		{
			metrics.GET("/donations", handler.GetDonationMetrics)
		}
	}

	serverAddr := ":" + cfg.Server.Port
	logger.Info().
		Str("address", serverAddr).
		Str("environment", cfg.App.Environment).
		Msg("Servidor iniciando")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := router.Run(serverAddr); err != nil {
					logger.Fatal().Err(err).Msg("Falha ao iniciar servidor")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Servidor parando...")
			return nil
		},
	})
}
