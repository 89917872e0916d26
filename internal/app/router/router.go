package router

import (
	"github.com/gin-gonic/gin"

	authhandler "shop_backend/internal/feature/auth/transport/handler"
	"shop_backend/internal/feature/auth/transport/middleware"
	"shop_backend/internal/feature/auth/usecase"
	platformhandler "shop_backend/internal/platform/http/handler"

	"shop_backend/internal/feature/auth/domain/entity"
)

func NewRouter(authH *authhandler.AuthHandler, landingH *authhandler.LandingHandler,
	sessions usecase.SessionStore, remember middleware.RememberAuthenticator) *gin.Engine {
	r := gin.Default()

	// 導通確認用（セッション不要）
	r.GET("/healthz", platformhandler.Health)

	// すべてのページにセッションを供給する
	r.Use(middleware.Session(sessions, remember))

	// 認証・回復フロー
	auth := r.Group("/auth")
	{
		auth.GET("/login", authH.LoginPage)
		auth.POST("/login", authH.Login)
		auth.GET("/register", authH.RegisterPage)
		auth.POST("/register", authH.Register)
		auth.GET("/forget-password", authH.ForgetPasswordPage)
		auth.POST("/forget-password", authH.ForgetPassword)
		auth.GET("/reset-password", authH.ResetPasswordPage)
		auth.POST("/reset-password", authH.ResetPassword)
		auth.GET("/logout", authH.Logout)

		// パスワード変更は認証必須
		chg := auth.Group("")
		chg.Use(middleware.AuthRequired())
		{
			chg.GET("/change-password", authH.ChangePasswordPage)
			chg.POST("/change-password", authH.ChangePassword)
		}
	}

	// ロール別ランディングページ（リダイレクト先）
	r.GET("/", landingH.Customer)

	seller := r.Group("/seller")
	seller.Use(middleware.AuthRequired(), middleware.RoleRequired(entity.RoleSeller))
	{
		seller.GET("/dashboard", landingH.Seller)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(entity.RoleAdmin))
	{
		admin.GET("/dashboard", landingH.Admin)
	}

	return r
}
