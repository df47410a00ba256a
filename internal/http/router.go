package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/NutriScanU/nutriscanu-backend/internal/http/handlers"
	"github.com/NutriScanU/nutriscanu-backend/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, rh *handlers.RecoveryHandlers, adh *handlers.AdminHandlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/forgot-password", rh.ForgotPassword)
	auth.POST("/reset-password", rh.ResetPassword)
	auth.POST("/forgot-password/code", rh.ForgotPasswordCode)
	auth.POST("/verify-reset-code", rh.VerifyResetCode)
	auth.POST("/reset-password/code", rh.ResetPasswordCode)
	auth.POST("/login-code/send", rh.SendLoginCode)
	auth.POST("/login-code", rh.LoginWithCode)

	v := r.Group("/auth").Use(jwtmw.WithJWT())
	v.GET("/me", ah.Me)
	v.PUT("/change-password", ah.ChangePassword)
	v.POST("/logout", ah.Logout)

	adm := r.Group("/admin").Use(jwtmw.WithJWT(), cb.Enforce())
	adm.POST("/users", adh.CreateUser)
	adm.GET("/users/:id", adh.GetUser)
	adm.PUT("/users/:id", adh.UpdateUser)
	adm.DELETE("/users/:id", adh.DeleteUser)
	adm.POST("/users/:id/restore", adh.RestoreUser)

	return r
}
