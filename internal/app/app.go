package app

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NutriScanU/nutriscanu-backend/internal/config"
	httpx "github.com/NutriScanU/nutriscanu-backend/internal/http"
	"github.com/NutriScanU/nutriscanu-backend/internal/http/handlers"
	"github.com/NutriScanU/nutriscanu-backend/internal/http/middleware"
	"github.com/NutriScanU/nutriscanu-backend/internal/infrastructure/auth"
	"github.com/NutriScanU/nutriscanu-backend/internal/infrastructure/database"
)

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	container, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	if err := container.RedisClient.Ping(context.Background()).Err(); err != nil {
		return err
	}

	cas, err := auth.NewCasbinService(container.DB, cfg.CasbinModelPath)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(container.DB); err != nil {
		return err
	}

	authH := handlers.NewAuthHandlers(container.AuthSvc)
	recoveryH := handlers.NewRecoveryHandlers(container.RecoverySvc, container.LoginCodeSvc)
	adminH := handlers.NewAdminHandlers(container.AdminSvc)

	jwtMW := middleware.NewAuthMW(container.TokenSvc, container.SessionRepo, container.UserRepo)
	casbinMW := middleware.NewCasbinMW(cas.E)

	r := httpx.BuildRouter(authH, recoveryH, adminH, jwtMW, casbinMW)

	policies, _ := cas.E.GetPolicy()
	if len(policies) == 0 {
		cas.E.AddPolicy("role_admin", "/admin/*", "(GET|POST|PUT|DELETE)")
		_ = cas.E.SavePolicy()
		log.Println("casbin: seeded default policies")
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}
