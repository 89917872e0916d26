package main

import (
	"log"

	redisv9 "github.com/redis/go-redis/v9"

	"shop_backend/internal/app/di"
	"shop_backend/internal/app/router"
	activityadapters "shop_backend/internal/feature/activity/adapters"
	activityusecase "shop_backend/internal/feature/activity/usecase"
	authadapters "shop_backend/internal/feature/auth/adapters"
	authhandler "shop_backend/internal/feature/auth/transport/handler"
	authusecase "shop_backend/internal/feature/auth/usecase"
	infradb "shop_backend/internal/platform/db"
	"shop_backend/internal/platform/password"
	infraredis "shop_backend/internal/platform/redis"
)

func main() {
	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Sessions fall back to the database.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	userRepo := authadapters.NewUserGorm(db)
	rememberRepo := authadapters.NewRememberGorm(db)
	activityRepo := activityadapters.NewLogGorm(db)
	sessionStore := di.NewSessionStore(rdb, db)

	// Usecase
	hasher := password.NewHasher()
	recorder := activityusecase.NewRecorder(activityRepo)
	authUC := authusecase.NewAuthUsecase(userRepo, rememberRepo, hasher)
	recoveryUC := authusecase.NewRecoveryUsecase(userRepo, hasher, recorder)

	// Handler
	authH := authhandler.NewAuthHandler(authUC, recoveryUC, sessionStore)
	landingH := authhandler.NewLandingHandler()

	// ルータ生成
	router := router.NewRouter(authH, landingH, sessionStore, authUC)

	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
