package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/akazantsev/imgpatch/internal/api"
	"github.com/akazantsev/imgpatch/internal/controller"
	"github.com/akazantsev/imgpatch/internal/migrations"
	"github.com/akazantsev/imgpatch/internal/service"
	"github.com/akazantsev/imgpatch/internal/storage"
	"github.com/akazantsev/imgpatch/internal/storage/memory"
	"github.com/akazantsev/imgpatch/internal/storage/postgres"
	"github.com/akazantsev/imgpatch/internal/util"

	_ "github.com/lib/pq"
)

func main() {
	ctx := context.Background()
	logger := util.NewZapLogger()

	var userStore storage.UserStore
	var userSeeder storage.UserSeeder
	var cleanupFuncs []func()
	seedUsers := util.SeedExampleUsers()

	if dbConfig := util.NewDBConfig(); dbConfig != nil {
		db, dbCleanup, err := util.NewDBConnection(logger, dbConfig)
		if err != nil {
			logger.Fatal(zap.Error(err))
		}
		if err := migrations.RunMigrations(db, logger, "./internal/migrations"); err != nil {
			logger.Fatal(zap.Error(err))
		}
		repo := postgres.NewUserRepository(db)
		userStore, userSeeder = repo, repo
		cleanupFuncs = append(cleanupFuncs, dbCleanup)
	} else {
		// Дев-режим без базы: пользователи живут в памяти процесса.
		logger.Info("DATABASE_URL is not set, using in-memory user store")
		store := memory.NewUserStore()
		userStore, userSeeder = store, store
		seedUsers = true
	}

	if seedUsers {
		if err := service.SeedExampleUsers(ctx, userSeeder, logger); err != nil {
			logger.Fatal(zap.Error(err))
		}
	}

	tokenService := service.NewTokenService(util.NewTokenConfig())
	authService := service.NewAuthService(tokenService, userStore, logger)
	patchEngine := service.NewPatchEngine()
	thumbnails := service.NewThumbnailPipeline(util.NewThumbnailConfig(), logger)

	controller := controller.NewController(logger, authService, patchEngine, thumbnails)

	apiServer := api.NewAPI(controller, tokenService, util.NewServerConfig(), logger, cleanupFuncs)
	apiServer.Run(ctx)
}
