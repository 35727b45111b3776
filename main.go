package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/Icebeear/cafe-app/cache"
	"github.com/Icebeear/cafe-app/configs"
	"github.com/Icebeear/cafe-app/middlewares"
	"github.com/Icebeear/cafe-app/repository"
	"github.com/Icebeear/cafe-app/routes"
	"github.com/Icebeear/cafe-app/services"
	"github.com/Icebeear/cafe-app/tasks"
)

func main() {
	cfg := configs.LoadConfig()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := configs.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	rdb := configs.NewRedisClient(cfg)
	defer rdb.Close()
	store := cache.New(rdb)

	menuSvc := services.NewMenuService(repository.NewMenuRepository(db), store)
	submenuRepo := repository.NewSubMenuRepository(db)
	submenuSvc := services.NewSubMenuService(submenuRepo, store)
	dishSvc := services.NewDishService(repository.NewDishRepository(db), submenuRepo, store)

	r := gin.Default()
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowOrigins))
	routes.RegisterRoutes(r, menuSvc, submenuSvc, dishSvc)

	if cfg.SpreadsheetID != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		source, err := tasks.NewSheetSource(ctx, cfg.GoogleCredentials, cfg.SpreadsheetID)
		if err != nil {
			log.Fatalf("sheet source: %v", err)
		}
		reconciler := tasks.NewReconciler(menuSvc, submenuSvc, dishSvc, store, source, logger)
		go tasks.NewScheduler(reconciler, cfg.SyncInterval, logger).Start(ctx)
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
