package main

import (
	"github.com/cppla/groupfeed/config"
	"github.com/cppla/groupfeed/models"
	"github.com/cppla/groupfeed/routes"
	"github.com/cppla/groupfeed/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(cfg, &models.User{}, &models.Group{}, &models.Post{}, &models.Comment{}, &models.Follow{})

	cache, err := utils.NewPageCache(cfg)
	if err != nil {
		utils.Sugar.Fatalf("page cache init failed: %v", err)
	}

	r := routes.SetupRouter(cfg, db, cache)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	err = utils.GraceServer(":"+cfg.AppPort, r, func() {
		if err := cache.Close(); err != nil {
			utils.Sugar.Warnf("page cache close: %v", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
