package main

import (
	"github.com/plumeapp/plume/config"
	"github.com/plumeapp/plume/models"
	"github.com/plumeapp/plume/routes"
	"github.com/plumeapp/plume/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Post{},
		&models.Tag{},
		&models.Comment{},
		&models.Like{},
		&models.CommentLike{},
		&models.PostView{},
		&models.Follow{},
		&models.CategoryPreference{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
