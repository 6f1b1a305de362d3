// Package main HouseSign API.
// @title HouseSign API
// @version 1.0
// @description Сервер электронного подписания документов: загрузка, поля подписи, жизненный цикл и отзыв подписей.
// @host localhost:8080
// @BasePath /
// @schemes http https
package main

import (
	"log"

	"housesign-server/internal/app"
	"housesign-server/internal/config"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}
