package main

import (
	"log"

	"foodmap/config"
	"foodmap/database"
	authRoutes "foodmap/routers/authRoutes"
	mapsRoutes "foodmap/routers/mapsRoutes"
	userProfileRoutes "foodmap/routers/userRoutes"
	"foodmap/services/cuisine"
	"foodmap/services/places"
	"foodmap/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	places.Init()
	cuisine.Init()
	utils.InitializePlaceScheduler()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	userProfileRoutes.SetupUserRoutes(app)
	mapsRoutes.SetupMapsRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
