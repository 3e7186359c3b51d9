package main

import (
	"coursedesk/config"
	"coursedesk/database"
	courseRoutes "coursedesk/routers/courseRoutes"
	facultyRoutes "coursedesk/routers/facultyRoutes"
	paymentRoutes "coursedesk/routers/paymentRoutes"
	"coursedesk/utils"

	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	courseRoutes.SetupCourseRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	facultyRoutes.SetupFacultyRoutes(app)

	// Reconciles confirmed payments that still miss their enrollment
	utils.InitializeEnrollmentWorker()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
