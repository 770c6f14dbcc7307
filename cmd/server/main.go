package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "optica-admin/internal/adapters/web"
	"optica-admin/internal/ai"
	"optica-admin/internal/app"
	"optica-admin/internal/core"
	"optica-admin/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	routeService := core.NewRouteService(pool)
	lensOrderService := core.NewLensOrderService(pool)
	paymentService := core.NewPaymentService(pool)
	deliveryService := core.NewDeliveryService(pool)
	employeeService := core.NewEmployeeService(pool)

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set")
	}
	agent := ai.NewAgent(apiKey)

	svc := app.NewAppService(pool, routeService, lensOrderService, paymentService,
		deliveryService, employeeService, agent)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
