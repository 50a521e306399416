package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	webAdapter "marketplace-fulfillment/internal/adapters/web"
	"marketplace-fulfillment/internal/core"
	"marketplace-fulfillment/internal/db"
	"marketplace-fulfillment/internal/gateway"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	deliveryFee := decimal.NewFromInt(0)
	if raw := os.Getenv("DELIVERY_FEE"); raw != "" {
		deliveryFee, err = decimal.NewFromString(raw)
		if err != nil || deliveryFee.IsNegative() {
			log.Fatalf("invalid DELIVERY_FEE %q", raw)
		}
	}

	gatewayClient, err := gateway.NewClient()
	if err != nil {
		log.Fatalf("payment gateway: %v", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	vendorService := core.NewVendorService(pool)
	catalogService := core.NewCatalogService(pool)
	ledger := core.NewStockLedger(pool)
	pricer := core.NewPricer(deliveryFee)
	notifier := core.NewLogNotifier()
	orderService := core.NewOrderService(pool, catalogService, pricer, ledger, notifier)
	reconciler := core.NewPaymentReconciler(orderService, gatewayClient)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(
		vendorService, catalogService, ledger, orderService, reconciler, gatewayClient,
		allowedOrigins, jwtSecret,
	)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
