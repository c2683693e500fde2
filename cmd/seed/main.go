package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Raymond9734/crm-backend/internal/config"
	"github.com/Raymond9734/crm-backend/internal/db"
	"github.com/Raymond9734/crm-backend/internal/repository"
	"github.com/Raymond9734/crm-backend/internal/service"
)

// seed populates the database with a fixed set of customers, products and
// orders, going through the same creation engine as the API.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	database, err := db.New(db.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	ctx := context.Background()

	if err := database.Migrate(ctx); err != nil {
		logger.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Clear existing data
	_, err = database.ExecContext(ctx, `TRUNCATE order_products, orders, products, customers RESTART IDENTITY`)
	if err != nil {
		logger.Error("failed to clear existing data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	customerRepo := repository.NewCustomerRepository(database.DB)
	productRepo := repository.NewProductRepository(database.DB)
	orderRepo := repository.NewOrderRepository(database.DB)

	customerSvc := service.NewCustomerService(customerRepo, logger)
	productSvc := service.NewProductService(productRepo, logger)
	orderSvc := service.NewOrderService(orderRepo, customerRepo, productRepo, nil, logger)

	// Create customers
	customerIDs := []int64{}
	customers := []service.CreateCustomerInput{
		{Name: "Alice Johnson", Email: "alice@example.com", Phone: "+1234567890"},
		{Name: "Bob Smith", Email: "bob@example.com", Phone: "123-456-7890"},
		{Name: "Carol Davis", Email: "carol@example.com"},
	}
	for _, input := range customers {
		result, err := customerSvc.Create(ctx, input)
		if err != nil {
			logger.Error("failed to seed customer", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if len(result.Errors) > 0 {
			logger.Error("customer rejected", slog.String("errors", strings.Join(result.Errors, "; ")))
			os.Exit(1)
		}
		customerIDs = append(customerIDs, result.Customer.ID)
	}

	// Create products
	productIDs := []int64{}
	products := []service.CreateProductInput{
		{Name: "Laptop", Price: "999.99", Stock: intPtr(10)},
		{Name: "Wireless Mouse", Price: "25.50", Stock: intPtr(100)},
		{Name: "Mechanical Keyboard", Price: "79.90", Stock: intPtr(50)},
	}
	for _, input := range products {
		result, err := productSvc.Create(ctx, input)
		if err != nil {
			logger.Error("failed to seed product", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if len(result.Errors) > 0 {
			logger.Error("product rejected", slog.String("errors", strings.Join(result.Errors, "; ")))
			os.Exit(1)
		}
		productIDs = append(productIDs, result.Product.ID)
	}

	// Create orders: Alice buys laptop+mouse, Bob mouse+keyboard, Carol keyboard
	orders := []service.CreateOrderInput{
		{CustomerID: formatID(customerIDs[0]), ProductIDs: []string{formatID(productIDs[0]), formatID(productIDs[1])}},
		{CustomerID: formatID(customerIDs[1]), ProductIDs: []string{formatID(productIDs[1]), formatID(productIDs[2])}},
		{CustomerID: formatID(customerIDs[2]), ProductIDs: []string{formatID(productIDs[2])}},
	}
	for _, input := range orders {
		result, err := orderSvc.Create(ctx, input)
		if err != nil {
			logger.Error("failed to seed order", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if len(result.Errors) > 0 {
			logger.Error("order rejected", slog.String("errors", strings.Join(result.Errors, "; ")))
			os.Exit(1)
		}
	}

	logger.Info("database seeded successfully",
		slog.Int("customers", len(customerIDs)),
		slog.Int("products", len(productIDs)),
		slog.Int("orders", len(orders)),
	)
}

func intPtr(n int) *int {
	return &n
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
