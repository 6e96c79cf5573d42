package main

import (
	"database/sql"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/voltdepot/genstore-backend/internal/address"
	"github.com/voltdepot/genstore-backend/internal/auditlog"
	"github.com/voltdepot/genstore-backend/internal/auth"
	"github.com/voltdepot/genstore-backend/internal/cart"
	"github.com/voltdepot/genstore-backend/internal/config"
	"github.com/voltdepot/genstore-backend/internal/coupon"
	"github.com/voltdepot/genstore-backend/internal/events"
	"github.com/voltdepot/genstore-backend/internal/mailer"
	"github.com/voltdepot/genstore-backend/internal/notification"
	"github.com/voltdepot/genstore-backend/internal/order"
	"github.com/voltdepot/genstore-backend/internal/product"
	"github.com/voltdepot/genstore-backend/internal/servicerequest"
	"github.com/voltdepot/genstore-backend/internal/user"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	db := mustOpenDB(cfg.DatabaseURL, logger)
	defer db.Close()
	bootstrapSchema(db, logger)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	var mail mailer.Mailer = mailer.NoopMailer{}
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	}

	var brokers []string
	if cfg.KafkaBrokers != "" {
		brokers = strings.Split(cfg.KafkaBrokers, ",")
	}
	producer := events.NewProducer(brokers, cfg.OrderEventTopic, logger)
	defer producer.Close()

	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService, cfg.JWTSecret)

	productService := product.NewService(product.NewPostgresRepository(db))
	productHandler := product.NewHandler(productService)

	cartService := cart.NewService(cart.NewPostgresRepository(db), productService)
	cartHandler := cart.NewHandler(cartService)

	addressHandler := address.NewHandler(address.NewService(address.NewPostgresRepository(db)))

	couponService := coupon.NewService(coupon.NewPostgresRepository(db))
	couponHandler := coupon.NewHandler(couponService)

	notificationService := notification.NewService(notification.NewPostgresRepository(db))
	notificationHandler := notification.NewHandler(notificationService)

	auditService := auditlog.NewService(auditlog.NewPostgresRepository(db))
	auditHandler := auditlog.NewHandler(auditService)

	rules := order.PricingRules{
		DefaultShippingFee:    cfg.DefaultShippingFee,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		TaxRate:               cfg.TaxRate,
	}
	orderService := order.NewService(order.NewPostgresRepository(db), cartService,
		couponService, notificationService, userService, auditService, mail,
		producer, rules, cfg.AdminEmails, logger)
	orderHandler := order.NewHandler(orderService)

	serviceRequestService := servicerequest.NewService(servicerequest.NewPostgresRepository(db),
		productService, notificationService, userService, auditService, mail, logger)
	serviceRequestHandler := servicerequest.NewHandler(serviceRequestService)

	// public surface
	app.Get("/health", func(c *fiber.Ctx) error {
		if err := db.Ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy"})
		}
		return c.JSON(fiber.Map{"status": "healthy"})
	})
	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)

	// everything below requires a bearer token
	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	addressHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	serviceRequestHandler.RegisterProtectedRoutes(app)
	notificationHandler.RegisterProtectedRoutes(app)

	admin := app.Group("/api/admin", auth.RequireRoles(auth.RoleStaff, auth.RoleAdmin))
	userHandler.RegisterAdminRoutes(admin)
	productHandler.RegisterAdminRoutes(admin)
	couponHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)
	serviceRequestHandler.RegisterAdminRoutes(admin)
	auditHandler.RegisterAdminRoutes(admin)

	go func() {
		logger.Info("Starting server", zap.String("addr", cfg.Addr))
		if err := app.Listen(cfg.Addr); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	if err := app.Shutdown(); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	return logger
}

func mustOpenDB(url string, logger *zap.Logger) *sql.DB {
	if url == "" {
		logger.Fatal("DATABASE_URL is not set")
	}
	db, err := sql.Open("pgx", url)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	return db
}

// bootstrapSchema creates the tables on first run. Idempotent.
func bootstrapSchema(db *sql.DB, logger *zap.Logger) {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id SERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			first_name TEXT,
			last_name TEXT,
			phone TEXT,
			role TEXT NOT NULL DEFAULT 'USER',
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			product_id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			sku TEXT NOT NULL UNIQUE,
			item_type TEXT NOT NULL,
			brand TEXT,
			description TEXT,
			price NUMERIC NOT NULL DEFAULT 0,
			stock INT NOT NULL DEFAULT 0,
			wattage INT,
			category TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS cart_items (
			user_id INT NOT NULL,
			product_id INT NOT NULL,
			quantity INT NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, product_id)
		)`,
		`CREATE TABLE IF NOT EXISTS addresses (
			address_id SERIAL PRIMARY KEY,
			user_id INT NOT NULL,
			label TEXT,
			recipient TEXT,
			phone TEXT,
			address_line TEXT,
			city TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS coupons (
			coupon_id SERIAL PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			discount_type TEXT NOT NULL,
			value NUMERIC NOT NULL DEFAULT 0,
			min_order_amount NUMERIC NOT NULL DEFAULT 0,
			max_discount NUMERIC NOT NULL DEFAULT 0,
			usage_limit INT NOT NULL DEFAULT 0,
			per_user_limit INT NOT NULL DEFAULT 0,
			usage_count INT NOT NULL DEFAULT 0,
			starts_at TEXT,
			expires_at TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS coupon_redemptions (
			redemption_id SERIAL PRIMARY KEY,
			coupon_id INT NOT NULL,
			user_id INT NOT NULL,
			order_id INT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id SERIAL PRIMARY KEY,
			order_number TEXT NOT NULL UNIQUE,
			user_id INT NOT NULL,
			shipping_name TEXT,
			shipping_phone TEXT,
			shipping_address TEXT,
			shipping_city TEXT,
			subtotal NUMERIC NOT NULL DEFAULT 0,
			shipping_fee NUMERIC NOT NULL DEFAULT 0,
			tax NUMERIC NOT NULL DEFAULT 0,
			discount NUMERIC NOT NULL DEFAULT 0,
			total NUMERIC NOT NULL DEFAULT 0,
			coupon_code TEXT,
			status TEXT NOT NULL,
			payment_status TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			tracking_number TEXT,
			tracking_carrier TEXT,
			admin_notes TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			item_id SERIAL PRIMARY KEY,
			order_id INT NOT NULL,
			product_id INT NOT NULL,
			item_type TEXT NOT NULL,
			name TEXT NOT NULL,
			sku TEXT NOT NULL,
			price NUMERIC NOT NULL DEFAULT 0,
			quantity INT NOT NULL DEFAULT 0,
			total NUMERIC NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS service_requests (
			request_id SERIAL PRIMARY KEY,
			user_id INT NOT NULL,
			subject TEXT NOT NULL,
			description TEXT,
			service_type TEXT NOT NULL,
			product_id INT,
			quoted_amount NUMERIC NOT NULL DEFAULT 0,
			admin_notes TEXT,
			status TEXT NOT NULL,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			notification_id SERIAL PRIMARY KEY,
			user_id INT NOT NULL,
			type TEXT NOT NULL,
			title TEXT,
			message TEXT,
			read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			log_id SERIAL PRIMARY KEY,
			actor_id INT NOT NULL,
			action TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			entity_id INT NOT NULL,
			old_value TEXT,
			new_value TEXT,
			created_at TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			logger.Fatal("Failed to bootstrap schema", zap.Error(err))
		}
	}
}
