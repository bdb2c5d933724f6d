package main

import (
	"time"

	"github.com/cruisedesk/sales-service/cache/redis"
	"github.com/cruisedesk/sales-service/config"
	"github.com/cruisedesk/sales-service/sales"
	httpservice "github.com/cruisedesk/sales-service/service/http"
	"github.com/gin-gonic/gin"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

func SetupRouter(cfg *config.Config, log *logrus.Logger) *gin.Engine {
	// Initialize the session store and availability cache
	store, err := redis.NewRedisStore(cfg.Redis.GetRedisURL(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal("Failed to initialize session store: ", err)
	}

	// Initialize platform service clients with connection pooling
	cruiseService := httpservice.NewHTTPCruiseService(&cfg.Backends, cfg.JWTSecret)
	fleetService := httpservice.NewHTTPFleetService(&cfg.Backends, cfg.JWTSecret)
	pricingService := httpservice.NewHTTPPricingService(&cfg.Backends, cfg.JWTSecret)
	bookingService := httpservice.NewHTTPBookingService(&cfg.Backends, cfg.JWTSecret)
	customerService := httpservice.NewHTTPCustomerService(&cfg.Backends, cfg.JWTSecret)

	// Initialize the sales engine
	engine := sales.NewEngine(sales.Options{
		Cruise:          cruiseService,
		Fleet:           fleetService,
		Pricing:         pricingService,
		Booking:         bookingService,
		Customers:       customerService,
		Availability:    store,
		AvailabilityTTL: time.Duration(cfg.Sales.AvailabilityTTLSeconds) * time.Second,
		HoldMinutes:     cfg.Sales.HoldMinutes,
	})

	searcher := sales.NewCustomerSearcher(customerService,
		time.Duration(cfg.Sales.CustomerSearchDebounceMS)*time.Millisecond,
		cfg.Sales.CustomerSearchLimit)

	// Initialize Kafka writer for sales events
	kafkaWriter := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Kafka.Brokers...),
		Topic:    cfg.Kafka.SalesTopic,
		Balancer: &kafka.LeastBytes{},
	}

	// Initialize JWT service
	jwtService := NewJWTService(cfg.JWTSecret)

	// Initialize handlers
	salesHandler := NewSalesHandler(engine, store, searcher, kafkaWriter, log,
		time.Duration(cfg.Sales.SessionTTLMinutes)*time.Minute, cfg.Sales.DemoPaymentToken)

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())

	// Add middleware
	r.Use(CORSMiddleware())
	r.Use(LoggingMiddleware(log))

	// Health check endpoint (no auth required)
	r.GET("/health", salesHandler.HealthCheck)

	// API routes
	api := r.Group("/api/sales")

	// Protected endpoints (require authentication)
	protected := api.Group("")
	protected.Use(AuthMiddleware(jwtService))

	// Sales session endpoints
	protected.POST("/sessions", salesHandler.CreateSession)
	protected.GET("/sessions/:sessionId", salesHandler.GetSession)
	protected.POST("/sessions/:sessionId/reset", salesHandler.ResetSession)
	protected.DELETE("/sessions/:sessionId", salesHandler.CloseSession)

	// Sailing selection
	protected.GET("/sessions/:sessionId/sailings", salesHandler.SearchSailings)
	protected.POST("/sessions/:sessionId/sailing", salesHandler.ChooseSailing)
	protected.GET("/sessions/:sessionId/decks/:deck/cabins", salesHandler.DeckCabins)

	// Selection, quote and cart
	protected.GET("/sessions/:sessionId/price-types", salesHandler.ListPriceTypes)
	protected.PUT("/sessions/:sessionId/selection", salesHandler.UpdateSelection)
	protected.POST("/sessions/:sessionId/quote", salesHandler.RequestQuote)
	protected.POST("/sessions/:sessionId/cart", salesHandler.AddToCart)
	protected.DELETE("/sessions/:sessionId/cart/:itemId", salesHandler.RemoveFromCart)

	// Customer lookup, checkout and payment
	protected.GET("/sessions/:sessionId/customers", salesHandler.SearchCustomers)
	protected.POST("/sessions/:sessionId/checkout", salesHandler.Checkout)
	protected.POST("/sessions/:sessionId/payment", salesHandler.ProcessPayment)

	return r
}
