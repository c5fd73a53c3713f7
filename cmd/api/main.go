package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/parcelworks/shipping-gateway/internal/activities"
	"github.com/parcelworks/shipping-gateway/internal/application"
	"github.com/parcelworks/shipping-gateway/internal/currency"
	"github.com/parcelworks/shipping-gateway/internal/domain"
	"github.com/parcelworks/shipping-gateway/internal/infrastructure/mongodb"
	"github.com/parcelworks/shipping-gateway/internal/infrastructure/upsapi"
	"github.com/parcelworks/shipping-gateway/internal/ups"
	"github.com/parcelworks/shipping-gateway/internal/workflows"
	"github.com/parcelworks/shipping-gateway/pkg/kafka"
	"github.com/parcelworks/shipping-gateway/pkg/logging"
	"github.com/parcelworks/shipping-gateway/pkg/metrics"
)

// Config holds service configuration
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string

	KafkaEnabled bool
	KafkaBrokers []string

	TemporalEnabled  bool
	TemporalHostPort string

	LogLevel string

	Account domain.CarrierAccount
}

func loadConfig() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "shipping_gateway"),

		KafkaEnabled: getEnv("KAFKA_ENABLED", "true") == "true",
		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),

		TemporalEnabled:  getEnv("TEMPORAL_ENABLED", "false") == "true",
		TemporalHostPort: getEnv("TEMPORAL_HOST_PORT", "localhost:7233"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		Account: domain.CarrierAccount{
			LicenseKey:      getEnv("UPS_LICENSE_KEY", ""),
			UserID:          getEnv("UPS_USER_ID", ""),
			Password:        getEnv("UPS_PASSWORD", ""),
			ShipperNumber:   getEnv("UPS_SHIPPER_NUMBER", ""),
			Sandbox:         getEnv("UPS_SANDBOX", "true") == "true",
			NegotiatedRates: getEnv("UPS_NEGOTIATED_RATES", "false") == "true",
			UOMSystem:       domain.UOMSystem(getEnv("UPS_UOM_SYSTEM", string(domain.UOMEnglish))),
			Method:          domain.MethodAPI,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	config := loadConfig()

	logConfig := logging.DefaultConfig("shipping-gateway")
	logConfig.Level = logging.LogLevel(config.LogLevel)
	logger := logging.New(logConfig)
	logger.SetDefault()

	m := metrics.New(metrics.DefaultConfig("shipping-gateway"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(config.MongoURI))
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		logger.WithError(err).Error("Failed to ping MongoDB")
		os.Exit(1)
	}
	defer mongoClient.Disconnect(context.Background())

	repo := mongodb.NewShipmentRecordRepository(mongoClient.Database(config.MongoDatabase))

	var producer *kafka.Producer
	if config.KafkaEnabled {
		producer = kafka.NewProducer(kafka.DefaultConfig(config.KafkaBrokers, "shipping-gateway"))
		defer producer.Close()
	}

	upsClient, err := upsapi.NewClient(upsapi.DefaultConfig(config.Account), logger, m)
	if err != nil {
		logger.WithError(err).Error("Failed to create UPS client")
		os.Exit(1)
	}

	currencies := currency.NewRegistry()
	catalog := domain.DefaultServiceCatalog()
	adapter := ups.NewAdapter(upsClient, catalog, currencies, logger, m)

	service := application.NewShippingService(repo, adapter, config.Account, catalog, producer, m, logger)

	var temporalClient client.Client
	if config.TemporalEnabled {
		temporalClient, err = client.Dial(client.Options{HostPort: config.TemporalHostPort})
		if err != nil {
			logger.WithError(err).Error("Failed to connect to Temporal")
			os.Exit(1)
		}
		defer temporalClient.Close()

		w := worker.New(temporalClient, workflows.TaskQueue, worker.Options{})
		w.RegisterWorkflow(workflows.LabelIssuanceWorkflow)

		labelActivities := activities.NewLabelActivities(service, logger)
		w.RegisterActivity(labelActivities.ConfirmLabel)
		w.RegisterActivity(labelActivities.AcceptLabel)
		w.RegisterActivity(labelActivities.VoidLabel)

		if err := w.Start(); err != nil {
			logger.WithError(err).Error("Failed to start Temporal worker")
			os.Exit(1)
		}
		defer w.Stop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	handlers := NewHandlers(service, temporalClient, m, logger)
	handlers.Register(router)

	server := &http.Server{
		Addr:    ":" + config.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting shipping gateway", "port", config.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Forced shutdown")
	}
	logger.Info("Server stopped")
}
