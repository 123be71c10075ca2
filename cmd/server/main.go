package main

import (
	"net/http"

	"gokuldairy/billing"
	"gokuldairy/config"
	"gokuldairy/db"
	"gokuldairy/db/mongo"
	"gokuldairy/db/postgres"
	"gokuldairy/handlers"
	"gokuldairy/repository"
	"gokuldairy/routes"

	"go.uber.org/zap"
)

func main() {
	// Load config from .env or config file
	cfg := config.LoadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var customerRepo repository.CustomerRepository
	var deliveryRepo repository.DeliveryRepository
	var billRepo repository.BillRepository
	var userRepo repository.UserRepository
	var profileRepo repository.ProfileRepository

	switch cfg.DBType {
	case "postgres":
		db.RunMigrations()

		pg := postgres.NewPostgresDB(cfg.PostgresURL)
		if err := pg.Connect(); err != nil {
			logger.Fatal("postgres connect failed", zap.Error(err))
		}
		defer pg.Disconnect()

		customerRepo = repository.NewPostgresCustomerRepo(pg.Conn)
		deliveryRepo = repository.NewPostgresDeliveryRepo(pg.Conn)
		billRepo = repository.NewPostgresBillRepo(pg.Conn)
		userRepo = repository.NewPostgresUserRepo(pg.Conn)
		profileRepo = repository.NewPostgresProfileRepo(pg.Conn)

	case "mongo":
		mg := mongo.NewMongoDB(cfg.MongoURL)
		if err := mg.Connect(); err != nil {
			logger.Fatal("mongo connect failed", zap.Error(err))
		}
		defer mg.Disconnect()

		customerRepo = repository.NewMongoCustomerRepo(mg.Client)
		deliveryRepo = repository.NewMongoDeliveryRepo(mg.Client)
		billRepo = repository.NewMongoBillRepo(mg.Client)
		userRepo = repository.NewMongoUserRepo(mg.Client)
		profileRepo = repository.NewMongoProfileRepo(mg.Client)

	default:
		logger.Fatal("DB_TYPE not supported", zap.String("db_type", cfg.DBType))
	}

	// Billing core
	generator := billing.NewGenerator(billRepo, customerRepo, deliveryRepo, cfg.DueDateDays, logger)
	processor := billing.NewProcessor(billRepo, logger)
	reconciler := billing.NewReconciler(billRepo, deliveryRepo, logger)

	// Handlers
	userHandler := &handlers.UserHandler{Repo: userRepo}
	customerHandler := &handlers.CustomerHandler{Repo: customerRepo}
	deliveryHandler := &handlers.DeliveryHandler{Repo: deliveryRepo}
	billHandler := &handlers.BillHandler{
		Generator:         generator,
		Processor:         processor,
		Repo:              billRepo,
		PaymentWindowDays: cfg.PaymentWindowDays,
	}
	reconcileHandler := &handlers.ReconcileHandler{Reconciler: reconciler}
	profileHandler := &handlers.ProfileHandler{Repo: profileRepo}

	// PDF handler with combined repository
	pdfRepo := repository.NewPDFRepository(billRepo, customerRepo, deliveryRepo, profileRepo)
	pdfHandler := &handlers.PDFHandler{Repo: pdfRepo, SavePath: cfg.PDFSavePath, UploadR2: cfg.UploadR2}

	// Setup routes including PDF
	routes.SetupRoutes(userHandler, customerHandler, deliveryHandler,
		billHandler, reconcileHandler, profileHandler, pdfHandler)

	logger.Info("server running", zap.String("port", cfg.Port), zap.String("db_type", cfg.DBType))
	if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
