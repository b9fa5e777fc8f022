package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auzerolog "github.com/StephanHCB/go-autumn-logging-zerolog"

	"github.com/oremont/rfp-service/internal/config"
	"github.com/oremont/rfp-service/internal/entities"
	"github.com/oremont/rfp-service/internal/interaction"
	"github.com/oremont/rfp-service/internal/logging"
	"github.com/oremont/rfp-service/internal/repository/database"
	"github.com/oremont/rfp-service/internal/repository/database/inmemory"
	"github.com/oremont/rfp-service/internal/repository/database/mysql"
	"github.com/oremont/rfp-service/internal/repository/downstreams/sapservice"
	"github.com/oremont/rfp-service/internal/sapsync"
	"github.com/oremont/rfp-service/internal/server"
)

func main() {
	configFilePath := flag.String("config", "config.yaml", "location of the configuration file")
	flag.Parse()

	logger := logging.NewLogger()

	if err := config.LoadConfiguration(*configFilePath, logger.Error); err != nil {
		logger.Fatal("could not load configuration: %v", err)
	}

	conf, err := config.GetApplicationConfig()
	if err != nil {
		logger.Fatal("could not obtain application configuration: %v", err)
	}

	logging.SetGlobalSeverity(conf.Logging.Severity)
	// route the autumn restclient/circuitbreaker logging through zerolog
	auzerolog.SetupJsonLogging(conf.Service.Name)

	repo, err := createRepository(conf, logger)
	if err != nil {
		logger.Fatal("could not set up the database: %v", err)
	}

	if err := repo.Migrate(); err != nil {
		logger.Fatal("could not migrate the database: %v", err)
	}

	i, err := interaction.NewServiceInteractor(repo, logger)
	if err != nil {
		logger.Fatal("could not create the service interactor: %v", err)
	}

	sap, err := sapservice.New(conf.Service.SapService, conf.Security.Fixed.Api)
	if err != nil {
		logger.Fatal("could not create the sap service client: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sapsync.NewWorker(conf.SapSync, repo, sap, logger).Start(ctx)

	router := server.CreateRouter(i, &conf.Security)
	srv := server.NewServer(ctx, conf.Server, router)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		cancel()
		logger.Info("stopping services now")

		tCtx, tcancel := context.WithTimeout(context.Background(), time.Second*5)
		defer tcancel()

		if err := srv.Shutdown(tCtx); err != nil {
			logger.Fatal("couldn't shutdown server gracefully: %v", err)
		}
	}()

	logger.Info("listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped unexpectedly: %v", err)
	}
}

func createRepository(conf *config.Application, logger logging.Logger) (database.Repository, error) {
	switch conf.Database.Use {
	case config.Mysql:
		return mysql.NewMySQLConnector(conf.Database, logger)
	default:
		logger.Warn("using inmemory database, all data is lost on shutdown (not useful for production!)")
		db := inmemory.NewInMemoryProvider()
		seedLookupData(db)
		return db, nil
	}
}

// seedLookupData gives the development database a minimal set of reference
// rows so requests can be created right away.
func seedLookupData(db *inmemory.InmemoryProvider) {
	db.SeedCurrency(entities.Currency{Code: "IDR", Name: "Indonesian Rupiah"})
	db.SeedCurrency(entities.Currency{Code: "USD", Name: "US Dollar"})
	db.SeedUsageCategory(entities.UsageCategory{Code: "OPEX", Description: "Operational expense"})
	db.SeedUsageCategory(entities.UsageCategory{Code: "CAPEX", Description: "Capital expense"})
}
