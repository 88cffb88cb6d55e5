package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/courseportal/apps/api/echo"
	"github.com/trezcool/courseportal/core"
	"github.com/trezcool/courseportal/core/catalog"
	"github.com/trezcool/courseportal/core/registration"
	"github.com/trezcool/courseportal/services/logger"
	"github.com/trezcool/courseportal/storage/database"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf := core.Conf

	// set up logger
	logger := logsvc.NewRollbarLogger(os.Stdout, conf)

	// set up DB
	repos, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = repos.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	// set up services
	catalogSvc := catalog.NewService(repos.Course)
	regSvc := registration.NewService(repos.Cart, catalogSvc, conf.Registration.MaxCredits)

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Wait()
	defer logger.Info("Application stopped")

	// start API server
	server := echoapi.NewServer(
		&echoapi.Options{
			Address:         conf.Server.Address,
			DisableReqLogs:  conf.Server.DisableReqLogs,
			Logger:          logger,
			CatalogSvc:      catalogSvc,
			RegistrationSvc: regSvc,
		},
	)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API listening on " + conf.Server.Address)
		serverErrors <- server.Start()
	}()

	// shutdown
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	select {
	case err = <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			logger.Error(fmt.Sprintf("server error: %v", err), err)
		}
	case sig := <-sigs:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
		stop(server, logger)
	case <-server.Shutdown():
		logger.Info("integrity issue: Start shutdown...")
		stop(server, logger)
	}
}

func stop(server echoapi.Server, logger core.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Error("could not stop server gracefully", errors.Wrap(err, "stopping server"))
	}
}
