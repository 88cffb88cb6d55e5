package main

import (
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/courseportal/core"
	"github.com/trezcool/courseportal/core/catalog"
	"github.com/trezcool/courseportal/services/logger"
	"github.com/trezcool/courseportal/storage/database"
)

func main() {
	logger := logsvc.NewRollbarLogger(os.Stderr, core.Conf)

	// set up DB
	repos, err := database.Open(core.Conf)
	if err != nil {
		logger.Fatal("setting up database", err)
	}

	// start CLI
	cli := commandLine{
		catalogSvc: catalog.NewService(repos.Course),
		maxCredits: core.Conf.Registration.MaxCredits,
	}
	code := reportError(logger, cli.run(os.Args[1:]))
	_ = repos.Close()
	logger.Wait()
	os.Exit(code)
}

// reportError logs a failed command and returns the exit code. Argument errors are logged as warnings.
func reportError(logger core.Logger, err error) int {
	if err == nil {
		return 0
	}
	var argErr *ArgumentError
	if errors.As(err, &argErr) {
		logger.Warn(err.Error())
		return 2
	}
	logger.Error("admin command failed", err)
	return 1
}
