package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stashnotify/stashnotify/config"
	"github.com/stashnotify/stashnotify/pkg/api"
	"github.com/stashnotify/stashnotify/pkg/buildevents"
	"github.com/stashnotify/stashnotify/pkg/constants"
	"github.com/stashnotify/stashnotify/pkg/core"
	errs "github.com/stashnotify/stashnotify/pkg/errors"
	"github.com/stashnotify/stashnotify/pkg/hostvalidator"
	"github.com/stashnotify/stashnotify/pkg/lumber"
	"github.com/stashnotify/stashnotify/pkg/notifier"
	"github.com/stashnotify/stashnotify/pkg/scm"
	"github.com/stashnotify/stashnotify/pkg/secrets/static"
	"github.com/stashnotify/stashnotify/pkg/secrets/vault"
	"github.com/stashnotify/stashnotify/pkg/server"
	"github.com/stashnotify/stashnotify/pkg/transport"
)

// RootCommand will setup and return the root command
func RootCommand() *cobra.Command {
	rootCmd := cobra.Command{
		Use:     "stashnotify",
		Long:    `stashnotify reports CI build statuses to a Bitbucket server, attaching each report to the commit that triggered the build.`,
		Version: constants.BinaryVersion,
		RunE:    run,
	}

	// define flags used for this command
	AttachCLIFlags(&rootCmd)

	return &rootCmd
}

// AttachCLIFlags attaches the command line flags to the command.
func AttachCLIFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "the config file to use")
	cmd.Flags().StringP("port", "p", constants.DefaultPort, "the http server port")
	cmd.Flags().Bool("verbose", true, "enable verbose logging")
}

func run(cmd *cobra.Command, args []string) error {
	// a WaitGroup for the goroutines to tell us they've stopped
	wg := sync.WaitGroup{}

	cfg, err := config.Load(cmd)
	if err != nil {
		fmt.Printf("Failed to load config: %v", err)
		return err
	}

	// patch logconfig file location with root level log file location
	if cfg.LogFile != "" {
		cfg.LogConfig.FileLocation = filepath.Join(cfg.LogFile, "stashnotify.log")
	}

	logger, err := lumber.NewLogger(&cfg.LogConfig, cfg.Verbose, lumber.InstanceZapLogger)
	if err != nil {
		log.Printf("could not instantiate logger %s", err.Error())
		return err
	}

	// misconfiguration of the status host is loud, everything downstream
	// degrades gracefully
	if verr := hostvalidator.New().ValidateHost(cfg.Bitbucket.Host); verr != nil {
		logger.Errorf("invalid status host %q: %v", cfg.Bitbucket.Host, verr)
		return verr
	}

	// create a context that we can cancel
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var credentialStore core.CredentialStore
	if cfg.Vault.Address != "" {
		credentialStore, err = vault.New(cfg, logger)
		if err != nil {
			logger.Errorf("could not instantiate vault credential store %v", err)
			return err
		}
	} else {
		credentialStore = static.New(cfg, logger)
	}

	notifierService := notifier.New(scm.New(logger), transport.New(logger), logger)

	// create child context so as to close kafka consumers and fail the
	// health API before the server stops.
	childCtx, childCancel := context.WithCancel(ctx)
	defer childCancel()

	routers := api.New(childCtx, cfg, notifierService, credentialStore, logger)

	wg.Add(1)
	// setup http server
	go func() {
		defer wg.Done()
		if err := server.ListenAndServe(ctx, &routers, cfg, logger); err != nil {
			logger.Errorf("error while running http server %v", err)
		}
	}()

	if cfg.Kafka.Brokers != "" && cfg.Kafka.BuildEvents.Topic != "" {
		buildEventsConsumer := buildevents.New(cfg, notifierService, credentialStore, logger)
		wg.Add(1)
		// start build events consumer
		go func() {
			defer wg.Done()
			buildEventsConsumer.Run(childCtx)
		}()
	}

	// listen for C-c
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	// create channel to mark status of waitgroup
	// this is required to brutally kill application in case of
	// timeout
	done := make(chan struct{})

	// asynchronously wait for all the go routines
	go func() {
		// and wait for all go routines
		wg.Wait()
		logger.Debugf("main: all goroutines have finished.")
		close(done)
	}()

	// wait for signal channel
	<-c
	logger.Debugf("main: received close signal - attempting graceful shutdown ....")
	childCancel()
	// add some delay so as to allow in-flight notifications to drain
	time.Sleep(cfg.ShutDownDelay)
	// tell the goroutines to stop
	logger.Debugf("main: telling all goroutines to stop")
	cancel()
	select {
	case <-done:
		logger.Debugf("Go routines exited within timeout")
	case <-time.After(cfg.GracefulTimeout):
		logger.Errorf("Graceful timeout exceeded. Brutally killing the application")
		return errs.ErrTimeoutExceeded
	}
	return nil
}
