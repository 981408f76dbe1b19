package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sitenav/internal/commerce"
	"github.com/ziadkadry99/sitenav/internal/db"
	"github.com/ziadkadry99/sitenav/internal/importer"
	"github.com/ziadkadry99/sitenav/internal/logging"
	"github.com/ziadkadry99/sitenav/internal/nav"
	"github.com/ziadkadry99/sitenav/internal/search"
	"github.com/ziadkadry99/sitenav/internal/server"
	"github.com/ziadkadry99/sitenav/internal/storage"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the header service",
	Long:  `Starts the HTTP service that renders the site header, answers search suggestion requests and drives live search boxes over websockets.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		envName, env, err := cfg.Active()
		if err != nil {
			return err
		}
		log := logging.Get(0)

		database, err := db.Open(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		deps := server.Deps{
			DB:       database,
			Store:    storage.NewSQL(database),
			Searcher: search.NewClient(env.SearchConfig(), nil),
			Nav:      nav.NewAssembler(cfg.ContentBase, nil, commerce.NewClient(env.CommerceBase(), nil)),
			Imports:  importer.NewStore(database),
		}
		if cfg.Importer.AuthorHost != "" {
			fetcher, err := importer.NewFetcher(cfg.Importer.AuthorHost, nil)
			if err != nil {
				return fmt.Errorf("configuring importer: %w", err)
			}
			deps.Converter = importer.NewConverter(fetcher)
		}

		addr := cfg.Listen
		if cmd.Flags().Changed("port") {
			addr = fmt.Sprintf(":%d", servePort)
		}
		srv := server.New(server.Config{
			Addr:        addr,
			CORSOrigins: cfg.CORSOrigins,
			SearchPage:  env.SearchPage,
		}, deps)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			log.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error(err, "server shutdown")
			}
		}()

		log.Info("starting sitenav",
			"version", Version,
			"environment", envName,
			"database", cfg.DBPath(),
			"content_base", cfg.ContentBase,
			"importer", deps.Converter != nil)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on, overrides listen in the config file")
	rootCmd.AddCommand(serveCmd)
}
