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

	"github.com/ziadkadry99/doc-chat/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve [document]",
	Short: "Start the HTTP server for document chat",
	Long: `Starts the docchat HTTP server: document upload, websocket chat with
streamed answers, summaries, and transcript export. An optional document
path preloads and indexes a document before the server starts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.Port = servePort
		}

		log := newLogger()
		sess, engine, summarizer, err := buildPipeline(cfg, log)
		if err != nil {
			return err
		}

		if len(args) == 1 {
			if err := indexDocument(cmd.Context(), sess, cfg, args[0]); err != nil {
				return err
			}
		}

		srv := server.New(cfg, sess, engine, summarizer, log)

		// Graceful shutdown on SIGINT/SIGTERM.
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case sig := <-stop:
			log.Info().Str("signal", sig.String()).Msg("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		}
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured HTTP port")
	rootCmd.AddCommand(serveCmd)
}
