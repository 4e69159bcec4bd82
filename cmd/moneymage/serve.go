package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/money-mage/internal/bot"
	"github.com/Veraticus/money-mage/internal/channel"
	"github.com/Veraticus/money-mage/internal/ledger"
	"github.com/Veraticus/money-mage/internal/oracle"
	"github.com/Veraticus/money-mage/internal/report"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat gateway",
		Long: `Start the websocket chat gateway and the conversation core behind it.
State is held in memory for the lifetime of the process.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8080", "listen address for the gateway")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	oracleCfg := oracle.Config{
		Provider:    viper.GetString("oracle.provider"),
		APIKey:      viper.GetString("oracle.api_key"),
		Model:       viper.GetString("oracle.model"),
		MaxRetries:  viper.GetInt("oracle.max_retries"),
		RateLimit:   viper.GetInt("oracle.rate_limit"),
		Temperature: viper.GetFloat64("oracle.temperature"),
		MaxTokens:   viper.GetInt("oracle.max_tokens"),
	}
	if oracleCfg.Provider == "" {
		oracleCfg.Provider = "anthropic"
	}

	advisor, err := oracle.NewAdvisor(oracleCfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create oracle: %w", err)
	}
	defer advisor.Close()

	store := ledger.NewMemoryStore()
	reports := report.NewEngine(store)
	registry := channel.NewRegistry()
	handler := bot.NewHandler(store, advisor, reports, logger, bot.WithNotifier(registry))
	gateway := channel.NewServer(handler, registry, logger)

	addr := viper.GetString("server.addr")
	srv := &http.Server{
		Addr:              addr,
		Handler:           gateway.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("gateway starting",
		"addr", addr,
		"provider", oracleCfg.Provider)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("gateway failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
