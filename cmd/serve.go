package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/symbolica-app/symbolica/internal/catalog"
	"github.com/symbolica-app/symbolica/internal/db"
	"github.com/symbolica-app/symbolica/internal/events"
	"github.com/symbolica-app/symbolica/internal/evidence"
	"github.com/symbolica-app/symbolica/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the symbolica HTTP API server",
	Long:  `Starts the enrichment API server with quest and symbol records, clue evidence voting, related-symbol search, and a live enrichment event feed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.Port = servePort
		}

		database, err := db.Open(dbPath(cfg))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		hub := events.NewHub()
		pipeline, err := buildPipeline(cfg, hub)
		if err != nil {
			return err
		}

		index, err := loadIndex(cfg)
		if err != nil {
			return err
		}
		catalogStore := catalog.NewStore(database)

		// Index any symbols created while the export was stale.
		if symbols, err := catalogStore.ListSymbols(cmd.Context()); err == nil && index.Count() < len(symbols) {
			if err := index.Rebuild(cmd.Context(), symbols); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: rebuilding symbol index: %v\n", err)
			}
		}

		srv := server.New(server.Config{Port: cfg.Port, AllowAll: true}, server.Deps{
			DB:       database,
			Pipeline: pipeline,
			Catalog:  catalogStore,
			Evidence: evidence.NewStore(database, evidence.Thresholds{
				ConfirmVotes: cfg.Evidence.ConfirmVotes,
				DisputeVotes: cfg.Evidence.DisputeVotes,
			}),
			Index: index,
			Hub:   hub,
		})

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "symbolica server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath(cfg))
		fmt.Fprintf(os.Stderr, "  Providers: %v\n", pipeline.Eligible())
		fmt.Fprintf(os.Stderr, "  Symbols indexed: %d\n", index.Count())

		if err := srv.Start(); err != nil {
			return err
		}

		// The listener has stopped; export the index before exiting.
		if err := index.Persist(indexPath(cfg)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: persisting symbol index: %v\n", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
