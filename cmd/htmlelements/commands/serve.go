package commands

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/livetemplate/htmlelements/internal/server"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the showcase server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("host", "", "listen host (overrides config)")
	cmd.Flags().IntP("port", "p", 0, "listen port (overrides config)")
	cmd.Flags().BoolP("watch", "w", false, "reload when the config file changes")
	cmd.Flags().Bool("debug", false, "verbose logging")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Flags override config file values
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Server.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("debug") {
		cfg.Server.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("watch") {
		cfg.Features.HotReload, _ = flags.GetBool("watch")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Server.Debug {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	}

	srv, err := server.New(cfg)
	if err != nil {
		return err
	}

	if cfg.Features.HotReload {
		if err := srv.EnableWatch(cfg.Server.Debug); err != nil {
			log.Printf("[Watch] Hot reload disabled: %v", err)
		}
	}

	if path := cfg.Path(); path != "" {
		log.Printf("[Config] Using %s", path)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}
