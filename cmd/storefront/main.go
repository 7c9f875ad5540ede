// Command storefront is the Mint Kitchen ordering client. It reads the menu
// from the API, builds a cart and pays for it through the sandbox card form.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Lixing-Zhang/mint-kitchen/internal/config"
	"github.com/Lixing-Zhang/mint-kitchen/internal/gateway"
	"github.com/Lixing-Zhang/mint-kitchen/pkg/logger"
)

var Version = "dev"

// app is shared by every subcommand once the root has loaded config.
type app struct {
	cfg *config.StorefrontConfig
	log *slog.Logger
	api *gateway.Client
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Mint Kitchen ordering client",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadStorefront()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel)
			a.api = gateway.NewClient(cfg.APIBaseURL,
				gateway.WithTimeout(cfg.GatewayTimeout),
				gateway.WithLogger(a.log),
			)
			return nil
		},
	}

	rootCmd.AddCommand(menuCmd(a))
	rootCmd.AddCommand(categoriesCmd(a))
	rootCmd.AddCommand(itemCmd(a))
	rootCmd.AddCommand(checkoutCmd(a))

	return rootCmd
}
