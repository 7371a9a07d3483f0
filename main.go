// linkbot is an IRC bot that remembers which external-service account each
// user has linked.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"linkbot/logging"
)

var (
	confFile string
	logLevel string
	dataDir  string
	server   string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "linkbot",
		Short:        "IRC bot that links users to external accounts",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&confFile, "conf", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&logLevel, "log", "", "log level (debug|info|warn|error)")
	root.PersistentFlags().StringVar(&dataDir, "data", "", "data directory")
	root.PersistentFlags().StringVar(&server, "server", "", "IRC server host:port")

	root.AddCommand(runCmd(), registerCmd(), accountsCmd(), lookupCmd())
	return root
}

// openBot loads configuration, applies flag overrides and opens the bot's
// stores.
func openBot() (*Bot, error) {
	cfg, err := LoadConfig(confFile)
	if err != nil {
		return nil, fmt.Errorf("config did not load: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if server != "" {
		cfg.Server.Addr = server
	}
	return NewBot(cfg, logging.New(cfg.LogLevel, nil))
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to IRC and serve commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBot()
			if err != nil {
				return err
			}
			defer b.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return b.ConnectAndRun(ctx)
		},
	}
}

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <account> <password> [hostmask]",
		Short: "Register a bot account",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBot()
			if err != nil {
				return err
			}
			defer b.Close()

			mask := ""
			if len(args) == 3 {
				mask = args[2]
			}
			if err := b.Users.Register(args[0], args[1], mask); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", args[0])
			return nil
		},
	}
}

func accountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List registered accounts and their hostmasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBot()
			if err != nil {
				return err
			}
			defer b.Close()

			accts, err := b.Users.Accounts()
			if err != nil {
				return err
			}
			for _, a := range accts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%v\n", a.Name, a.Hostmasks)
			}
			return nil
		},
	}
}

func lookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <nick!ident@host>",
		Short: "Show the key a prefix resolves to and its linked account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBot()
			if err != nil {
				return err
			}
			defer b.Close()

			key, link, ok, err := b.Lookup(args[0])
			if err != nil {
				return err
			}
			if !ok {
				link = "(none)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", key, link)
			return nil
		},
	}
}
