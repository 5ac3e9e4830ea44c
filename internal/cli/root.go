// Package cli implements the treasurehunt command tree. Every flag can
// also be set through the environment with the TREASUREHUNT_ prefix, e.g.
// TREASUREHUNT_ADMIN_PASSWORD for --admin-password.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "TREASUREHUNT"

// options holds the settings shared across subcommands
type options struct {
	bind          string
	port          int
	dbPath        string
	cluesPath     string
	adminPassword string
	storageType   string
	sessionStore  string
	redisURL      string
	baseURL       string
	verbose       bool
}

// Execute runs the root command
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "treasurehunt",
		Short:         "A QR-code scavenger hunt with a live leaderboard.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	fs := cmd.PersistentFlags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&opts.bind, "bind", "b", "", "address to bind to (env: TREASUREHUNT_BIND)")
	fs.IntVarP(&opts.port, "port", "p", 8080, "port to listen on (env: TREASUREHUNT_PORT)")
	fs.StringVar(&opts.dbPath, "db", "treasurehunt.db", "path to the sqlite database (env: TREASUREHUNT_DB)")
	fs.StringVar(&opts.cluesPath, "clues", "data/clues.yaml", "path to the clue chain file (env: TREASUREHUNT_CLUES)")
	fs.StringVar(&opts.adminPassword, "admin-password", "", "admin password; empty disables admin access (env: TREASUREHUNT_ADMIN_PASSWORD)")
	fs.StringVar(&opts.storageType, "storage", "sqlite", "player store backend: sqlite or memory (env: TREASUREHUNT_STORAGE)")
	fs.StringVar(&opts.sessionStore, "session-store", "memory", "session backend: memory or redis (env: TREASUREHUNT_SESSION_STORE)")
	fs.StringVar(&opts.redisURL, "redis-url", "", "redis connection URL for the session store (env: TREASUREHUNT_REDIS_URL)")
	fs.StringVar(&opts.baseURL, "base-url", "http://localhost:8080", "public base URL encoded into QR posters (env: TREASUREHUNT_BASE_URL)")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "debug-level logging (env: TREASUREHUNT_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newResetCmd(opts))
	cmd.AddCommand(newQRCodesCmd(opts))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	return cmd
}
