// Package cmd holds the blog-cms command line.
package cmd

import (
	"os"

	"blog-cms/config"
	"blog-cms/logger"

	"github.com/spf13/cobra"
)

// runtime is filled by the root command before any subcommand runs.
type runtime struct {
	cfg *config.Config
	log logger.Logger
}

func RootCmd() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:           "blog-cms",
		Short:         "Blogging platform API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			rt.cfg = cfg
			rt.log = logger.New(logger.Config{
				Level:  cfg.LogLevel,
				JSON:   cfg.LogJSON,
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
	}

	root.AddCommand(
		serveCmd(rt),
		migrateCmd(rt),
		createAdminCmd(rt),
		importPincodesCmd(rt),
	)

	return root
}

func Execute() {
	root := RootCmd()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
