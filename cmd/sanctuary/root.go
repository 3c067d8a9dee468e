package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sanctuary/internal/config"
)

var version = "dev"

// app carries what every subcommand needs once configuration is resolved.
type app struct {
	stdout io.Writer
	stderr io.Writer
	v      *viper.Viper
	cfg    config.Config
	audit  bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, v: config.New()}
	var cfgFile string

	cmd := &cobra.Command{
		Use:          "sanctuary",
		Short:        "Place rescued primates into isolation and species enclosures",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := config.ReadFile(a.v, cfgFile); err != nil {
				return err
			}
			cfg, err := config.Decode(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetContext(context.Background())

	flags := cmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (YAML)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&a.audit, "audit", false, "write audit entries as JSON lines to stderr")
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))

	cmd.AddCommand(
		runCmd(a),
		reportCmd(a),
		shoppingListCmd(a),
		exportCmd(a),
	)
	return cmd
}
