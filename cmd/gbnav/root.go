package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SprayArt/ardk-upm/observability"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type app struct {
	v   *viper.Viper
	log *zap.Logger
	out io.Writer
}

func newApp(out io.Writer) *app {
	return &app{v: viper.New(), log: zap.NewNop(), out: out}
}

func (a *app) command() *cobra.Command {
	root := &cobra.Command{
		Use:           "gbnav",
		Short:         "Plan and simulate gameboard navigation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}
	root.SetOut(a.out)

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default is ./gbnav.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "console", "log format: console or json")
	pf.String("log-file", "", "also write JSON logs to this rotating file")
	pf.String("level", "default.json", "level file, or the name of an embedded level")
	pf.String("agent", "agent.yaml", "agent prefab")

	root.AddCommand(a.planCommand(), a.simulateCommand(), a.listCommand())
	return root
}

// initialize binds flags, the optional config file and GBNAV_* environment
// variables, then builds the logger.
func (a *app) initialize(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	if cfgFile := a.v.GetString("config"); cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName("gbnav")
		a.v.SetConfigType("yaml")
	}
	a.v.SetEnvPrefix("GBNAV")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	var cfg observability.Config
	if err := a.v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Name = "gbnav"
	a.log = observability.NewLogger(cfg)
	return nil
}
