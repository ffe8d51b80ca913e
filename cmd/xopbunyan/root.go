package main

import (
	"strings"

	"github.com/xoplog/xopbunyan-go/xopbunyan"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// configKeys are the xopbunyan.Config keys that viper looks up
var configKeys = []string{
	"name",
	"schema_version",
	"span_ids",
	"span_type",
	"span_fields",
	"span_starts",
	"idle_time",
	"merge_cache",
	"message_style",
	"skip_fields",
	"default_fields",
	"levels",
}

type app struct {
	v          *viper.Viper
	configFile string
	debug      bool
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetEnvPrefix("XOPBUNYAN")
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:          "xopbunyan",
		Short:        "Bunyan JSON output for xop spans",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.configFile == "" {
				return nil
			}
			a.v.SetConfigFile(a.configFile)
			return errors.Wrapf(a.v.ReadInConfig(), "read config %s", a.configFile)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (yaml, json, or toml)")
	flags.BoolVar(&a.debug, "debug", false, "log formatter diagnostics to stderr")
	flags.String("name", "xopbunyan", "value of the Bunyan name field")
	flags.Bool("span-ids", false, "write span_id and parent_span_id")
	flags.Bool("span-type", false, "write span_type")
	flags.Bool("idle-time", false, "write idle_milliseconds on span end records")
	flags.String("message-style", "plain", "span message style: plain or bracketed")
	flags.StringSlice("skip-fields", nil, "keys to leave out of every record")
	for _, name := range []string{"name", "span-ids", "span-type", "idle-time", "message-style", "skip-fields"} {
		key := flagKey(name)
		if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err.Error())
		}
	}
	// the flag default only applies when nothing else sets name
	a.v.SetDefault("name", "xopbunyan")

	root.AddCommand(a.demoCmd(), checkCmd())
	return root
}

func flagKey(flag string) string { return strings.ReplaceAll(flag, "-", "_") }

// config gathers whatever viper knows about into a xopbunyan.Config
func (a *app) config() (xopbunyan.Config, error) {
	raw := make(map[string]interface{})
	for _, key := range configKeys {
		if a.v.IsSet(key) {
			raw[key] = a.v.Get(key)
		}
	}
	return xopbunyan.DecodeConfig(raw)
}

func (a *app) options() ([]xopbunyan.Option, *zap.Logger, error) {
	c, err := a.config()
	if err != nil {
		return nil, nil, err
	}
	opts, err := c.Options()
	if err != nil {
		return nil, nil, err
	}
	diag := zap.NewNop()
	if a.debug {
		diag, err = zap.NewDevelopment()
		if err != nil {
			return nil, nil, errors.Wrap(err, "build diagnostics logger")
		}
		opts = append(opts, xopbunyan.WithDiagnostics(diag))
	}
	return opts, diag, nil
}
