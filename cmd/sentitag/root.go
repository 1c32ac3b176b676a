package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cognicore/sentitag/internal/logging"
	"github.com/cognicore/sentitag/pkg/sentitag/config"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	lexicon    string
	extend     bool
	logLevel   string
	logFormat  string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "sentitag",
		Short: "Tag chat messages with sentiment categories",
		Long: `sentitag matches chat text against a phrase lexicon and reports every
sentiment category it triggers, or "neutral" when nothing matches.
It can also follow a saved chat page or JSONL transcript and react to
each new bot message.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd.Flags())
		},
	}

	fs := root.PersistentFlags()
	fs.StringVar(&opts.configPath, "config", "", "config file (YAML)")
	fs.StringVar(&opts.lexicon, "lexicon", "", "lexicon file (YAML), replaces the built-in lexicon")
	fs.BoolVar(&opts.extend, "extend", false, "merge --lexicon into the built-in lexicon instead of replacing it")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVar(&opts.logFormat, "log-format", "text", "log format: text, json")

	root.AddCommand(newClassifyCmd(opts))
	root.AddCommand(newCategoriesCmd(opts))
	root.AddCommand(newWatchCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(newServeCmd(opts))
	return root
}

// load reads the config file and applies flag overrides. Flags win over
// config values only when set explicitly.
func (o *globalOptions) load(fs *pflag.FlagSet) error {
	cfg := &config.Config{}
	if o.configPath != "" {
		loaded, err := config.LoadConfig(o.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if fs.Changed("lexicon") {
		cfg.Lexicon.Path = o.lexicon
	}
	if fs.Changed("extend") {
		cfg.Lexicon.Extend = o.extend
	}
	if fs.Changed("log-level") || cfg.Log.Level == "" {
		cfg.Log.Level = o.logLevel
	}
	if fs.Changed("log-format") || cfg.Log.Format == "" {
		cfg.Log.Format = o.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.InitLogger(cfg.Log.Level, cfg.Log.Format)
	o.cfg = cfg
	return nil
}
