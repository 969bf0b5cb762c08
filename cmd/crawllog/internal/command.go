// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package internal // import "github.com/politepol/crawllog/cmd/crawllog/internal"

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/politepol/crawllog/hostlog"
	"github.com/politepol/crawllog/internal/version"
	"github.com/politepol/crawllog/pipeline"
	"github.com/politepol/crawllog/stats"
)

const envPrefix = "CRAWLLOG_"

// configFlags maps the flags that mirror configuration keys.
var configFlags = map[string]string{
	"log-file":     "log_file",
	"log-level":    "log_level",
	"log-stdout":   "log_stdout",
	"log-encoding": "log_encoding",
	"log-syslog":   "log_syslog",
	"bot-name":     "bot_name",
}

type command struct {
	cfgFile         string
	input           string
	metricsTextfile string
	verbose         bool

	cfg    pipeline.Config
	k      *koanf.Koanf
	logger *zap.Logger
}

// Command is the main entrypoint for this application
func Command() (*cobra.Command, error) {
	c := &command{
		cfg:    pipeline.NewDefaultConfig(),
		k:      koanf.New("."),
		logger: zap.NewNop(),
	}
	cmd := &cobra.Command{
		SilenceUsage:  true, // Don't print usage on Run error.
		SilenceErrors: true, // Don't print errors; main does it.
		Use:           "crawllog",
		Long: fmt.Sprintf("crawllog (%s)", version.Version) + `

crawllog reads crawler events, one JSON object per line, and sends them through
the text, syslog and trace sinks configured by "--config", CRAWLLOG_*
environment variables and flags.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.run(cmd)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&c.cfgFile, "config", "", "logging configuration file")
	flags.StringVar(&c.input, "input", "-", "JSON-lines event file, - for standard input")
	flags.StringVar(&c.metricsTextfile, "metrics-textfile", "", "write event counters to this file in the Prometheus text format")
	flags.BoolVar(&c.verbose, "verbose", false, "print pipeline diagnostics")

	flags.String("log-file", c.cfg.File, "append log lines to this file instead of standard error")
	flags.String("log-level", c.cfg.Level.String(), "minimum level logged, by name or number")
	flags.Bool("log-stdout", c.cfg.Stdout, "log lines written to standard output")
	flags.String("log-encoding", c.cfg.Encoding, "text encoding of log lines")
	flags.Bool("log-syslog", c.cfg.Syslog, "send events to the local system log")
	flags.String("bot-name", c.cfg.BotName, "bot name reported at startup")

	cmd.AddCommand(versionCommand())
	return cmd, nil
}

func (c *command) run(cmd *cobra.Command) error {
	if c.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		c.logger = logger
		defer func() { _ = logger.Sync() }()
	}
	if err := c.initConfig(cmd.Flags()); err != nil {
		return err
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	collector, flush, err := c.newCollector(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	pub := hostlog.NewPublisher()
	p, err := pipeline.StartFromConfig(pub, c.cfg,
		pipeline.WithStats(collector),
		pipeline.WithLogger(c.logger))
	if err != nil {
		return err
	}
	if p != nil {
		if err := pipeline.LogStartup(ctx, pub, c.cfg, c.overridden()); err != nil {
			c.logger.Warn("Startup banner failed", zap.Error(err))
		}
	}

	in, closeIn, err := c.openInput(cmd.InOrStdin())
	if err != nil {
		return multierr.Append(err, p.Shutdown(ctx))
	}
	err = replay(ctx, pub, in, c.logger)
	err = multierr.Append(err, closeIn())
	err = multierr.Append(err, p.Shutdown(ctx))
	return multierr.Append(err, flush())
}

func (c *command) initConfig(flags *pflag.FlagSet) error {
	if c.cfgFile != "" {
		if err := c.k.Load(file.Provider(c.cfgFile), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to load configuration file: %w", err)
		}
		c.logger.Info("Using config file", zap.String("path", c.cfgFile))
	}

	// handle env variables
	if err := c.k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := c.k.Load(posflag.ProviderWithFlag(flags, ".", c.k, func(f *pflag.Flag) (string, any) {
		key, ok := configFlags[f.Name]
		if !ok {
			return "", nil
		}
		return key, posflag.FlagVal(flags, f)
	}), nil); err != nil {
		return fmt.Errorf("failed to load command line arguments: %w", err)
	}

	if err := c.k.UnmarshalWithConf("", &c.cfg, koanf.UnmarshalConf{
		Tag: "mapstructure",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
			WeaklyTypedInput: true,
			Result:           &c.cfg,
		},
	}); err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return nil
}

// overridden returns the configuration keys that differ from the defaults.
func (c *command) overridden() map[string]any {
	defaults, current := configMap(pipeline.NewDefaultConfig()), configMap(c.cfg)
	out := map[string]any{}
	for key, val := range current {
		if fmt.Sprint(val) != fmt.Sprint(defaults[key]) {
			out[key] = val
		}
	}
	return out
}

func configMap(cfg pipeline.Config) map[string]any {
	m := map[string]any{}
	// Decoding a struct into a map cannot fail.
	_ = mapstructure.Decode(cfg, &m)
	return m
}

func (c *command) newCollector(stdout io.Writer) (stats.Collector, func() error, error) {
	if c.metricsTextfile != "" {
		reg := prometheus.NewRegistry()
		p, err := stats.NewPrometheus(reg)
		if err != nil {
			return nil, nil, err
		}
		return p, func() error {
			return prometheus.WriteToTextfile(c.metricsTextfile, reg)
		}, nil
	}
	m := stats.NewMemory()
	return m, func() error {
		return dumpStats(stdout, m.Snapshot())
	}, nil
}

func (c *command) openInput(stdin io.Reader) (io.Reader, func() error, error) {
	if c.input == "" || c.input == "-" {
		return stdin, func() error { return nil }, nil
	}
	f, err := os.Open(c.input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, f.Close, nil
}

func dumpStats(w io.Writer, snapshot map[string]int64) error {
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Dumping stats:\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %d\n", k, snapshot[k])
	}
	_, err := io.WriteString(w, b.String())
	return err
}
