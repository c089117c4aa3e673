package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/cryptellation/auditreport/pkg/auditreport"
	"github.com/cryptellation/auditreport/pkg/config"
	"github.com/cryptellation/auditreport/pkg/logging"
	"github.com/cryptellation/auditreport/pkg/tracing"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var configPath string

func main() {
	v := config.New()

	var rootCmd = &cobra.Command{
		Use:           "auditreport",
		Short:         "Auditreport converts cargo-audit results into a dependency-scanning report",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), v)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Path to the config file")
	flags.StringP("output", "o", "", "Write the report to this file instead of stdout")
	flags.String("schema-version", "", "Report schema version (2.0, 14.1.2, 15.0.7)")
	flags.String("lockfile", "", "Path to the lockfile")
	flags.String("advisories", "", "Path to the cargo-audit JSON report, - for stdin")
	bindFlags(v, rootCmd, map[string]string{
		"output":          "output",
		"schema_version":  "schema-version",
		"lockfile.path":   "lockfile",
		"advisories.path": "advisories",
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logging.L().Error("Command execution failed", zap.Error(err))
		os.Exit(1)
	}
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func run(ctx context.Context, v *viper.Viper) error {
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logging.Init(cfg.Log.Level); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	tp, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    "auditreport",
		ServiceVersion: auditreport.Version,
		Endpoint:       cfg.Tracing.Endpoint,
		SampleRate:     cfg.Tracing.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logging.C(ctx).Warn("Failed to flush spans", zap.Error(err))
		}
	}()

	r, err := auditreport.New(ctx, cfg, os.Getenv("GITHUB_TOKEN"), os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}
	defer r.Close()

	var out bytes.Buffer
	if err := r.Run(ctx, &out, os.Stderr); err != nil {
		return err
	}

	if cfg.Output == "" {
		_, err = os.Stdout.Write(out.Bytes())
		return err
	}
	if err := os.WriteFile(cfg.Output, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logging.C(ctx).Info("Report saved", zap.String("path", cfg.Output))
	return nil
}
