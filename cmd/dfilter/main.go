// Command dfilter views a packet capture through a Wireshark style display filter.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/clarktrimble/sabot"
	"github.com/spf13/cobra"

	"dfilter"
	nt "dfilter/entity"
	"dfilter/history"
	"dfilter/loader"
	"dfilter/store/duck"
	"dfilter/util"
)

const (
	cfgFile = "dfilter.yaml"
)

var (
	cfgPath string
	logPath string
)

// app holds what every subcommand needs
type app struct {
	cfg     *dfilter.Config
	logger  nt.Logger
	logFile io.Writer
	duck    *duck.Duck
	history *history.Store
}

func main() {

	rootCmd := &cobra.Command{
		Use:           "dfilter",
		Short:         "Filter packet captures with display filter expressions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", cfgFile, "config file")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "log file, overrides config")

	rootCmd.AddCommand(viewCmd(), checkCmd(), suggestCmd(), historyCmd(), sampleCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setup(ctx context.Context) (ap *app, err error) {

	cfg, err := dfilter.LoadConfig(cfgPath)
	if err != nil {
		return
	}
	if logPath != "" {
		cfg.LogFile = logPath
	}

	logFile := util.OpenLog(cfg.LogFile, 0644)
	lgr := (&sabot.Config{MaxLen: cfg.MaxLen}).New(logFile)

	ap = &app{
		cfg:     cfg,
		logger:  lgr,
		logFile: logFile,
	}

	if cfg.DuckPath != "" {
		ap.duck, err = duck.New(cfg.DuckPath, lgr)
		if err != nil {
			ap.close()
			return nil, err
		}
	}

	backend, err := cfg.HistoryBackend(ap.duck)
	if err != nil {
		ap.close()
		return nil, err
	}
	ap.history = cfg.History.Config.New(backend, lgr)

	lgr.Info(ctx, "dfilter starting", "config", cfgPath, "history", cfg.History.Backend)
	return
}

// source picks duckdb when configured, otherwise the capture itself
func (ap *app) source(path string) dfilter.Source {

	capSrc := dfilter.CaptureSource{
		Path:   path,
		Loader: loader.New(nil, ap.logger),
	}
	if ap.duck == nil {
		return capSrc
	}
	return dfilter.DuckSource{
		CaptureSource: capSrc,
		Duck:          ap.duck,
		Logger:        ap.logger,
	}
}

func (ap *app) newDfilter(src dfilter.Source) (*dfilter.Dfilter, error) {
	return ap.cfg.New(src, ap.history, ap.logger)
}

func (ap *app) close() {
	if ap.duck != nil {
		ap.duck.Close()
	}
	util.CloseLog(ap.logFile)
}

func sampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Write a sample config unless one exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return util.SampleConfig(dfilter.SampleConfig, cfgPath, 0644)
		},
	}
}
