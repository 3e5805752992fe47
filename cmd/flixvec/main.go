package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/liliang-cn/flixvec"
	"github.com/liliang-cn/flixvec/internal/config"
	"github.com/liliang-cn/flixvec/internal/logging"
	"github.com/liliang-cn/flixvec/pkg/source"
)

// app carries the global flags and the configuration they resolve to.
type app struct {
	configPath   string
	dataPath     string
	dataFormat   string
	metadataPath string
	logLevel     string
	logFormat    string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "flixvec",
		Short:         "Movie recommendations by embedding similarity",
		Long:          `A command-line interface for ranking movies by cosine similarity of precomputed feature vectors.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file (default: $FLIXVEC_CONFIG or ./flixvec.yaml)")
	flags.StringVarP(&a.dataPath, "data", "d", "", "Vector table path")
	flags.StringVarP(&a.dataFormat, "format", "f", "", "Vector table format (json, jsonl, csv, parquet, sqlite)")
	flags.StringVarP(&a.metadataPath, "metadata", "m", "", "Separate metadata table (e.g. imdb_top_1000.csv)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format (json, console)")

	rootCmd.AddCommand(
		a.recommendCmd(),
		a.showCmd(),
		a.listCmd(),
		a.statsCmd(),
		a.convertCmd(),
		a.serveCmd(),
	)
	return rootCmd
}

// loadConfig layers the changed global flags over file and env settings.
func (a *app) loadConfig(cmd *cobra.Command) error {
	overrides := map[string]any{}
	set := func(flag, key, value string) {
		if cmd.Flags().Changed(flag) {
			overrides[key] = value
		}
	}
	set("data", "data.path", a.dataPath)
	set("format", "data.format", a.dataFormat)
	set("metadata", "data.metadata_path", a.metadataPath)
	set("log-level", "logging.level", a.logLevel)
	set("log-format", "logging.format", a.logFormat)

	cfg, err := config.Load(config.Options{Path: a.configPath, Overrides: overrides})
	if err != nil {
		return err
	}
	a.cfg = cfg

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

func (a *app) open(ctx context.Context) (*flixvec.DB, error) {
	format, err := source.ParseFormat(a.cfg.Data.Format)
	if err != nil {
		return nil, err
	}
	metaFormat, err := source.ParseFormat(a.cfg.Data.MetadataFormat)
	if err != nil {
		return nil, err
	}

	db, err := flixvec.Open(ctx, flixvec.Config{
		Path:           a.cfg.Data.Path,
		Format:         format,
		MetadataPath:   a.cfg.Data.MetadataPath,
		MetadataFormat: metaFormat,
		Logger:         logging.Core("source"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	return db, nil
}

// titleArg joins the arguments so unquoted multi-word titles work.
func titleArg(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

var errNotFound = errors.New(flixvec.NotFoundMessage)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetAutoWrapText(false)
	return tw
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
