package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/liliang-cn/flixvec"
	"github.com/liliang-cn/flixvec/internal/api"
	"github.com/liliang-cn/flixvec/internal/logging"
	"github.com/liliang-cn/flixvec/internal/metrics"
	"github.com/liliang-cn/flixvec/pkg/source"
)

func (a *app) recommendCmd() *cobra.Command {
	var (
		n          int
		outputJSON bool
		showScores bool
	)

	cmd := &cobra.Command{
		Use:   "recommend <title>",
		Short: "Recommend movies similar to a title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("n") {
				n = a.cfg.Recommend.DefaultN
			}

			db, err := a.open(cmd.Context())
			if err != nil {
				return err
			}

			recs, err := db.RecommendMovies(titleArg(args), n)
			if flixvec.IsNotFound(err) {
				return errNotFound
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				return printJSON(out, recs)
			}

			header := []string{"#", "Title", "Genre"}
			if showScores {
				header = append(header, "Score")
			}
			tw := newTable(out, header...)
			for i, r := range recs {
				row := []string{strconv.Itoa(i + 1), r.Title, r.Genre}
				if showScores {
					row = append(row, fmt.Sprintf("%.4f", r.Score))
				}
				tw.Append(row)
			}
			tw.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&n, "n", "n", flixvec.DefaultN, "Number of recommendations")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&showScores, "scores", false, "Show similarity scores")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "show <title>",
		Short: "Show the metadata of a movie",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open(cmd.Context())
			if err != nil {
				return err
			}

			movie, err := db.Movie(titleArg(args))
			if flixvec.IsNotFound(err) {
				return errNotFound
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				return printJSON(out, movie)
			}

			tw := newTable(out, "Field", "Value")
			tw.Append([]string{"Title", movie.Title})
			tw.Append([]string{"Genre", movie.Genre})
			tw.Append([]string{"Poster", movie.PosterLink})
			tw.Append([]string{"Dimensions", strconv.Itoa(len(movie.Vector))})
			tw.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output as JSON")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var (
		query      string
		limit      int
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List titles, sorted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open(cmd.Context())
			if err != nil {
				return err
			}

			titles := db.Search(query, limit)
			out := cmd.OutOrStdout()
			if outputJSON {
				return printJSON(out, titles)
			}
			for _, title := range titles {
				fmt.Fprintln(out, title)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "search", "s", "", "Only titles containing this text (case-insensitive)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of titles (0 for all)")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output as JSON")
	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Display dataset statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open(cmd.Context())
			if err != nil {
				return err
			}

			stats := db.Stats()
			out := cmd.OutOrStdout()
			if outputJSON {
				return printJSON(out, stats)
			}

			vectorBytes := uint64(stats.Movies) * uint64(stats.Dimensions) * 8
			tw := newTable(out, "Stat", "Value")
			tw.Append([]string{"Source", stats.Source})
			tw.Append([]string{"Format", string(stats.Format)})
			if info, err := os.Stat(stats.Source); err == nil {
				tw.Append([]string{"File size", humanize.Bytes(uint64(info.Size()))})
			}
			tw.Append([]string{"Movies", humanize.Comma(int64(stats.Movies))})
			tw.Append([]string{"Dimensions", strconv.Itoa(stats.Dimensions)})
			tw.Append([]string{"Vector memory", humanize.Bytes(vectorBytes)})
			tw.Append([]string{"Catalog entries", humanize.Comma(int64(stats.CatalogEntries))})
			tw.Append([]string{"Without metadata", humanize.Comma(int64(stats.Unannotated))})
			tw.Append([]string{"Load time", stats.LoadDuration.String()})
			tw.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "Output as JSON")
	return cmd
}

func (a *app) convertCmd() *cobra.Command {
	var (
		outPath string
		to      string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Rewrite the dataset in another format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := source.ParseFormat(to)
			if err != nil {
				return err
			}

			db, err := a.open(cmd.Context())
			if err != nil {
				return err
			}

			if err := source.Write(cmd.Context(), outPath, format, db.Dataset()); err != nil {
				return fmt.Errorf("failed to convert: %w", err)
			}

			if format == "" {
				format, _ = source.DetectFormat(outPath)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s movies to %s (%s)\n",
				humanize.Comma(int64(db.Stats().Movies)), outPath, format)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output path")
	cmd.Flags().StringVar(&to, "to", "", "Output format (detected from --out when empty)")
	cmd.MarkFlagRequired("out")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recommendations over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				host, port, err := net.SplitHostPort(addr)
				if err != nil {
					return fmt.Errorf("invalid --addr: %w", err)
				}
				p, err := strconv.Atoi(port)
				if err != nil {
					return fmt.Errorf("invalid --addr port: %w", err)
				}
				a.cfg.Server.Host = host
				a.cfg.Server.Port = p
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := a.open(ctx)
			if err != nil {
				return err
			}

			stats := db.Stats()
			metrics.SetDataset(stats.Movies, stats.Dimensions, stats.CatalogEntries, stats.LoadDuration)
			logging.Info().
				Int("movies", stats.Movies).
				Int("dimensions", stats.Dimensions).
				Dur("load_duration", stats.LoadDuration).
				Msg("dataset ready")

			return api.NewServer(db, a.cfg).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address host:port (default from config)")
	return cmd
}
