package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adda-Baaj/khobor-archiver/internal/app"
	"github.com/Adda-Baaj/khobor-archiver/internal/config"
	"github.com/Adda-Baaj/khobor-archiver/internal/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "archiver failed: %v\n", err)
		os.Exit(1)
	}
}

type crawlFlags struct {
	site  string
	start string
	end   string
	out   string
}

func newRootCmd() *cobra.Command {
	var flags crawlFlags

	root := &cobra.Command{
		Use:           "archiver",
		Short:         "Crawl Bengali news archives into JSON article records",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			return withArchiver(cmd.Context(), func(ctx context.Context, a *app.Archiver) error {
				res, err := a.Run(ctx, req)
				if err != nil {
					return fmt.Errorf("crawl %s: %w", req.SiteID, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d articles written to %s\n", len(res.Records), res.OutputPath)
				return nil
			})
		},
	}

	root.Flags().StringVar(&flags.site, "site", "", "site id to crawl (see the sites command)")
	root.Flags().StringVar(&flags.start, "start", "", "first archive date, YYYY-MM-DD")
	root.Flags().StringVar(&flags.end, "end", "", "last archive date, YYYY-MM-DD (defaults to --start)")
	root.Flags().StringVar(&flags.out, "out", "", "output file (defaults to <output_dir>/<site>_articles.json)")
	_ = root.MarkFlagRequired("site")
	_ = root.MarkFlagRequired("start")

	root.AddCommand(&cobra.Command{
		Use:   "sites",
		Short: "List the configured sites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withArchiver(cmd.Context(), func(_ context.Context, a *app.Archiver) error {
				for _, id := range a.SiteIDs() {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			})
		},
	})
	return root
}

func (f crawlFlags) request() (app.Request, error) {
	start, err := time.Parse(time.DateOnly, f.start)
	if err != nil {
		return app.Request{}, fmt.Errorf("invalid --start %q: %w", f.start, err)
	}
	end := start
	if f.end != "" {
		if end, err = time.Parse(time.DateOnly, f.end); err != nil {
			return app.Request{}, fmt.Errorf("invalid --end %q: %w", f.end, err)
		}
	}
	return app.Request{SiteID: f.site, Start: start, End: end, OutputPath: f.out}, nil
}

// withArchiver loads config and logging, builds the archiver and runs fn
// until it returns or the process is interrupted.
func withArchiver(parent context.Context, fn func(context.Context, *app.Archiver) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	archiver, err := app.NewArchiver(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize archiver", "error", err.Error())
		return err
	}
	defer func() {
		if cerr := archiver.Close(); cerr != nil {
			logger.ErrorObj("archiver close failed", "error", cerr.Error())
		}
	}()

	return fn(ctx, archiver)
}
