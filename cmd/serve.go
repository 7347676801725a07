package cmd

import (
	"context"
	"time"

	"ngo-cms/pkg/config"
	"ngo-cms/pkg/handlers"
	"ngo-cms/pkg/logging"
	"ngo-cms/pkg/services"
	"ngo-cms/pkg/shortcode"
	"ngo-cms/pkg/youtube"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const watchDebounce = 500 * time.Millisecond

var (
	flagAutoFlush bool
	flagNoWatch   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&flagAutoFlush, "auto-flush", true, "Flush routes on startup when the prefixes changed")
	serveCmd.Flags().BoolVar(&flagNoWatch, "no-watch", false, "Do not watch the content directory for changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	log := logging.L()
	if !a.index.RoutesReady() {
		if flagAutoFlush {
			if err := services.Flush(a.index, a.options, a.registry); err != nil {
				return err
			}
		} else {
			log.Warn("routes are not flushed; public pages answer 404 until `ngo-cms flush` runs")
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if !flagNoWatch {
		w, err := services.NewWatcher(config.ContentPath(), watchDebounce, a.index.InvalidateCache)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	media := services.NewMedia(a.attachments)
	yt := youtube.NewClient(config.FeedTimeout)
	h := handlers.New(handlers.Deps{
		Registry: a.registry,
		Index:    a.index,
		Meta:     a.meta,
		Media:    media,
		Options:  a.options,
		Nonces:   services.NewNonces([]byte(config.SessionSecret)),
		Shortcodes: shortcode.New(shortcode.Deps{
			Repo:     a.index,
			Meta:     a.meta,
			Media:    media,
			Options:  a.options,
			Registry: a.registry,
			YouTube:  yt,
		}),
	})

	log.Info("listening",
		zap.String("addr", config.ListenAddr),
		zap.String("repo", config.RepoPath),
		zap.String("data", a.db.Path()),
	)
	return handlers.NewRouter(h, []byte(config.SessionSecret)).Run(config.ListenAddr)
}
