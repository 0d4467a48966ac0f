package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/folio"
	"github.com/eringen/folio/repos"
)

var (
	watch     bool
	serveAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the built site locally",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var memoTTL time.Duration
		if watch {
			memoTTL = repos.WatchMemoTTL
		}
		s, err := loadSite(memoTTL)
		if err != nil {
			return err
		}
		defer s.Close()

		addr := s.cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var b *folio.Builder
		if watch {
			if b, err = s.builder(); err != nil {
				return err
			}
			// Build once so a fresh checkout can be served immediately.
			if _, err := b.Build(ctx); err != nil {
				return err
			}
		}

		srv, err := folio.NewServer(s.cfg.Paths.Dist, addr, log.StandardLogger())
		if err != nil {
			return err
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Start(ctx)
		})
		if b != nil {
			g.Go(func() error {
				return b.Watch(ctx, folio.DefaultDebounce)
			})
		}
		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Rebuild when source files change")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}
