package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dazca/municat/internal/fusion"
	"github.com/dazca/municat/internal/server"
	"github.com/dazca/municat/internal/snapshot"
)

var (
	servePort   int
	serveNoWarm bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the fused feature table over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		src, _, err := buildSource()
		if err != nil {
			return err
		}
		engine := buildEngine(src)

		var st *snapshot.Store
		if cfg.Snapshot.Path != "" {
			st, err = snapshot.Open(cfg.Snapshot.Path)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Migrate(ctx); err != nil {
				return err
			}
		}

		// Warm start: serve the last persisted cycle while the first live
		// one loads.
		var initial *fusion.Result
		if st != nil && !serveNoWarm {
			initial, err = st.Latest(ctx)
			if err != nil {
				return err
			}
			if initial != nil {
				zap.L().Info("warm start from snapshot",
					zap.String("cycle_id", initial.CycleID.String()),
					zap.Time("loaded_at", initial.LoadedAt),
				)
			}
		}

		reload := func(ctx context.Context) (*fusion.Result, error) {
			result, err := engine.Run(ctx)
			if err != nil {
				return nil, err
			}
			if st != nil {
				if err := st.Save(ctx, result); err != nil {
					zap.L().Warn("snapshot save failed", zap.Error(err))
				}
			}
			return result, nil
		}

		srv := server.New(reload, initial)

		// Kick off the first live cycle in the background; the snapshot
		// (or a 503) serves in the meantime.
		go func() {
			result, err := reload(ctx)
			if err != nil {
				zap.L().Error("initial load cycle failed", zap.Error(err))
				return
			}
			srv.SetResult(result)
		}()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: srv.Handler(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			httpSrv.Shutdown(context.Background()) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().BoolVar(&serveNoWarm, "no-warm", false, "skip warm start from the snapshot store")
	rootCmd.AddCommand(serveCmd)
}
