package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/abhisek/coursefit/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scoring API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd, runtimeOptions{withStore: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		bc, err := rt.blogClient()
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		srv, err := api.New(api.Deps{
			Catalog:      rt.cat,
			Recorder:     rt.recorder,
			Blog:         bc,
			Logger:       rt.log,
			Registry:     reg,
			AllowOrigins: rt.cfg.Server.AllowOrigins,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt.log.Info("serving", "addr", rt.cfg.Server.Addr)
		return srv.Run(ctx, rt.cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
}
