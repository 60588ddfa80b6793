package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/responsive_scopes/pkg/model"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/partition"
	"github.com/Dicklesworthstone/responsive_scopes/pkg/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		file     string
		port     int
		noReload bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scope resolution over HTTP",
		Long: `Serve the partition over HTTP so other tools can resolve widths and rewrite
asset paths:

  GET /scopes
  GET /resolve?width=900&height=600
  GET /infix?path=img/hero.png&width=900
  GET /unfix?path=img/hero_md.png

Without --port the first free port from 9000 to 9100 is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			entries, source, err := a.breakpoints(file)
			if err != nil {
				return err
			}
			p, err := partition.New(entries)
			if err != nil {
				return err
			}
			if port == 0 {
				port, err = server.FindAvailablePort(server.PortRangeStart, server.PortRangeEnd)
				if err != nil {
					return err
				}
			}

			srv := server.New(p, a.cfg.Scopes.Separator, port, a.logger)
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %d scopes at %s\n", p.Len(), srv.URL())

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.Run(gctx)
			})
			if source != "" && !noReload {
				fw, err := a.breakpointsWatcher(source, func(entries []model.Entry, err error) {
					if err != nil {
						return
					}
					next, err := partition.New(entries)
					if err != nil {
						a.logger.Warn("rejected reloaded breakpoints", "path", source, "error", err)
						return
					}
					srv.SetPartition(next)
				})
				if err != nil {
					return err
				}
				g.Go(func() error {
					if err := fw.Start(gctx); err != nil {
						return err
					}
					<-gctx.Done()
					fw.Stop()
					return nil
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVarP(&file, "breakpoints", "b", "", "breakpoints file (.yaml, .json or .jsonl)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on")
	cmd.Flags().BoolVar(&noReload, "no-reload", false, "do not reload the breakpoints file when it changes")
	return cmd
}
