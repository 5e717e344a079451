package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/canonical/lxd/shared/logger"
	"github.com/spf13/cobra"

	"github.com/cephmod/cephmod/api"
)

type cmdServe struct {
	common *CmdControl

	flagListen string
}

func (c *cmdServe) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve module invocations over HTTP.",
		RunE:  c.Run,
	}

	cmd.Flags().StringVar(&c.flagListen, "listen", "", "Address to listen on (default from the configuration).")
	return cmd
}

func (c *cmdServe) Run(cmd *cobra.Command, args []string) error {
	listen := c.flagListen
	if listen == "" {
		listen = c.common.config.Server.Listen
	}

	s := &api.Server{Applier: c.common.invoker()}
	srv := &http.Server{
		Addr:              listen,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Serving modules on %s", listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed serving on %s: %w", listen, err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
