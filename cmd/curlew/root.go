package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.curlew.org/curlew/core"
	"go.curlew.org/curlew/log"
	"go.curlew.org/curlew/server"
)

var rootCmd = &cobra.Command{
	Use:               "curlew",
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	Short:             "Curlew is a content export server for mobile apps",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := core.ParseConfig()
		if err != nil {
			return err
		}

		defer func() {
			_ = log.L().Sync()
		}()

		quit := make(chan os.Signal, 1)
		srv, err := server.NewServer(c)
		if err != nil {
			return err
		}

		log := log.S()

		go func() {
			log.Info("starting server")
			err := srv.Start()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("failed to start server: %s", err)
			}
			quit <- os.Interrupt
		}()

		signal.Notify(quit, os.Interrupt)
		<-quit

		log.Info("stopping server")
		return srv.Stop()
	},
}
