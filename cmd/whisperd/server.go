package whisperd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sjzar/whisperd/internal/whisperd/conf"
	whisperdhttp "github.com/sjzar/whisperd/internal/whisperd/http"
	"github.com/sjzar/whisperd/internal/whisperd/runtime"
	"github.com/sjzar/whisperd/pkg/util"
)

var serverAddr string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the transcription HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServer(); err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	},
}

func init() {
	serverCmd.Flags().StringVar(&serverAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serverCmd)
}

func runServer() error {
	cfg, err := conf.Load(configFile)
	if err != nil {
		return err
	}
	if serverAddr != "" {
		cfg.HTTPAddr = serverAddr
	}
	if debug {
		cfg.Debug = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := runtime.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	capability := rt.DecoderCapability()
	if capability.Available {
		log.Info().Str("path", capability.Path).Msg("external decoder available")
	} else {
		log.Info().Str("reason", capability.Reason).Msg("external decoder unavailable, built-in wav decoder only")
	}

	svc := whisperdhttp.NewService(cfg, rt)
	log.Info().Str("url", util.ComposeLANURL(cfg.HTTPAddr)).Msg("transcription API ready")

	errCh := make(chan error, 1)
	go func() {
		if err := svc.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		return svc.Stop()
	}
}
