package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vitrine-signage/vitrine/internal/playback"
	"github.com/vitrine-signage/vitrine/internal/player"
)

func main() {
	env := LoadEnvironment()

	if env.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	screenID := env.ScreenID
	if screenID == 0 {
		resolved, err := resolveScreenID(ctx, env.ServerURL, env.DeviceID)
		if err != nil {
			log.Fatal().Err(err).Str("device_id", env.DeviceID).Msg("could not resolve screen for device")
		}
		screenID = resolved
	}
	log.Info().Int("screen_id", screenID).Msg("driving screen")

	source := player.NewHTTPSource(env.ServerURL, screenID, env.CacheDir, log.Logger)
	seq := playback.NewSequencer(screenID, playback.SystemClock, log.Logger)
	runner := playback.NewRunner(seq, source, log.Logger)

	if env.MQTTBrokerURL != "" && env.DeviceID != "" {
		notifier, err := player.StartNotifier(env.MQTTBrokerURL, env.DeviceID, runner.Notify, log.Logger)
		if err != nil {
			log.Warn().Err(err).Msg("schedule pushes unavailable, relying on polling")
		} else {
			defer notifier.Close()
		}
	}

	control := player.NewControlServer(seq)
	controlSrv := &http.Server{Addr: env.ControlAddress, Handler: control}
	go func() {
		log.Info().Str("address", env.ControlAddress).Msg("control API listening")
		if err := controlSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("control API exited")
		}
	}()

	err := runner.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("playback stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := controlSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("control API shutdown failed")
	}
	log.Info().Msg("player stopped")
}

// resolveScreenID asks the management server which screen this device was
// paired to. It retries while the device is still unpaired.
func resolveScreenID(ctx context.Context, serverURL, deviceID string) (int, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	url := fmt.Sprintf("%s/api/tv/screens/current?device_id=%s", serverURL, deviceID)

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return 0, err
		}

		resp, err := client.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			var screen struct {
				ID int `json:"id"`
			}
			decodeErr := json.NewDecoder(resp.Body).Decode(&screen)
			resp.Body.Close()
			if decodeErr == nil && screen.ID != 0 {
				return screen.ID, nil
			}
			err = decodeErr
		} else if err == nil {
			err = fmt.Errorf("server returned %s", resp.Status)
			resp.Body.Close()
		}

		log.Warn().Err(err).Msg("screen lookup failed, retrying")
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(10 * time.Second):
		}
	}
}
