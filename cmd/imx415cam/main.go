// Command imx415cam runs the CSI-2 raw capture pipeline and serves it
// over HTTP: a live MJPEG stream, single-frame snapshots, and a small
// control surface for render mode and detection (spec.md §1, §5).
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"imx415cam/config"
	"imx415cam/controller"
	"imx415cam/logging"
	"imx415cam/models"
	"imx415cam/pipeline"
	"imx415cam/services/acquisition"
	"imx415cam/services/detector"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (defaults used if empty)")
	logLevel := flag.String("log-level", "INFO", "DEBUG, INFO, WARN, or ERROR")
	logFile := flag.String("log-file", "", "optional log file path, in addition to stdout")
	flag.Parse()

	logging.Init(parseLevel(*logLevel), *logFile)
	defer logging.L().Close()

	if err := run(*configPath); err != nil {
		logging.L().Error("fatal: %v", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	instanceID := uuid.New().String()
	logging.L().Info("starting imx415cam instance %s (mode=%s, device=%s)", instanceID, cfg.Capture.Mode, cfg.Capture.DevicePath)

	if _, err := os.Stat(cfg.Capture.DevicePath); err != nil {
		return err
	}

	source, err := acquisition.NewSource(cfg.Capture)
	if err != nil {
		return err
	}
	defer func() {
		if err := source.Close(); err != nil {
			logging.L().Warn("cleanup temp dir: %v", err)
		}
	}()
	source.SetupSensor()

	capture := pipeline.NewCapture(cfg.Capture, source)
	slot := models.NewFrameSlot()

	var det *detector.Bridge
	if cfg.Detector.Enabled {
		det, err = detector.Start(cfg.Detector.Command, cfg.Detector.Args, cfg.Detector.QueueDepth)
		if err != nil {
			logging.L().Warn("detector bridge disabled: %v", err)
			det = nil
		} else {
			defer func() {
				if err := det.Close(); err != nil {
					logging.L().Warn("detector shutdown: %v", err)
				}
			}()
		}
	}

	interval := time.Duration(cfg.Capture.TickIntervalMs) * time.Millisecond
	capCtl := controller.NewCaptureController(capture, slot, det, interval, cfg.Detector.EveryNTicks, cfg.Detector.OverlayColor, cfg.Capture.Mode)
	httpCtl := controller.NewHTTPController(slot, capCtl, cfg.Capture.Width, cfg.Capture.Height, instanceID, interval)

	server := &http.Server{
		Addr:    cfg.Server.BindAddr,
		Handler: httpCtl.Mux(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return capCtl.Run(gctx)
	})

	g.Go(func() error {
		logging.L().Info("listening on %s", cfg.Server.BindAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logging.L().Info("shutdown complete, %d frames published", slot.Counter())
	return nil
}

func parseLevel(s string) logging.Level {
	switch s {
	case "DEBUG":
		return logging.DEBUG
	case "WARN":
		return logging.WARN
	case "ERROR":
		return logging.ERROR
	default:
		return logging.INFO
	}
}
