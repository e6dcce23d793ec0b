package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/quocanhngo/signalsender/internal/bridge"
	"github.com/quocanhngo/signalsender/internal/config"
	"github.com/quocanhngo/signalsender/internal/logger"
)

// Usage:
//
//	bridge <SERIAL_PORT> <SERVER_URL>
//	bridge - http://localhost:5000 < capture.txt
//	MQTT_BROKER=tcp://localhost:1883 bridge "" http://localhost:5000
//
// The serial device must already be configured for the firmware's baud rate
// (e.g. `stty -F /dev/ttyUSB0 9600 raw`).
func main() {
	cfg := config.LoadBridge(os.Args[1:])

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format, "signal-bridge")
	if err != nil {
		log.Fatalf("❌ Failed to build logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	forwarder := bridge.NewForwarder(cfg.ServerURL, cfg.AttemptTimeout, zl)

	var stats bridge.Stats
	if cfg.MQTT.Broker != "" {
		stats, err = runMQTT(ctx, cfg, forwarder, zl)
	} else {
		stats, err = runSerial(ctx, cfg, forwarder, zl)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		zl.Error("❌ Bridge failed", zap.Error(err))
	}
	zl.Info("Bridge stopped",
		zap.Int("lines", stats.Lines),
		zap.Int("forwarded", stats.Forwarded),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)
}

func runSerial(ctx context.Context, cfg *config.BridgeConfig, forwarder *bridge.Forwarder, zl *zap.Logger) (bridge.Stats, error) {
	if cfg.SerialPort == "" {
		zl.Fatal("Missing serial port. Provide as first arg or set SERIAL_PORT env var.")
	}

	var (
		port   io.ReadWriter
		closer io.Closer
	)
	if cfg.SerialPort == "-" {
		port = struct {
			io.Reader
			io.Writer
		}{os.Stdin, os.Stdout}
		closer = os.Stdin
	} else {
		f, err := os.OpenFile(cfg.SerialPort, os.O_RDWR, 0)
		if err != nil {
			return bridge.Stats{}, err
		}
		port, closer = f, f
	}
	defer closer.Close()

	// a blocked serial read only returns once the port is closed
	go func() {
		<-ctx.Done()
		closer.Close()
	}()

	zl.Info("📡 Listening on serial", zap.String("port", cfg.SerialPort), zap.String("server", cfg.ServerURL))
	startCommandPolling(ctx, cfg, forwarder, port, zl)
	return bridge.Relay(ctx, port, forwarder, zl)
}

func runMQTT(ctx context.Context, cfg *config.BridgeConfig, forwarder *bridge.Forwarder, zl *zap.Logger) (bridge.Stats, error) {
	src, err := bridge.NewMQTTSource(bridge.MQTTConfig{
		Broker:   cfg.MQTT.Broker,
		ClientID: cfg.MQTT.ClientID,
		Username: cfg.MQTT.Username,
		Password: cfg.MQTT.Password,
		Topic:    cfg.MQTT.Topic,
	}, zl)
	if err != nil {
		return bridge.Stats{}, err
	}

	zl.Info("📡 Listening on MQTT", zap.String("broker", cfg.MQTT.Broker), zap.String("server", cfg.ServerURL))
	startCommandPolling(ctx, cfg, forwarder, src, zl)
	return src.Run(ctx, forwarder)
}

func startCommandPolling(ctx context.Context, cfg *config.BridgeConfig, forwarder *bridge.Forwarder, out io.Writer, zl *zap.Logger) {
	if cfg.DeviceID == "" {
		return
	}
	go func() {
		err := bridge.PollCommands(ctx, forwarder, cfg.DeviceID, cfg.PollInterval, out, zl)
		if err != nil && !errors.Is(err, context.Canceled) {
			zl.Error("Command polling stopped", zap.Error(err))
		}
	}()
	zl.Info("📟 Polling device commands", zap.String("device_id", cfg.DeviceID), zap.Duration("interval", cfg.PollInterval))
}
