package bridge

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

const mqttWait = 10 * time.Second

// MQTTConfig locates the broker and the telemetry topic
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
}

// MQTTSource relays firmware telemetry published on an MQTT topic. Device
// commands go back on "<topic>/command".
type MQTTSource struct {
	client       mqtt.Client
	topic        string
	commandTopic string
	logger       *zap.Logger

	mu    sync.Mutex
	stats Stats
}

// NewMQTTSource connects to the broker
func NewMQTTSource(cfg MQTTConfig, logger *zap.Logger) (*MQTTSource, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(mqttWait)

	client := mqtt.NewClient(opts)
	if err := wait(client.Connect(), "connect to MQTT broker"); err != nil {
		return nil, err
	}
	return newMQTTSource(client, cfg.Topic, logger), nil
}

func newMQTTSource(client mqtt.Client, topic string, logger *zap.Logger) *MQTTSource {
	return &MQTTSource{
		client:       client,
		topic:        topic,
		commandTopic: strings.TrimRight(topic, "/") + "/command",
		logger:       logger,
	}
}

// Run subscribes to the telemetry topic and forwards every message until ctx
// ends. A message may carry several newline-separated readings.
func (s *MQTTSource) Run(ctx context.Context, sink Sink) (Stats, error) {
	err := wait(s.client.Subscribe(s.topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		s.handle(ctx, sink, msg.Payload())
	}), "subscribe to "+s.topic)
	if err != nil {
		return s.Stats(), err
	}
	s.logger.Info("📡 Subscribed to telemetry", zap.String("topic", s.topic))

	<-ctx.Done()
	s.client.Unsubscribe(s.topic).WaitTimeout(time.Second)
	s.client.Disconnect(250)
	return s.Stats(), ctx.Err()
}

// Write publishes one command line to the device. It lets the source serve
// as the PollCommands output.
func (s *MQTTSource) Write(p []byte) (int, error) {
	line := bytes.TrimSpace(p)
	if err := wait(s.client.Publish(s.commandTopic, 1, false, line), "publish to "+s.commandTopic); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Stats returns a snapshot of the relay counters
func (s *MQTTSource) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *MQTTSource) handle(ctx context.Context, sink Sink, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range strings.Split(string(payload), "\n") {
		relayLine(ctx, line, sink, &s.stats, s.logger)
	}
}

func wait(token mqtt.Token, what string) error {
	if !token.WaitTimeout(mqttWait) {
		return fmt.Errorf("%s: timed out", what)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}
