package config

import (
	"time"

	"github.com/joho/godotenv"
)

// BridgeConfig configures the serial-to-HTTP bridge
type BridgeConfig struct {
	// SerialPort is a device path; "-" reads stdin
	SerialPort     string
	ServerURL      string
	AttemptTimeout time.Duration
	// DeviceID enables command polling when set
	DeviceID     string
	PollInterval time.Duration
	// MQTT replaces the serial port when MQTT.Broker is set
	MQTT MQTTConfig
	Log  LogConfig
}

type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
}

// LoadBridge reads bridge settings. Positional args override the
// environment: args[0] is the serial port, args[1] the server URL.
func LoadBridge(args []string) *BridgeConfig {
	_ = godotenv.Load()

	cfg := &BridgeConfig{
		SerialPort:     getEnv("SERIAL_PORT", ""),
		ServerURL:      getEnv("SERVER_URL", "http://localhost:5000"),
		AttemptTimeout: getEnvDuration("BRIDGE_TIMEOUT", 5*time.Second),
		DeviceID:       getEnv("DEVICE_ID", ""),
		PollInterval:   getEnvDuration("COMMAND_POLL_INTERVAL", 2*time.Second),
		MQTT: MQTTConfig{
			Broker:   getEnv("MQTT_BROKER", ""),
			ClientID: getEnv("MQTT_CLIENT_ID", "signal-bridge"),
			Username: getEnv("MQTT_USERNAME", ""),
			Password: getEnv("MQTT_PASSWORD", ""),
			Topic:    getEnv("MQTT_TOPIC", "signalsender/door"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}
	if len(args) > 0 && args[0] != "" {
		cfg.SerialPort = args[0]
	}
	if len(args) > 1 && args[1] != "" {
		cfg.ServerURL = args[1]
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	return cfg
}
