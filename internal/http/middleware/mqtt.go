package middleware

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// Schedule-change pushes ride MQTT: the server publishes to a per-device
// topic and each player subscribes to its own. Players keep polling as a
// fallback, so a lost message costs at most one refresh interval.

var (
	mqttClient mqtt.Client
	mqttMu     sync.Mutex
	brokerURL  = "tcp://0.0.0.0:1883"
)

// SchedulePush is the payload published on schedule changes.
type SchedulePush struct {
	Type     string `json:"type"` // always "schedule_updated"
	ScreenID int    `json:"screen_id"`
}

// SetBrokerURL configures the MQTT broker address before InitMQTT.
func SetBrokerURL(url string) {
	brokerURL = url
}

// ScheduleTopic is the per-device topic schedule pushes are published on.
func ScheduleTopic(deviceID string) string {
	return fmt.Sprintf("screens/%s/schedule", deviceID)
}

// InitMQTT connects the server's shared MQTT client.
func InitMQTT(clientID string) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(5 * time.Second)
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", brokerURL).Msg("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	mqttMu.Lock()
	mqttClient = client
	mqttMu.Unlock()
	return nil
}

// PublishScheduleUpdated tells one device its schedule snapshot is stale.
// Best-effort: an unreachable broker is logged, the device catches up on
// its next poll.
func PublishScheduleUpdated(deviceID string, screenID int) {
	mqttMu.Lock()
	client := mqttClient
	mqttMu.Unlock()
	if client == nil {
		return
	}

	payload, err := json.Marshal(SchedulePush{Type: "schedule_updated", ScreenID: screenID})
	if err != nil {
		return
	}

	token := client.Publish(ScheduleTopic(deviceID), 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		log.Warn().Err(token.Error()).Str("device_id", deviceID).Msg("schedule push failed")
		return
	}
	log.Debug().Str("device_id", deviceID).Int("screen_id", screenID).Msg("schedule push sent")
}

// CleanupMQTT disconnects the shared client.
func CleanupMQTT() {
	mqttMu.Lock()
	defer mqttMu.Unlock()
	if mqttClient != nil {
		mqttClient.Disconnect(250)
		mqttClient = nil
		log.Info().Msg("MQTT client disconnected")
	}
}
