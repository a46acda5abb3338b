package player

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

// Notifier subscribes to the device's schedule topic and wakes the
// playback runner when the server pushes a change. Polling continues
// regardless, so the notifier is an accelerator, not a dependency.
type Notifier struct {
	client mqtt.Client
	topic  string
	logger zerolog.Logger
}

// StartNotifier connects to the broker and invokes onUpdate for every
// message on screens/<deviceID>/schedule.
func StartNotifier(brokerURL, deviceID string, onUpdate func(), logger zerolog.Logger) (*Notifier, error) {
	topic := fmt.Sprintf("screens/%s/schedule", deviceID)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(fmt.Sprintf("player-%s", deviceID))
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(5 * time.Second)
	opts.OnConnect = func(client mqtt.Client) {
		// Re-subscribe on every (re)connect.
		token := client.Subscribe(topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
			logger.Debug().Str("topic", msg.Topic()).Msg("schedule push received")
			onUpdate()
		})
		token.Wait()
		if token.Error() != nil {
			logger.Error().Err(token.Error()).Str("topic", topic).Msg("schedule subscription failed")
			return
		}
		logger.Info().Str("topic", topic).Msg("subscribed to schedule pushes")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Warn().Err(err).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &Notifier{client: client, topic: topic, logger: logger}, nil
}

func (n *Notifier) Close() {
	n.client.Disconnect(250)
	n.logger.Info().Msg("notifier disconnected")
}
