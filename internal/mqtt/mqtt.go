// Package mqtt nudges players over an MQTT broker when commands are queued.
// Delivery is best effort; players still poll for their pending commands.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const (
	publishQoS      = 1
	disconnectQuiet = 250 // milliseconds
)

// publisher is the subset of paho.Client used by Notifier.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

type Notifier struct {
	client publisher
}

type nudge struct {
	Type      string `json:"type"`
	CommandID string `json:"commandId"`
}

var connectHandler paho.OnConnectHandler = func(client paho.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler paho.ConnectionLostHandler = func(client paho.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// Connect dials the broker. The client reconnects on its own after a drop.
func Connect(brokerURL, clientID string) (*Notifier, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &Notifier{client: client}, nil
}

func Topic(deviceCode string) string {
	return fmt.Sprintf("players/%s/commands", deviceCode)
}

// CommandsPending publishes a nudge to the device's command topic.
func (n *Notifier) CommandsPending(ctx context.Context, deviceCode, commandID string) error {
	payload, err := json.Marshal(nudge{Type: "commands_pending", CommandID: commandID})
	if err != nil {
		return err
	}

	topic := Topic(deviceCode)
	token := n.client.Publish(topic, publishQoS, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	log.Debug().Str("topic", topic).Str("command_id", commandID).Msg("command nudge published")
	return nil
}

func (n *Notifier) Close() {
	n.client.Disconnect(disconnectQuiet)
	log.Info().Msg("MQTT client disconnected")
}
