package events

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/remserv/workshop/internal/models"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// OrderEvent is the payload published on every order status change.
type OrderEvent struct {
	OrderID   string             `json:"orderId"`
	Status    models.OrderStatus `json:"status"`
	MasterIDs []string           `json:"masterIds,omitempty"`
	At        time.Time          `json:"at"`
}

// TopicForOrder returns the MQTT topic carrying one order's status events.
func TopicForOrder(orderID string) string {
	return fmt.Sprintf("workshop/orders/%s/status", orderID)
}

// Publisher emits order lifecycle events over MQTT. Publishing is best
// effort: a broker outage is logged and never fails the originating write.
type Publisher struct {
	client mqtt.Client
}

// Connect dials the broker and returns a ready publisher.
func Connect(brokerURL, clientID string) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	logrus.WithField("broker", brokerURL).Info("Connected to MQTT broker")
	return &Publisher{client: client}, nil
}

// PublishOrderStatus emits a status change event for one order.
func (p *Publisher) PublishOrderStatus(orderID string, status models.OrderStatus, masterIDs []string) {
	event := OrderEvent{
		OrderID:   orderID,
		Status:    status,
		MasterIDs: masterIDs,
		At:        time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal order event")
		return
	}

	topic := TopicForOrder(orderID)
	token := p.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		logrus.WithField("topic", topic).Warn("MQTT publish timed out")
		return
	}
	if err := token.Error(); err != nil {
		logrus.WithError(err).WithField("topic", topic).Warn("MQTT publish failed")
	}
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
