package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/remserv/workshop/internal/config"
	"github.com/remserv/workshop/internal/db"
	"github.com/remserv/workshop/internal/events"
	"github.com/remserv/workshop/internal/notify"
)

// The notifier daemon subscribes to order status events and relays them to
// the assigned masters over Telegram. It runs separately from the API server
// so a Telegram outage never slows down order writes.

const ordersTopic = "workshop/orders/+/status"

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	cfg := config.Load()
	if cfg.MQTTBrokerURL == "" {
		log.Fatal("MQTT_BROKER_URL is required")
	}
	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	collections := db.NewCollections(client.Database(cfg.DatabaseName))
	telegram := notify.NewTelegramClient(cfg.TelegramBotToken)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		var event events.OrderEvent
		if err := json.Unmarshal(msg.Payload(), &event); err != nil {
			log.WithError(err).WithField("topic", msg.Topic()).Warn("Skipping malformed event")
			return
		}
		relay(collections, telegram, event)
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBrokerURL)
	opts.SetClientID("workshop-notifier")
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		if token := c.Subscribe(ordersTopic, 1, handler); token.Wait() && token.Error() != nil {
			log.WithError(token.Error()).Error("Failed to subscribe to order events")
			return
		}
		log.WithField("topic", ordersTopic).Info("Subscribed to order events")
	})

	mqttClient := mqtt.NewClient(opts)
	if token := mqttClient.Connect(); token.Wait() && token.Error() != nil {
		log.WithError(token.Error()).Fatal("Failed to connect to MQTT broker")
	}
	log.WithField("broker", cfg.MQTTBrokerURL).Info("Notifier started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	mqttClient.Disconnect(250)
	log.Info("Notifier stopped")
}

// relay sends one status event to every assigned master with a Telegram chat
// configured. Masters without a chat ID are skipped silently.
func relay(collections *db.Collections, telegram *notify.TelegramClient, event events.OrderEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	carLabel := lookupCarLabel(ctx, collections, event.OrderID)
	text := notify.OrderAssignedMessage(event.OrderID, string(event.Status), carLabel)

	for _, masterID := range event.MasterIDs {
		master, err := collections.Masters.FindMasterByID(ctx, masterID)
		if err != nil {
			log.WithError(err).WithField("master_id", masterID).Warn("Failed to load master")
			continue
		}
		if master.TelegramChatID == "" {
			continue
		}
		if err := telegram.SendMessage(ctx, master.TelegramChatID, text); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"master_id": masterID,
				"order_id":  event.OrderID,
			}).Warn("Failed to send Telegram notification")
			continue
		}
		log.WithFields(log.Fields{
			"master_id": masterID,
			"order_id":  event.OrderID,
			"status":    event.Status,
		}).Info("Notification sent")
	}
}

func lookupCarLabel(ctx context.Context, collections *db.Collections, orderID string) string {
	order, err := collections.Orders.FindOrderByID(ctx, orderID)
	if err != nil {
		return ""
	}
	car, err := collections.Cars.FindCarByID(ctx, order.CarID)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s %s (%d)", car.Make, car.Model, car.Year)
}
