package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

func publish(ch *amqp.Channel, queueName string, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.PublishWithContext(
		context.Background(),
		"",
		queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message to queue %s: %w", queueName, err)
	}

	return nil
}

func SendImmediateMessage(ch *amqp.Channel, queueName string, message any) error {
	return publish(ch, queueName, message)
}

// SendTimeoutMessage parks the message on a delay queue; it reappears
// on the bound timeout queue after the queue's TTL.
func SendTimeoutMessage(ch *amqp.Channel, delayQueueName string, message any) error {
	return publish(ch, delayQueueName, message)
}
