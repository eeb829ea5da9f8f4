package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/damario-dev/turni-manager/backend/internal/domain"
)

func (h *Handler) publishNotification(msg domain.NotificationMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.notificationChannel.PublishWithContext(
		ctx,
		"",
		"notification_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// notify pubblica senza bloccare l'operazione: se la coda non è
// raggiungibile l'operazione resta valida e l'avviso viene solo loggato.
func (h *Handler) notify(msg domain.NotificationMessage) {
	if err := h.publishNotification(msg); err != nil {
		slog.Error("invio della notifica fallito", "type", msg.Type, "to", msg.To, "error", err)
	}
}
