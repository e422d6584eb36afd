package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"
)

// maxInFlight ограничивает число писем, обрабатываемых одновременно.
const maxInFlight = 10

// ConsumeQueue подписывается на очередь и передает тело каждого сообщения
// обработчику. Ошибка обработчика возвращает сообщение в очередь (nack
// с requeue), успех подтверждается ack. Подписка живет до отмены контекста.
func ConsumeQueue(ctx context.Context, ch *amqp.Channel, queueName string,
	handler func([]byte) error, log *slog.Logger) error {
	const op = "rabbitmq.ConsumeQueue"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sem := make(chan struct{}, maxInFlight)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-sem }()
					if err := handler(d.Body); err != nil {
						if nackErr := d.Nack(false, true); nackErr != nil {
							log.Error("failed to nack message", slog.Any("err", nackErr))
						}
						return
					}
					if ackErr := d.Ack(false); ackErr != nil {
						log.Error("failed to ack message", slog.Any("err", ackErr))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
