package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/mypedia/internal/models"
)

// CourseNotifier публикует события обновления курсов в обменник уведомлений.
type CourseNotifier struct {
	ch *amqp.Channel
}

func NewCourseNotifier(ch *amqp.Channel) *CourseNotifier {
	return &CourseNotifier{ch: ch}
}

// PublishCourseUpdated отправляет событие в очередь рассылки.
func (n *CourseNotifier) PublishCourseUpdated(event models.CourseUpdatedEvent) error {
	return PublishMessage(n.ch, ExchangeName, CourseUpdatedRoutingKey, event)
}
