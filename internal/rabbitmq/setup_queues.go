package rabbitmq

// Маршрутизация уведомлений: direct-обменник и очередь на каждое событие.
const (
	ExchangeName            = "notifications"
	CourseUpdatedQueue      = "notifications.course.updated"
	CourseUpdatedRoutingKey = "course.updated"
)

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: CourseUpdatedQueue, RoutingKey: CourseUpdatedRoutingKey},
		// при необходимости дополнительные очереди для других воркеров
	}
}
