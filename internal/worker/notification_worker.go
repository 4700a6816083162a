package worker

import (
	"github.com/spec-kit/ticket-notify/internal/events"
	"github.com/spec-kit/ticket-notify/internal/service"
)

// StartNotificationWorker subscribes the lifecycle orchestrator to the
// dispatcher. Status-change events drive the customer notification table;
// assignment events go to the assignee.
func StartNotificationWorker(dispatcher events.Dispatcher, lifecycle *service.LifecycleService) {
	if dispatcher == nil || lifecycle == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketStatusChanged, lifecycle.HandleStatusChanged)
	dispatcher.Subscribe(events.EventTicketAssigned, lifecycle.HandleAssigned)
}
