package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/lromero/smartlink/internal/messaging"
)

// NewLinkCreatedPublisher creates a typed publish function for link creation events.
func NewLinkCreatedPublisher(publisher message.Publisher) messaging.Publish[LinkCreatedEvent] {
	return messaging.NewPublishFunc[LinkCreatedEvent](publisher, TopicLinkCreated)
}

// NewLinkVisitedPublisher creates a typed publish function for human visit events.
func NewLinkVisitedPublisher(publisher message.Publisher) messaging.Publish[LinkVisitedEvent] {
	return messaging.NewPublishFunc[LinkVisitedEvent](publisher, TopicLinkVisited)
}
