package matching

import (
	"github.com/abdoElHodaky/marketsim/internal/protocol"
)

// NotificationCache collects the reply batch produced while one command
// runs inside an engine. The queue worker drains the cache after the
// engine returns and publishes the batch through the egress channel, in
// emission order.
type NotificationCache struct {
	notifications []protocol.Reply
}

// Emit appends a reply to the batch.
func (c *NotificationCache) Emit(reply protocol.Reply) {
	c.notifications = append(c.notifications, reply)
}

// Collect returns the batch and resets the cache.
func (c *NotificationCache) Collect() []protocol.Reply {
	collected := c.notifications
	c.notifications = nil
	return collected
}

// Size returns the number of pending notifications.
func (c *NotificationCache) Size() int { return len(c.notifications) }
