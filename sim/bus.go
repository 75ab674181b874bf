// Implements the MessageBus, the in-process channel carrying agent actions
// within a step. Messages are enqueued during activation and drained by the
// Manager before the step completes.

package sim

import (
	"fmt"
	"strings"
)

// MessageBus is a synchronous, single-queue FIFO transport. It guarantees
// ordering and at-most-once delivery per enqueued message within a step and
// carries no retry semantics. No message survives into the next step: the
// Manager drains the queue fully before the step completes.
type MessageBus struct {
	queue []Message
}

// Publish appends a message to the back of the queue. Non-blocking.
func (b *MessageBus) Publish(msg Message) {
	b.queue = append(b.queue, msg)
}

// Pop removes and returns the message at the front of the queue.
// Returns nil when the queue is empty. Draining pops one message at a time
// so that effects applied mid-drain may enqueue follow-up messages.
func (b *MessageBus) Pop() Message {
	if len(b.queue) == 0 {
		return nil
	}
	msg := b.queue[0]
	b.queue = b.queue[1:]
	return msg
}

// Len returns the number of queued messages.
func (b *MessageBus) Len() int {
	return len(b.queue)
}

// Clear discards all queued messages.
func (b *MessageBus) Clear() {
	b.queue = nil
}

func (b *MessageBus) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, msg := range b.queue {
		sb.WriteString(fmt.Sprint(msg))
		if i < len(b.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
