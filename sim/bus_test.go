package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageBus_FIFOOrder(t *testing.T) {
	bus := &MessageBus{}
	bus.Publish(&PurchaseRequested{CustomerID: "customer_0", ISBN: "a"})
	bus.Publish(&RestockRequested{ISBN: "a", Amount: 5, EmployeeID: "employee_0"})
	bus.Publish(&PurchaseRequested{CustomerID: "customer_1", ISBN: "b"})

	assert.Equal(t, 3, bus.Len())

	first := bus.Pop()
	assert.Equal(t, KindPurchaseRequested, first.Kind())
	assert.Equal(t, "customer_0", first.(*PurchaseRequested).CustomerID)

	second := bus.Pop()
	assert.Equal(t, KindRestockRequested, second.Kind())

	third := bus.Pop()
	assert.Equal(t, "customer_1", third.(*PurchaseRequested).CustomerID)

	assert.Nil(t, bus.Pop())
	assert.Equal(t, 0, bus.Len())
}

func TestMessageBus_EnqueueDuringDrain(t *testing.T) {
	// A message popped mid-drain may enqueue a follow-up; the follow-up is
	// delivered within the same drain, after everything already queued.
	bus := &MessageBus{}
	bus.Publish(&RestockRequested{ISBN: "a", Amount: 5})
	bus.Publish(&RestockRequested{ISBN: "b", Amount: 5})

	var kinds []MessageKind
	for msg := bus.Pop(); msg != nil; msg = bus.Pop() {
		kinds = append(kinds, msg.Kind())
		if rr, ok := msg.(*RestockRequested); ok {
			bus.Publish(&RestockCompleted{ISBN: rr.ISBN, Amount: rr.Amount})
		}
	}
	assert.Equal(t, []MessageKind{
		KindRestockRequested,
		KindRestockRequested,
		KindRestockCompleted,
		KindRestockCompleted,
	}, kinds)
}

func TestMessageBus_Clear(t *testing.T) {
	bus := &MessageBus{}
	bus.Publish(&RestockCompleted{ISBN: "a"})
	bus.Clear()
	assert.Equal(t, 0, bus.Len())
	assert.Nil(t, bus.Pop())
}
