package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Effect-conflict errors. A message whose effect cannot apply is dropped and
// recorded in the step summary; the simulation continues.
var (
	ErrUnknownISBN        = errors.New("unknown isbn")
	ErrUnknownCustomer    = errors.New("unknown customer")
	ErrOutOfStock         = errors.New("out of stock")
	ErrInsufficientBudget = errors.New("insufficient budget")
)

// MessageKind tags the message variants carried by the bus.
type MessageKind string

const (
	KindPurchaseRequested MessageKind = "purchase_requested"
	KindRestockRequested  MessageKind = "restock_requested"
	KindRestockCompleted  MessageKind = "restock_completed"
)

// Message is a tagged variant carrying the minimal payload needed to apply
// its effect. Messages are ephemeral: they exist only within the bus's
// current-step queue and are discarded once drained.
//
// Apply mutates manager state atomically; an error means the effect could
// not apply and the message is dropped (never retried).
type Message interface {
	Kind() MessageKind
	Apply(m *Manager) error
}

// PurchaseRequested asks for one copy of a title on behalf of a customer.
type PurchaseRequested struct {
	CustomerID string
	ISBN       string
}

func (p *PurchaseRequested) Kind() MessageKind { return KindPurchaseRequested }

// Apply decrements inventory, debits the customer, and appends an order
// record. The budget and stock checks happen here, against post-drain state,
// so two purchases in one step cannot both consume the last copy.
func (p *PurchaseRequested) Apply(m *Manager) error {
	item, ok := m.items[p.ISBN]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownISBN, p.ISBN)
	}
	customer, ok := m.customers[p.CustomerID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCustomer, p.CustomerID)
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("%w: %s", ErrOutOfStock, p.ISBN)
	}
	if customer.Budget < item.Price {
		return fmt.Errorf("%w: customer %s cannot afford %s", ErrInsufficientBudget, p.CustomerID, p.ISBN)
	}
	item.Quantity--
	item.refreshState()
	customer.Budget -= item.Price
	customer.Purchased = append(customer.Purchased, item.ISBN)
	m.recordOrder(customer.id, item)
	logrus.Debugf("[step %04d] purchase applied: %s bought %s", m.clock.StepCount, p.CustomerID, p.ISBN)
	return nil
}

func (p *PurchaseRequested) String() string {
	return fmt.Sprintf("PurchaseRequested(%s, %s)", p.CustomerID, p.ISBN)
}

// RestockRequested asks for a title's stock to be raised by Amount.
// EmployeeID is empty for system-triggered restocks.
type RestockRequested struct {
	ISBN       string
	Amount     int
	EmployeeID string
}

func (r *RestockRequested) Kind() MessageKind { return KindRestockRequested }

// Apply raises the quantity, appends a restock record, and enqueues a
// RestockCompleted into the same drain.
func (r *RestockRequested) Apply(m *Manager) error {
	item, ok := m.items[r.ISBN]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownISBN, r.ISBN)
	}
	increment := r.Amount
	if increment < 0 {
		increment = 0
	}
	item.Quantity += increment
	item.refreshState()
	m.recordRestock(r.ISBN, increment, r.EmployeeID)
	m.bus.Publish(&RestockCompleted{ISBN: r.ISBN, Amount: increment, EmployeeID: r.EmployeeID})
	logrus.Debugf("[step %04d] restock applied: %s += %d (employee %q)", m.clock.StepCount, r.ISBN, increment, r.EmployeeID)
	return nil
}

func (r *RestockRequested) String() string {
	return fmt.Sprintf("RestockRequested(%s, %d, %q)", r.ISBN, r.Amount, r.EmployeeID)
}

// RestockCompleted marks a restock as fulfilled: the item's descriptive state
// flips to restocked and the pending mark is cleared, letting a later step
// request the title again.
type RestockCompleted struct {
	ISBN       string
	Amount     int
	EmployeeID string
}

func (r *RestockCompleted) Kind() MessageKind { return KindRestockCompleted }

func (r *RestockCompleted) Apply(m *Manager) error {
	item, ok := m.items[r.ISBN]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownISBN, r.ISBN)
	}
	item.State = StockRestocked
	delete(m.pendingRestocks, r.ISBN)
	return nil
}

func (r *RestockCompleted) String() string {
	return fmt.Sprintf("RestockCompleted(%s, %d, %q)", r.ISBN, r.Amount, r.EmployeeID)
}
