package orders

import (
	"strings"

	"sahone-backend/internal/apperr"
	"sahone-backend/internal/models"
)

// Actor names who moves an order.
type Actor string

const (
	ActorAdmin    Actor = "admin"
	ActorCustomer Actor = "customer"
	ActorDelivery Actor = "delivery"
)

type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

var transitions = []Transition{
	{From: models.OrderPending, To: models.OrderConfirmed, Actor: ActorAdmin},
	{From: models.OrderPending, To: models.OrderCancelled, Actor: ActorAdmin},
	{From: models.OrderPending, To: models.OrderCancelled, Actor: ActorCustomer},

	{From: models.OrderConfirmed, To: models.OrderPreparing, Actor: ActorAdmin},
	{From: models.OrderConfirmed, To: models.OrderCancelled, Actor: ActorAdmin},
	{From: models.OrderConfirmed, To: models.OrderCancelled, Actor: ActorCustomer},

	{From: models.OrderPreparing, To: models.OrderOutForDelivery, Actor: ActorAdmin},
	{From: models.OrderPreparing, To: models.OrderCancelled, Actor: ActorAdmin},
	{From: models.OrderPreparing, To: models.OrderCancelled, Actor: ActorCustomer},

	{From: models.OrderOutForDelivery, To: models.OrderDelivered, Actor: ActorAdmin},
	{From: models.OrderOutForDelivery, To: models.OrderDelivered, Actor: ActorDelivery},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool, len(transitions))
	for _, t := range transitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom lists the next states reachable from status by any actor.
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range transitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition reports whether actor may move an order from one state to another.
func CanTransition(from, to models.OrderStatus, actor Actor) bool {
	return transitionMap[transitionKey{From: from, To: to, Actor: actor}]
}

func checkTransition(from, to models.OrderStatus, actor Actor) error {
	if CanTransition(from, to, actor) {
		return nil
	}
	valid := "none (terminal state)"
	if nexts := ValidTransitionsFrom(from); len(nexts) > 0 {
		names := make([]string, len(nexts))
		for i, s := range nexts {
			names[i] = string(s)
		}
		valid = strings.Join(names, ", ")
	}
	return apperr.Conflict("Invalid status transition: " + string(from) + " -> " + string(to) +
		". Valid transitions from " + string(from) + ": " + valid)
}
