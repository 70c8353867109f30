package viewmodel

import "go-restaurant-tracker/models"

// Projection is the per-role view of an order list: every order bucketed by
// its canonical display status, plus the driver's two working sets.
type Projection struct {
	Grouped map[models.Status][]models.Order
	Counts  map[models.Status]int

	// driver only: ready-for-pickup pool and the orders in transit
	Available []models.Order
	Mine      []models.Order
}

// Total is the number of orders projected. Always equals the input length:
// unknown statuses land in the StatusUnknown bucket instead of being dropped.
func (p Projection) Total() int {
	total := 0
	for _, n := range p.Counts {
		total += n
	}
	return total
}

// Project groups orders by display status for the given role. Pure: it
// never mutates its input and identical input yields identical output.
func Project(orders []models.Order, role models.Role) Projection {
	grouped := make(map[models.Status][]models.Order)
	counts := make(map[models.Status]int)
	for _, order := range orders {
		st := order.DisplayStatus()
		grouped[st] = append(grouped[st], order)
		counts[st]++
	}

	p := Projection{Grouped: grouped, Counts: counts}
	if role == models.RoleDriver {
		p.Available = append([]models.Order(nil), grouped[models.StatusReady]...)
		p.Mine = append([]models.Order(nil), grouped[models.StatusDispatched]...)
	}
	return p
}

// VisibleStatuses is the role policy table: which buckets a role's screens
// show. Admin sees everything.
func VisibleStatuses(role models.Role) []models.Status {
	switch role {
	case models.RoleChef:
		return []models.Status{
			models.StatusPending, models.StatusConfirmed,
			models.StatusCooking, models.StatusPacking,
		}
	case models.RoleDriver:
		return []models.Status{models.StatusReady, models.StatusDispatched}
	case models.RoleAdmin:
		return []models.Status{
			models.StatusPending, models.StatusConfirmed, models.StatusCooking,
			models.StatusPacking, models.StatusReady, models.StatusDispatched,
			models.StatusDelivered, models.StatusCancelled, models.StatusUnknown,
		}
	default:
		return nil
	}
}

// PrimaryAction is the one verb a role's card offers for an order in the
// given status. ok is false when the role is view-only for that status.
func PrimaryAction(role models.Role, status models.Status) (models.Action, bool) {
	switch role {
	case models.RoleChef:
		switch status.Canonical() {
		case models.StatusPending, models.StatusConfirmed, models.StatusCooking:
			return models.ActionCompleteCooking, true
		case models.StatusPacking:
			return models.ActionCompletePacking, true
		}
	case models.RoleDriver:
		switch status.Canonical() {
		case models.StatusReady:
			return models.ActionPickup, true
		case models.StatusDispatched:
			return models.ActionCompleteDelivery, true
		}
	}
	return "", false
}
