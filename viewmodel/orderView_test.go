package viewmodel

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-restaurant-tracker/models"
)

func sampleOrders() []models.Order {
	mk := func(id string, status models.Status) models.Order {
		return models.Order{
			Order_id:   id,
			Customer:   "Cliente " + id,
			Status:     status,
			Created_at: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			Items:      []models.OrderItem{{Name: "Ceviche", Quantity: 1, Unit_price: 20}},
		}
	}
	return []models.Order{
		mk("ORD001", models.StatusPending),
		mk("ORD002", "in_progress"), // alias of cooking
		mk("ORD003", models.StatusCooking),
		mk("ORD004", models.StatusReady),
		mk("ORD005", "in_delivery"), // alias of dispatched
		mk("ORD006", models.StatusDispatched),
		mk("ORD007", models.StatusDelivered),
		mk("ORD008", "mystery_status"),
		mk("ORD009", ""),
	}
}

func TestProjectNoOrderDroppedForAnyRole(t *testing.T) {
	orders := sampleOrders()
	for _, role := range []models.Role{models.RoleChef, models.RoleDriver, models.RoleAdmin, models.RoleCustomer} {
		p := Project(orders, role)
		total := 0
		for _, group := range p.Grouped {
			total += len(group)
		}
		assert.Equalf(t, len(orders), total, "role=%s", role)
		assert.Equalf(t, len(orders), p.Total(), "role=%s", role)
	}
}

func TestProjectIsPure(t *testing.T) {
	orders := sampleOrders()
	before := make([]models.Order, len(orders))
	copy(before, orders)

	first := Project(orders, models.RoleAdmin)
	second := Project(orders, models.RoleAdmin)

	assert.True(t, reflect.DeepEqual(first, second), "identical input must yield identical output")
	assert.True(t, reflect.DeepEqual(before, orders), "input must not be mutated")
}

func TestProjectGroupsAliasesTogether(t *testing.T) {
	p := Project(sampleOrders(), models.RoleAdmin)
	// ORD002 (in_progress) and ORD003 (cooking) share a bucket
	assert.Equal(t, 2, p.Counts[models.StatusCooking])
	// ORD005 (in_delivery) and ORD006 (dispatched) share a bucket
	assert.Equal(t, 2, p.Counts[models.StatusDispatched])
	assert.Empty(t, p.Grouped["in_progress"])
	assert.Empty(t, p.Grouped["in_delivery"])
}

func TestProjectBucketsUnknownStatuses(t *testing.T) {
	p := Project(sampleOrders(), models.RoleChef)
	assert.Equal(t, 2, p.Counts[models.StatusUnknown], "mystery and empty statuses land in unknown")
}

func TestProjectDriverSets(t *testing.T) {
	p := Project(sampleOrders(), models.RoleDriver)
	require.Len(t, p.Available, 1)
	assert.Equal(t, "ORD004", p.Available[0].Order_id)
	require.Len(t, p.Mine, 2)

	// non-driver roles have no pickup sets
	admin := Project(sampleOrders(), models.RoleAdmin)
	assert.Nil(t, admin.Available)
	assert.Nil(t, admin.Mine)
}

func TestVisibleStatuses(t *testing.T) {
	assert.Equal(t, []models.Status{
		models.StatusPending, models.StatusConfirmed,
		models.StatusCooking, models.StatusPacking,
	}, VisibleStatuses(models.RoleChef))
	assert.Contains(t, VisibleStatuses(models.RoleAdmin), models.StatusUnknown)
	assert.Nil(t, VisibleStatuses(models.RoleCustomer))
}

func TestPrimaryAction(t *testing.T) {
	action, ok := PrimaryAction(models.RoleChef, "in_progress")
	require.True(t, ok)
	assert.Equal(t, models.ActionCompleteCooking, action)

	action, ok = PrimaryAction(models.RoleChef, models.StatusPacking)
	require.True(t, ok)
	assert.Equal(t, models.ActionCompletePacking, action)

	action, ok = PrimaryAction(models.RoleDriver, models.StatusReady)
	require.True(t, ok)
	assert.Equal(t, models.ActionPickup, action)

	action, ok = PrimaryAction(models.RoleDriver, "in_delivery")
	require.True(t, ok)
	assert.Equal(t, models.ActionCompleteDelivery, action)

	_, ok = PrimaryAction(models.RoleAdmin, models.StatusReady)
	assert.False(t, ok, "admin is view-only")
	_, ok = PrimaryAction(models.RoleDriver, models.StatusDelivered)
	assert.False(t, ok, "terminal orders offer no action")
}
