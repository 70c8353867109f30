package demoserver

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"go-restaurant-tracker/models"
)

var (
	errNotFound = errors.New("not found")
	errConflict = errors.New("conflict")
)

type demoUser struct {
	User          models.User
	Password_hash []byte
	Available     bool
}

// Store is the in-memory backing state of the demo backend. It stands in
// for the real order-management service, so it only implements what the
// consumed API surface needs.
type Store struct {
	mu     sync.Mutex
	orders map[string]*models.Order
	users  map[string]*demoUser // by email
	nextID int
}

func newStore() *Store {
	s := &Store{
		orders: make(map[string]*models.Order),
		users:  make(map[string]*demoUser),
		nextID: 9,
	}
	s.seed()
	return s
}

func (s *Store) addUser(id, name, email, userType string, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	s.users[email] = &demoUser{
		User: models.User{
			User_id:   id,
			Name:      name,
			Email:     email,
			User_type: userType,
			Role:      models.NormalizeRole(userType),
		},
		Password_hash: hash,
		Available:     true,
	}
}

func strptr(v string) *string { return &v }
func intptr(v int) *int       { return &v }

func steps(orderID string, cooking, packing, delivery models.StepStatus) []models.WorkflowStep {
	now := time.Now().UTC()
	started := func(st models.StepStatus) *time.Time {
		if st == models.StepPending {
			return nil
		}
		t := now.Add(-20 * time.Minute)
		return &t
	}
	ended := func(st models.StepStatus) *time.Time {
		if st != models.StepCompleted {
			return nil
		}
		t := now.Add(-5 * time.Minute)
		return &t
	}
	return []models.WorkflowStep{
		{Step_id: orderID + "-1", Order_id: orderID, Stage: models.StageCooking, Role: "chef",
			Status: cooking, Start_time: started(cooking), End_time: ended(cooking)},
		{Step_id: orderID + "-2", Order_id: orderID, Stage: models.StagePacking, Role: "chef",
			Status: packing, Start_time: started(packing), End_time: ended(packing)},
		{Step_id: orderID + "-3", Order_id: orderID, Stage: models.StageDelivery, Role: "driver",
			Status: delivery, Start_time: started(delivery), End_time: ended(delivery)},
	}
}

func (s *Store) seed() {
	s.addUser("u-chef-1", "Rosa Quispe", "chef@200millas.demo", "cook", "demo123")
	s.addUser("u-driver-1", "Luis Ramírez", "driver@200millas.demo", "repartidor", "demo123")
	s.addUser("u-admin-1", "Carla Núñez", "admin@200millas.demo", "admin", "demo123")

	now := time.Now().UTC()
	seedOrders := []*models.Order{
		{
			Order_id: "ORD001", Customer: "Juan Pérez", Phone: "+51 999 888 777",
			Items: []models.OrderItem{
				{Name: "Ceviche Clásico", Quantity: 2, Unit_price: 16.50},
				{Name: "Arroz con Mariscos", Quantity: 1, Unit_price: 12.50},
			},
			Total_amount: 45.50, Status: models.StatusPending,
			Created_at: now.Add(-2 * time.Minute), Estimated_time: intptr(15),
			Delivery_address: strptr("Av. Principal 123, San Isidro"),
		},
		{
			Order_id: "ORD002", Customer: "María García", Phone: "+51 999 777 666",
			Items: []models.OrderItem{
				{Name: "Lomo Saltado", Quantity: 1, Unit_price: 22.00},
				{Name: "Causa Limeña", Quantity: 2, Unit_price: 8.00},
			},
			Total_amount: 38.00, Status: models.StatusCooking,
			Created_at: now.Add(-8 * time.Minute), Estimated_time: intptr(12), Time_elapsed: intptr(5),
			Chef_id: strptr("u-chef-1"),
			Steps:   steps("ORD002", models.StepInProgress, models.StepPending, models.StepPending),
		},
		{
			// dine-in: no delivery address
			Order_id: "ORD003", Customer: "Pedro Torres", Phone: "+51 999 666 555",
			Items: []models.OrderItem{
				{Name: "Tiradito", Quantity: 1, Unit_price: 18.00},
			},
			Total_amount: 18.00, Status: models.StatusPacking,
			Created_at: now.Add(-15 * time.Minute),
			Chef_id:    strptr("u-chef-1"),
			Steps:      steps("ORD003", models.StepCompleted, models.StepInProgress, models.StepPending),
		},
		{
			Order_id: "ORD004", Customer: "Ana Martínez", Phone: "+51 999 555 444",
			Items: []models.OrderItem{
				{Name: "Ceviche Mixto", Quantity: 1, Unit_price: 21.00},
				{Name: "Chicha Morada", Quantity: 2, Unit_price: 7.00},
			},
			Total_amount: 35.00, Status: models.StatusReady,
			Created_at:       now.Add(-30 * time.Minute),
			Delivery_address: strptr("Av. Principal 123, San Isidro"),
			Steps:            steps("ORD004", models.StepCompleted, models.StepCompleted, models.StepPending),
		},
		{
			Order_id: "ORD005", Customer: "Roberto Silva", Phone: "+51 999 444 333",
			Items: []models.OrderItem{
				{Name: "Lomo Saltado", Quantity: 2, Unit_price: 24.00},
			},
			Total_amount: 48.00, Status: models.StatusDispatched,
			Created_at:       now.Add(-15 * time.Minute), Time_elapsed: intptr(8),
			Delivery_address: strptr("Jr. Los Olivos 456, Miraflores"),
			Driver_id:        strptr("u-driver-1"),
			Steps:            steps("ORD005", models.StepCompleted, models.StepCompleted, models.StepInProgress),
		},
		{
			Order_id: "ORD006", Customer: "Laura Fernández", Phone: "+51 999 333 222",
			Items: []models.OrderItem{
				{Name: "Arroz con Mariscos", Quantity: 1, Unit_price: 42.50},
			},
			Total_amount: 42.50, Status: models.StatusReady,
			Created_at:       now.Add(-10 * time.Minute),
			Delivery_address: strptr("Av. Larco 789, San Borja"),
			Steps:            steps("ORD006", models.StepCompleted, models.StepCompleted, models.StepPending),
		},
		{
			Order_id: "ORD008", Customer: "Carlos López", Phone: "+51 999 222 111",
			Items: []models.OrderItem{
				{Name: "Pollo a la Brasa", Quantity: 3, Unit_price: 14.00},
			},
			Total_amount: 42.00, Status: models.StatusDelivered,
			Created_at:       now.Add(-2 * time.Hour),
			Delivery_address: strptr("Calle Berlin 78, Miraflores"),
			Driver_id:        strptr("u-driver-1"),
			Steps:            steps("ORD008", models.StepCompleted, models.StepCompleted, models.StepCompleted),
		},
	}
	for _, o := range seedOrders {
		s.orders[o.Order_id] = o
	}
}

func (s *Store) authenticate(email, password string) (*demoUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, false
	}
	if bcrypt.CompareHashAndPassword(u.Password_hash, []byte(password)) != nil {
		return nil, false
	}
	return u, true
}

func (s *Store) register(name, email, password, userType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[email]; exists {
		return errConflict
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.nextID++
	s.users[email] = &demoUser{
		User: models.User{
			User_id:   fmt.Sprintf("u-%d", s.nextID),
			Name:      name,
			Email:     email,
			User_type: userType,
			Role:      models.NormalizeRole(userType),
		},
		Password_hash: hash,
		Available:     true,
	}
	return nil
}

func (s *Store) sortedOrders() []models.Order {
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order_id < out[j].Order_id })
	return out
}

func (s *Store) allOrders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedOrders()
}

func (s *Store) order(orderID string) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return models.Order{}, false
	}
	return *o, true
}

func (s *Store) setStatus(orderID string, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return errNotFound
	}
	if status.Canonical() == models.StatusUnknown {
		return fmt.Errorf("%w: unknown status %q", errConflict, status)
	}
	o.Status = status.Canonical()
	return nil
}

func (s *Store) availableForPickup() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.sortedOrders() {
		if o.DisplayStatus() == models.StatusReady && o.Driver_id == nil {
			out = append(out, o)
		}
	}
	return out
}

func (s *Store) assignedTo(driverID string) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.sortedOrders() {
		if o.Driver_id != nil && *o.Driver_id == driverID && o.DisplayStatus() == models.StatusDispatched {
			out = append(out, o)
		}
	}
	return out
}

func (s *Store) kitchenQueue() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.sortedOrders() {
		switch o.DisplayStatus() {
		case models.StatusPending, models.StatusConfirmed, models.StatusCooking, models.StatusPacking:
			out = append(out, o)
		}
	}
	return out
}

func (s *Store) setStep(o *models.Order, stage models.Stage, status models.StepStatus, assignee string) {
	now := time.Now().UTC()
	for i := range o.Steps {
		if o.Steps[i].Stage != stage {
			continue
		}
		o.Steps[i].Status = status
		if assignee != "" {
			o.Steps[i].Assigned_to = assignee
		}
		if status == models.StepInProgress && o.Steps[i].Start_time == nil {
			o.Steps[i].Start_time = &now
		}
		if status == models.StepCompleted {
			o.Steps[i].End_time = &now
		}
		return
	}
}

func (s *Store) pickup(orderID, driverID, driverName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return errNotFound
	}
	if o.DisplayStatus() != models.StatusReady {
		return fmt.Errorf("%w: order %s is not ready for pickup", errConflict, orderID)
	}
	o.Status = models.StatusDispatched
	o.Driver_id = &driverID
	s.setStep(o, models.StageDelivery, models.StepInProgress, driverName)
	return nil
}

func (s *Store) completeDelivery(orderID, driverID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return errNotFound
	}
	if o.Driver_id == nil || *o.Driver_id != driverID || o.DisplayStatus() != models.StatusDispatched {
		return fmt.Errorf("%w: order %s is not in delivery by this driver", errConflict, orderID)
	}
	o.Status = models.StatusDelivered
	s.setStep(o, models.StageDelivery, models.StepCompleted, "")
	return nil
}

func (s *Store) cancelDelivery(orderID, driverID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return errNotFound
	}
	if o.DisplayStatus().IsTerminal() {
		return fmt.Errorf("%w: order %s already finished", errConflict, orderID)
	}
	o.Status = models.StatusCancelled
	_ = driverID
	return nil
}

func (s *Store) completeCooking(orderID, chefID, chefName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return errNotFound
	}
	switch o.DisplayStatus() {
	case models.StatusPending, models.StatusConfirmed, models.StatusCooking:
	default:
		return fmt.Errorf("%w: order %s is not in the kitchen", errConflict, orderID)
	}
	o.Status = models.StatusPacking
	o.Chef_id = &chefID
	s.setStep(o, models.StageCooking, models.StepCompleted, chefName)
	s.setStep(o, models.StagePacking, models.StepInProgress, chefName)
	return nil
}

func (s *Store) completePacking(orderID, chefName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return errNotFound
	}
	if o.DisplayStatus() != models.StatusPacking {
		return fmt.Errorf("%w: order %s is not being packed", errConflict, orderID)
	}
	o.Status = models.StatusReady
	s.setStep(o, models.StagePacking, models.StepCompleted, chefName)
	return nil
}

func (s *Store) summary() models.DashboardSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum models.DashboardSummary
	for _, o := range s.orders {
		sum.Total_orders++
		switch o.DisplayStatus() {
		case models.StatusPending, models.StatusConfirmed:
			sum.Pending++
		case models.StatusCooking:
			sum.Cooking++
		case models.StatusPacking:
			sum.Packing++
		case models.StatusReady:
			sum.Ready++
		case models.StatusDispatched:
			sum.In_delivery++
		case models.StatusDelivered:
			sum.Delivered++
		case models.StatusCancelled:
			sum.Cancelled++
		}
	}
	return sum
}

func (s *Store) staff(role models.Role) []models.StaffMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.StaffMember
	for _, u := range s.users {
		if u.User.Role != role {
			continue
		}
		active := 0
		for _, o := range s.orders {
			if o.DisplayStatus().IsTerminal() {
				continue
			}
			if role == models.RoleChef && o.Chef_id != nil && *o.Chef_id == u.User.User_id {
				active++
			}
			if role == models.RoleDriver && o.Driver_id != nil && *o.Driver_id == u.User.User_id {
				active++
			}
		}
		out = append(out, models.StaffMember{
			User_id:       u.User.User_id,
			Name:          u.User.Name,
			Role:          string(u.User.Role),
			Available:     u.Available,
			Active_orders: active,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User_id < out[j].User_id })
	return out
}

func (s *Store) allUsers() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, u := range s.users {
		out = append(out, u.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User_id < out[j].User_id })
	return out
}

func (s *Store) setAvailability(userID string, available bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.User.User_id == userID {
			u.Available = available
			return
		}
	}
}

func (s *Store) workflows() []models.OrderWorkflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.OrderWorkflow
	for _, o := range s.sortedOrders() {
		if len(o.Steps) == 0 {
			continue
		}
		out = append(out, models.OrderWorkflow{
			Order_id: o.Order_id,
			Customer: o.Customer,
			Steps:    append([]models.WorkflowStep(nil), o.Steps...),
		})
	}
	return out
}

func (s *Store) stepsOf(orderID string) ([]models.WorkflowStep, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, false
	}
	return append([]models.WorkflowStep(nil), o.Steps...), true
}

func (s *Store) updateStep(orderID, stepID string, patch models.StepPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return errNotFound
	}
	now := time.Now().UTC()
	for i := range o.Steps {
		if o.Steps[i].Step_id != stepID {
			continue
		}
		if patch.Status != "" {
			o.Steps[i].Status = patch.Status
			if patch.Status == models.StepInProgress && o.Steps[i].Start_time == nil {
				o.Steps[i].Start_time = &now
			}
			if patch.Status == models.StepCompleted {
				o.Steps[i].End_time = &now
			}
		}
		if patch.Assigned_to != "" {
			o.Steps[i].Assigned_to = patch.Assigned_to
		}
		if patch.Note != "" {
			o.Steps[i].Note = patch.Note
		}
		// the order's own status follows its steps; keep them agreeing
		o.Status = models.StatusFromSteps(o.Steps)
		return nil
	}
	return errNotFound
}

func (s *Store) driverStats(driverID string) models.DriverStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats models.DriverStats
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, o := range s.orders {
		if o.Driver_id == nil || *o.Driver_id != driverID {
			continue
		}
		switch o.DisplayStatus() {
		case models.StatusDelivered:
			stats.Total_deliveries++
			if o.Created_at.After(today) {
				stats.Deliveries_today++
			}
		case models.StatusCancelled:
			stats.Cancelled++
		}
	}
	stats.Avg_delivery_time = 24.5 // demo fixture; the real backend computes this
	return stats
}
