package mockapi

import (
	"sync"
	"time"

	"sistemaweb/portal/internal/models"
)

// Fixtures is the in-memory request and inventory data the development API
// serves. Approvals mutate it so the portal sees state changes across calls.
type Fixtures struct {
	mu        sync.Mutex
	requests  map[string]*models.Request
	inventory []models.InventoryItem
}

func NewFixtures() *Fixtures {
	requester := models.Person{
		FirstName: "Jose Fernando",
		LastName:  "Bolivar Hurtado",
		Cedula:    "30799436",
		Phone:     "04241931805",
		Age:       "20",
	}

	requests := map[string]*models.Request{
		"1": {
			ID:          "1",
			Requester:   requester,
			Beneficiary: requester,
			Items: []models.RequestItem{
				{ID: "1", Name: "Silla de ruedas", Quantity: 3},
				{ID: "2", Name: "Pañales", Quantity: 5},
				{ID: "3", Name: "Muletas", Quantity: 2},
			},
			State:       models.RequestPending,
			RequestedAt: time.Now(),
		},
		"2": {
			ID: "2",
			Requester: models.Person{
				FirstName: "María",
				LastName:  "González Pérez",
				Cedula:    "28455102",
				Phone:     "04140098812",
				Age:       "54",
			},
			Beneficiary: models.Person{
				FirstName: "Pedro",
				LastName:  "González",
				Cedula:    "3125544",
				Phone:     "04140098812",
				Age:       "81",
			},
			Items: []models.RequestItem{
				{ID: "1", Name: "Colchón Antiescara", Quantity: 1},
				{ID: "2", Name: "Andador Plegable", Quantity: 1},
			},
			State:       models.RequestPending,
			RequestedAt: time.Now().Add(-48 * time.Hour),
		},
	}

	inventory := []models.InventoryItem{
		{ID: "INV-001", Name: "Silla de Ruedas Estándar", Category: "Ayuda Técnica", State: models.InventoryAvailable, Quantity: 5},
		{ID: "INV-002", Name: "Silla de Ruedas Eléctrica", Category: "Ayuda Técnica", State: models.InventoryInUse, Quantity: 2},
		{ID: "INV-003", Name: "Colchón Antiescara", Category: "Ayuda Social", State: models.InventoryAvailable, Quantity: 10},
		{ID: "INV-004", Name: "Andador Plegable", Category: "Ayuda Técnica", State: models.InventoryToDeliver, Quantity: 3},
		{ID: "INV-005", Name: "Bastón de 4 Puntos", Category: "Ayuda Técnica", State: models.InventoryAvailable, Quantity: 8},
	}

	return &Fixtures{requests: requests, inventory: inventory}
}

func (f *Fixtures) Pending() []models.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Request, 0, len(f.requests))
	for _, r := range f.requests {
		if r.State == models.RequestPending {
			out = append(out, *r)
		}
	}
	return out
}

func (f *Fixtures) Request(id string) (models.Request, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return models.Request{}, false
	}
	return *r, true
}

func (f *Fixtures) Inventory() []models.InventoryItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.InventoryItem, len(f.inventory))
	copy(out, f.inventory)
	return out
}

// ApproveItem records the approved quantity for one line item.
func (f *Fixtures) ApproveItem(requestID, itemID string, quantity int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[requestID]
	if !ok {
		return false
	}
	for i := range r.Items {
		if r.Items[i].ID == itemID {
			r.Items[i].Quantity = quantity
			return true
		}
	}
	return false
}

// ApproveAll commits every quantity and closes the request. All-or-nothing:
// an unknown request changes nothing.
func (f *Fixtures) ApproveAll(requestID string, quantities map[string]int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[requestID]
	if !ok {
		return false
	}
	for i := range r.Items {
		if qty, ok := quantities[r.Items[i].ID]; ok {
			r.Items[i].Quantity = qty
		}
	}
	r.State = models.RequestApproved
	return true
}
