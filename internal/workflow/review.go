// Package workflow holds the page-local state for reviewing a help request:
// per-item approved quantities, the in-flight flags and the confirmation
// step that precedes every commit.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"sistemaweb/portal/internal/models"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrItemBusy         = errors.New("item approval already in progress")
	ErrNothingToApprove = errors.New("no items with a positive approved quantity")
)

const (
	WarnMaxExceededFmt = "La cantidad máxima permitida es %d"
	WarnNegative       = "La cantidad no puede ser negativa"
	WarnNotInteger     = "La cantidad debe ser un número entero"
	WarnNothing        = "No hay items para aprobar"
)

// Clamp bounds an already-integer quantity to [0, max]. Idempotent:
// Clamp(Clamp(v, max), max) == Clamp(v, max).
func Clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// Review is the optimistic state machine over a single request's line items.
type Review struct {
	mu        sync.Mutex
	request   models.Request
	approved  map[string]int
	approving map[string]bool
}

// NewReview starts a review with every approved quantity preset to the
// requested quantity.
func NewReview(request models.Request) *Review {
	approved := make(map[string]int, len(request.Items))
	for _, item := range request.Items {
		approved[item.ID] = item.Quantity
	}
	return &Review{
		request:   request,
		approved:  approved,
		approving: make(map[string]bool, len(request.Items)),
	}
}

func (r *Review) Request() models.Request { return r.request }

// Quantities returns a copy of the approved quantities.
func (r *Review) Quantities() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int, len(r.approved))
	for id, qty := range r.approved {
		out[id] = qty
	}
	return out
}

func (r *Review) Approving(itemID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.approving[itemID]
}

// SetQuantity floors the proposed value to an integer, clamps it to
// [0, requested] and stores the result. The raw out-of-range input is never
// kept; the returned warning is empty when the value needed no correction.
func (r *Review) SetQuantity(itemID string, proposed float64) (int, string, error) {
	item, ok := r.item(itemID)
	if !ok {
		return 0, "", ErrItemNotFound
	}

	if math.IsNaN(proposed) {
		proposed = 0
	}
	floored := int(math.Floor(proposed))
	stored := Clamp(floored, item.Quantity)

	warning := ""
	switch {
	case floored > item.Quantity:
		warning = fmt.Sprintf(WarnMaxExceededFmt, item.Quantity)
	case floored < 0:
		warning = WarnNegative
	case proposed != float64(floored):
		warning = WarnNotInteger
	}

	r.mu.Lock()
	r.approved[itemID] = stored
	r.mu.Unlock()
	return stored, warning, nil
}

// ConfirmationLine is the exact text shown before committing one item.
func (r *Review) ConfirmationLine(itemID string) (string, error) {
	item, ok := r.item(itemID)
	if !ok {
		return "", ErrItemNotFound
	}
	r.mu.Lock()
	qty := r.approved[itemID]
	r.mu.Unlock()
	return fmt.Sprintf("%s: %d unidades", item.Name, qty), nil
}

// ConfirmationLines lists every item with the quantity about to be
// committed, in request order.
func (r *Review) ConfirmationLines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]string, 0, len(r.request.Items))
	for _, item := range r.request.Items {
		lines = append(lines, fmt.Sprintf("%s: %d unidades", item.Name, r.approved[item.ID]))
	}
	return lines
}

// CanApproveAll reports whether the bulk action is enabled: at least one
// item with a strictly positive approved quantity.
func (r *Review) CanApproveAll() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, qty := range r.approved {
		if qty > 0 {
			return true
		}
	}
	return false
}

// ApproveItem runs the commit for one item. The in-flight flag goes up
// immediately before the call and comes down in a deferred cleanup whatever
// the outcome.
func (r *Review) ApproveItem(ctx context.Context, itemID string, commit func(ctx context.Context, itemID string, quantity int) error) error {
	if _, ok := r.item(itemID); !ok {
		return ErrItemNotFound
	}

	r.mu.Lock()
	if r.approving[itemID] {
		r.mu.Unlock()
		return ErrItemBusy
	}
	r.approving[itemID] = true
	qty := r.approved[itemID]
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.approving[itemID] = false
		r.mu.Unlock()
	}()

	return commit(ctx, itemID, qty)
}

// ApproveAll runs the bulk commit. It refuses, with ErrNothingToApprove,
// when no item has a positive quantity; the commit is never invoked in that
// case. The simulated backend commit is all-or-nothing, so there is no
// partial-success path.
func (r *Review) ApproveAll(ctx context.Context, commit func(ctx context.Context, quantities map[string]int) error) error {
	if !r.CanApproveAll() {
		return ErrNothingToApprove
	}
	return commit(ctx, r.Quantities())
}

func (r *Review) item(itemID string) (models.RequestItem, bool) {
	for _, item := range r.request.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return models.RequestItem{}, false
}
