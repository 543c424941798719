package personalization

import (
	"sort"
	"time"

	"github.com/edulistas/backend/internal/domain/storefront"
	"github.com/shopspring/decimal"
)

// Item is one visible line of a materialized personalized list
type Item struct {
	ProductID   storefront.ProductID
	VariantID   *storefront.VariantID
	Name        string
	ProductCode string
	UnitPrice   decimal.Decimal
	Quantity    int
	ImageURL    string
	Origin      Origin
	LastAction  Action
	UpdatedAt   time.Time
}

// Snapshot is the materialized view of a visitor's log
type Snapshot struct {
	Items []Item
	// AddedCount is the number of visible visitor-added products
	AddedCount int
	// ModifiedCount is the number of visible products whose quantity
	// the visitor changed
	ModifiedCount int
	// RemovedCount is the number of product lines hidden by a tombstone
	RemovedCount int
}

// Materialize folds an event log into the visitor's current view.
//
// Per product line the latest non-tombstone event is the candidate and
// the latest tombstone, if any, competes with it: the line is hidden
// when the tombstone is at least as recent as the candidate. The fold
// looks only at relative event order, never at the wall clock, so a log
// that escaped the retention sweep still materializes deterministically.
func Materialize(events []Event) Snapshot {
	type lineState struct {
		candidate    *Event
		candidatePos int
		tombstone    *Event
		tombstonePos int
	}

	lines := make(map[ItemKey]*lineState)
	order := make([]ItemKey, 0, len(events))

	for i := range events {
		e := &events[i]
		key := e.Key()
		state, ok := lines[key]
		if !ok {
			state = &lineState{candidatePos: -1, tombstonePos: -1}
			lines[key] = state
			order = append(order, key)
		}
		if e.Action == ActionRemoved {
			if state.tombstone == nil || !e.CreatedAt.Before(state.tombstone.CreatedAt) {
				state.tombstone = e
				state.tombstonePos = i
			}
			continue
		}
		if state.candidate == nil || !e.CreatedAt.Before(state.candidate.CreatedAt) {
			state.candidate = e
			state.candidatePos = i
		}
	}

	snapshot := Snapshot{}
	for _, key := range order {
		state := lines[key]
		if state.candidate == nil {
			snapshot.RemovedCount++
			continue
		}
		if state.tombstone != nil && !state.tombstone.CreatedAt.Before(state.candidate.CreatedAt) {
			snapshot.RemovedCount++
			continue
		}
		e := state.candidate
		snapshot.Items = append(snapshot.Items, Item{
			ProductID:   e.ProductID,
			VariantID:   e.VariantID,
			Name:        e.Name,
			ProductCode: e.ProductCode,
			UnitPrice:   e.UnitPrice,
			Quantity:    e.Quantity,
			ImageURL:    e.ImageURL,
			Origin:      e.Origin,
			LastAction:  e.Action,
			UpdatedAt:   e.CreatedAt,
		})
		if e.Origin == OriginVisitor {
			snapshot.AddedCount++
		}
		if e.Action == ActionModified {
			snapshot.ModifiedCount++
		}
	}

	sort.SliceStable(snapshot.Items, func(i, j int) bool {
		return snapshot.Items[i].UpdatedAt.Before(snapshot.Items[j].UpdatedAt)
	})

	return snapshot
}
