package sim

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// Stock is one quantity-tracked item: raw material, tool set or energy
// budget. Distinct from the capacity-resource layer — shortages here are
// domain-level failures that abort one unit of work, not scheduling faults.
type Stock struct {
	Name     string
	Kind     ResourceKind
	Quantity float64
	Unit     string
}

// MaterialInventory tracks quantity-based stock for material, tool and
// energy kinds. Consumption either succeeds fully or fails with
// InsufficientMaterialError; there are no partial draws.
type MaterialInventory struct {
	stocks map[string]*Stock
}

// NewMaterialInventory creates an empty inventory.
func NewMaterialInventory() *MaterialInventory {
	return &MaterialInventory{stocks: make(map[string]*Stock)}
}

// AddStock registers new stock or tops up an existing item of the same name.
func (inv *MaterialInventory) AddStock(name string, kind ResourceKind, quantity float64, unit string) error {
	if kind.IsCapacityKind() {
		return &ConfigurationError{
			Reason: fmt.Sprintf("stock %q: kind %q is capacity-based, register a pool instead", name, kind),
		}
	}
	if quantity < 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("stock %q: quantity must not be negative", name)}
	}
	if s, ok := inv.stocks[name]; ok {
		s.Quantity += quantity
		return nil
	}
	inv.stocks[name] = &Stock{Name: name, Kind: kind, Quantity: quantity, Unit: unit}
	return nil
}

// Consume draws quantity from a stock item. Unknown items and shortages both
// surface as InsufficientMaterialError so callers handle one failure shape.
func (inv *MaterialInventory) Consume(name string, quantity float64) error {
	s, ok := inv.stocks[name]
	if !ok {
		return &InsufficientMaterialError{Material: name, Requested: quantity, Available: 0}
	}
	if s.Quantity < quantity {
		return &InsufficientMaterialError{Material: name, Requested: quantity, Available: s.Quantity}
	}
	s.Quantity -= quantity
	logrus.Debugf("stock %s: consumed %.2f %s (%.2f left)", name, quantity, s.Unit, s.Quantity)
	return nil
}

// ReturnStock puts quantity back, for reusable items like tools.
func (inv *MaterialInventory) ReturnStock(name string, quantity float64) error {
	s, ok := inv.stocks[name]
	if !ok {
		return &ConfigurationError{Reason: fmt.Sprintf("stock %q not registered", name)}
	}
	s.Quantity += quantity
	return nil
}

// Available returns the current quantity of a stock item, zero if unknown.
func (inv *MaterialInventory) Available(name string) float64 {
	if s, ok := inv.stocks[name]; ok {
		return s.Quantity
	}
	return 0
}

// StockNames returns registered stock names in sorted order.
func (inv *MaterialInventory) StockNames() []string {
	names := make([]string, 0, len(inv.stocks))
	for name := range inv.stocks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
