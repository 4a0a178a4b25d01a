package sim

import "fmt"

// ResourceKind tags a capacity pool or stock item with the class of resource
// it models. Capacity pools are backed by CapacityResource; Material, Tool and
// Energy kinds route through the MaterialInventory instead.
type ResourceKind string

const (
	KindMachine   ResourceKind = "machine"
	KindWorker    ResourceKind = "worker"
	KindTransport ResourceKind = "transport"
	KindMaterial  ResourceKind = "material"
	KindTool      ResourceKind = "tool"
	KindEnergy    ResourceKind = "energy"
)

// validKinds maps accepted resource kind strings.
var validKinds = map[ResourceKind]bool{
	KindMachine:   true,
	KindWorker:    true,
	KindTransport: true,
	KindMaterial:  true,
	KindTool:      true,
	KindEnergy:    true,
}

// IsValidKind returns true if the given string is a recognized resource kind.
func IsValidKind(kind string) bool {
	return validKinds[ResourceKind(kind)]
}

// ParseKind converts a string into a ResourceKind, or errors on unknown input.
func ParseKind(kind string) (ResourceKind, error) {
	if !IsValidKind(kind) {
		return "", fmt.Errorf("unknown resource kind %q", kind)
	}
	return ResourceKind(kind), nil
}

// IsCapacityKind reports whether pools of this kind are backed by a
// CapacityResource (as opposed to quantity-based inventory).
func (k ResourceKind) IsCapacityKind() bool {
	switch k {
	case KindMachine, KindWorker, KindTransport:
		return true
	default:
		return false
	}
}
