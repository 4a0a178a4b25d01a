package trace

// AllocationAction is the lifecycle step an AllocationRecord captures.
type AllocationAction string

const (
	ActionRequested AllocationAction = "requested"
	ActionGranted   AllocationAction = "granted"
	ActionReleased  AllocationAction = "released"
	ActionFailed    AllocationAction = "failed"
	ActionCancelled AllocationAction = "cancelled"
)

// RegistrationRecord captures a pool or transport-instance registration.
// TransportID is empty for pool registrations.
type RegistrationRecord struct {
	Clock       int64
	Pool        string
	Kind        string
	Capacity    int
	TransportID string
}

// AllocationRecord captures one step of an allocation's lifecycle.
type AllocationRecord struct {
	Clock        int64
	AllocationID string
	Pool         string
	Requester    string
	Priority     int
	Action       AllocationAction
}

// PhaseRecord captures a transport instance entering a cycle phase.
type PhaseRecord struct {
	Clock       int64
	TransportID string
	Pool        string
	Phase       string
	CargoCount  int
}
