// Package trace provides lifecycle-notification recording for external
// reporting and analysis. This package has no dependencies on sim/ — it
// stores pure data types. The core emits records for resource registration,
// allocation lifecycle steps and transport phase transitions; formatting,
// aggregation and persistence belong to the consumer.
package trace

// Level controls the verbosity of lifecycle tracing.
type Level string

const (
	// LevelNone disables tracing (zero overhead).
	LevelNone Level = "none"
	// LevelLifecycle captures registrations, allocation lifecycle steps and
	// transport phase transitions.
	LevelLifecycle Level = "lifecycle"
)

// validLevels maps accepted trace level strings.
var validLevels = map[Level]bool{
	LevelNone:      true,
	LevelLifecycle: true,
	"":             true, // empty defaults to none
}

// IsValidLevel returns true if the given level string is a recognized trace level.
func IsValidLevel(level string) bool {
	return validLevels[Level(level)]
}

// Config controls trace collection behavior.
type Config struct {
	Level Level
}

// PlantTrace collects lifecycle records during a simulation run.
// A nil *PlantTrace is safe to record into (records are dropped).
type PlantTrace struct {
	Config        Config
	Registrations []RegistrationRecord
	Allocations   []AllocationRecord
	Phases        []PhaseRecord
}

// NewPlantTrace creates a PlantTrace ready for recording.
func NewPlantTrace(config Config) *PlantTrace {
	return &PlantTrace{
		Config:        config,
		Registrations: make([]RegistrationRecord, 0),
		Allocations:   make([]AllocationRecord, 0),
		Phases:        make([]PhaseRecord, 0),
	}
}

func (pt *PlantTrace) enabled() bool {
	return pt != nil && pt.Config.Level == LevelLifecycle
}

// RecordRegistration appends a pool or transport registration record.
func (pt *PlantTrace) RecordRegistration(record RegistrationRecord) {
	if !pt.enabled() {
		return
	}
	pt.Registrations = append(pt.Registrations, record)
}

// RecordAllocation appends an allocation lifecycle record.
func (pt *PlantTrace) RecordAllocation(record AllocationRecord) {
	if !pt.enabled() {
		return
	}
	pt.Allocations = append(pt.Allocations, record)
}

// RecordPhase appends a transport phase transition record.
func (pt *PlantTrace) RecordPhase(record PhaseRecord) {
	if !pt.enabled() {
		return
	}
	pt.Phases = append(pt.Phases, record)
}
