package cmd

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	sim "github.com/factory-sim/factory-sim/sim"
	"github.com/factory-sim/factory-sim/sim/workload"
)

// Scenario is the YAML description of one plant model: capacity pools,
// transport fleets, stock and production lines. Durations are expressed in
// simulated hours and converted to ticks at build time.
type Scenario struct {
	HorizonHours float64         `yaml:"horizon_hours" validate:"gt=0"`
	Pools        []PoolSpec      `yaml:"pools" validate:"required,min=1,dive"`
	Transports   []TransportSpec `yaml:"transports" validate:"dive"`
	Stocks       []StockSpec     `yaml:"stocks" validate:"dive"`
	Lines        []LineSpec      `yaml:"lines" validate:"dive"`
}

// PoolSpec declares one capacity pool.
type PoolSpec struct {
	Name     string `yaml:"name" validate:"required"`
	Kind     string `yaml:"kind" validate:"required,oneof=machine worker transport"`
	Capacity int    `yaml:"capacity" validate:"gt=0"`
}

// RouteSpec describes a transport path.
type RouteSpec struct {
	Origin      string `yaml:"origin"`
	Waypoint    string `yaml:"waypoint"`
	Destination string `yaml:"destination"`
}

// TransportSpec declares one transport instance and its phase durations.
type TransportSpec struct {
	ID                string    `yaml:"id" validate:"required"`
	Name              string    `yaml:"name"`
	Pool              string    `yaml:"pool" validate:"required"`
	Route             RouteSpec `yaml:"route"`
	LoadingHours      float64   `yaml:"loading_hours" validate:"gt=0"`
	TransportHours    float64   `yaml:"transport_hours" validate:"gt=0"`
	UnloadingHours    float64   `yaml:"unloading_hours" validate:"gt=0"`
	CooldownHours     float64   `yaml:"cooldown_hours" validate:"gte=0"`
	BatchSize         int       `yaml:"batch_size"`
	MaxBatchWaitHours float64   `yaml:"max_batch_wait_hours" validate:"gte=0"`
}

// StockSpec declares quantity-based stock (materials, tools, energy).
type StockSpec struct {
	Name     string  `yaml:"name" validate:"required"`
	Kind     string  `yaml:"kind" validate:"required,oneof=material tool energy"`
	Quantity float64 `yaml:"quantity" validate:"gte=0"`
	Unit     string  `yaml:"unit"`
}

// MaterialSpec is one per-unit stock draw of a production line.
type MaterialSpec struct {
	Name     string  `yaml:"name" validate:"required"`
	Quantity float64 `yaml:"quantity" validate:"gt=0"`
}

// LineSpec declares one production line.
type LineSpec struct {
	ID            string                `yaml:"id" validate:"required"`
	MachinePool   string                `yaml:"machine_pool" validate:"required"`
	WorkerPool    string                `yaml:"worker_pool"`
	TransportPool string                `yaml:"transport_pool" validate:"required"`
	Priority      int                   `yaml:"priority"`
	Units         int                   `yaml:"units" validate:"gt=0"`
	Processing    workload.DistSpec     `yaml:"processing" validate:"required"`
	Materials     []MaterialSpec        `yaml:"materials" validate:"dive"`
	Arrivals      *workload.ArrivalSpec `yaml:"arrivals"`
}

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := validator.New().Struct(&sc); err != nil {
		return nil, fmt.Errorf("validating scenario: %w", err)
	}
	return &sc, nil
}

// DefaultScenario is a small two-line plant used when no scenario file is
// given: two assembly machines, a shared worker pool and a two-vehicle AGV
// fleet moving finished goods to the warehouse.
func DefaultScenario() *Scenario {
	return &Scenario{
		HorizonHours: 200,
		Pools: []PoolSpec{
			{Name: "assembly_machines", Kind: "machine", Capacity: 2},
			{Name: "assembly_workers", Kind: "worker", Capacity: 3},
			{Name: "agv", Kind: "transport", Capacity: 2},
		},
		Transports: []TransportSpec{
			{
				ID: "agv-1", Name: "AGV 1", Pool: "agv",
				Route:        RouteSpec{Origin: "assembly", Waypoint: "corridor-b", Destination: "warehouse"},
				LoadingHours: 0.3, TransportHours: 1.5, UnloadingHours: 0.2, CooldownHours: 0.2,
			},
			{
				ID: "agv-2", Name: "AGV 2", Pool: "agv",
				Route:        RouteSpec{Origin: "assembly", Waypoint: "corridor-b", Destination: "warehouse"},
				LoadingHours: 0.3, TransportHours: 1.5, UnloadingHours: 0.2, CooldownHours: 0.2,
			},
		},
		Stocks: []StockSpec{
			{Name: "steel", Kind: "material", Quantity: 2000, Unit: "kg"},
			{Name: "fasteners", Kind: "material", Quantity: 5000, Unit: "pcs"},
		},
		Lines: []LineSpec{
			{
				ID: "line-1", MachinePool: "assembly_machines", WorkerPool: "assembly_workers",
				TransportPool: "agv", Priority: 5, Units: 30,
				Processing: workload.DistSpec{Type: "constant", Params: map[string]float64{"value": 1.0}},
				Materials:  []MaterialSpec{{Name: "steel", Quantity: 12}, {Name: "fasteners", Quantity: 40}},
				Arrivals:   &workload.ArrivalSpec{Process: "poisson", RatePerHour: 0.4},
			},
			{
				ID: "line-2", MachinePool: "assembly_machines", WorkerPool: "assembly_workers",
				TransportPool: "agv", Priority: 3, Units: 20,
				Processing: workload.DistSpec{Type: "gaussian", Params: map[string]float64{"mean": 1.5, "std_dev": 0.25, "min": 0.5, "max": 3.0}},
				Materials:  []MaterialSpec{{Name: "steel", Quantity: 20}},
				Arrivals:   &workload.ArrivalSpec{Process: "poisson", RatePerHour: 0.3},
			},
		},
	}
}

// hoursSampler converts a DistSpec whose parameters are in hours into a
// tick-based DurationSampler.
func hoursSampler(spec workload.DistSpec) (workload.DurationSampler, error) {
	scaled := workload.DistSpec{Type: spec.Type, Params: make(map[string]float64, len(spec.Params))}
	for k, v := range spec.Params {
		scaled.Params[k] = v * sim.TicksPerHour
	}
	return workload.NewDurationSampler(scaled)
}

// BuildSimulator assembles a Simulator from a validated scenario.
func BuildSimulator(sc *Scenario, seed int64) (*sim.Simulator, []*sim.ProductionLine, error) {
	s := sim.NewSimulator(sim.Ticks(sc.HorizonHours), seed)

	for _, p := range sc.Pools {
		kind, err := sim.ParseKind(p.Kind)
		if err != nil {
			return nil, nil, err
		}
		if err := s.Resources.RegisterPool(p.Name, kind, p.Capacity); err != nil {
			return nil, nil, err
		}
	}

	for _, t := range sc.Transports {
		durations, err := sim.FixedPhaseDurations(
			sim.Ticks(t.LoadingHours), sim.Ticks(t.TransportHours),
			sim.Ticks(t.UnloadingHours), sim.Ticks(t.CooldownHours))
		if err != nil {
			return nil, nil, err
		}
		route := sim.Route{Origin: t.Route.Origin, Waypoint: t.Route.Waypoint, Destination: t.Route.Destination}
		var tp *sim.TransportProcess
		if t.BatchSize > 1 {
			tp, err = sim.NewBatchTransportProcess(t.ID, t.Name, route, durations, t.BatchSize, sim.Ticks(t.MaxBatchWaitHours))
		} else {
			tp, err = sim.NewTransportProcess(t.ID, t.Name, route, durations)
		}
		if err != nil {
			return nil, nil, err
		}
		if err := s.Resources.RegisterTransport(t.Pool, tp); err != nil {
			return nil, nil, err
		}
	}

	for _, st := range sc.Stocks {
		kind, err := sim.ParseKind(st.Kind)
		if err != nil {
			return nil, nil, err
		}
		if err := s.Inventory.AddStock(st.Name, kind, st.Quantity, st.Unit); err != nil {
			return nil, nil, err
		}
	}

	lines := make([]*sim.ProductionLine, 0, len(sc.Lines))
	for _, l := range sc.Lines {
		processing, err := hoursSampler(l.Processing)
		if err != nil {
			return nil, nil, fmt.Errorf("line %q: %w", l.ID, err)
		}
		var arrivals workload.ArrivalSampler
		if l.Arrivals != nil {
			arrivals, err = workload.NewArrivalSampler(*l.Arrivals, sim.TicksPerHour)
			if err != nil {
				return nil, nil, fmt.Errorf("line %q: %w", l.ID, err)
			}
		}
		materials := make([]sim.MaterialNeed, 0, len(l.Materials))
		for _, mSpec := range l.Materials {
			materials = append(materials, sim.MaterialNeed{Name: mSpec.Name, Quantity: mSpec.Quantity})
		}
		lines = append(lines, &sim.ProductionLine{
			ID:             l.ID,
			MachinePool:    l.MachinePool,
			WorkerPool:     l.WorkerPool,
			TransportPool:  l.TransportPool,
			Priority:       l.Priority,
			Materials:      materials,
			ProcessingTime: processing,
			Units:          l.Units,
			Arrivals:       arrivals,
		})
	}

	return s, lines, nil
}
