package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// OperationDef describes one workshop operation in the chain.
// Definitions are built once at configuration time and never mutated.
type OperationDef struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	MeanMinutes   float64 `yaml:"mean_minutes"`
	StdDevMinutes float64 `yaml:"std_dev_minutes"`
	SetupMinutes  float64 `yaml:"setup_minutes"`
	DefectRate    float64 `yaml:"defect_rate"`
	Stations      int     `yaml:"stations"`
}

// Chain is the ordered set of operations every case flows through.
// Loaded from YAML via LoadChain(path) or built with DefaultChain().
type Chain struct {
	Operations []OperationDef `yaml:"operations"`
}

// DefaultChain returns the built-in six-operation workshop chain.
func DefaultChain() *Chain {
	return &Chain{Operations: []OperationDef{
		{ID: "OP1", Name: "Raw Material Preparation", MeanMinutes: 15.0, StdDevMinutes: 3.0, SetupMinutes: 5.0, DefectRate: 0.02, Stations: 2},
		{ID: "OP2", Name: "CNC Machining", MeanMinutes: 45.0, StdDevMinutes: 8.0, SetupMinutes: 10.0, DefectRate: 0.05, Stations: 3},
		{ID: "OP3", Name: "Heat Treatment", MeanMinutes: 90.0, StdDevMinutes: 10.0, SetupMinutes: 15.0, DefectRate: 0.03, Stations: 1},
		{ID: "OP4", Name: "Surface Finishing", MeanMinutes: 30.0, StdDevMinutes: 5.0, SetupMinutes: 8.0, DefectRate: 0.04, Stations: 2},
		{ID: "OP5", Name: "Quality Control", MeanMinutes: 20.0, StdDevMinutes: 4.0, SetupMinutes: 3.0, DefectRate: 0.0, Stations: 2},
		{ID: "OP6", Name: "Assembly & Packaging", MeanMinutes: 25.0, StdDevMinutes: 5.0, SetupMinutes: 5.0, DefectRate: 0.02, Stations: 2},
	}}
}

// LoadChain reads an operation chain from a YAML file.
// Unknown fields are rejected so typos in configs fail loudly.
func LoadChain(path string) (*Chain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chain config: %w", err)
	}
	var c Chain
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("parsing chain config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chain config: %w", err)
	}
	return &c, nil
}

// Validate checks every operation definition.
func (c *Chain) Validate() error {
	if len(c.Operations) == 0 {
		return fmt.Errorf("chain must contain at least one operation")
	}
	seen := make(map[string]bool, len(c.Operations))
	for i, op := range c.Operations {
		prefix := fmt.Sprintf("operation[%d]", i)
		if op.ID == "" {
			return fmt.Errorf("%s: id must not be empty", prefix)
		}
		if seen[op.ID] {
			return fmt.Errorf("%s: duplicate operation id %q", prefix, op.ID)
		}
		seen[op.ID] = true
		if err := validateFinite(prefix+".mean_minutes", op.MeanMinutes); err != nil {
			return err
		}
		if op.MeanMinutes <= 0 {
			return fmt.Errorf("%s: mean_minutes must be positive, got %f", prefix, op.MeanMinutes)
		}
		if op.StdDevMinutes < 0 {
			return fmt.Errorf("%s: std_dev_minutes must be non-negative, got %f", prefix, op.StdDevMinutes)
		}
		if op.SetupMinutes < 0 {
			return fmt.Errorf("%s: setup_minutes must be non-negative, got %f", prefix, op.SetupMinutes)
		}
		if op.DefectRate < 0 || op.DefectRate > 1 {
			return fmt.Errorf("%s: defect_rate must be in [0, 1], got %f", prefix, op.DefectRate)
		}
		if op.Stations < 1 {
			return fmt.Errorf("%s: stations must be >= 1, got %d", prefix, op.Stations)
		}
	}
	return nil
}

// Sequence returns the canonical operation IDs in flow order.
func (c *Chain) Sequence() []string {
	ids := make([]string, len(c.Operations))
	for i, op := range c.Operations {
		ids[i] = op.ID
	}
	return ids
}

// ByID returns the operation with the given id, or nil if absent.
func (c *Chain) ByID(id string) *OperationDef {
	for i := range c.Operations {
		if c.Operations[i].ID == id {
			return &c.Operations[i]
		}
	}
	return nil
}

// Index returns the position of the operation in the chain, or -1 if absent.
func (c *Chain) Index(id string) int {
	for i := range c.Operations {
		if c.Operations[i].ID == id {
			return i
		}
	}
	return -1
}

// TheoreticalLeadMinutes is the queue-free, rework-free lead time:
// the sum of mean processing and setup time across the chain.
func (c *Chain) TheoreticalLeadMinutes() float64 {
	total := 0.0
	for _, op := range c.Operations {
		total += op.MeanMinutes + op.SetupMinutes
	}
	return total
}

func validateFinite(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	return nil
}
