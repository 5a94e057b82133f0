package report

import (
	"errors"
	"fmt"
	"sync"

	"seoaudit/internal/pkg/models"
)

// Collector holds one ordered result slot per brand. Brand audits may run
// concurrently and finish in any order; merging the slots restores the
// configuration order exactly.
type Collector struct {
	mu    sync.Mutex
	slots [][]models.CheckResult
}

// Creates a collector with a fixed number of slots
func NewCollector(slots int) (*Collector, error) {
	if slots <= 0 {
		return nil, errors.New("slot count should be greater than 0")
	}
	return &Collector{
		slots: make([][]models.CheckResult, slots),
	}, nil
}

// Stores the results for one slot
func (c *Collector) Put(slot int, results []models.CheckResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slot < 0 || slot >= len(c.slots) {
		return fmt.Errorf("slot %d out of range [0, %d)", slot, len(c.slots))
	}
	c.slots[slot] = results
	return nil
}

// Concatenates all slots in order
func (c *Collector) Merge() []models.CheckResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	var merged []models.CheckResult
	for _, results := range c.slots {
		merged = append(merged, results...)
	}
	return merged
}
