package core

import (
	"fmt"
	"sort"
	"sync"
)

// CheckFunc inspects one row of a dataset and records issues in vc.
type CheckFunc func(vc *ValidationContext, row RowView)

// FinalizeFunc runs once per dataset after its last row, before the
// context is finalized.
type FinalizeFunc func(vc *ValidationContext)

// Rule is a field or cross-field validator.
type Rule struct {
	Name     string       // unique identifier: "attribute_size"
	Order    int          // rules run in ascending Order for every row
	Column   string       // primary column the rule inspects
	Check    CheckFunc    // per-row check
	Finalize FinalizeFunc // optional dataset-level check
}

var (
	registry   = make(map[string]Rule)
	registryMu sync.RWMutex
)

// Register adds a rule to the registry.
// Panics if a rule with the same name is already registered.
func Register(rule Rule) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if rule.Check == nil {
		panic(fmt.Sprintf("rule %s has no check", rule.Name))
	}
	if _, exists := registry[rule.Name]; exists {
		panic(fmt.Sprintf("rule already registered: %s", rule.Name))
	}

	registry[rule.Name] = rule
}

// Rules returns all registered rules in execution order.
// Sorted by Order then by name for consistent ordering.
func Rules() []Rule {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Rule, 0, len(registry))
	for _, rule := range registry {
		result = append(result, rule)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].Name < result[j].Name
	})

	return result
}

// RuleCount returns the number of registered rules.
func RuleCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}
