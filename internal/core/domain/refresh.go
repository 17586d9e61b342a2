package domain

import "time"

// RefreshPlan is the outcome of reconciling one refresh cycle against the stored set.
// Updates carry the stored ID of the row they overwrite.
type RefreshPlan struct {
	Inserts []Country
	Updates []Country
	// Folded counts upstream entries that repeated an earlier name of the same cycle
	// and were merged into the pending record instead of producing a second row.
	Folded int
}

// Inserted returns how many records the plan creates.
func (p RefreshPlan) Inserted() int { return len(p.Inserts) }

// Updated returns how many stored records the plan overwrites, counting folded duplicates.
func (p RefreshPlan) Updated() int { return len(p.Updates) + p.Folded }

// RefreshResult reports a committed refresh cycle.
type RefreshResult struct {
	Inserted    int
	Updated     int
	RefreshedAt time.Time
}

// Total returns the number of upstream records processed by the cycle.
func (r RefreshResult) Total() int { return r.Inserted + r.Updated }
