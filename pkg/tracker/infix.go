package tracker

import "github.com/Dicklesworthstone/responsive_scopes/pkg/partition"

// Infix inserts the current label before the extension of p, replacing any
// known label already there: "img/a.png" in scope md becomes "img/a_md.png".
// Before the first resolution it behaves like Unfix.
func (t *Tracker) Infix(p string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	labels := t.partition.Labels()
	if !t.state.Resolved() {
		return partition.Unfix(p, t.separator, labels)
	}
	return partition.Infix(p, t.separator, t.scope.Label, labels)
}

// Unfix strips a known label suffix from p.
func (t *Tracker) Unfix(p string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return partition.Unfix(p, t.separator, t.partition.Labels())
}
