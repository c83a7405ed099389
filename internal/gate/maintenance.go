package gate

import "sync"

// Maintenance holds the per-class feature flags toggled by the
// /maintenance admin command. Everything is enabled by default.
// CapStatus is never subject to maintenance; CapOrders and CapTopups are
// additionally subject to the general flag.
type Maintenance struct {
	mu    sync.RWMutex
	flags map[Capability]bool
}

func NewMaintenance() *Maintenance {
	return &Maintenance{
		flags: map[Capability]bool{
			CapGeneral: true,
			CapOrders:  true,
			CapTopups:  true,
		},
	}
}

func (m *Maintenance) Enabled(cap Capability) bool {
	if cap == CapStatus {
		return true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.flags[CapGeneral] {
		return false
	}
	return m.flags[cap]
}

// Set toggles one class. Returns false for an unknown class name.
func (m *Maintenance) Set(cap Capability, enabled bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.flags[cap]; !ok {
		return false
	}
	m.flags[cap] = enabled
	return true
}
