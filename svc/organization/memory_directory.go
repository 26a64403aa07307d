package organization

import (
	"context"
	"sync"
)

// MemoryDirectory keeps members in process memory.
type MemoryDirectory struct {
	mu      sync.RWMutex
	members []Member
}

func NewMemoryDirectory(members ...Member) *MemoryDirectory {
	return &MemoryDirectory{members: members}
}

func (d *MemoryDirectory) Add(m Member) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.members = append(d.members, m)
}

func (d *MemoryDirectory) Owner(_ context.Context, organizationID string) (*Member, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, m := range d.members {
		if m.OrganizationID == organizationID && m.Role == RoleOwner && m.IsActive {
			return &m, nil
		}
	}
	return nil, ErrOwnerNotFound
}
