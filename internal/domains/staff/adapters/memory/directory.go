package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Apurer/petcare-booking/internal/domains/staff/domain"
	"github.com/Apurer/petcare-booking/internal/domains/staff/ports"
)

var _ ports.Directory = (*Directory)(nil)

// Directory is an in-memory staff roster.
type Directory struct {
	mu      sync.RWMutex
	members map[string]domain.Member
}

func NewDirectory(members ...domain.Member) *Directory {
	d := &Directory{members: map[string]domain.Member{}}
	for _, m := range members {
		d.members[m.ID] = m
	}
	return d
}

// Put adds or replaces a member.
func (d *Directory) Put(member domain.Member) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.members[member.ID] = member
}

func (d *Directory) ListStaff(_ context.Context, filter ports.Filter) ([]domain.Member, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	list := make([]domain.Member, 0, len(d.members))
	for _, m := range d.members {
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		list = append(list, m)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].FullName < list[j].FullName })
	return list, nil
}
