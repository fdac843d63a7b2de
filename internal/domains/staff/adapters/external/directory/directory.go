package directory

import (
	"context"
	"sort"
	"strings"

	client "github.com/Apurer/petcare-booking/internal/clients/http/directory"
	"github.com/Apurer/petcare-booking/internal/domains/staff/domain"
	"github.com/Apurer/petcare-booking/internal/domains/staff/ports"
)

var _ ports.Directory = (*Directory)(nil)

// Directory lists STAFF accounts from the remote backend.
type Directory struct {
	client *client.Client
}

func NewDirectory(c *client.Client) *Directory {
	return &Directory{client: c}
}

// ListStaff filters locally; the backend only filters by role.
func (d *Directory) ListStaff(ctx context.Context, filter ports.Filter) ([]domain.Member, error) {
	accounts, err := d.client.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	members := make([]domain.Member, 0, len(accounts))
	for _, a := range accounts {
		m := domain.Member{ID: a.ID, FullName: strings.TrimSpace(a.FullName), Status: domain.ParseStatus(a.Status)}
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		members = append(members, m)
	}
	sort.SliceStable(members, func(i, j int) bool { return members[i].FullName < members[j].FullName })
	return members, nil
}
