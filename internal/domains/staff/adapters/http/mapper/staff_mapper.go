package mapper

import "github.com/Apurer/petcare-booking/internal/domains/staff/domain"

// Staff is the HTTP representation of a bookable staff member.
type Staff struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Status   string `json:"status"`
}

func FromDomainMembers(members []domain.Member) []Staff {
	out := make([]Staff, 0, len(members))
	for _, m := range members {
		out = append(out, Staff{ID: m.ID, FullName: m.FullName, Status: string(m.Status)})
	}
	return out
}
