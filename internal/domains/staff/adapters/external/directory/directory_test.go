package directory

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	client "github.com/Apurer/petcare-booking/internal/clients/http/directory"
	"github.com/Apurer/petcare-booking/internal/domains/staff/domain"
	"github.com/Apurer/petcare-booking/internal/domains/staff/ports"
)

func TestListStaffFiltersByStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"items":[
			{"id":"st-2","fullName":"Vy","status":"active"},
			{"id":"st-1","fullName":"An","status":"ACTIVE"},
			{"id":"st-3","fullName":"Binh","status":"BANNED"}]}`)
	}))
	defer srv.Close()
	c, err := client.NewClient(srv.URL, client.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	d := NewDirectory(c)

	active, err := d.ListStaff(context.Background(), ports.Filter{Status: domain.StatusActive})
	require.NoError(t, err)
	require.Len(t, active, 2)
	require.Equal(t, "An", active[0].FullName)

	all, err := d.ListStaff(context.Background(), ports.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, domain.StatusInactive, all[1].Status)
}
