package bookingserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	bookingports "github.com/Apurer/petcare-booking/internal/domains/booking/ports"
	petmapper "github.com/Apurer/petcare-booking/internal/domains/pets/adapters/http/mapper"
	staffmapper "github.com/Apurer/petcare-booking/internal/domains/staff/adapters/http/mapper"
)

// ReferenceAPI serves the lookups the booking form needs.
type ReferenceAPI struct {
	service bookingports.Service
}

func NewReferenceAPI(service bookingports.Service) ReferenceAPI {
	return ReferenceAPI{service: service}
}

// Get /v1/pet-types
func (api *ReferenceAPI) ListPetTypes(c *gin.Context) {
	types, err := api.service.PetTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, petmapper.FromDomainPetTypes(types))
}

// Get /v1/staff
// Active staff members a customer may pick
func (api *ReferenceAPI) ListStaff(c *gin.Context) {
	members, err := api.service.ActiveStaff(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, staffmapper.FromDomainMembers(members))
}
