package bookingserver

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/petcare-booking/internal/shared/errors"
)

var responder = apierrors.NewChainedResponder("", apierrors.FromAppError)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondError converts service errors into RFC 7807 responses.
func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func respondBindError(c *gin.Context, err error) {
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}
