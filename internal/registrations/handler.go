package registrations

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sra-webinar/backend/internal/apierr"
	"github.com/sra-webinar/backend/pkg/response"
)

// Handler handles the registration HTTP endpoints under /r.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a registrations handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// registerRequest is the body for POST /r/:id, accepted as JSON or form.
type registerRequest struct {
	FirstName string `json:"fname" form:"fname"`
	LastName  string `json:"lname" form:"lname"`
	Email     string `json:"email" form:"email"`
}

// Describe handles GET /r/:id: webinar details for the registration page.
func (h *Handler) Describe(c *gin.Context) {
	descriptor, err := h.svc.Describe(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, descriptor)
}

// Register handles POST /r/:id: create a registration or return the prior
// one for the same identity.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	registrant, err := h.svc.Register(c.Request.Context(), RegisterInput{
		WebinarID: c.Param("id"),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, registrant)
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, body := apierr.Translate(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("registration request failed",
			zap.Error(err),
			zap.Int("status", status),
			zap.String("path", c.Request.URL.Path),
		)
	}
	response.Fail(c, status, body)
}
