package delivery

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	emaildomain "coldmail-backend/internal/email/domain"
	emaildto "coldmail-backend/internal/email/dto"
	"coldmail-backend/internal/email/usecase"
	ratelimitdelivery "coldmail-backend/internal/ratelimit/delivery"
	ratelimitdomain "coldmail-backend/internal/ratelimit/domain"

	"github.com/gin-gonic/gin"
)

const defaultListLimit = 50

type EmailHandler struct {
	emailUsecase usecase.EmailUsecase
	sessions     *ratelimitdelivery.SessionResolver
}

func NewEmailHandler(emailUsecase usecase.EmailUsecase, sessions *ratelimitdelivery.SessionResolver) *EmailHandler {
	return &EmailHandler{
		emailUsecase: emailUsecase,
		sessions:     sessions,
	}
}

// POST /api/email/generate
func (h *EmailHandler) GenerateEmail(c *gin.Context) {
	var body emaildto.GenerateEmailRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, emaildto.ErrorResponse{Detail: err.Error()})
		return
	}

	req := body.ToDomain()
	sessionID := h.sessions.Resolve(c, req.SessionID)

	resp, err := h.emailUsecase.GenerateEmail(c.Request.Context(), req, sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/emails/saved?limit=&offset=
func (h *EmailHandler) GetSavedEmails(c *gin.Context) {
	limit := defaultListLimit
	offset := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	c.JSON(http.StatusOK, h.emailUsecase.ListSavedEmails(limit, offset))
}

// DELETE /api/emails/:email_id
func (h *EmailHandler) DeleteEmail(c *gin.Context) {
	if err := h.emailUsecase.DeleteEmail(c.Param("email_id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, emaildto.MessageResponse{Message: "Email deleted successfully"})
}

// GET /api/analytics
func (h *EmailHandler) GetAnalytics(c *gin.Context) {
	c.JSON(http.StatusOK, h.emailUsecase.GetAnalytics())
}

func writeError(c *gin.Context, err error) {
	var (
		validationErr *emaildomain.ValidationError
		rateErr       *ratelimitdomain.RateLimitError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, emaildto.ErrorResponse{Detail: emaildomain.RequiredFieldsMessage})
	case errors.As(err, &rateErr):
		if d := rateErr.Decision.RetryAfter; d > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(d.Seconds()))))
		}
		c.JSON(http.StatusTooManyRequests, emaildto.ErrorResponse{Detail: rateErr.Error()})
	case errors.Is(err, emaildomain.ErrEmailNotFound):
		c.JSON(http.StatusNotFound, emaildto.ErrorResponse{Detail: emaildomain.NotFoundMessage})
	default:
		c.JSON(http.StatusInternalServerError, emaildto.ErrorResponse{Detail: "Error generating email: " + err.Error()})
	}
}
