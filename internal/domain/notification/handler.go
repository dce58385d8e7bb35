package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"alertdispatch/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Dispatcher is the part of Service the HTTP layer depends on.
type Dispatcher interface {
	Dispatch(ctx context.Context, req Request) *Outcome
}

// Handler handles HTTP requests for the notification domain.
type Handler struct {
	dispatcher Dispatcher
}

// NewHandler creates a new notification handler.
func NewHandler(dispatcher Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// maxBodyBytes caps the accepted request body.
const maxBodyBytes = 1 << 20

// SendExpiryAlert handles POST /notification/sendExpiryAlert
// Delivers synchronously and answers 200 when at least one channel succeeded.
func (h *Handler) SendExpiryAlert(c *gin.Context) {
	req, err := bindExpiryAlert(c)
	if err != nil {
		common.HandleError(c, err)
		return
	}

	outcome := h.dispatcher.Dispatch(c.Request.Context(), req)
	if !outcome.AnySucceeded {
		slog.Error("expiry alert dispatch failed on every channel",
			"channels", req.Channels,
			"results", outcome.Results,
		)
		common.Respond(c, http.StatusInternalServerError, common.StatusError, "Failed to dispatch all notifications.", outcome)
		return
	}

	common.Respond(c, http.StatusOK, common.StatusSuccess, "Notification dispatch initiated.", outcome)
}

// bindExpiryAlert binds the JSON body and builds the Request for dispatch.
// A missing, empty or unparseable body is rejected like any other validation failure.
func bindExpiryAlert(c *gin.Context) (Request, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var fields map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&fields, binding.JSON); err != nil || len(fields) == 0 {
		return Request{}, common.NewValidationError("Invalid JSON payload")
	}

	var in ExpiryAlertRequest
	if err := c.ShouldBindBodyWith(&in, binding.JSON); err != nil {
		return Request{}, common.NewValidationError("Invalid JSON payload")
	}

	return in.ToRequest()
}

// ToRequest converts the API payload into a Request, rejecting malformed dates and
// unknown channel names.
func (in *ExpiryAlertRequest) ToRequest() (Request, error) {
	var expiry time.Time
	if in.ExpiryDate != "" {
		d, err := time.Parse(DateLayout, in.ExpiryDate)
		if err != nil {
			return Request{}, common.NewValidationError("Invalid expiryDate format. Use YYYY-MM-DD.")
		}
		expiry = d
	}

	channels := make([]Channel, 0, len(in.Channels))
	for _, name := range in.Channels {
		ch, err := ParseChannel(name)
		if err != nil {
			return Request{}, common.NewValidationError(fmt.Sprintf("Invalid channel: %s", name))
		}
		channels = append(channels, ch)
	}

	return NewRequest(Request{
		RecipientEmail:       in.RecipientEmail,
		RecipientPhoneNumber: in.RecipientPhoneNumber,
		TelegramChatID:       in.TelegramChatID,
		ViberUserID:          in.ViberUserID,
		MessageSubject:       in.MessageSubject,
		MessageBody:          in.MessageBody,
		ExpiryType:           in.ExpiryType,
		ExpiryDate:           expiry,
		ActionSteps:          in.ActionSteps,
		Channels:             channels,
		Locale:               in.Locale,
	}), nil
}

// RegisterRoutes registers notification routes to the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sendExpiryAlert", h.SendExpiryAlert)
}
