package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/educloud-dashboard/internal/utils"
)

// ErrorResponse is the body of every non-2xx API answer.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	log := utils.RequestLogger(c, h.logger)
	if userID := c.GetString("user_id"); userID != "" {
		args = append(args, "user_id", userID)
	}
	log.Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err, "path", c.Request.URL.Path)
	utils.RequestLogger(c, h.logger).Error(msg, args...)
}
