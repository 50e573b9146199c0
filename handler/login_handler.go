package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/line-assistant-be/config"
	"github.com/tieubaoca/line-assistant-be/types"
	"github.com/tieubaoca/line-assistant-be/utils"
)

type LoginHandler interface {
	HandleLogin(c *gin.Context)
}

type loginHandler struct {
	admin config.AdminConfig
}

func NewLoginHandler(admin config.AdminConfig) LoginHandler {
	return &loginHandler{
		admin: admin,
	}
}

func (h *loginHandler) HandleLogin(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	if h.admin.Password == "" ||
		subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.admin.Username)) != 1 ||
		subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.admin.Password)) != 1 {
		c.JSON(http.StatusUnauthorized, types.DataResponse{
			Status:  false,
			Message: "Invalid credentials",
		})
		return
	}

	token, err := utils.GenerateAdminToken(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.LoginResponse{
			AccessToken: token,
		},
	})
}
