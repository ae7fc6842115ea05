package handler

import (
	"errors"
	"net/http"

	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler 用户档案处理器
type UserHandler struct {
	userLogic *logic.UserLogic
}

// NewUserHandler 创建用户档案处理器
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		userLogic: logic.NewUserLogic(db),
	}
}

// connectRequest 钱包连接请求体
type connectRequest struct {
	Wallet string `json:"wallet"`
}

// GetUser 按钱包地址获取档案
func (h *UserHandler) GetUser(c *gin.Context) {
	wallet := c.Param("wallet")
	if wallet == "" {
		ErrorResponse(c, http.StatusBadRequest, "钱包地址不能为空")
		return
	}

	user, err := h.userLogic.GetUser(wallet)
	if err != nil {
		if errors.Is(err, logic.ErrUserNotFound) {
			ErrorResponse(c, http.StatusNotFound, "用户不存在")
			return
		}
		ErrorResponseWithDetails(c, http.StatusInternalServerError, "获取用户档案失败", err)
		return
	}

	OkResponse(c, http.StatusOK, user)
}

// UpdateUser 全量更新档案，不存在则创建
// 路由参数里的钱包地址始终覆盖请求体，身份字段不可被清空。
func (h *UserHandler) UpdateUser(c *gin.Context) {
	wallet := c.Param("wallet")
	if wallet == "" {
		ErrorResponse(c, http.StatusBadRequest, "钱包地址不能为空")
		return
	}

	var profile logic.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的请求体")
		return
	}

	user, err := h.userLogic.UpsertUser(wallet, &profile)
	if err != nil {
		if errors.Is(err, logic.ErrInvalidProfile) {
			ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		ErrorResponseWithDetails(c, http.StatusInternalServerError, "更新用户档案失败", err)
		return
	}

	OkResponse(c, http.StatusOK, user)
}

// ConnectUser 钱包连接时的最小化 upsert
func (h *UserHandler) ConnectUser(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Wallet == "" {
		ErrorResponse(c, http.StatusBadRequest, "钱包地址不能为空")
		return
	}

	user, err := h.userLogic.ConnectUser(req.Wallet)
	if err != nil {
		ErrorResponseWithDetails(c, http.StatusInternalServerError, "创建用户档案失败", err)
		return
	}

	OkResponse(c, http.StatusOK, user)
}
