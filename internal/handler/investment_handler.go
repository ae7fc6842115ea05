package handler

import (
	"net/http"
	"strconv"

	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InvestmentHandler 投资记录处理器
type InvestmentHandler struct {
	investmentLogic *logic.InvestmentLogic
}

// NewInvestmentHandler 创建投资记录处理器
func NewInvestmentHandler(db *gorm.DB) *InvestmentHandler {
	return &InvestmentHandler{
		investmentLogic: logic.NewInvestmentLogic(db),
	}
}

// GetFunderInvestments 获取某投资人的投资历史及去重后的项目列表
func (h *InvestmentHandler) GetFunderInvestments(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		ErrorResponse(c, http.StatusBadRequest, "用户地址不能为空")
		return
	}

	portfolio, err := h.investmentLogic.GetFunderInvestments(address)
	if err != nil {
		ErrorResponseWithDetails(c, http.StatusInternalServerError, "获取投资记录失败", err)
		return
	}

	OkResponseWithMeta(c, http.StatusOK, portfolio, gin.H{
		"total": len(portfolio.Investments),
	})
}

// GetProjectInvestments 获取某项目收到的投资及汇总统计
func (h *InvestmentHandler) GetProjectInvestments(c *gin.Context) {
	address := c.Param("address")
	index, err := strconv.ParseInt(c.Param("index"), 10, 64)
	if err != nil || index < 0 {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目索引")
		return
	}

	investments, stats, err := h.investmentLogic.GetProjectInvestments(address, index)
	if err != nil {
		ErrorResponseWithDetails(c, http.StatusInternalServerError, "获取项目投资记录失败", err)
		return
	}

	OkResponseWithMeta(c, http.StatusOK, investments, stats)
}
