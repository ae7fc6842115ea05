package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProjectHandler 项目处理器
type ProjectHandler struct {
	projectLogic *logic.ProjectLogic
}

// NewProjectHandler 创建项目处理器
func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{
		projectLogic: logic.NewProjectLogic(db),
	}
}

// publishRequest 元数据更新请求体
type publishRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Members     []string `json:"members"`
}

// ListProjects 获取全部项目，按创建时间倒序
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectLogic.ListProjects()
	if err != nil {
		ErrorResponseWithDetails(c, http.StatusInternalServerError, "获取项目列表失败", err)
		return
	}

	OkResponseWithMeta(c, http.StatusOK, projects, gin.H{"total": len(projects)})
}

// SearchProjects 检索项目：搜索、状态过滤、分页
func (h *ProjectHandler) SearchProjects(c *gin.Context) {
	// 请求体缺失或不是合法JSON时按默认参数处理
	var params logic.SearchProjectsParams
	if err := c.ShouldBindJSON(&params); err != nil {
		params = logic.SearchProjectsParams{}
	}

	page, total, hasMore, err := h.projectLogic.SearchProjects(params)
	if errors.Is(err, logic.ErrInvalidSearchParams) {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		ErrorResponseWithDetails(c, http.StatusInternalServerError, "检索项目失败", err)
		return
	}

	OkResponseWithMeta(c, http.StatusOK, page, gin.H{
		"total":   total,
		"hasMore": hasMore,
	})
}

// PublishWithoutIndex 缺少项目索引的发布请求
// 历史接口允许省略索引并按隐式排序挑选项目，该行为已废弃：
// 元数据更新必须显式指定 (owner, index)。
func (h *ProjectHandler) PublishWithoutIndex(c *gin.Context) {
	ErrorResponse(c, http.StatusBadRequest, "必须指定项目索引")
}

// PublishProject 更新项目元数据（标题、描述、成员）
func (h *ProjectHandler) PublishProject(c *gin.Context) {
	address := c.Param("address")
	index, err := strconv.ParseInt(c.Param("index"), 10, 64)
	if err != nil || index < 0 {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目索引")
		return
	}

	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的请求体")
		return
	}

	project, err := h.projectLogic.UpdateProjectMetadata(address, index, req.Title, req.Description, req.Members)
	if err != nil {
		if errors.Is(err, logic.ErrProjectNotFound) {
			ErrorResponse(c, http.StatusNotFound, "项目不存在")
			return
		}
		ErrorResponseWithDetails(c, http.StatusInternalServerError, "更新项目元数据失败", err)
		return
	}

	OkResponse(c, http.StatusOK, project)
}

// GetOwnerProjects 获取某地址拥有的全部项目
func (h *ProjectHandler) GetOwnerProjects(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		ErrorResponse(c, http.StatusBadRequest, "用户地址不能为空")
		return
	}

	projects, err := h.projectLogic.GetOwnerProjects(address)
	if err != nil {
		ErrorResponseWithDetails(c, http.StatusInternalServerError, "获取用户项目失败", err)
		return
	}

	OkResponse(c, http.StatusOK, projects)
}

// CountOwnerProjects 统计某地址拥有的项目数量
func (h *ProjectHandler) CountOwnerProjects(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		ErrorResponse(c, http.StatusBadRequest, "用户地址不能为空")
		return
	}

	count, err := h.projectLogic.CountOwnerProjects(address)
	if err != nil {
		ErrorResponseWithDetails(c, http.StatusInternalServerError, "统计用户项目失败", err)
		return
	}

	OkResponse(c, http.StatusOK, count)
}

// GetOwnerProject 按 (owner, index) 获取单个项目
func (h *ProjectHandler) GetOwnerProject(c *gin.Context) {
	address := c.Param("address")
	index, err := strconv.ParseInt(c.Param("index"), 10, 64)
	if err != nil || index < 0 {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目索引")
		return
	}

	project, err := h.projectLogic.GetProject(address, index)
	if err != nil {
		if errors.Is(err, logic.ErrProjectNotFound) {
			ErrorResponse(c, http.StatusNotFound, "项目不存在")
			return
		}
		ErrorResponseWithDetails(c, http.StatusInternalServerError, "获取项目详情失败", err)
		return
	}

	OkResponse(c, http.StatusOK, project)
}
