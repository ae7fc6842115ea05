package logic

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrProjectNotFound 项目不存在
var ErrProjectNotFound = errors.New("项目不存在")

// ErrInvalidSearchParams 检索参数未通过校验
var ErrInvalidSearchParams = errors.New("无效的检索参数")

// ProjectView 带派生字段的项目视图
// 原始金额保持 wei 字符串，ETH 数值只在这里换算一次，下游不再做比例除法。
type ProjectView struct {
	Id          int64    `json:"id"`
	Owner       string   `json:"owner"`
	Index       int64    `json:"index"`
	Goal        string   `json:"goal"`
	Funded      string   `json:"funded"`
	Released    string   `json:"released"`
	Milestones  int      `json:"milestones"`
	Members     []string `json:"members"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Ended       bool     `json:"ended"`
	Timestamp   int64    `json:"timestamp"`

	// 派生字段（展示用）
	GoalETH           float64 `json:"goalETH"`
	FundedETH         float64 `json:"fundedETH"`
	ReleasedETH       float64 `json:"releasedETH"`
	FundingPercentage float64 `json:"fundingPercentage"`
	IsFullyFunded     bool    `json:"isFullyFunded"`
	RemainingToGoal   float64 `json:"remainingToGoal"`
	Status            string  `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SearchProjectsParams 项目检索参数
type SearchProjectsParams struct {
	Search string `json:"search"`
	Status string `json:"status"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// ProjectLogic 项目业务逻辑
type ProjectLogic struct {
	db *gorm.DB
}

// NewProjectLogic 创建项目业务逻辑
func NewProjectLogic(db *gorm.DB) *ProjectLogic {
	return &ProjectLogic{db: db}
}

// ToProjectView 将项目模型转换为带派生字段的视图
func ToProjectView(project *model.ProjectModel, now time.Time) ProjectView {
	title := project.Title
	if title == "" {
		title = fmt.Sprintf("Project %d", project.Idx)
	}
	description := project.Description
	if description == "" {
		description = fmt.Sprintf("Project by %s", project.Owner)
	}
	members := []string(project.Members)
	if members == nil {
		members = []string{}
	}

	return ProjectView{
		Id:          project.Id,
		Owner:       project.Owner,
		Index:       project.Idx,
		Goal:        project.Goal,
		Funded:      project.Funded,
		Released:    project.Released,
		Milestones:  project.Milestones,
		Members:     members,
		Title:       title,
		Description: description,
		Ended:       project.Ended,
		Timestamp:   project.Timestamp,

		GoalETH:           WeiToEth(project.Goal),
		FundedETH:         WeiToEth(project.Funded),
		ReleasedETH:       WeiToEth(project.Released),
		FundingPercentage: FundingPercentage(project.Goal, project.Funded),
		IsFullyFunded:     IsFullyFunded(project.Goal, project.Funded),
		RemainingToGoal:   WeiToEth(RemainingToGoal(project.Goal, project.Funded).String()),
		Status:            ProjectStatus(project, now),

		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}
}

// ListProjects 获取全部项目，按创建时间倒序，附带派生字段
func (p *ProjectLogic) ListProjects() ([]ProjectView, error) {
	var projects []model.ProjectModel
	if err := p.db.Order("timestamp DESC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("获取项目列表失败: %w", err)
	}

	now := time.Now()
	views := make([]ProjectView, len(projects))
	for i := range projects {
		views[i] = ToProjectView(&projects[i], now)
	}
	return views, nil
}

// escapeLike 转义 LIKE 模式中的通配符，搜索词始终按字面子串匹配
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return replacer.Replace(s)
}

// SearchProjects 检索项目：搜索、状态过滤、分页
// 派生字段在过滤和分页之前统一计算一次；排序先于分页，
// 同样的过滤条件下分页窗口是稳定的。
// 返回值：当前页、过滤后总数、是否还有更多。
func (p *ProjectLogic) SearchProjects(params SearchProjectsParams) ([]ProjectView, int, bool, error) {
	if params.Limit < 0 || params.Offset < 0 {
		return nil, 0, false, fmt.Errorf("%w: 分页参数不能为负数", ErrInvalidSearchParams)
	}
	if params.Limit == 0 {
		params.Limit = 50
	}

	query := p.db.Order("timestamp DESC")

	// 大小写不敏感的子串搜索，空白搜索词不参与过滤
	search := strings.TrimSpace(params.Search)
	if search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where(
			`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(owner) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}

	var projects []model.ProjectModel
	if err := query.Find(&projects).Error; err != nil {
		return nil, 0, false, fmt.Errorf("检索项目失败: %w", err)
	}

	now := time.Now()
	views := make([]ProjectView, len(projects))
	for i := range projects {
		views[i] = ToProjectView(&projects[i], now)
	}

	// 状态过滤使用与详情页相同的分类结果
	filtered := views
	if params.Status != "" && params.Status != "all" {
		filtered = make([]ProjectView, 0, len(views))
		for _, view := range views {
			if view.Status == params.Status {
				filtered = append(filtered, view)
			}
		}
	}

	total := len(filtered)
	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}
	page := filtered[start:end]
	hasMore := params.Offset+len(page) < total

	return page, total, hasMore, nil
}

// GetOwnerProjects 获取某地址拥有的全部项目
func (p *ProjectLogic) GetOwnerProjects(owner string) ([]ProjectView, error) {
	var projects []model.ProjectModel
	if err := p.db.Where("LOWER(owner) = LOWER(?)", owner).
		Order("timestamp DESC").
		Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("获取用户项目失败: %w", err)
	}

	now := time.Now()
	views := make([]ProjectView, len(projects))
	for i := range projects {
		views[i] = ToProjectView(&projects[i], now)
	}
	return views, nil
}

// CountOwnerProjects 统计某地址拥有的项目数量
func (p *ProjectLogic) CountOwnerProjects(owner string) (int64, error) {
	var count int64
	if err := p.db.Model(&model.ProjectModel{}).
		Where("LOWER(owner) = LOWER(?)", owner).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("统计用户项目失败: %w", err)
	}
	return count, nil
}

// GetProject 按 (owner, index) 精确获取单个项目
func (p *ProjectLogic) GetProject(owner string, index int64) (*ProjectView, error) {
	var project model.ProjectModel
	if err := p.db.Where("LOWER(owner) = LOWER(?) AND idx = ?", owner, index).
		First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("获取项目详情失败: %w", err)
	}

	view := ToProjectView(&project, time.Now())
	return &view, nil
}

// UpdateProjectMetadata 更新项目元数据
// 只允许修改 title、description、members 三个字段，资金字段始终以链上镜像为准。
// 目标项目必须按 (owner, index) 精确匹配，不存在时返回 ErrProjectNotFound，
// 绝不隐式创建项目。
func (p *ProjectLogic) UpdateProjectMetadata(owner string, index int64, title, description string, members []string) (*ProjectView, error) {
	var project model.ProjectModel
	if err := p.db.Where("LOWER(owner) = LOWER(?) AND idx = ?", owner, index).
		First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("获取项目详情失败: %w", err)
	}

	if members == nil {
		members = []string{}
	}
	updates := map[string]interface{}{
		"title":       title,
		"description": description,
		"members":     datatypes.NewJSONSlice(members),
	}
	if err := p.db.Model(&project).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("更新项目元数据失败: %w", err)
	}

	view := ToProjectView(&project, time.Now())
	return &view, nil
}
