package logic

import (
	"fmt"
	"math/big"
	"time"

	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/model"
	"gorm.io/gorm"
)

// InvestmentView 带关联项目的投资视图
// Project 为空表示投资引用的项目从未被镜像到（悬空引用），不视为错误。
type InvestmentView struct {
	Id              int64   `json:"id"`
	Funder          string  `json:"funder"`
	InvestmentIndex int64   `json:"investmentIndex"`
	ProjectOwner    string  `json:"projectOwner"`
	ProjectIndex    int64   `json:"projectIndex"`
	Amount          string  `json:"amount"`
	AmountETH       float64 `json:"amountETH"`
	Timestamp       int64   `json:"timestamp"`

	Project *ProjectView `json:"project"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FunderPortfolio 某投资人的完整投资视图
type FunderPortfolio struct {
	Investments []InvestmentView `json:"investments"`
	Projects    []ProjectView    `json:"projects"`
}

// InvestmentStats 单个项目的投资统计
type InvestmentStats struct {
	TotalInvestments int64   `json:"totalInvestments"`
	TotalAmount      string  `json:"totalAmount"`
	TotalAmountETH   float64 `json:"totalAmountETH"`
}

// InvestmentLogic 投资记录业务逻辑
type InvestmentLogic struct {
	db *gorm.DB
}

// NewInvestmentLogic 创建投资记录业务逻辑
func NewInvestmentLogic(db *gorm.DB) *InvestmentLogic {
	return &InvestmentLogic{db: db}
}

// GetFunderInvestments 获取某投资人的投资历史及去重后的项目列表
// 投资按时间倒序；项目引用先按首次出现顺序去重，再用一次批量 IN 查询解析，
// 无论投资记录有多少条，项目表都只查一次。
func (l *InvestmentLogic) GetFunderInvestments(funder string) (*FunderPortfolio, error) {
	var investments []model.InvestmentModel
	if err := l.db.Where("LOWER(funder) = LOWER(?)", funder).
		Order("timestamp DESC").
		Find(&investments).Error; err != nil {
		return nil, fmt.Errorf("获取投资记录失败: %w", err)
	}

	// 按首次出现顺序收集去重后的 (owner, index) 对
	type projectKey struct {
		owner string
		idx   int64
	}
	seen := make(map[projectKey]bool)
	pairs := make([][]interface{}, 0)
	order := make([]projectKey, 0)
	for _, inv := range investments {
		key := projectKey{owner: inv.ProjectOwner, idx: inv.ProjectIdx}
		if seen[key] {
			continue
		}
		seen[key] = true
		pairs = append(pairs, []interface{}{inv.ProjectOwner, inv.ProjectIdx})
		order = append(order, key)
	}

	// 一次批量查询解析所有被投项目
	projectMap := make(map[projectKey]*model.ProjectModel)
	if len(pairs) > 0 {
		var projects []model.ProjectModel
		if err := l.db.Where("(owner, idx) IN ?", pairs).
			Find(&projects).Error; err != nil {
			return nil, fmt.Errorf("获取被投项目失败: %w", err)
		}
		for i := range projects {
			key := projectKey{owner: projects[i].Owner, idx: projects[i].Idx}
			projectMap[key] = &projects[i]
		}
	}

	now := time.Now()
	views := make([]InvestmentView, len(investments))
	for i, inv := range investments {
		view := InvestmentView{
			Id:              inv.Id,
			Funder:          inv.Funder,
			InvestmentIndex: inv.InvestmentIndex,
			ProjectOwner:    inv.ProjectOwner,
			ProjectIndex:    inv.ProjectIdx,
			Amount:          inv.Amount,
			AmountETH:       WeiToEth(inv.Amount),
			Timestamp:       inv.Timestamp,
			CreatedAt:       inv.CreatedAt,
			UpdatedAt:       inv.UpdatedAt,
		}
		// 悬空引用保留空项目，不丢弃记录
		if project, ok := projectMap[projectKey{owner: inv.ProjectOwner, idx: inv.ProjectIdx}]; ok {
			projectView := ToProjectView(project, now)
			view.Project = &projectView
		}
		views[i] = view
	}

	// 去重后的项目列表保持投资历史中的首次出现顺序
	projectViews := make([]ProjectView, 0, len(order))
	for _, key := range order {
		if project, ok := projectMap[key]; ok {
			projectViews = append(projectViews, ToProjectView(project, now))
		}
	}

	return &FunderPortfolio{Investments: views, Projects: projectViews}, nil
}

// GetProjectInvestments 获取某项目收到的投资及汇总统计
// 总额在 wei 整数域累加，避免大量小额投资累计出浮点漂移。
func (l *InvestmentLogic) GetProjectInvestments(owner string, index int64) ([]InvestmentView, *InvestmentStats, error) {
	var investments []model.InvestmentModel
	if err := l.db.Where("LOWER(project_owner) = LOWER(?) AND project_idx = ?", owner, index).
		Order("timestamp DESC").
		Find(&investments).Error; err != nil {
		return nil, nil, fmt.Errorf("获取项目投资记录失败: %w", err)
	}

	totalAmount := new(big.Int)
	views := make([]InvestmentView, len(investments))
	for i, inv := range investments {
		totalAmount.Add(totalAmount, ParseWei(inv.Amount))
		views[i] = InvestmentView{
			Id:              inv.Id,
			Funder:          inv.Funder,
			InvestmentIndex: inv.InvestmentIndex,
			ProjectOwner:    inv.ProjectOwner,
			ProjectIndex:    inv.ProjectIdx,
			Amount:          inv.Amount,
			AmountETH:       WeiToEth(inv.Amount),
			Timestamp:       inv.Timestamp,
			CreatedAt:       inv.CreatedAt,
			UpdatedAt:       inv.UpdatedAt,
		}
	}

	stats := &InvestmentStats{
		TotalInvestments: int64(len(investments)),
		TotalAmount:      totalAmount.String(),
		TotalAmountETH:   WeiToEth(totalAmount.String()),
	}
	return views, stats, nil
}
