package model

import (
	"time"
)

// InvestmentModel 投资记录
// 由链上投资事件镜像进来，创建后不再变更。
// (project_owner, project_idx) 仅作查询引用，允许悬空（对应项目未被观察到）。
type InvestmentModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Funder          string `json:"funder" gorm:"not null;index;uniqueIndex:uidx_investment_funder_idx"`
	InvestmentIndex int64  `json:"investmentIndex" gorm:"not null;uniqueIndex:uidx_investment_funder_idx"`

	ProjectOwner string `json:"projectOwner" gorm:"not null;index"`
	ProjectIdx   int64  `json:"projectIndex" gorm:"column:project_idx;not null"`

	// 投资金额（wei 字符串）
	Amount    string `json:"amount" gorm:"not null;default:'0'"`
	Timestamp int64  `json:"timestamp" gorm:"not null"`

	// 镜像幂等性依赖交易哈希唯一索引
	TxHash string `json:"txHash" gorm:"uniqueIndex"`
}

// TableName 自定义表名
func (InvestmentModel) TableName() string {
	return "investments"
}
