package model

import (
	"time"

	"gorm.io/datatypes"
)

// 里程碑数量的合法区间
const (
	MinMilestones = 1
	MaxMilestones = 20
)

// ProjectModel 众筹项目模型
// 项目由链上事件镜像进来，(owner, idx) 与合约中的项目编号一一对应。
// 金额字段统一使用 wei 定点整数字符串，避免浮点精度损失。
type ProjectModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 链上标识
	Owner string `json:"owner" gorm:"not null;index;uniqueIndex:uidx_project_owner_idx"`
	Idx   int64  `json:"index" gorm:"column:idx;not null;uniqueIndex:uidx_project_owner_idx"`

	// 资金信息（wei 字符串）
	Goal     string `json:"goal" gorm:"not null;default:'0'"`
	Funded   string `json:"funded" gorm:"not null;default:'0'"`
	Released string `json:"released" gorm:"not null;default:'0'"`

	// 里程碑数量，1-20，目标金额按里程碑数量等分释放
	Milestones int `json:"milestones" gorm:"not null;default:1"`

	// 元数据，可由项目所有者通过发布接口更新
	Title       string                      `json:"title" gorm:"default:''"`
	Description string                      `json:"description" gorm:"type:text;default:''"`
	Members     datatypes.JSONSlice[string] `json:"members"`

	// 状态信息
	Ended     bool  `json:"ended" gorm:"default:false"`
	Timestamp int64 `json:"timestamp" gorm:"not null"` // 链上创建时间（Unix 秒）
}

// TableName 自定义表名
func (ProjectModel) TableName() string {
	return "projects"
}
