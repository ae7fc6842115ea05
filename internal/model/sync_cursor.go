package model

import (
	"time"
)

// SyncCursorModel 链上事件同步游标
// 记录每个合约已处理到的区块号，同步任务重启后从游标之后继续。
type SyncCursorModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ContractAddress string `json:"contract_address" gorm:"not null;uniqueIndex"`
	LastBlock       int64  `json:"last_block" gorm:"not null;default:0"`
}

// TableName 自定义表名
func (SyncCursorModel) TableName() string {
	return "sync_cursors"
}
