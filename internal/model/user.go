package model

import (
	"time"

	"gorm.io/datatypes"
)

// Interests 兴趣领域的固定枚举
var Interests = []string{
	"Medical",
	"Coding",
	"Technology",
	"Pharmacy",
	"Army",
	"Defence",
	"Farming",
	"Finance",
	"Education",
	"Environment",
	"Sports",
	"Art & Culture",
	"Travel",
	"Social Work",
	"Music",
	"Business",
	"Science",
}

const (
	// MaxSkills 技能数量上限
	MaxSkills = 10
	// MaxExperiences 经历数量上限
	MaxExperiences = 5
)

// Experience 用户经历
type Experience struct {
	Role     string `json:"role"`
	Company  string `json:"company"`
	Duration string `json:"duration"`
}

// UserModel 用户档案模型
// 钱包地址是唯一身份，首次连接钱包时隐式创建，除 wallet 外所有字段可选。
type UserModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Wallet string `json:"wallet" gorm:"not null;uniqueIndex"`

	Name    string `json:"name" gorm:"default:''"`
	Country string `json:"country" gorm:"default:''"`
	Role    string `json:"role" gorm:"default:''"`
	Phone   string `json:"phone" gorm:"default:''"`
	Address string `json:"address" gorm:"default:''"`

	Linkedin string `json:"linkedin" gorm:"default:''"`
	X        string `json:"x" gorm:"default:''"`
	Github   string `json:"github" gorm:"default:''"`

	Skills      datatypes.JSONSlice[string]     `json:"skills"`
	Interests   datatypes.JSONSlice[string]     `json:"interests"`
	Experiences datatypes.JSONSlice[Experience] `json:"experiences"`
}

// TableName 自定义表名
func (UserModel) TableName() string {
	return "users"
}
