package logic

import (
	"errors"
	"fmt"

	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/model"
	"gorm.io/gorm"
)

// ErrUserNotFound 用户不存在
var ErrUserNotFound = errors.New("用户不存在")

// ErrInvalidProfile 档案数据未通过校验
var ErrInvalidProfile = errors.New("无效的档案数据")

// UserProfile 档案更新输入
// wallet 不在输入中：路由参数里的钱包地址是唯一身份来源，请求体无法覆盖。
type UserProfile struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Role    string `json:"role"`
	Phone   string `json:"phone"`
	Address string `json:"address"`

	Linkedin string `json:"linkedin"`
	X        string `json:"x"`
	Github   string `json:"github"`

	Skills      []string           `json:"skills"`
	Interests   []string           `json:"interests"`
	Experiences []model.Experience `json:"experiences"`
}

// UserLogic 用户档案业务逻辑
type UserLogic struct {
	db *gorm.DB
}

// NewUserLogic 创建用户档案业务逻辑
func NewUserLogic(db *gorm.DB) *UserLogic {
	return &UserLogic{db: db}
}

// GetUser 按钱包地址获取档案
func (u *UserLogic) GetUser(wallet string) (*model.UserModel, error) {
	var user model.UserModel
	if err := u.db.Where("wallet = ?", wallet).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("获取用户档案失败: %w", err)
	}
	return &user, nil
}

// ConnectUser 钱包连接时的最小化 upsert：不存在则创建，存在则原样返回
func (u *UserLogic) ConnectUser(wallet string) (*model.UserModel, error) {
	if wallet == "" {
		return nil, errors.New("钱包地址不能为空")
	}

	var user model.UserModel
	if err := u.db.Where(model.UserModel{Wallet: wallet}).
		FirstOrCreate(&user).Error; err != nil {
		return nil, fmt.Errorf("创建用户档案失败: %w", err)
	}
	return &user, nil
}

// UpsertUser 全量更新档案，不存在则创建
// wallet 始终以路由参数为准写入，防止请求体清空身份字段。
func (u *UserLogic) UpsertUser(wallet string, profile *UserProfile) (*model.UserModel, error) {
	if wallet == "" {
		return nil, errors.New("钱包地址不能为空")
	}
	if err := u.validateProfile(profile); err != nil {
		return nil, err
	}

	var user model.UserModel
	err := u.db.Where("wallet = ?", wallet).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("获取用户档案失败: %w", err)
	}

	user.Wallet = wallet
	user.Name = profile.Name
	user.Country = profile.Country
	user.Role = profile.Role
	user.Phone = profile.Phone
	user.Address = profile.Address
	user.Linkedin = profile.Linkedin
	user.X = profile.X
	user.Github = profile.Github
	user.Skills = profile.Skills
	user.Interests = profile.Interests
	user.Experiences = profile.Experiences

	if err := u.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("更新用户档案失败: %w", err)
	}
	return &user, nil
}

// validateProfile 验证档案数据
func (u *UserLogic) validateProfile(profile *UserProfile) error {
	if len(profile.Skills) > model.MaxSkills {
		return fmt.Errorf("%w: 技能数量不能超过%d个", ErrInvalidProfile, model.MaxSkills)
	}
	if len(profile.Experiences) > model.MaxExperiences {
		return fmt.Errorf("%w: 经历数量不能超过%d条", ErrInvalidProfile, model.MaxExperiences)
	}
	for _, interest := range profile.Interests {
		if !validInterest(interest) {
			return fmt.Errorf("%w: 未知的兴趣领域 %s", ErrInvalidProfile, interest)
		}
	}
	return nil
}

// validInterest 检查兴趣是否在固定枚举内
func validInterest(interest string) bool {
	for _, candidate := range model.Interests {
		if candidate == interest {
			return true
		}
	}
	return false
}
