package logic

import (
	"math"
	"math/big"
	"time"

	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/model"
	"github.com/shopspring/decimal"
)

// 项目状态
const (
	ProjectStatusActive = "active" // 募资进行中
	ProjectStatusFunded = "funded" // 已达到目标金额
	ProjectStatusEnded  = "ended"  // 已结束
)

// EndThreshold 项目创建后超过该时长视为已结束
const EndThreshold = 90 * 24 * time.Hour

// ParseWei 解析 wei 定点字符串
// 空串或非法输入按 0 处理，展示路径不会因脏数据失败。
func ParseWei(s string) *big.Int {
	if s == "" {
		return new(big.Int)
	}
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok || amount.Sign() < 0 {
		return new(big.Int)
	}
	return amount
}

// WeiToEth 将 wei 定点字符串换算为 ETH 数值
// 比例换算集中在这一个函数，展示层以外不做任何 10^18 除法。
func WeiToEth(s string) float64 {
	eth, _ := decimal.NewFromBigInt(ParseWei(s), -18).Float64()
	return eth
}

// FundingPercentage 计算募资完成百分比
// goal 为 0 时返回 0；超募时封顶 100。比较在整数域完成，浮点只用于展示值。
func FundingPercentage(goal, funded string) float64 {
	goalWei := ParseWei(goal)
	if goalWei.Sign() <= 0 {
		return 0
	}
	fundedWei := ParseWei(funded)
	if fundedWei.Cmp(goalWei) >= 0 {
		return 100
	}
	ratio := new(big.Rat).SetFrac(fundedWei, goalWei)
	percentage, _ := new(big.Rat).Mul(ratio, big.NewRat(100, 1)).Float64()
	return percentage
}

// RemainingToGoal 计算距离目标的剩余金额（wei），超募时为 0
func RemainingToGoal(goal, funded string) *big.Int {
	remaining := new(big.Int).Sub(ParseWei(goal), ParseWei(funded))
	if remaining.Sign() < 0 {
		return new(big.Int)
	}
	return remaining
}

// IsFullyFunded 判断是否已达到目标金额
func IsFullyFunded(goal, funded string) bool {
	return ParseWei(funded).Cmp(ParseWei(goal)) >= 0
}

// ProjectStatus 三态项目状态分类
// ended 的判定优先于 funded：已结束的满募项目报告 ended 而不是 funded，
// 列表和详情必须使用同一分类结果。
func ProjectStatus(project *model.ProjectModel, now time.Time) string {
	age := now.Unix() - project.Timestamp
	if project.Ended || age > int64(EndThreshold.Seconds()) {
		return ProjectStatusEnded
	}
	if IsFullyFunded(project.Goal, project.Funded) {
		return ProjectStatusFunded
	}
	return ProjectStatusActive
}

// MilestonePercentages 计算里程碑累计百分比序列
// n 个里程碑把目标等分，第 i 个检查点为 round(100/n*i)；n<=1 时只有 [100]。
func MilestonePercentages(milestones int) []int {
	if milestones <= 1 {
		return []int{100}
	}
	percentages := make([]int, 0, milestones)
	step := 100 / float64(milestones)
	for i := 1; i <= milestones; i++ {
		percentages = append(percentages, int(math.Round(step*float64(i))))
	}
	return percentages
}

// MilestoneThreshold 计算某个里程碑对应的资金门槛（wei）
func MilestoneThreshold(goal string, percentage int) *big.Int {
	threshold := new(big.Int).Mul(ParseWei(goal), big.NewInt(int64(percentage)))
	return threshold.Div(threshold, big.NewInt(100))
}
