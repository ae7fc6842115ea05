package logic

import (
	"testing"
	"time"

	"github.com/Fundify-GHRCE-Final-Year-Project/fundify-service/internal/model"
)

func TestFundingPercentage(t *testing.T) {
	cases := []struct {
		name   string
		goal   string
		funded string
		want   float64
	}{
		{"部分募资", "100", "40", 40},
		{"刚好满募", "100", "100", 100},
		{"超募封顶", "100", "250", 100},
		{"目标为零", "0", "50", 0},
		{"空字符串", "", "", 0},
		{"非法输入", "abc", "40", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FundingPercentage(tc.goal, tc.funded)
			if got != tc.want {
				t.Errorf("FundingPercentage(%q, %q) = %v, want %v", tc.goal, tc.funded, got, tc.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("FundingPercentage(%q, %q) = %v, out of [0, 100]", tc.goal, tc.funded, got)
			}
		})
	}
}

func TestRemainingToGoal(t *testing.T) {
	if got := RemainingToGoal("100", "40").String(); got != "60" {
		t.Errorf("RemainingToGoal(100, 40) = %s, want 60", got)
	}
	// 超募时不为负
	if got := RemainingToGoal("100", "150").String(); got != "0" {
		t.Errorf("RemainingToGoal(100, 150) = %s, want 0", got)
	}
	if got := RemainingToGoal("0", "0").String(); got != "0" {
		t.Errorf("RemainingToGoal(0, 0) = %s, want 0", got)
	}
}

func TestProjectStatusPrecedence(t *testing.T) {
	now := time.Now()

	// 超过结束阈值且满募的项目必须报告 ended 而不是 funded
	oldFunded := &model.ProjectModel{
		Goal:      "100",
		Funded:    "150",
		Timestamp: now.Add(-EndThreshold - time.Hour).Unix(),
	}
	if got := ProjectStatus(oldFunded, now); got != ProjectStatusEnded {
		t.Errorf("old fully funded project: status = %s, want %s", got, ProjectStatusEnded)
	}

	// 新鲜的满募项目是 funded
	freshFunded := &model.ProjectModel{
		Goal:      "100",
		Funded:    "100",
		Timestamp: now.Add(-time.Hour).Unix(),
	}
	if got := ProjectStatus(freshFunded, now); got != ProjectStatusFunded {
		t.Errorf("fresh fully funded project: status = %s, want %s", got, ProjectStatusFunded)
	}

	// 新鲜的未满募项目是 active
	freshActive := &model.ProjectModel{
		Goal:      "100",
		Funded:    "40",
		Timestamp: now.Add(-time.Hour).Unix(),
	}
	if got := ProjectStatus(freshActive, now); got != ProjectStatusActive {
		t.Errorf("fresh underfunded project: status = %s, want %s", got, ProjectStatusActive)
	}

	// 显式结束标志优先于一切
	flagged := &model.ProjectModel{
		Goal:      "100",
		Funded:    "100",
		Ended:     true,
		Timestamp: now.Unix(),
	}
	if got := ProjectStatus(flagged, now); got != ProjectStatusEnded {
		t.Errorf("flagged project: status = %s, want %s", got, ProjectStatusEnded)
	}
}

func TestMilestonePercentages(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 7, 20} {
		got := MilestonePercentages(n)

		wantLen := n
		if n <= 1 {
			wantLen = 1
		}
		if len(got) != wantLen {
			t.Fatalf("MilestonePercentages(%d): len = %d, want %d", n, len(got), wantLen)
		}
		for i := 1; i < len(got); i++ {
			if got[i] < got[i-1] {
				t.Errorf("MilestonePercentages(%d) not non-decreasing: %v", n, got)
			}
		}
		if got[len(got)-1] != 100 {
			t.Errorf("MilestonePercentages(%d): last = %d, want 100", n, got[len(got)-1])
		}
	}

	if got := MilestonePercentages(1); len(got) != 1 || got[0] != 100 {
		t.Errorf("MilestonePercentages(1) = %v, want [100]", got)
	}
	got := MilestonePercentages(2)
	if got[0] != 50 || got[1] != 100 {
		t.Errorf("MilestonePercentages(2) = %v, want [50 100]", got)
	}
	got = MilestonePercentages(3)
	if got[0] != 33 || got[1] != 67 || got[2] != 100 {
		t.Errorf("MilestonePercentages(3) = %v, want [33 67 100]", got)
	}
}

func TestMilestoneThreshold(t *testing.T) {
	// goal=100，2个里程碑，第1个检查点50% → 门槛50
	percentages := MilestonePercentages(2)
	if got := MilestoneThreshold("100", percentages[0]).String(); got != "50" {
		t.Errorf("MilestoneThreshold(100, 50) = %s, want 50", got)
	}
	if got := MilestoneThreshold("100", percentages[1]).String(); got != "100" {
		t.Errorf("MilestoneThreshold(100, 100) = %s, want 100", got)
	}
}

func TestWeiToEth(t *testing.T) {
	if got := WeiToEth("1000000000000000000"); got != 1 {
		t.Errorf("WeiToEth(10^18) = %v, want 1", got)
	}
	if got := WeiToEth("500000000000000000"); got != 0.5 {
		t.Errorf("WeiToEth(5*10^17) = %v, want 0.5", got)
	}
	if got := WeiToEth(""); got != 0 {
		t.Errorf("WeiToEth(\"\") = %v, want 0", got)
	}
}

// 端到端场景：goal=100、funded=40、2个里程碑
func TestFundingScenario(t *testing.T) {
	if got := FundingPercentage("100", "40"); got != 40 {
		t.Errorf("fundingPercentage = %v, want 40", got)
	}
	if got := RemainingToGoal("100", "40").String(); got != "60" {
		t.Errorf("remainingToGoal = %s, want 60", got)
	}
	percentages := MilestonePercentages(2)
	if percentages[0] != 50 || percentages[1] != 100 {
		t.Errorf("milestonePercentages = %v, want [50 100]", percentages)
	}
	if got := MilestoneThreshold("100", percentages[0]).String(); got != "50" {
		t.Errorf("milestone-1 threshold = %s, want 50", got)
	}
}
