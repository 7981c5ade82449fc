package location

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lushu-app/lushu-api/internal/types"
)

func strPtr(v string) *string { return &v }

func TestBuildPromptsMinimalRequest(t *testing.T) {
	req := types.LocationRefinementRequest{
		Destination:   "上海",
		ActivityTitle: "外滩夜游",
	}

	_, user, err := BuildPrompts(req)
	require.NoError(t, err)

	lines := strings.Split(user, "\n")
	assert.Contains(t, lines, "目的地：上海")
	assert.Contains(t, lines, "活动：外滩夜游")

	// Absent fields produce no line at all, not a line saying "unknown".
	assert.NotContains(t, user, "类型：")
	assert.NotContains(t, user, "日期：")
	assert.NotContains(t, user, "时间段：")
	assert.NotContains(t, user, "已有地址：")
	assert.NotContains(t, user, "备注：")
	assert.NotContains(t, user, "已确认的行程地点：")
}

func TestBuildPromptsOneLinePerPresentField(t *testing.T) {
	req := types.LocationRefinementRequest{
		Destination:     "上海",
		ActivityTitle:   "午餐",
		Kind:            strPtr("餐饮"),
		TimeSlot:        strPtr("12:00-13:30"),
		ExistingAddress: strPtr("南京东路附近"),
		ExistingNote:    strPtr("想吃本帮菜"),
		DayLabel:        strPtr("第2天"),
	}

	_, user, err := BuildPrompts(req)
	require.NoError(t, err)

	for _, line := range []string{
		"目的地：上海",
		"活动：午餐",
		"类型：餐饮",
		"日期：第2天",
		"时间段：12:00-13:30",
		"已有地址：南京东路附近",
		"备注：想吃本帮菜",
	} {
		assert.Equal(t, 1, strings.Count(user, line), "expected exactly one line %q", line)
	}

	// Fixed order: kind before day label before time slot.
	assert.Less(t, strings.Index(user, "类型："), strings.Index(user, "日期："))
	assert.Less(t, strings.Index(user, "日期："), strings.Index(user, "时间段："))
	assert.Less(t, strings.Index(user, "时间段："), strings.Index(user, "已有地址："))
}

func TestSummarizePreviousActivities(t *testing.T) {
	previous := []types.PreviousActivity{
		{Title: "博物馆"},
		{Title: "公园", Address: "人民路1号"},
	}

	summary := summarizePreviousActivities(previous)
	assert.Equal(t, "博物馆；公园（人民路1号）", summary)
}

func TestBuildPromptsPreviousActivitiesOrderPreserved(t *testing.T) {
	req := types.LocationRefinementRequest{
		Destination:   "上海",
		ActivityTitle: "晚餐",
		PreviousActivities: []types.PreviousActivity{
			{Title: "外滩", Address: "中山东一路"},
			{Title: "豫园"},
			{Title: "田子坊", Address: "泰康路210弄"},
		},
	}

	_, user, err := BuildPrompts(req)
	require.NoError(t, err)
	assert.Contains(t, user, "已确认的行程地点：外滩（中山东一路）；豫园；田子坊（泰康路210弄）")
}

func TestBuildPromptsDeterministic(t *testing.T) {
	req := types.LocationRefinementRequest{
		Destination:   "上海",
		ActivityTitle: "外滩夜游",
		DayLabel:      strPtr("第1天"),
		PreviousActivities: []types.PreviousActivity{
			{Title: "博物馆"},
		},
	}

	_, user1, err := BuildPrompts(req)
	require.NoError(t, err)
	_, user2, err := BuildPrompts(req)
	require.NoError(t, err)
	assert.Equal(t, user1, user2)
}

func TestBuildPromptsRequiredFields(t *testing.T) {
	_, _, err := BuildPrompts(types.LocationRefinementRequest{Destination: "上海"})
	assert.ErrorIs(t, err, types.ErrEmptyInput)

	_, _, err = BuildPrompts(types.LocationRefinementRequest{ActivityTitle: "外滩夜游"})
	assert.ErrorIs(t, err, types.ErrEmptyInput)
}

func TestBuildPromptsClosingInstruction(t *testing.T) {
	_, user, err := BuildPrompts(types.LocationRefinementRequest{
		Destination:   "上海",
		ActivityTitle: "外滩夜游",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(user, "请结合以上信息，为该活动给出最准确的地点信息。"))
}
