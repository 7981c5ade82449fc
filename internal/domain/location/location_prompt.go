package location

import (
	"fmt"
	"strings"

	"github.com/lushu-app/lushu-api/internal/types"
)

// locationSystemPrompt is the fixed instruction for the location-refinement
// pipeline. Coordinates are confidence-gated: both or neither, never a lone
// latitude.
const locationSystemPrompt = `你是一个旅行地点解析助手，负责把行程中模糊的活动地点细化为可供地图检索的信息。

输出要求：
- 只输出一个 JSON 对象，使用 snake_case 键名，不要包含 markdown 代码块或任何其他文字。
- JSON 对象必须且只能包含以下字段：
{
    "refined_name": "更准确的地点名称（字符串或 null）",
    "address_hint": "有助于定位的地址线索（字符串或 null）",
    "search_queries": ["建议的地图搜索词", ...],
    "nearby_landmarks": ["附近的地标", ...],
    "latitude": <浮点数或 null>,
    "longitude": <浮点数或 null>,
    "confidence": <0 到 1 之间的浮点数或 null>,
    "reason": "简短说明判断依据（必填）"
}

规则：
1. 宁缺毋假：不确定的字段必须为 null，禁止编造。
2. latitude 与 longitude 只在把握很高时才同时给出；把握不足时两者都为 null，
   绝不允许只给出其中一个。
3. search_queries 最多给出 3 条，便于后续地图检索。
4. 附近的地标、交通枢纽或商场名称只在能唯一区分该地点时才列入 nearby_landmarks。
5. reason 始终填写：一句话说明你给出（或不给出）这些信息的依据。`

// locationStrictRetrySuffix restates the violated contract on retry.
const locationStrictRetrySuffix = `

注意：上一次输出不符合要求。请严格只输出一个 JSON 对象，字段名与上述列表完全一致；
latitude 与 longitude 必须同时给出或同时为 null；search_queries 不超过 3 条；reason 必填。`

// promptLine is one conditionally rendered line of the user prompt. Lines are
// assembled in a fixed order; a line whose render returns "" is omitted
// entirely, keeping the prompt terse instead of listing unknowns.
type promptLine struct {
	render func(req types.LocationRefinementRequest) string
}

var locationPromptLines = []promptLine{
	{render: func(r types.LocationRefinementRequest) string { return "目的地：" + r.Destination }},
	{render: func(r types.LocationRefinementRequest) string { return "活动：" + r.ActivityTitle }},
	{render: optionalLine("类型：", func(r types.LocationRefinementRequest) *string { return r.Kind })},
	{render: optionalLine("日期：", func(r types.LocationRefinementRequest) *string { return r.DayLabel })},
	{render: optionalLine("时间段：", func(r types.LocationRefinementRequest) *string { return r.TimeSlot })},
	{render: optionalLine("已有地址：", func(r types.LocationRefinementRequest) *string { return r.ExistingAddress })},
	{render: optionalLine("备注：", func(r types.LocationRefinementRequest) *string { return r.ExistingNote })},
	{render: func(r types.LocationRefinementRequest) string {
		if len(r.PreviousActivities) == 0 {
			return ""
		}
		return "已确认的行程地点：" + summarizePreviousActivities(r.PreviousActivities)
	}},
}

func optionalLine(label string, pick func(types.LocationRefinementRequest) *string) func(types.LocationRefinementRequest) string {
	return func(r types.LocationRefinementRequest) string {
		v := pick(r)
		if v == nil || *v == "" {
			return ""
		}
		return label + *v
	}
}

// summarizePreviousActivities joins prior confirmed locations with a
// full-width separator, address parenthesized when known. Insertion order is
// chronological itinerary order and is preserved as given.
func summarizePreviousActivities(previous []types.PreviousActivity) string {
	entries := make([]string, 0, len(previous))
	for _, activity := range previous {
		if activity.Address != "" {
			entries = append(entries, fmt.Sprintf("%s（%s）", activity.Title, activity.Address))
		} else {
			entries = append(entries, activity.Title)
		}
	}
	return strings.Join(entries, "；")
}

// BuildPrompts returns the (system prompt, user prompt) pair for one location
// refinement. The caller performs the model call and validates the reply
// against ParseReply.
func BuildPrompts(req types.LocationRefinementRequest) (systemPrompt, userPrompt string, err error) {
	if err := req.Validate(); err != nil {
		return "", "", err
	}
	return locationSystemPrompt, buildLocationUserPrompt(req), nil
}

func buildLocationUserPrompt(req types.LocationRefinementRequest) string {
	lines := make([]string, 0, len(locationPromptLines)+1)
	for _, line := range locationPromptLines {
		if rendered := line.render(req); rendered != "" {
			lines = append(lines, rendered)
		}
	}
	lines = append(lines, "请结合以上信息，为该活动给出最准确的地点信息。")
	return strings.Join(lines, "\n")
}
