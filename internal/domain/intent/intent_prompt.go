package intent

import (
	"encoding/json"
	"fmt"

	"github.com/lushu-app/lushu-api/internal/types"
)

// intentSystemPrompt is the fixed, request-independent instruction for the
// trip-intent extraction pipeline: output contract first, field semantics,
// then the null-over-guess rule.
const intentSystemPrompt = `你是一个旅行规划助手，负责从用户的自然语言描述中提取结构化的出行意图。

输出要求：
- 只输出一个 JSON 对象，使用 snake_case 键名，不要包含 markdown 代码块或任何其他文字。
- JSON 对象必须且只能包含以下字段：
{
    "destination": "目的地城市或地区（字符串）",
    "origin": "出发地（字符串或 null）",
    "days": <正整数或 null>,
    "budget": <非负整数，单位为元，或 null>,
    "party_size": <正整数或 null>,
    "preferences": ["偏好标签", ...],
    "notes": ["其他值得保留的补充信息", ...]
}

规则：
1. 宁缺毋假：任何无法从原文中确定的字段必须为 null，禁止编造或凭常识猜测。
   数字字段不要用 0 代替"未知"，字符串字段不要用空字符串代替"未知"。
2. 输入中可能附带一份启发式预解析（heuristic_parse）。它仅供参考：
   你可以确认、修正或覆盖其中的值，但不要在没有原文依据时推翻它已经确定的字段。
3. preferences 与 notes 始终为数组，没有内容时输出空数组 []。
4. budget 为总预算，换算为人民币元的整数；只有原文明确提到金额时才填写。`

// intentStrictRetrySuffix is appended to the user prompt when the first reply
// violated the schema, restating the violated contract.
const intentStrictRetrySuffix = `

注意：上一次输出不符合要求。请严格只输出一个 JSON 对象：不要 markdown 代码块，
不要多余文字，未知字段必须为 null，字段名必须与上述列表完全一致。`

// BuildPrompts returns the (system prompt, user prompt) pair for one
// trip-intent extraction. The caller performs the model call and validates
// the reply against ValidateReply.
func BuildPrompts(req types.IntentRequest) (systemPrompt, userPrompt string, err error) {
	if err := req.Validate(); err != nil {
		return "", "", err
	}
	userPrompt, err = buildIntentUserPrompt(req)
	if err != nil {
		return "", "", err
	}
	return intentSystemPrompt, userPrompt, nil
}

// buildIntentUserPrompt renders the request-specific message: a field-by-field
// extraction guide, the structured payload as formatted JSON, and a strict
// closing instruction. Pure function of its input.
func buildIntentUserPrompt(req types.IntentRequest) (string, error) {
	if req.KnownPreferences == nil {
		req.KnownPreferences = []string{}
	}
	payload, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal intent payload: %w", err)
	}

	return fmt.Sprintf(`请从下面的 input_text 中提取出行意图。

提取指引：
- destination：用户想去的城市或地区。
- origin：用户的出发地，没提到则为 null。
- days：行程天数，没提到则为 null。
- budget：总预算（元），没提到则为 null。
- party_size：同行人数，没提到则为 null。
- preferences：用户表现出的偏好标签；known_preferences 中已知的偏好应当保留。
- notes：不属于以上字段但值得保留的信息（如出行日期、特殊需求）。
- heuristic_parse 为规则预解析的结果，可能为 null；可确认、修正或覆盖。

%s

只输出一个 JSON 对象，不要任何其他文字。`, string(payload)), nil
}
