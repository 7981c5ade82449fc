package heuristic

import (
	"regexp"
	"strconv"
	"strings"

	a "github.com/petar-dambovaliev/aho-corasick"

	"github.com/lushu-app/lushu-api/internal/types"
)

// Keyword matcher for preference tags. Whole-word matching is disabled:
// Chinese text has no word boundaries.
var (
	preferenceBuilder = a.NewAhoCorasickBuilder(a.Opts{
		AsciiCaseInsensitive: true,
	})

	preferenceKeywords = []string{
		"美食", "小吃", "博物馆", "历史", "古迹", "亲子", "徒步", "爬山",
		"购物", "夜生活", "酒吧", "海滩", "自然", "公园", "摄影", "咖啡",
		"温泉", "滑雪", "动物园", "游乐园", "寺庙", "艺术", "展览",
	}

	preferenceMatcher = preferenceBuilder.Build(preferenceKeywords)

	// Keywords mapped to a canonical tag; several keywords can collapse into one.
	keywordToTag = map[string]string{
		"美食": "美食", "小吃": "美食", "咖啡": "美食",
		"博物馆": "博物馆", "展览": "博物馆", "艺术": "艺术",
		"历史": "历史古迹", "古迹": "历史古迹", "寺庙": "历史古迹",
		"亲子": "亲子", "动物园": "亲子", "游乐园": "亲子",
		"徒步": "户外", "爬山": "户外", "自然": "户外", "公园": "户外",
		"购物": "购物",
		"夜生活": "夜生活", "酒吧": "夜生活",
		"海滩": "海滩", "温泉": "温泉", "滑雪": "滑雪", "摄影": "摄影",
	}
)

var (
	daysPattern     = regexp.MustCompile(`(\d{1,2}|[一两二三四五六七八九十])\s*[天日]`)
	partyPattern    = regexp.MustCompile(`(\d{1,2}|[一两二三四五六七八九十])\s*(?:个人|人|位)`)
	budgetPattern   = regexp.MustCompile(`(?:预算|花费|费用)?\s*(\d{3,7})\s*(?:元|块|rmb|RMB|人民币)`)
	budgetKwPattern = regexp.MustCompile(`预算\s*(?:大概|大约|约)?\s*(\d{3,7})`)
	destPattern     = regexp.MustCompile(`(?:去|到|想去|玩)([\p{Han}A-Za-z]{2,8}?)(?:旅游|旅行|游玩|玩|转转|走走|看看|出差|度假)`)
	originPattern   = regexp.MustCompile(`从([\p{Han}A-Za-z]{2,8}?)(?:出发|走|飞|坐|去)`)
)

var hanziDigits = map[string]int{
	"一": 1, "两": 2, "二": 2, "三": 3, "四": 4,
	"五": 5, "六": 6, "七": 7, "八": 8, "九": 9, "十": 10,
}

func parseCount(s string) (int, bool) {
	if n, ok := hanziDigits[s]; ok {
		return n, true
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// Parser is a fast, rule-based best-effort extractor of trip intent. It never
// guesses: a field it cannot find in the text stays nil so the model knows it
// is genuinely unknown rather than confidently zero.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse scans free-form text for trip-intent signals. The result is advisory
// context for the model, never an authoritative parse.
func (p *Parser) Parse(text string) *types.HeuristicParse {
	parse := &types.HeuristicParse{}

	if m := destPattern.FindStringSubmatch(text); len(m) > 1 {
		parse.Destination = m[1]
	}
	if m := originPattern.FindStringSubmatch(text); len(m) > 1 {
		origin := m[1]
		parse.Origin = &origin
	}
	if m := daysPattern.FindStringSubmatch(text); len(m) > 1 {
		if days, ok := parseCount(m[1]); ok && days > 0 {
			parse.Days = &days
		}
	}
	if m := partyPattern.FindStringSubmatch(text); len(m) > 1 {
		if size, ok := parseCount(m[1]); ok && size > 0 {
			parse.PartySize = &size
		}
	}
	if budget := extractBudget(text); budget != nil {
		parse.Budget = budget
	}
	parse.Preferences = extractPreferences(text)

	if isEmptyParse(parse) {
		return nil
	}
	return parse
}

func extractBudget(text string) *int {
	for _, pattern := range []*regexp.Regexp{budgetKwPattern, budgetPattern} {
		if m := pattern.FindStringSubmatch(text); len(m) > 1 {
			if budget, err := strconv.Atoi(m[1]); err == nil && budget >= 0 {
				return &budget
			}
		}
	}
	return nil
}

func extractPreferences(text string) []string {
	lower := strings.ToLower(text)
	matches := preferenceMatcher.FindAll(lower)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	tags := make([]string, 0, len(matches))
	for _, match := range matches {
		keyword := lower[match.Start():match.End()]
		tag, ok := keywordToTag[keyword]
		if !ok || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

func isEmptyParse(p *types.HeuristicParse) bool {
	return p.Destination == "" && p.Origin == nil && p.Days == nil &&
		p.Budget == nil && p.PartySize == nil && len(p.Preferences) == 0
}
