package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullSignal(t *testing.T) {
	parser := NewParser()
	parse := parser.Parse("下个月想从杭州去上海玩3天，两个人，预算5000元，喜欢博物馆和美食")
	require.NotNil(t, parse)

	assert.Equal(t, "上海", parse.Destination)
	require.NotNil(t, parse.Origin)
	assert.Equal(t, "杭州", *parse.Origin)
	require.NotNil(t, parse.Days)
	assert.Equal(t, 3, *parse.Days)
	require.NotNil(t, parse.PartySize)
	assert.Equal(t, 2, *parse.PartySize)
	require.NotNil(t, parse.Budget)
	assert.Equal(t, 5000, *parse.Budget)
	assert.ElementsMatch(t, []string{"博物馆", "美食"}, parse.Preferences)
}

func TestParseNeverGuesses(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name string
		text string
	}{
		{name: "no signal at all", text: "你好"},
		{name: "vague wish", text: "好想出去走一走啊"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, parser.Parse(tt.text), "no extractable field means nil parse, not a zeroed struct")
		})
	}
}

func TestParsePartialSignal(t *testing.T) {
	parser := NewParser()
	parse := parser.Parse("想去成都玩，特别想吃火锅和小吃")
	require.NotNil(t, parse)

	assert.Equal(t, "成都", parse.Destination)
	assert.Nil(t, parse.Days, "unmentioned days stay nil")
	assert.Nil(t, parse.Budget)
	assert.Nil(t, parse.PartySize)
	assert.Contains(t, parse.Preferences, "美食")
}

func TestParseHanziNumerals(t *testing.T) {
	parser := NewParser()
	parse := parser.Parse("五一去三亚玩五天，三个人")
	require.NotNil(t, parse)

	require.NotNil(t, parse.Days)
	assert.Equal(t, 5, *parse.Days)
	require.NotNil(t, parse.PartySize)
	assert.Equal(t, 3, *parse.PartySize)
}

func TestParsePreferencesDeduplicated(t *testing.T) {
	parser := NewParser()
	parse := parser.Parse("去西安看历史古迹，多逛逛古迹和寺庙")
	require.NotNil(t, parse)

	count := 0
	for _, tag := range parse.Preferences {
		if tag == "历史古迹" {
			count++
		}
	}
	assert.Equal(t, 1, count, "keywords collapsing into one tag appear once")
}

func TestParseBudgetForms(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		text string
		want int
	}{
		{text: "预算大概8000，随便玩玩", want: 8000},
		{text: "人均花不了多少，总共3000元吧", want: 3000},
	}

	for _, tt := range tests {
		parse := parser.Parse(tt.text)
		require.NotNil(t, parse, tt.text)
		require.NotNil(t, parse.Budget, tt.text)
		assert.Equal(t, tt.want, *parse.Budget, tt.text)
	}
}
