package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lushu-app/lushu-api/internal/types"
)

func TestParseReplyValid(t *testing.T) {
	raw := `{
		"refined_name": "上海博物馆",
		"address_hint": "黄浦区人民大道201号",
		"search_queries": ["上海博物馆 人民广场", "Shanghai Museum"],
		"nearby_landmarks": ["人民广场", "上海大剧院"],
		"latitude": 31.2304,
		"longitude": 121.4692,
		"confidence": 0.95,
		"reason": "上海博物馆是人民广场的知名场馆，位置明确。"
	}`

	result, err := ParseReply(raw)
	require.NoError(t, err)
	assert.Equal(t, "上海博物馆", *result.RefinedName)
	assert.InDelta(t, 31.2304, *result.Latitude, 1e-6)
	assert.InDelta(t, 121.4692, *result.Longitude, 1e-6)
	assert.Len(t, result.SearchQueries, 2)
}

func TestParseReplyLoneCoordinateRejected(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "latitude without longitude",
			raw:  `{"refined_name": null, "address_hint": null, "search_queries": [], "nearby_landmarks": [], "latitude": 31.2, "longitude": null, "confidence": 0.9, "reason": "测试"}`,
		},
		{
			name: "longitude without latitude",
			raw:  `{"refined_name": null, "address_hint": null, "search_queries": [], "nearby_landmarks": [], "latitude": null, "longitude": 121.5, "confidence": 0.9, "reason": "测试"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReply(tt.raw)
			assert.ErrorIs(t, err, types.ErrSchemaViolation)
		})
	}
}

func TestParseReplyConfidenceGatesCoordinates(t *testing.T) {
	lowConfidence := `{"refined_name": "某咖啡馆", "address_hint": null, "search_queries": ["咖啡馆"], "nearby_landmarks": [], "latitude": 31.2, "longitude": 121.5, "confidence": 0.4, "reason": "名称模糊，位置不确定。"}`

	result, err := ParseReply(lowConfidence)
	require.NoError(t, err)
	assert.Nil(t, result.Latitude, "low-confidence coordinates are discarded")
	assert.Nil(t, result.Longitude)
	assert.Equal(t, "某咖啡馆", *result.RefinedName, "other fields survive the gate")

	noConfidence := `{"refined_name": null, "address_hint": null, "search_queries": [], "nearby_landmarks": [], "latitude": 31.2, "longitude": 121.5, "confidence": null, "reason": "测试"}`
	result, err = ParseReply(noConfidence)
	require.NoError(t, err)
	assert.Nil(t, result.Latitude, "coordinates without stated confidence are discarded")
	assert.Nil(t, result.Longitude)
}

func TestParseReplyRejectsBadReplies(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "missing reason",
			raw:  `{"refined_name": null, "address_hint": null, "search_queries": [], "nearby_landmarks": [], "latitude": null, "longitude": null, "confidence": null, "reason": ""}`,
		},
		{
			name: "too many search queries",
			raw:  `{"refined_name": null, "address_hint": null, "search_queries": ["a", "b", "c", "d"], "nearby_landmarks": [], "latitude": null, "longitude": null, "confidence": null, "reason": "测试"}`,
		},
		{
			name: "latitude out of range",
			raw:  `{"refined_name": null, "address_hint": null, "search_queries": [], "nearby_landmarks": [], "latitude": 123.0, "longitude": 121.5, "confidence": 0.9, "reason": "测试"}`,
		},
		{
			name: "hallucinated extra field",
			raw:  `{"refined_name": null, "address_hint": null, "search_queries": [], "nearby_landmarks": [], "latitude": null, "longitude": null, "confidence": null, "reason": "测试", "rating": 4.5}`,
		},
		{
			name: "not json",
			raw:  "这个地点我不太确定。",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReply(tt.raw)
			assert.ErrorIs(t, err, types.ErrSchemaViolation)
		})
	}
}
