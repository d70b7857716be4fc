package catalog

import (
	"strings"

	"github.com/prabhakarm7/sn-graph-sub002/graph"
)

// recommendationKeywords is the fixed keyword list for heuristic mode
// detection. Matching is case-insensitive substring matching, so singular
// forms also catch their plurals.
var recommendationKeywords = []string{
	"recommendation",
	"recommended",
	"incumbent",
	"conversion",
	"opportunit",
	"suggest",
	"replace",
	"alternative",
	"switch",
}

// DetectMode decides whether a smart query requires standard or
// recommendations mode. Rules apply first-match-wins:
//
//  1. an explicit non-auto declared mode
//  2. the template references incumbent-product or recommendation
//     relationship types
//  3. the question text matches a recommendation keyword
//  4. the supplied free-text user intent matches a recommendation keyword
//  5. default standard
//
// The order is load-bearing: an explicit declaration always beats the
// heuristics, and the query's own text beats the user's.
func DetectMode(q *SmartQuery, userIntent string) Mode {
	if q == nil {
		return ModeStandard
	}

	if q.Mode != ModeAuto && q.Mode.IsValid() && q.Mode != "" {
		return q.Mode
	}

	if q.templateMentions(string(graph.NodeIncumbentProduct)) ||
		q.templateMentions(string(graph.RelBiRecommends)) {
		return ModeRecommendations
	}

	if matchesRecommendationKeyword(q.Question, q.Keywords) {
		return ModeRecommendations
	}

	if userIntent != "" && matchesRecommendationKeyword(userIntent, q.Keywords) {
		return ModeRecommendations
	}

	return ModeStandard
}

// matchesRecommendationKeyword checks text against the fixed keyword list
// plus any per-query detection keywords.
func matchesRecommendationKeyword(text string, extra []string) bool {
	if text == "" {
		return false
	}
	lowered := strings.ToLower(text)

	for _, keyword := range recommendationKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	for _, keyword := range extra {
		if keyword != "" && strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
