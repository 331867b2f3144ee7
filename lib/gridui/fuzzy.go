// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gridui

import (
	"sort"
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

func init() {
	algo.Init("default")
}

// FuzzyResult is the outcome of matching one node name.
type FuzzyResult struct {
	// Score is zero when the pattern does not match.
	Score int

	// Positions are the rune offsets of the matched characters.
	Positions []int
}

// fuzzyMatch matches pattern against text case-insensitively. slab
// may be nil; passing one avoids an allocation per call.
func fuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{}
	}
	chars := util.ToChars([]byte(strings.ToLower(text)))
	lowered := []rune(strings.ToLower(string(pattern)))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Start < 0 || result.Score <= 0 {
		return FuzzyResult{}
	}
	var matched []int
	if positions != nil {
		matched = append(matched, *positions...)
		sort.Ints(matched)
	}
	return FuzzyResult{Score: result.Score, Positions: matched}
}

// nodeMatch is one node whose name matched a search.
type nodeMatch struct {
	Index int
	Name  string
	Score int
}

// matchNodes returns the nodes whose names match query, best first.
// Ties keep ascending index order.
func matchNodes(names map[int]string, query string) []nodeMatch {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	pattern := []rune(query)
	slab := util.MakeSlab(100*1024, 2048)
	var matches []nodeMatch
	for index, name := range names {
		if result := fuzzyMatch(name, pattern, slab); result.Score > 0 {
			matches = append(matches, nodeMatch{Index: index, Name: name, Score: result.Score})
		}
	}
	sort.Slice(matches, func(a, b int) bool {
		if matches[a].Score != matches[b].Score {
			return matches[a].Score > matches[b].Score
		}
		return matches[a].Index < matches[b].Index
	})
	return matches
}
