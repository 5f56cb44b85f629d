// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// suggestionThreshold is one more than the largest edit distance
// still offered as a suggestion.
const suggestionThreshold = 4

// suggestCommand returns the subcommand name closest to unknown, or ""
// when nothing is within three edits.
func suggestCommand(unknown string, commands []*Command) string {
	best, bestDistance := "", suggestionThreshold
	for _, command := range commands {
		if distance := levenshtein(unknown, command.Name); distance < bestDistance {
			best, bestDistance = command.Name, distance
		}
	}
	return best
}

// suggestFlag finds the first flag in args that flagSet does not
// define and returns the closest defined flag, with its dash prefix.
// Returns "" if there is no unknown flag or no close match.
func suggestFlag(args []string, flagSet *pflag.FlagSet) string {
	for _, arg := range args {
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			continue
		}

		name := strings.TrimLeft(arg, "-")
		if index := strings.IndexByte(name, '='); index >= 0 {
			name = name[:index]
		}
		if flagSet.Lookup(name) != nil {
			continue
		}
		if len(name) == 1 && flagSet.ShorthandLookup(name) != nil {
			continue
		}

		best, bestDistance := "", suggestionThreshold
		flagSet.VisitAll(func(flag *pflag.Flag) {
			if distance := levenshtein(name, flag.Name); distance < bestDistance {
				best, bestDistance = flag.Name, distance
			}
		})
		if best != "" {
			return "--" + best
		}
		// Only the first unknown flag is considered.
		break
	}
	return ""
}

// levenshtein returns the edit distance between a and b, keeping one
// row of the distance matrix.
func levenshtein(a, b string) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(a) == 0 {
		return len(b)
	}

	previous := make([]int, len(a)+1)
	current := make([]int, len(a)+1)
	for i := range previous {
		previous[i] = i
	}
	for j := 1; j <= len(b); j++ {
		current[0] = j
		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			current[i] = min(previous[i]+1, current[i-1]+1, previous[i-1]+cost)
		}
		previous, current = current, previous
	}
	return previous[len(a)]
}
