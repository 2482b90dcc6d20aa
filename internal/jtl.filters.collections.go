package internal

import "strings"

func registerCollectionFilters(filters map[string]FilterFunc) {
	filters[FilterNameFirst] = func(v any) any {
		seq, ok := AsSequence(v)
		if !ok || len(seq) == 0 {
			return v
		}
		return seq[0]
	}
	filters[FilterNameLast] = func(v any) any {
		seq, ok := AsSequence(v)
		if !ok || len(seq) == 0 {
			return v
		}
		return seq[len(seq)-1]
	}
	filters[FilterNameJoin] = func(v any) any {
		seq, ok := AsSequence(v)
		if !ok {
			return v
		}
		parts := make([]string, len(seq))
		for i, item := range seq {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, SequenceJoiner)
	}
}
