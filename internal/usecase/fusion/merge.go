package fusion

import (
	"github.com/kailas-cloud/catalogmcp/internal/domain/search/result"
	"github.com/kailas-cloud/catalogmcp/internal/domain/search/strategy"
)

// merge combines the two ranked hit lists into one deduplicated ranking:
// the top lexical hit first, the top semantic hit second unless it is the
// same ref, then an alternating lexical/semantic interleave of the rest.
// A duplicate forfeits its slot rather than pulling the next hit from its
// list forward. A ref appears at most once; hits whose ref occurs in both
// lists are tagged Both.
func merge(lexical, semantic []result.Hit) []result.Hit {
	lexRefs := refSet(lexical)
	semRefs := refSet(semantic)

	merged := make([]result.Hit, 0, len(lexical)+len(semantic))
	emitted := make(map[string]struct{}, len(lexical)+len(semantic))

	emit := func(h result.Hit, other map[string]struct{}) {
		emitted[h.Ref()] = struct{}{}
		if _, both := other[h.Ref()]; both {
			h = h.WithSource(strategy.Both)
		}
		merged = append(merged, h)
	}

	if len(lexical) > 0 {
		emit(lexical[0], semRefs)
	}
	if len(semantic) > 0 {
		if _, seen := emitted[semantic[0].Ref()]; !seen {
			emit(semantic[0], lexRefs)
		}
	}

	li, si := 1, 1
	for li < len(lexical) || si < len(semantic) {
		if li < len(lexical) {
			if _, seen := emitted[lexical[li].Ref()]; !seen {
				emit(lexical[li], semRefs)
			}
			li++
		}
		if si < len(semantic) {
			if _, seen := emitted[semantic[si].Ref()]; !seen {
				emit(semantic[si], lexRefs)
			}
			si++
		}
	}

	return merged
}

func refSet(hits []result.Hit) map[string]struct{} {
	set := make(map[string]struct{}, len(hits))
	for i := range hits {
		set[hits[i].Ref()] = struct{}{}
	}
	return set
}
