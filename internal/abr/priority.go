package abr

// precedence lists the priority buckets from strongest to weakest.
var precedence = [...]Confidence{ConfidenceStrong, ConfidenceDefault, ConfidenceWeak}

// ResolvePriority aggregates rule requests into one selection. Within a
// bucket the lowest proposed quality wins. A non-empty strong bucket
// overrides default, which overrides weak. Without any proposal previous is
// returned unchanged.
func ResolvePriority(requests []SwitchRequest, previous Selection) Selection {
	var lowest [len(precedence)]int
	for i := range lowest {
		lowest[i] = NoChange
	}

	for _, req := range requests {
		if req.IsNoChange() || req.Quality < 0 {
			continue
		}
		b := bucket(req.Priority)
		if b < 0 {
			continue
		}
		if lowest[b] == NoChange || req.Quality < lowest[b] {
			lowest[b] = req.Quality
		}
	}

	for b, conf := range precedence {
		if lowest[b] != NoChange {
			return Selection{Quality: lowest[b], Confidence: conf}
		}
	}
	return previous
}

func bucket(c Confidence) int {
	for i, p := range precedence {
		if p == c {
			return i
		}
	}
	return -1
}

// normalizeConfidence maps anything but strong or weak to default.
func normalizeConfidence(c Confidence) Confidence {
	if c != ConfidenceStrong && c != ConfidenceWeak {
		return ConfidenceDefault
	}
	return c
}
