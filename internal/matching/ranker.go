package matching

import "sort"

// less orders by total, rating and skill score descending, then id ascending.
func less(a, b CandidateScore) bool {
	if a.TotalScore != b.TotalScore {
		return a.TotalScore > b.TotalScore
	}
	if a.RatingScore != b.RatingScore {
		return a.RatingScore > b.RatingScore
	}
	if a.SkillScore != b.SkillScore {
		return a.SkillScore > b.SkillScore
	}
	return a.CandidateID < b.CandidateID
}

// rank sorts scores in place, truncates to limit and assigns 1-based ranks.
func rank(scores []CandidateScore, limit int) []CandidateScore {
	sort.Slice(scores, func(i, j int) bool { return less(scores[i], scores[j]) })

	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	for i := range scores {
		scores[i].Rank = i + 1
	}
	return scores
}
