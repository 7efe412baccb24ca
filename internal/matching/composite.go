package matching

import "math"

const maxRating = 5.0

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func ratingScore(rating float64) int {
	if math.IsNaN(rating) || rating < 0 {
		rating = 0
	}
	if rating > maxRating {
		rating = maxRating
	}
	return clampScore(int(math.Round(rating / maxRating * 100)))
}

// experienceScore maps completed jobs to a track-record band. It is reported
// alongside the sub-scores but does not feed the total.
func experienceScore(completedJobs int) int {
	switch {
	case completedJobs >= 50:
		return 100
	case completedJobs >= 20:
		return 80
	case completedJobs >= 10:
		return 60
	case completedJobs >= 1:
		return 40
	default:
		return 20
	}
}

func totalScore(skill, rating, availability, location int, w Weights) int {
	sum := float64(skill)*w.Skill +
		float64(rating)*w.Rating +
		float64(availability)*w.Availability +
		float64(location)*w.Location
	return clampScore(int(math.Round(sum)))
}
