package trust

import "math"

// Summary is the trust-weighted reputation of one user. The averages are
// on the raw 0..10 scale. WouldWorkAgainRatio is nil when no trusted
// rater weighed in. RatingCount is the raw, unweighted number of incoming
// ratings: volume stays visible even though it carries no influence.
type Summary struct {
	ContributionAvg     float64  `json:"contribution_avg" yaml:"contributionAvg"`
	CommunicationAvg    float64  `json:"communication_avg" yaml:"communicationAvg"`
	WouldWorkAgainRatio *float64 `json:"would_work_again_ratio" yaml:"wouldWorkAgainRatio"`
	RatingCount         int      `json:"rating_count" yaml:"ratingCount"`
}

// Summarize aggregates the incoming ratings of targetID, weighting each
// raw rating by its rater's trust score. Raters unknown to the vector
// weigh zero. Ratings addressed to other targets are ignored.
//
// Callers serving a batch of targets must compute the trust vector once
// and reuse it across every Summarize call in the batch.
func Summarize(targetID int64, scores map[int64]float64, incoming []Rating) Summary {
	var s Summary
	var totalW, contrib, comm, wwa float64

	for _, r := range incoming {
		if r.TargetID != targetID {
			continue
		}
		s.RatingCount++

		w := scores[r.RaterID]
		if w <= 0 {
			continue
		}
		totalW += w
		contrib += w * float64(r.Contribution)
		comm += w * float64(r.Communication)
		if r.WouldWorkAgain {
			wwa += w
		}
	}

	if totalW == 0 {
		return s
	}

	s.ContributionAvg = contrib / totalW
	s.CommunicationAvg = comm / totalW
	ratio := wwa / totalW
	s.WouldWorkAgainRatio = &ratio
	return s
}

// OverallScore folds the summary into a single scalar on the 0..10 scale:
// contribution and communication normalized to [0,1], averaged with the
// would-work-again ratio (nil counts as 0), scaled back up. Rounded to
// two decimals.
func (s Summary) OverallScore() float64 {
	wwa := 0.0
	if s.WouldWorkAgainRatio != nil {
		wwa = *s.WouldWorkAgainRatio
	}
	score := ScoreMax * ((s.ContributionAvg/ScoreMax + s.CommunicationAvg/ScoreMax + wwa) / 3.0)
	return round2(score)
}

// TeamScore is the mean overall score across team members, 0 for an
// empty team. Members missing from the map count as 0.
func TeamScore(memberIDs []int64, overallByID map[int64]float64) float64 {
	if len(memberIDs) == 0 {
		return 0
	}
	sum := 0.0
	for _, id := range memberIDs {
		sum += overallByID[id]
	}
	return round2(sum / float64(len(memberIDs)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
