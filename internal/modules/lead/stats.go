package lead

import "leadflow/internal/domain"

// Stats summarizes a set of leads.
type Stats struct {
	Total        int                       `json:"total"`
	Qualified    int                       `json:"qualified"`
	AverageScore float64                   `json:"averageScore"`
	TotalValue   float64                   `json:"totalValue"`
	StatusCounts map[domain.LeadStatus]int `json:"statusCounts"`
	SourceCounts map[domain.LeadSource]int `json:"sourceCounts"`
}

// Aggregate computes summary metrics over the given leads. The enum count
// maps are pre-populated with every known status and source at zero so
// clients see a stable key set. An empty input yields an average score of
// 0, not NaN.
func Aggregate(leads []domain.Lead) *Stats {
	s := &Stats{
		StatusCounts: make(map[domain.LeadStatus]int, len(domain.AllStatuses)),
		SourceCounts: make(map[domain.LeadSource]int, len(domain.AllSources)),
	}
	for _, st := range domain.AllStatuses {
		s.StatusCounts[st] = 0
	}
	for _, src := range domain.AllSources {
		s.SourceCounts[src] = 0
	}

	var scoreSum int
	for _, l := range leads {
		s.Total++
		if l.IsQualified {
			s.Qualified++
		}
		scoreSum += l.Score
		s.TotalValue += l.LeadValue
		s.StatusCounts[l.Status]++
		s.SourceCounts[l.Source]++
	}

	if s.Total > 0 {
		s.AverageScore = float64(scoreSum) / float64(s.Total)
	}
	return s
}
