package domain

import "github.com/google/uuid"

// QuoteStanding is one contractor's position in a job's ranking.
type QuoteStanding struct {
	QuoteID       uuid.UUID
	ContractorID  uuid.UUID
	AmountCents   int64
	Status        QuoteStatus
	IsCompetitive bool
}

// Ranking is the result of ranking a job's quotes. HasQuotes is false when
// the job has no active quotes, in which case LowestCents is meaningless and
// must not be read as zero.
type Ranking struct {
	HasQuotes   bool
	LowestCents int64
	Standings   []QuoteStanding
}

// Rank computes the lowest price and per-contractor competitiveness over a
// job's quotes. Only active (pending or accepted) quotes participate; ties
// with the lowest price count as competitive. Pure and deterministic.
func Rank(quotes []Quote) Ranking {
	var active []Quote
	for _, q := range quotes {
		if q.Status.Active() {
			active = append(active, q)
		}
	}

	if len(active) == 0 {
		return Ranking{}
	}

	lowest := active[0].AmountCents
	for _, q := range active[1:] {
		if q.AmountCents < lowest {
			lowest = q.AmountCents
		}
	}

	standings := make([]QuoteStanding, len(active))
	for i, q := range active {
		standings[i] = QuoteStanding{
			QuoteID:       q.ID,
			ContractorID:  q.ContractorID,
			AmountCents:   q.AmountCents,
			Status:        q.Status,
			IsCompetitive: q.AmountCents <= lowest,
		}
	}

	return Ranking{HasQuotes: true, LowestCents: lowest, Standings: standings}
}
