package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestRankNoActiveQuotes(t *testing.T) {
	if r := Rank(nil); r.HasQuotes {
		t.Fatal("Rank(nil) reported quotes")
	}

	rejected := []Quote{{ID: uuid.New(), AmountCents: 100, Status: QuoteStatusRejected}}
	if r := Rank(rejected); r.HasQuotes {
		t.Fatal("Rank with only rejected quotes reported a ranking")
	}
}

func TestRankLowestAndCompetitiveness(t *testing.T) {
	a := Quote{ID: uuid.New(), ContractorID: uuid.New(), AmountCents: 17000, Status: QuoteStatusPending}
	b := Quote{ID: uuid.New(), ContractorID: uuid.New(), AmountCents: 15000, Status: QuoteStatusPending}
	rejected := Quote{ID: uuid.New(), ContractorID: uuid.New(), AmountCents: 9000, Status: QuoteStatusRejected}

	r := Rank([]Quote{a, b, rejected})
	if !r.HasQuotes {
		t.Fatal("expected a ranking")
	}
	if r.LowestCents != 15000 {
		t.Fatalf("LowestCents = %d, want 15000 (rejected quotes must not set the floor)", r.LowestCents)
	}
	if len(r.Standings) != 2 {
		t.Fatalf("got %d standings, want 2", len(r.Standings))
	}

	byQuote := map[uuid.UUID]QuoteStanding{}
	for _, s := range r.Standings {
		byQuote[s.QuoteID] = s
	}
	if byQuote[a.ID].IsCompetitive {
		t.Error("170.00 quote marked competitive against a 150.00 floor")
	}
	if !byQuote[b.ID].IsCompetitive {
		t.Error("lowest quote not marked competitive")
	}
}

func TestRankTiesAreCompetitive(t *testing.T) {
	a := Quote{ID: uuid.New(), AmountCents: 12000, Status: QuoteStatusPending}
	b := Quote{ID: uuid.New(), AmountCents: 12000, Status: QuoteStatusAccepted}

	r := Rank([]Quote{a, b})
	for _, s := range r.Standings {
		if !s.IsCompetitive {
			t.Errorf("tied quote %s not competitive", s.QuoteID)
		}
	}
}
