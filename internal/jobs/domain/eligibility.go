package domain

import (
	"strings"

	"github.com/google/uuid"
)

// EligibilityInput carries everything the eligibility filter needs as of
// call time. The filter itself is a pure function and is recomputed on every
// poll; callers own any caching.
type EligibilityInput struct {
	Prefs    ContractorPreference
	OpenJobs []Job
	// ActiveQuoteJobIDs are jobs on which this contractor already has a
	// non-rejected quote.
	ActiveQuoteJobIDs map[uuid.UUID]bool
	// WithdrawnJobIDs are jobs this contractor has declined.
	WithdrawnJobIDs map[uuid.UUID]bool
	// Classify defaults to ClassifyByKeywords when nil.
	Classify Classifier
}

// EligibleJobs returns the subset of open jobs the contractor may see and
// quote: still accepting bids, not already quoted or withdrawn by this
// contractor, within the contractor's service counties (an empty county set
// means no county filter), and matching the contractor's specialty.
func EligibleJobs(in EligibilityInput) []Job {
	classify := in.Classify
	if classify == nil {
		classify = ClassifyByKeywords
	}

	countyFilter := make(map[string]bool, len(in.Prefs.ServiceCounties))
	for _, county := range in.Prefs.ServiceCounties {
		countyFilter[normalizeCounty(county)] = true
	}

	eligible := make([]Job, 0, len(in.OpenJobs))
	for _, job := range in.OpenJobs {
		if !job.Status.AcceptsQuotes() {
			continue
		}
		if in.ActiveQuoteJobIDs[job.ID] || in.WithdrawnJobIDs[job.ID] {
			continue
		}
		if len(countyFilter) > 0 && !countyFilter[normalizeCounty(job.County)] {
			continue
		}
		if !MatchesSpecialty(in.Prefs.Specialty, classify(job)) {
			continue
		}
		eligible = append(eligible, job)
	}

	return eligible
}

func normalizeCounty(county string) string {
	return strings.ToLower(strings.TrimSpace(county))
}
