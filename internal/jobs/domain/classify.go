package domain

import "strings"

// Classification is the best-effort domestic/commercial split used for
// eligibility matching.
type Classification string

const (
	ClassDomestic   Classification = "domestic"
	ClassCommercial Classification = "commercial"
)

// Classifier decides whether a job is a domestic or commercial assessment.
// It is a plug point: the default keyword heuristic can be swapped for a
// structured field later without touching the eligibility contract.
type Classifier func(job Job) Classification

// commercialIndicators is the fixed vocabulary matched against a job's
// property type and address text. Deliberately small; false positives and
// negatives are tolerated.
var commercialIndicators = []string{
	"office",
	"retail",
	"industrial",
	"warehouse",
	"unit",
}

// ClassifyByKeywords is the default Classifier. A job is commercial when its
// declared type is commercial or its property-type/town text mentions a
// commercial indicator; everything else is domestic.
func ClassifyByKeywords(job Job) Classification {
	if job.JobType == JobTypeCommercial {
		return ClassCommercial
	}

	haystack := strings.ToLower(job.PropertyType + " " + job.Town)
	for _, indicator := range commercialIndicators {
		if strings.Contains(haystack, indicator) {
			return ClassCommercial
		}
	}

	return ClassDomestic
}

// MatchesSpecialty reports whether a contractor with the given specialty may
// take jobs of the given classification.
func MatchesSpecialty(specialty Specialty, class Classification) bool {
	switch specialty {
	case SpecialtyBoth, "":
		return true
	case SpecialtyDomestic:
		return class == ClassDomestic
	case SpecialtyCommercial:
		return class == ClassCommercial
	default:
		return false
	}
}
