package domain

import (
	"testing"

	"github.com/google/uuid"
)

func openJob(county string, status JobStatus) Job {
	return Job{ID: uuid.New(), County: county, JobType: JobTypeDomestic, Status: status}
}

func TestEligibleJobsCountyFilter(t *testing.T) {
	dublin := openJob("Dublin", JobStatusLive)
	cork := openJob("Cork", JobStatusSubmitted)

	got := EligibleJobs(EligibilityInput{
		Prefs:    ContractorPreference{ServiceCounties: []string{"Cork"}, Specialty: SpecialtyBoth},
		OpenJobs: []Job{dublin, cork},
	})

	if len(got) != 1 || got[0].ID != cork.ID {
		t.Fatalf("Cork-only contractor saw %d jobs, want only the Cork job", len(got))
	}
}

func TestEligibleJobsEmptyCountySetMeansNoFilter(t *testing.T) {
	jobs := []Job{openJob("Dublin", JobStatusLive), openJob("Mayo", JobStatusPendingQuote)}

	got := EligibleJobs(EligibilityInput{
		Prefs:    ContractorPreference{Specialty: SpecialtyBoth},
		OpenJobs: jobs,
	})

	if len(got) != 2 {
		t.Fatalf("empty county preference filtered jobs: got %d, want 2", len(got))
	}
}

func TestEligibleJobsCountyMatchIsCaseInsensitive(t *testing.T) {
	job := openJob("dublin", JobStatusLive)

	got := EligibleJobs(EligibilityInput{
		Prefs:    ContractorPreference{ServiceCounties: []string{" Dublin "}, Specialty: SpecialtyBoth},
		OpenJobs: []Job{job},
	})

	if len(got) != 1 {
		t.Fatal("county match should ignore case and surrounding whitespace")
	}
}

func TestEligibleJobsExcludesClosedQuotedAndWithdrawn(t *testing.T) {
	quoted := openJob("Dublin", JobStatusPendingQuote)
	withdrawn := openJob("Dublin", JobStatusLive)
	accepted := openJob("Dublin", JobStatusQuoteAccepted)
	completed := openJob("Dublin", JobStatusCompleted)
	visible := openJob("Dublin", JobStatusLive)

	got := EligibleJobs(EligibilityInput{
		Prefs:             ContractorPreference{Specialty: SpecialtyBoth},
		OpenJobs:          []Job{quoted, withdrawn, accepted, completed, visible},
		ActiveQuoteJobIDs: map[uuid.UUID]bool{quoted.ID: true},
		WithdrawnJobIDs:   map[uuid.UUID]bool{withdrawn.ID: true},
	})

	if len(got) != 1 || got[0].ID != visible.ID {
		ids := make([]uuid.UUID, 0, len(got))
		for _, j := range got {
			ids = append(ids, j.ID)
		}
		t.Fatalf("eligible set = %v, want only %s", ids, visible.ID)
	}
}

func TestEligibleJobsSpecialtySplit(t *testing.T) {
	house := openJob("Dublin", JobStatusLive)
	office := Job{ID: uuid.New(), County: "Dublin", PropertyType: "Office suite", JobType: JobTypeDomestic, Status: JobStatusLive}

	domesticOnly := EligibleJobs(EligibilityInput{
		Prefs:    ContractorPreference{Specialty: SpecialtyDomestic},
		OpenJobs: []Job{house, office},
	})
	if len(domesticOnly) != 1 || domesticOnly[0].ID != house.ID {
		t.Fatal("domestic assessor should only see the house")
	}

	commercialOnly := EligibleJobs(EligibilityInput{
		Prefs:    ContractorPreference{Specialty: SpecialtyCommercial},
		OpenJobs: []Job{house, office},
	})
	if len(commercialOnly) != 1 || commercialOnly[0].ID != office.ID {
		t.Fatal("commercial assessor should only see the office")
	}
}

func TestEligibleJobsCustomClassifier(t *testing.T) {
	job := openJob("Dublin", JobStatusLive)

	// Everything is commercial according to this classifier.
	allCommercial := func(Job) Classification { return ClassCommercial }

	got := EligibleJobs(EligibilityInput{
		Prefs:    ContractorPreference{Specialty: SpecialtyDomestic},
		OpenJobs: []Job{job},
		Classify: allCommercial,
	})

	if len(got) != 0 {
		t.Fatal("custom classifier was not applied")
	}
}

func TestAssignmentView(t *testing.T) {
	cases := []struct {
		status JobStatus
		want   AssignmentState
	}{
		{JobStatusLive, AssignmentOpen},
		{JobStatusSubmitted, AssignmentOpen},
		{JobStatusPendingQuote, AssignmentOpen},
		{JobStatusQuoteAccepted, AssignmentAssigned},
		{JobStatusScheduled, AssignmentAssigned},
		{JobStatusCompleted, AssignmentCompleted},
	}

	for _, tc := range cases {
		if got := Assignment(tc.status); got != tc.want {
			t.Errorf("Assignment(%q) = %q, want %q", tc.status, got, tc.want)
		}
	}
}
