package domain

import "testing"

func TestClassifyByKeywords(t *testing.T) {
	cases := []struct {
		name         string
		jobType      JobType
		propertyType string
		town         string
		want         Classification
	}{
		{"declared commercial wins", JobTypeCommercial, "Detached house", "Naas", ClassCommercial},
		{"plain house is domestic", JobTypeDomestic, "Semi-detached house", "Cork", ClassDomestic},
		{"office keyword", JobTypeDomestic, "Office block, 2nd floor", "Dublin", ClassCommercial},
		{"retail keyword", JobTypeDomestic, "Retail premises", "Galway", ClassCommercial},
		{"industrial keyword", JobTypeDomestic, "Industrial building", "Limerick", ClassCommercial},
		{"warehouse keyword", JobTypeDomestic, "Warehouse", "Athlone", ClassCommercial},
		{"unit keyword in town text", JobTypeDomestic, "", "Unit 4, Westside Business Park", ClassCommercial},
		{"case insensitive", JobTypeDomestic, "OFFICE", "", ClassCommercial},
		{"empty text is domestic", JobTypeDomestic, "", "", ClassDomestic},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			job := Job{JobType: tc.jobType, PropertyType: tc.propertyType, Town: tc.town}
			if got := ClassifyByKeywords(job); got != tc.want {
				t.Errorf("ClassifyByKeywords(%q/%q/%q) = %q, want %q",
					tc.jobType, tc.propertyType, tc.town, got, tc.want)
			}
		})
	}
}

func TestMatchesSpecialty(t *testing.T) {
	cases := []struct {
		specialty Specialty
		class     Classification
		want      bool
	}{
		{SpecialtyBoth, ClassDomestic, true},
		{SpecialtyBoth, ClassCommercial, true},
		{SpecialtyDomestic, ClassDomestic, true},
		{SpecialtyDomestic, ClassCommercial, false},
		{SpecialtyCommercial, ClassCommercial, true},
		{SpecialtyCommercial, ClassDomestic, false},
		{"", ClassDomestic, true}, // missing preference row behaves like "both"
	}

	for _, tc := range cases {
		if got := MatchesSpecialty(tc.specialty, tc.class); got != tc.want {
			t.Errorf("MatchesSpecialty(%q, %q) = %v, want %v", tc.specialty, tc.class, got, tc.want)
		}
	}
}
