package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEmailTemplates(t *testing.T) {
	cases := []struct {
		name     string
		template string
		data     any
		want     []string
	}{
		{
			name:     "quote received",
			template: "quote_received.html",
			data: quoteReceivedEmailData{
				baseEmailData:   baseEmailData{Title: "You have a new quote", Heading: "You have a new quote"},
				Location:        "Salthill, Co. Galway",
				AmountFormatted: "€245.00",
			},
			want: []string{"Salthill, Co. Galway", "€245.00"},
		},
		{
			name:     "quote revised",
			template: "quote_received.html",
			data: quoteReceivedEmailData{
				baseEmailData:   baseEmailData{Title: "A quote was updated", Heading: "A quote was updated"},
				Location:        "Co. Clare",
				AmountFormatted: "€199.00",
				Revised:         true,
			},
			want: []string{"Co. Clare", "€199.00"},
		},
		{
			name:     "quote accepted",
			template: "quote_accepted.html",
			data: quoteAcceptedEmailData{
				baseEmailData:   baseEmailData{Title: "Quote accepted", Heading: "Quote accepted"},
				Location:        "Dingle, Co. Kerry",
				AmountFormatted: "€310.50",
			},
			want: []string{"Dingle, Co. Kerry", "€310.50"},
		},
		{
			name:     "quote closed",
			template: "quote_closed.html",
			data: quoteClosedEmailData{
				baseEmailData: baseEmailData{Title: "Quote not selected", Heading: "Quote not selected"},
				Location:      "Co. Mayo",
				Reason:        "The homeowner accepted another quote for this assessment.",
			},
			want: []string{"Co. Mayo", "another quote"},
		},
		{
			name:     "visit scheduled",
			template: "visit_scheduled.html",
			data: visitScheduledEmailData{
				baseEmailData: baseEmailData{Title: "Visit scheduled", Heading: "Visit scheduled"},
				VisitDate:     "Monday, 2 March 2026",
			},
			want: []string{"Monday, 2 March 2026"},
		},
		{
			name:     "assessment completed",
			template: "assessment_completed.html",
			data: assessmentCompletedEmailData{
				baseEmailData: baseEmailData{Title: "Certificate ready", Heading: "Your BER certificate is ready"},
			},
			want: []string{"certificate"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			html, err := renderEmailTemplate(tc.template, tc.data)
			require.NoError(t, err)
			for _, fragment := range tc.want {
				assert.True(t, strings.Contains(html, fragment), "rendered email missing %q", fragment)
			}
		})
	}
}

func TestFormatCurrencyEUR(t *testing.T) {
	assert.Equal(t, "€245.00", formatCurrencyEUR(24500))
	assert.Equal(t, "€0.99", formatCurrencyEUR(99))
}

func TestFormatLocation(t *testing.T) {
	assert.Equal(t, "Salthill, Co. Galway", formatLocation("Galway", "Salthill"))
	assert.Equal(t, "Co. Galway", formatLocation("Galway", ""))
}
