package email

const (
	subjectQuoteReceived       = "You have a new quote for your BER assessment"
	subjectQuoteRevised        = "A quote on your BER assessment was updated"
	subjectQuoteAccepted       = "Your quote was accepted"
	subjectQuoteRejected       = "The homeowner went with another quote"
	subjectQuoteExpired        = "Your quote has expired"
	subjectVisitScheduled      = "Your assessment visit is scheduled"
	subjectVisitRescheduled    = "Your assessment visit has been moved"
	subjectAssessmentCompleted = "Your BER certificate is ready"
)
