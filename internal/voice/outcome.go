package voice

// Outcome classifies the result of one dispatched command. Every outcome is
// spoken; none propagates as a raw error to the end user.
type Outcome int

const (
	// OutcomeSuccess means the operation completed and its confirmation
	// was rendered.
	OutcomeSuccess Outcome = iota

	// OutcomeNotFound means the operation required an existing latest
	// reading and none exists.
	OutcomeNotFound

	// OutcomeAmbiguous means a spoken name did not resolve to any
	// reference entity.
	OutcomeAmbiguous

	// OutcomeInvalidInput means a provided slot value could not be parsed
	// (e.g. a non-numeric sensor value).
	OutcomeInvalidInput

	// OutcomeUpstreamFailure means the persistence collaborator failed or
	// timed out. The detail is logged; the user hears a generic apology.
	OutcomeUpstreamFailure
)

// String returns the outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotFound:
		return "not-found"
	case OutcomeAmbiguous:
		return "ambiguous"
	case OutcomeInvalidInput:
		return "invalid-input"
	case OutcomeUpstreamFailure:
		return "upstream-failure"
	default:
		return "unknown"
	}
}

// Result pairs the spoken response with the outcome that produced it.
type Result struct {
	Outcome  Outcome
	Response Response
}
