// Operating procedure classification.
//
// The classify stage's output is modeled as a tagged union rather than
// raw string comparisons so the fallback route is a first-class branch.

package workflow

// Procedure is the operating procedure selected by the classify stage.
type Procedure int

const (
	// ProcedureUnrecognized is any classification value that is not an
	// exact match for a known procedure. It routes to the fallback
	// responder rather than producing an error.
	ProcedureUnrecognized Procedure = iota
	// ProcedureQA routes to the internal knowledge-base responder.
	ProcedureQA
	// ProcedureFactFinding routes to the external web responder.
	ProcedureFactFinding
)

// Classification values matched exactly, case-sensitively.
const (
	procedureValueQA          = "q-and-a"
	procedureValueFactFinding = "fact-finding"
)

// ParseProcedure maps a classification value to a Procedure.
// Matching is exact and case-sensitive; everything else, including the
// empty string, is ProcedureUnrecognized.
func ParseProcedure(value string) Procedure {
	switch value {
	case procedureValueQA:
		return ProcedureQA
	case procedureValueFactFinding:
		return ProcedureFactFinding
	default:
		return ProcedureUnrecognized
	}
}

// String returns the classification value for the procedure.
func (p Procedure) String() string {
	switch p {
	case ProcedureQA:
		return procedureValueQA
	case ProcedureFactFinding:
		return procedureValueFactFinding
	default:
		return "unrecognized"
	}
}

// Routing paths reported in the workflow result.
const (
	// PathInternalQA is the internal knowledge-base route.
	PathInternalQA = "internal_q_a"
	// PathExternalFactFinding is the external web research route.
	PathExternalFactFinding = "external_fact_finding"
	// PathAgent is the fallback clarification route.
	PathAgent = "agent"
)

// Path returns the routing path for the procedure.
func (p Procedure) Path() string {
	switch p {
	case ProcedureQA:
		return PathInternalQA
	case ProcedureFactFinding:
		return PathExternalFactFinding
	default:
		return PathAgent
	}
}
