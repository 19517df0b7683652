package prep

import "context"

// TaskItem is a single preparatory task.
type TaskItem struct {
	Task            string `json:"task"`
	DurationMinutes int    `json:"task_duration"`
	Note            string `json:"note"`
}

// TaskPlan is the structured output of one successful generation run.
type TaskPlan struct {
	Title string     `json:"title"`
	Tasks []TaskItem `json:"tasks"`
}

// DecisionKind tags an approval decision.
type DecisionKind int

const (
	// DecisionAccept accepts the current draft as-is.
	DecisionAccept DecisionKind = iota
	// DecisionRevise rejects the draft and carries feedback for the next one.
	DecisionRevise
)

// Decision is the reviewer's verdict on a draft.
type Decision struct {
	Kind     DecisionKind
	Feedback string
}

// Accept returns an accepting decision.
func Accept() Decision {
	return Decision{Kind: DecisionAccept}
}

// Revise returns a rejecting decision carrying feedback text.
func Revise(feedback string) Decision {
	return Decision{Kind: DecisionRevise, Feedback: feedback}
}

// ApprovalPort obtains an accept/revise decision for a draft. iteration and
// maxIterations let implementations tell the reviewer where the loop stands
// and skip soliciting feedback on the final iteration, where it can no
// longer be applied.
type ApprovalPort interface {
	RequestApproval(ctx context.Context, draft *TaskPlan, iteration, maxIterations int) (Decision, error)
}

// Outcome is the terminal state of a generation run.
type Outcome int

const (
	// OutcomeAccepted means the reviewer accepted a draft.
	OutcomeAccepted Outcome = iota
	// OutcomeExhausted means the iteration budget ran out; the latest
	// draft stands by default.
	OutcomeExhausted
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Result is the outcome of one generation run: exactly one plan and at most
// one new feedback entry for the modification log.
type Result struct {
	Plan *TaskPlan
	// Feedback is the last feedback given during the run, or empty if the
	// first draft was accepted or the run exhausted without ever capturing
	// feedback.
	Feedback   string
	Iterations int
	Outcome    Outcome
}
