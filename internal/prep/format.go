package prep

import (
	"fmt"
	"strings"
)

// FormatPlan renders a task plan as the plain-text email body sent back to
// the account owner: a title line followed by one block per task.
func FormatPlan(plan *TaskPlan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Title: %s\n\nTasks:\n", plan.Title)
	for _, task := range plan.Tasks {
		fmt.Fprintf(&b, "- Task: %s\n", task.Task)
		fmt.Fprintf(&b, "  Duration: %d minutes\n", task.DurationMinutes)
		fmt.Fprintf(&b, "  Note: %s\n\n", task.Note)
	}

	return b.String()
}
