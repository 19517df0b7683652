package cmd

import (
	"context"
	"fmt"

	"github.com/manifoldco/promptui"

	"meetprep/internal/prep"
)

// consoleApproval presents drafts on the terminal and collects accept or
// revise decisions interactively.
type consoleApproval struct{}

func (consoleApproval) RequestApproval(ctx context.Context, draft *prep.TaskPlan, iteration, maxIterations int) (prep.Decision, error) {
	fmt.Printf("\nDraft %d of %d:\n\n%s\n", iteration, maxIterations, prep.FormatPlan(draft))

	sel := promptui.Select{
		Label: "Accept this task list",
		Items: []string{"Accept", "Revise"},
	}
	_, choice, err := sel.Run()
	if err != nil {
		return prep.Decision{}, fmt.Errorf("read approval decision: %w", err)
	}
	if choice == "Accept" {
		return prep.Accept(), nil
	}

	// On the final iteration feedback can no longer be applied, so it is
	// not solicited.
	if iteration == maxIterations {
		return prep.Revise(""), nil
	}

	prompt := promptui.Prompt{
		Label: "Feedback for the next draft",
		Validate: func(s string) error {
			if s == "" {
				return fmt.Errorf("feedback must not be empty")
			}
			return nil
		},
	}
	feedback, err := prompt.Run()
	if err != nil {
		return prep.Decision{}, fmt.Errorf("read feedback: %w", err)
	}
	return prep.Revise(feedback), nil
}
