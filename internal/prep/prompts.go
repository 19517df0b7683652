package prep

import (
	"fmt"
	"strings"

	"meetprep/internal/event"
)

const classifySystemPrompt = "You are a helpful assistant."

const classifyUserPromptFmt = `## Instruction
Is the following email content a meeting invitation?

## Email content
Subject: %s
Body: %s

## Answer construction
Answer with a JSON object of the form {"is_meeting_invite": <boolean>} and nothing else.`

const summarizeFeedbackSystemPrompt = "You are a helpful assistant that summarizes user feedback for improving task generation."

const summarizeFeedbackUserPromptFmt = `You have received the following user feedback to improve task generation:
%s

Please provide a concise summary of the feedback to incorporate into the task generation instructions.`

const summarizeTextSystemPrompt = "You are a summarization assistant."

const summarizeTextUserPromptFmt = "Please summarize the following text: %s"

const generateSystemPrompt = `Review the meeting invitation email and create clear, actionable tasks based on the details.
Focus on tasks that help the recipient prepare for the meeting, like reviewing documents, understanding the agenda, or identifying key discussion points.
Ensure each task is directly related to the meeting content and easy to follow.`

const generateOutputFormat = `## Output Format
Respond with a JSON object and nothing else:
{"title": "<event title>", "tasks": [{"task": "<what to do>", "task_duration": <minutes as integer>, "note": "<points to keep in mind>"}]}`

// additionalInstructionsHeader introduces feedback appended to the prompt,
// both the pre-run summary and each in-run revision.
const additionalInstructionsHeader = "\n\n## Additional Instructions\n"

// basePrompt renders the event details section of the generation prompt.
func basePrompt(desc *event.Descriptor) string {
	var b strings.Builder

	b.WriteString("## Event Details\n")
	fmt.Fprintf(&b, "Event Summary: %s\n", desc.Title)
	fmt.Fprintf(&b, "Description: %s\n", desc.Description)
	fmt.Fprintf(&b, "Meeting Duration: %s\n", desc.Duration)
	fmt.Fprintf(&b, "Number of Participants: %d\n", desc.Participants)

	b.WriteString("Summaries of Attachments:\n")
	if len(desc.Attachments) == 0 {
		b.WriteString("(none)\n")
	}
	for _, att := range desc.Attachments {
		fmt.Fprintf(&b, "- %s: %s\n", att.Title, att.Summary)
	}

	b.WriteString(`
## Instructions
Based on the above event details, please propose:
- Tasks that should be completed before the event starts
- The duration required for each task
- Points to keep in mind for each task

`)
	b.WriteString(generateOutputFormat)
	return b.String()
}
