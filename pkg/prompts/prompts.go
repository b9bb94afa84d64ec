package prompts

import (
	"fmt"
	"strings"
)

// PlanFile is the view of a planned file the prompts need. It mirrors
// planner.FileSpec without importing it.
type PlanFile struct {
	Path        string
	Description string
}

// maxRequestInPrompt bounds how much of the user's request is echoed into
// per-file prompts.
const maxRequestInPrompt = 800

// PlannerPrompt asks for the project plan as a bare JSON array.
func PlannerPrompt(request string) string {
	return "You are the Planner Agent of a local code generation system.\n" +
		"Break the user request into the files of a small Python project.\n" +
		"Return ONLY a JSON array. No markdown, no comments, no extra text.\n" +
		"Each element must have exactly two string fields:\n" +
		"  \"path\": a relative file path such as \"main.py\" or \"app/utils.py\"\n" +
		"  \"description\": what the file must contain\n" +
		"Rules:\n" +
		"- The program must start from a file named main.py.\n" +
		"- Paths are relative, never absolute, never contain \"..\".\n" +
		"- Each path appears once.\n" +
		"- Keep the project small; only the standard library is available.\n\n" +
		"Example:\n" +
		"[{\"path\": \"main.py\", \"description\": \"entry point that prints a greeting\"}]\n\n" +
		"User request:\n" + request + "\n"
}

// PlannerRetryPrompt repeats the plan request after an invalid reply.
func PlannerRetryPrompt(request, problem string) string {
	return PlannerPrompt(request) +
		"\nYour previous output was invalid JSON for this schema (" + problem + ").\n" +
		"Reply again with only the JSON array.\n"
}

// CoderPrompt asks for the full content of one planned file, with the whole
// plan as context so files agree on names and interfaces.
func CoderPrompt(target PlanFile, plan []PlanFile, request string) string {
	var b strings.Builder
	b.WriteString("You are the Coder Agent of a local code generation system.\n")
	b.WriteString("Write the complete content of one file of the project below.\n")
	b.WriteString("Return only the raw file content.\n")
	b.WriteString("Do not include markdown fences.\n")
	b.WriteString("Do not include explanations.\n\n")
	b.WriteString("Project files:\n")
	for _, f := range plan {
		marker := " "
		if f.Path == target.Path {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", marker, f.Path, f.Description)
	}
	fmt.Fprintf(&b, "\nTarget file: %s\n", target.Path)
	fmt.Fprintf(&b, "Task description: %s\n", target.Description)
	if request = strings.TrimSpace(request); request != "" {
		if len(request) > maxRequestInPrompt {
			request = request[:maxRequestInPrompt]
		}
		fmt.Fprintf(&b, "Original user request: %s\n", request)
	}
	return b.String()
}

// DebuggerPrompt asks for a corrected version of a file that failed to run.
func DebuggerPrompt(fileName, original, diagnostic string) string {
	return "You are the Debugger Agent of a local code generation system.\n" +
		"The file below failed when executed. Fix it according to the error.\n" +
		"Return only the corrected full file content.\n" +
		"Do not include markdown fences.\n" +
		"Do not include explanations.\n\n" +
		"Target file: " + fileName + "\n" +
		"Error output:\n" + strings.TrimSpace(diagnostic) + "\n\n" +
		"Original file content:\n" + original + "\n"
}
