package prompts

import (
	"fmt"
	"time"
)

// --- Run Messages ---
func EnterProjectRequest() string {
	return "Enter project request: "
}

func RequestRequired() string {
	return "A project request is required. Pass it as an argument or on standard input."
}

func PlanningStarted(model string) string {
	return fmt.Sprintf("🧭 Planning project with %s...", model)
}

func PlanRejected(reason string) string {
	return fmt.Sprintf("⚠️  Plan rejected (%s); asking once more...", reason)
}

func PlanReady(files int, dir string) string {
	return fmt.Sprintf("📋 Plan ready: %d file(s) -> %s", files, dir)
}

func GeneratingFile(index, total int, path string) string {
	return fmt.Sprintf("✍️  [%d/%d] Generating %s...", index, total, path)
}

func RunningEntry(path string) string {
	return fmt.Sprintf("▶️  Running %s...", path)
}

func ExecutionFailed(outcome string, duration time.Duration) string {
	return fmt.Sprintf("❌ Execution %s after %s; attempting one automated fix...", outcome, duration.Round(time.Millisecond))
}

func RerunningAfterFix(path string) string {
	return fmt.Sprintf("🔁 Re-running %s after fix...", path)
}

func ExecutionSucceeded(duration time.Duration) string {
	return fmt.Sprintf("✅ Execution succeeded in %s", duration.Round(time.Millisecond))
}

// --- Check Messages ---
func ServerReachable(url string) string {
	return fmt.Sprintf("Ollama server is reachable at %s.", url)
}

func ServerUnavailable(url string, err error) string {
	return fmt.Sprintf("Ollama server unavailable at %s: %v", url, err)
}

func ModelAvailable(model string) string {
	return fmt.Sprintf("Model '%s' is available.", model)
}

func ModelMissing(model string, available []string) string {
	return fmt.Sprintf("Model '%s' not found (installed: %v). Run: ollama pull %s", model, available, model)
}

func ConfigWarning(warning string) string {
	return fmt.Sprintf("config warning: %s", warning)
}
