package models

// CheckResult is the outcome of a single policy check. Name identifies the
// brand and rule, Details carries the human-readable evidence that is printed
// in the report and in the JSON artifact.
type CheckResult struct {
	OK      bool   `json:"ok"`
	Name    string `json:"name"`
	Details string `json:"details"`
}

// Pass builds a passing result.
func Pass(name, details string) CheckResult {
	return CheckResult{OK: true, Name: name, Details: details}
}

// Fail builds a failing result.
func Fail(name, details string) CheckResult {
	return CheckResult{OK: false, Name: name, Details: details}
}
