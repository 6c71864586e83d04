package judge0

import "sort"

// Judge0 status identifiers. Anything at or above StatusAccepted is a
// terminal outcome; 1 and 2 mean the run is still queued or executing.
const (
	StatusInQueue           = 1
	StatusProcessing        = 2
	StatusAccepted          = 3
	StatusWrongAnswer       = 4
	StatusTimeLimitExceeded = 5
	StatusCompilationError  = 6
)

// languageIDs maps platform language names to Judge0 CE numeric ids.
var languageIDs = map[string]int{
	"javascript": 63, // Node.js 12.14.0
	"python":     71, // Python 3.8.1
	"java":       62, // OpenJDK 13.0.1
	"php":        68, // PHP 7.4.1
}

// LanguageID resolves a platform language name to its judge id.
func LanguageID(language string) (int, bool) {
	id, ok := languageIDs[language]
	return id, ok
}

// Languages returns the supported language names in alphabetical order.
func Languages() []string {
	names := make([]string, 0, len(languageIDs))
	for name := range languageIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunRequest is the submission payload for one test case execution.
type RunRequest struct {
	SourceCode     string  `json:"source_code"`
	LanguageID     int     `json:"language_id"`
	Stdin          string  `json:"stdin,omitempty"`
	ExpectedOutput string  `json:"expected_output,omitempty"`
	CPUTimeLimit   float64 `json:"cpu_time_limit,omitempty"`
	MemoryLimit    int     `json:"memory_limit,omitempty"`
}

// Status is the judge's categorical outcome for one run.
type Status struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Terminal reports whether the run has finished in any outcome.
func (s Status) Terminal() bool {
	return s.ID >= StatusAccepted
}

// Accepted reports whether the run's output matched the expectation.
func (s Status) Accepted() bool {
	return s.ID == StatusAccepted
}

// Result is the verdict fetched for a run token.
type Result struct {
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	CompileOutput string `json:"compile_output"`
	Message       string `json:"message"`
	Status        Status `json:"status"`
	Time          string `json:"time"`
	Memory        int    `json:"memory"`
}
