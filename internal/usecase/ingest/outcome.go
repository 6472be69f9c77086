package ingest

// Status is the terminal state of one document's pipeline.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusPartial   Status = "partial"
	StatusFailed    Status = "failed"
)

// Skip names one dependent record that failed validation and was left out.
type Skip struct {
	Record string
	Reason string
}

// Outcome is the per-document result. Reason is set only for StatusFailed.
type Outcome struct {
	Source string
	Status Status
	Skips  []Skip
	Reason string
}

type Failure struct {
	Source string
	Reason string
}

// Summary aggregates a batch run. Failures is sufficient to locate and
// re-run just the failed sources.
type Summary struct {
	Succeeded int
	Partial   int
	Failed    int
	Failures  []Failure
}

func (s *Summary) add(outcome Outcome) {
	switch outcome.Status {
	case StatusSucceeded:
		s.Succeeded++
	case StatusPartial:
		s.Partial++
	case StatusFailed:
		s.Failed++
		s.Failures = append(s.Failures, Failure{Source: outcome.Source, Reason: outcome.Reason})
	}
}
