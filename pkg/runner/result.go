package runner

import "time"

// FileOutcome is the result of rendering one source file.
type FileOutcome struct {
	// Path is the source file.
	Path string

	// Output is the file the render was written to.
	Output string

	// BytesIn and BytesOut are the source and HTML sizes.
	BytesIn  int
	BytesOut int

	// Written is false when the output already had identical content.
	Written bool

	Duration time.Duration

	// Error is set if the file could not be rendered or written.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesRendered   int
	FilesWritten    int
	FilesUnchanged  int
	FilesErrored    int
	BytesIn         int
	BytesOut        int
	Duration        time.Duration
}

// Result is the overall runner result.
type Result struct {
	// Files holds one outcome per discovered file, ordered by path.
	Files []FileOutcome

	Stats Stats
}

// HasFailures reports whether any file failed.
func (r *Result) HasFailures() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// Failures returns the failed outcomes.
func (r *Result) Failures() []FileOutcome {
	if r == nil {
		return nil
	}
	var out []FileOutcome
	for _, f := range r.Files {
		if f.Error != nil {
			out = append(out, f)
		}
	}
	return out
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesRendered++
	r.Stats.BytesIn += outcome.BytesIn
	r.Stats.BytesOut += outcome.BytesOut
	if outcome.Written {
		r.Stats.FilesWritten++
	} else {
		r.Stats.FilesUnchanged++
	}
}
