package ingestion

import "time"

// FileReport describes one processed input file.
type FileReport struct {
	// Path is the file as discovered.
	Path string

	// Records is the number of mappings extracted from the file.
	Records int

	// Lines is the number of lines read.
	Lines int

	// Digest is the hex blake2b-256 of the bytes read.
	Digest string
}

// SkippedFile is an input file that could not be read.
type SkippedFile struct {
	Path string
	Err  error
}

// Report summarizes an ingestion run. A Report is returned even when the
// run fails, describing the work done up to the failure.
type Report struct {
	// SourceDir is where the files were found; "." after a fallback to
	// the working directory and empty when no files were found.
	SourceDir string

	// FellBack is true when input came from the working directory.
	FellBack bool

	Files        []FileReport
	SkippedFiles []SkippedFile

	// TotalRecords is the number of records committed to the store.
	TotalRecords int

	// Batches is the number of committed transactions.
	Batches int

	Elapsed time.Duration
	State   State
}

// Extracted returns the number of records read across all files, which
// can be larger than TotalRecords when the run failed.
func (r *Report) Extracted() int {
	n := 0
	for _, f := range r.Files {
		n += f.Records
	}
	return n
}
