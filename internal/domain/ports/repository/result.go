package repository

// ResultStore persists one result record per job id on durable storage.
type ResultStore interface {
	// Save serializes v and writes it under the job id, overwriting any
	// previous record.
	Save(id string, v any) error

	// Load reads the record into the given value. A missing record is
	// reported as found=false, not as an error.
	Load(id string, into any) (found bool, err error)
}
