package download

// Task describes one artifact the queue must place on disk. Tasks are
// transient values built per acquisition pass.
type Task struct {
	// Name is a human-readable label for logs and status lines
	Name string

	// URL is the source address
	URL string

	// Dest is the absolute destination path
	Dest string

	// SHA1 is the expected hex digest; empty skips verification
	SHA1 string

	// Size is the expected byte count; negative means unknown
	Size int64

	// Priority orders admission within a batch, lowest first
	Priority int
}
