package naming

// Config holds the naming server's tuning knobs that matter to package
// naming itself, as opposed to transport/CLI concerns (SPEC_FULL.md
// section 4.8 owns the full Config surface; cmd.Execute translates it
// into this smaller struct when constructing a Server).
type Config struct {
	// ReplicationWorkers sizes the bounded replication worker pool
	// (spec.md section 4.5).
	ReplicationWorkers int

	// ReadHotThreshold is the cumulative-read-count trigger for
	// replication (spec.md section 4.3 step 3).
	ReadHotThreshold int
}

// DefaultConfig returns the naming package's defaults, matching
// SPEC_FULL.md section 4.8's Config.ReplicationWorkers=8 and
// Config.ReadHotThreshold=20 (spec.md section 8, scenario 2).
func DefaultConfig() Config {
	return Config{
		ReplicationWorkers: 8,
		ReadHotThreshold:   20,
	}
}
