package recorder

// NoopRecorder is a no-op implementation used when SQLite is not available.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunRecord) error               { return nil }
func (n *NoopRecorder) RecordAssignment(_ *AssignmentRecord) error { return nil }
func (n *NoopRecorder) Close() error                               { return nil }
