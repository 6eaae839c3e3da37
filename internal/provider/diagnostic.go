package provider

// DiagnosticLevel classifies a Diagnostic.
type DiagnosticLevel string

const (
	// LevelDeprecation marks usage that still works but will be removed.
	LevelDeprecation DiagnosticLevel = "deprecation"

	// LevelWarning marks a non-fatal problem.
	LevelWarning DiagnosticLevel = "warning"
)

// Diagnostic is a non-fatal event raised while resolving configuration.
type Diagnostic struct {
	Level   DiagnosticLevel
	Message string
}

// DiagnosticSink receives diagnostics. Implementations decide whether to
// log, collect or drop them.
type DiagnosticSink interface {
	Emit(d Diagnostic)
}

// Diagnostics is a DiagnosticSink that collects every event in order.
type Diagnostics struct {
	Events []Diagnostic
}

// Emit appends d.
func (c *Diagnostics) Emit(d Diagnostic) {
	c.Events = append(c.Events, d)
}
