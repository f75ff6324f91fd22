package introspection

// DiagnosticKind classifies a dispatch diagnostic.
type DiagnosticKind string

const (
	DiagAmbiguousMethod      DiagnosticKind = "ambiguous-method"
	DiagAmbiguousConstructor DiagnosticKind = "ambiguous-constructor"
)

// Diagnostic is a structured record of a dispatch condition that is demoted
// to a miss but is still worth observing, such as an ambiguous overload set.
// Tests and embedders subscribe via Introspector.OnDiagnostic.
type Diagnostic struct {
	Kind       DiagnosticKind
	TypeName   string
	Signature  string
	Candidates []string
}

// DiagnosticFunc receives diagnostics. It must be safe for concurrent calls.
type DiagnosticFunc func(Diagnostic)
