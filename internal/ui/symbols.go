package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess   = "✓" // Node responded
	SymbolFail      = "✗" // Node query failed
	SymbolPrincipal = "*" // Marks the cluster principal row
)
