// Package llm defines the provider-neutral contract of the adapter layer:
// the Adapter interface, the Request/Response envelopes shared by every
// vendor integration, the model capability tables used for validation and
// cost accounting, and the error taxonomy all vendor failures are
// normalized into.
//
// Vendor-specific translation lives under llm/providers; construction and
// registration live under llm/factory. Nothing in this package performs
// network I/O.
package llm
