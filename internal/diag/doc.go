// Package diag defines the diagnostic model shared by the term transforms
// and the graph codec.
//
// # Purpose
//
//   - Provide deterministic data structures that capture malformed-input
//     findings produced by codec Decode and the batch encode/decode paths.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting.
//
// # Scope
//
// Package diag performs no formatting or IO. There is no source-file
// model here: positions are bare byte offsets into an encoded stream
// (Diagnostic.Primary), not source.Span. Programmer errors — arity
// mismatches, empty Apply, missing binders — are not modelled as
// Diagnostics at all; those panic with a plain error, since they are
// invariant violations rather than reportable findings.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity — tri-level enum (Info, Warning, Error), severity.go.
//   - Code — compact numeric identifier (codes.go) with a stable string form.
//   - Message — human oriented text; keep it short and actionable.
//   - Primary — the byte offset in the encoded stream the finding refers to.
//   - Notes — optional secondary positions/messages for additional context.
//
// Notes should be used sparingly: each note must add new context (e.g.
// "reference declared here") rather than repeating the diagnostic message.
//
// # Emitting diagnostics
//
// Callers use a diag.Reporter to decouple emission from storage. Construct
// a ReportBuilder via NewReportBuilder (or the helpers ReportError /
// ReportWarning / ReportInfo), chain WithNote, and call Emit. When no
// extra metadata is needed, call Reporter.Report(...) directly.
// diag.BagReporter aggregates diagnostics into a Bag, which supports
// sorting, deduplication, and capacity limits — codec.DecodeAll and
// codec.EncodeAll collect one Bag per batch instead of aborting on the
// first malformed item.
package diag
