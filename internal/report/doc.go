// Package report renders an assessment document as markdown.
//
// Two formats are supported, selected by Mode:
//   - ModeGeneral: a summary with per-application severity statistics,
//     technology profiles and key findings (SummaryWriter)
//   - ModeAzureMigrate: a table of issues per deployment target
//     (IssueTableWriter)
//
// Aggregation (Summarize, Issues) is kept separate from rendering so the
// statistics can be reused by the run history without parsing markdown.
//
// All rendering is deterministic: groups, rules and targets are emitted in
// first-seen order, never in map iteration order.
package report
