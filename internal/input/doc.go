// Package input collects the values a new frame is generated from.
//
// # Overview
//
// Collector asks four questions through a Driver and re-asks each one until
// its validator accepts the answer:
//
//	collector := input.NewCollector(input.NewSurveyDriver())
//	inputs, err := collector.Collect(ctx)
//
// The seed phrase is read with a masked prompt and returned as a
// *secret.Phrase; the raw answer is never echoed or logged.
//
// # Non-Interactive Mode
//
// There is none. All values are gathered interactively; RequireTerminal
// fails fast when stdin is not a terminal.
package input
