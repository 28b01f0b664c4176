// Package pipeline turns dataset rows into inspection reports.
//
// Each record passes through a sequence of steps: summary extraction,
// body assembly and, when exporting, writing the rendered report to disk.
// Each stage is implemented as a Step that receives the record and can
// modify its report.
//
// Design decision: We use a pipeline pattern instead of direct function
// calls because:
// 1. Export and preview share the first steps and differ only at the end
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long batch exports
//
// Records are independent, so the BatchProcessor renders many of them
// concurrently with a bounded errgroup.
package pipeline
