// Package metrics provides conversion run metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so callers never nil-check:
//
//	orch := convert.NewOrchestrator(factory).WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// PrometheusRecorder registers its collectors on a private registry which the
// CLI can dump to a node-exporter textfile after each run.
package metrics
