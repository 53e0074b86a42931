// Package metrics exposes Prometheus collectors for remote storage calls.
//
// A *Metrics is passed to the storage connection with storage.WithRecorder;
// every remote call increments dms_storage_operations_total and observes
// dms_storage_operation_duration_seconds. Handler serves the registry on
// the Fiber app at /metrics.
package metrics
