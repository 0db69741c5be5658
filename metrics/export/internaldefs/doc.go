// Package internaldefs holds the metric names, help strings and bucket
// boundaries shared by the Prometheus and OTel exporters.
//
// Changes here affect every exporter simultaneously.
//
// # What this package must NOT do
//
//   - Import any exporter package.
//   - Perform I/O.
package internaldefs
