// Package devtools observes a ripple runtime from the outside: Prometheus
// metrics, OpenTelemetry flush tracing, an HTTP/WebSocket graph inspector,
// and an S3 snapshot archiver.
//
// Everything plugs in through ripple.Instruments and ripple's snapshot
// surface; nothing here touches graph internals. The runtime stays
// single-threaded: instrument hooks fire on its thread and hand plain
// data to the server goroutines.
package devtools
