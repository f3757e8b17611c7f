/*
Package observability provides Prometheus instrumentation for the command pipeline.

Metrics are registered on a caller-supplied registry so that several services
(and tests) can coexist in one process without colliding on the default registry.
*/
package observability
