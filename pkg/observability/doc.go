/*
Package observability turns engine lifecycle events into Prometheus metrics
and structured log lines.

Hooks from several sources can be combined with Chain and passed to the
engine through WithHooks.
*/
package observability
