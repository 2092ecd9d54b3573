/*
Package observability provides tools for monitoring the regexrunner engine.

It exposes Prometheus collectors fed by engine lifecycle hooks and a logging
hook set that audits every run through slog.
*/
package observability
