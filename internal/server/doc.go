// Package server exposes the latest per-entity CPU statistics as Prometheus
// metrics over HTTP. The exporter is optional and only started when a listen
// address is configured.
package server
