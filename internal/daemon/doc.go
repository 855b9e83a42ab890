// Package daemon runs the framegate HTTP service: it enforces
// single-instance execution through a lock file, owns the component
// lifecycles, and serves the JSON API.
package daemon
