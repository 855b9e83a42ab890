// Package api defines the JSON payload types shared by the HTTP server
// and the CLI's JSON output, plus converters from internal domain types.
package api
