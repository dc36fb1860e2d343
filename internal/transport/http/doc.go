// Package http contains the chi handlers of the dashboard API. Handlers stay
// thin: they parse and validate request parameters, delegate to the service
// layer, map service sentinels onto API error codes, and render JSON (or CSV,
// Excel, and PNG for the export and chart routes).
package http
