// Package services implements the business logic layer between the HTTP
// handlers and the dataset pipeline. Services validate input, run the
// analytics functions over the merged table, and translate dataset errors
// into the sentinel errors the handlers map to API responses.
package services
