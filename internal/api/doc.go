// Package api implements the HTTP surface of the task service: request
// validation with closed schemas, handlers mapping core results and errors to
// status codes, and the error taxonomy translation.
package api
