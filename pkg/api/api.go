// Package api holds the public HTTP/JSON schema of the hello service and a
// client for it. The server implementation lives in internal/api.
package api
