// Package api holds the published API documents.
package api

import _ "embed"

// UserSwaggerJSON is the OpenAPI 2.0 document of the HTTP API.
//
//go:embed swagger/user.swagger.json
var UserSwaggerJSON []byte
