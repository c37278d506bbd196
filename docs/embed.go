// Package docs embeds the OpenAPI description of the Vermy HTTP API.
package docs

import _ "embed"

// OpenAPI is the API description served at /openapi.yaml
//
//go:embed openapi.yaml
var OpenAPI []byte

// OpenAPIPath is where the description is served
const OpenAPIPath = "/openapi.yaml"
