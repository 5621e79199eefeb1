package swagger

import _ "embed"

// OpenAPI contains the embedded OpenAPI description of the dashboard API.
//
//go:embed openapi.yaml
var OpenAPI []byte
