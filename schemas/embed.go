// Package schemas embeds the JSON Schemas for request and configuration documents.
package schemas

import "embed"

// Schema file names.
const (
	EnrichRequest = "enrich_request.schema.json"
	EnrichBatch   = "enrich_batch.schema.json"
	Config        = "config.schema.json"
)

// Files holds every *.schema.json in this directory.
//
//go:embed *.schema.json
var Files embed.FS

// Read returns the raw content of a schema file.
func Read(name string) ([]byte, error) {
	return Files.ReadFile(name)
}
