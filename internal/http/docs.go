package http

import (
	_ "embed"
	"log"
	"net/http"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// ServeDocs returns the OpenAPI description of the /api/v1 surface.
func ServeDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(openAPIDocument); err != nil {
		log.Printf("failed to write docs: %v", err)
	}
}
