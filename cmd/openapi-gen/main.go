// Command openapi-gen writes the OpenAPI document for the users API, the file
// a BYOSnap ships so the gateway knows each endpoint's auth types.
package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/snapser-community/snapser-byosnaps/internal/domain/authz"
	"github.com/snapser-community/snapser-byosnaps/internal/openapi"
)

func main() {
	out := flag.String("out", "swagger.json", "output file; a .yaml or .yml suffix writes YAML")
	prefix := flag.String("prefix", "byosnap-basic", "snap id used as the /v1/{prefix} path segment")
	title := flag.String("title", "BYOSnap Basic", "document title")
	version := flag.String("version", "1.0.0", "document version")
	flag.Parse()

	table, err := authz.NewRouteTable(authz.DefaultRoutes(*prefix)...)
	if err != nil {
		log.Fatalf("Invalid route table: %v", err)
	}

	doc := openapi.Build(openapi.Info{
		Title:       *title,
		Description: "BYOSnap users API",
		Version:     *version,
	}, table)

	var data []byte
	if strings.HasSuffix(*out, ".yaml") || strings.HasSuffix(*out, ".yml") {
		data, err = doc.YAML()
	} else {
		data, err = doc.JSON()
	}
	if err != nil {
		log.Fatalf("Failed to render document: %v", err)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	log.Printf("Wrote %d operations to %s", len(table.Routes()), *out)
}
