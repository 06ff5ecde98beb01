package docs

import (
	"strings"
	"testing"
)

func TestSwaggerInfoRegistered(t *testing.T) {
	if SwaggerInfo == nil {
		t.Fatal("swagger info not initialized")
	}
	if SwaggerInfo.Title != "Coinscope API" {
		t.Fatalf("unexpected title %q", SwaggerInfo.Title)
	}
}

func TestSwaggerDocumentsCoinRoutes(t *testing.T) {
	doc := SwaggerInfo.ReadDoc()
	for _, route := range []string{"/api/coins/resolve", "/api/coins/search", "/api/coins/{id}", "/api/coins/{id}/chart"} {
		if !strings.Contains(doc, `"`+route+`"`) {
			t.Fatalf("expected %s in swagger doc", route)
		}
	}
	if !strings.Contains(doc, "ta.Indicators") {
		t.Fatal("expected indicators definition in swagger doc")
	}
}
