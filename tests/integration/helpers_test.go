// Package integration exercises the full stack: fixture loading, the engine,
// and the HTTP API against a real SQLite store.
package integration

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ohler55/ojg/oj"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/strata/internal/httpapi"
	"github.com/mesh-intelligence/strata/internal/sqlite"
	"github.com/mesh-intelligence/strata/pkg/engine"
	"github.com/mesh-intelligence/strata/pkg/types"
)

// fixtureYAML defines a small article type system: two span types (one a
// subtype of the other), a paragraph block holding a span list, and an
// info box carrying an enum level.
const fixtureYAML = `enum_types:
  - enum_id: 1
    items: ["h2", "h3"]
asset_types:
  - type_id: 4
    name: span-regular
    schema:
      text: 1
    templates:
      raw: "{{text}}"
  - type_id: 5
    name: span-emphasized
    parent: span-regular
    schema:
      text: 1
    templates:
      raw: "*{{text}}*"
  - type_id: 6
    name: block-paragraph
    schema:
      spans: [4]
    templates:
      raw: "{{for(spans)}}{{spans}}{{endfor}}\n\n"
  - type_id: 7
    name: block-info-box
    schema:
      title: 1
      level: {"3": 1}
      spans: [4]
`

// setupBackend creates a backend attached to an isolated temp directory and
// loads the article fixture into it.
func setupBackend(t *testing.T) *sqlite.Backend {
	t.Helper()
	b := sqlite.NewBackend()
	if err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	t.Cleanup(func() { b.Detach() })

	if err := b.LoadFixtures(writeFixture(t)); err != nil {
		t.Fatalf("LoadFixtures: %v", err)
	}
	return b
}

// writeFixture writes the article fixture to a temp file and returns its path.
func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "types.yaml")
	if err := os.WriteFile(path, []byte(fixtureYAML), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

// setupEngine builds an engine on a fixture-loaded backend.
func setupEngine(t *testing.T) (*engine.Engine, *sqlite.Backend) {
	t.Helper()
	b := setupBackend(t)
	eng, err := engine.New(b, zerolog.Nop())
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return eng, b
}

// setupServer builds the HTTP API on a fixture-loaded backend.
func setupServer(t *testing.T) (*httpapi.Server, *sqlite.Backend) {
	t.Helper()
	eng, b := setupEngine(t)
	s := httpapi.New(eng, b, httpapi.Config{Addr: ":0"}, zerolog.Nop())
	return s, b
}

// request performs an in-process HTTP request against the server router.
func request(t *testing.T, s *httpapi.Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

// requestJSON performs a request and decodes the JSON object response.
func requestJSON(t *testing.T, s *httpapi.Server, method, target, body string) map[string]any {
	t.Helper()
	w := request(t, s, method, target, body)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: status %d, body %s", method, target, w.Code, w.Body.String())
	}
	parsed, err := oj.ParseString(w.Body.String())
	if err != nil {
		t.Fatalf("parsing response of %s %s: %v", method, target, err)
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		t.Fatalf("%s %s: expected JSON object, got %T", method, target, parsed)
	}
	return obj
}

// saveAsset posts an asset tree and returns the assigned id.
func saveAsset(t *testing.T, s *httpapi.Server, tree string) string {
	t.Helper()
	saved := requestJSON(t, s, http.MethodPost, "/api/asset", tree)
	if saved["success"] != true {
		t.Fatalf("save did not succeed: %v", saved)
	}
	id, ok := saved["id"].(string)
	if !ok {
		t.Fatalf("save returned no id: %v", saved)
	}
	return id
}

// fetchAssets returns all asset rows matching the filter.
func fetchAssets(t *testing.T, b *sqlite.Backend, filter types.Filter) []*types.Asset {
	t.Helper()
	tbl, err := b.GetTable(types.AssetsTable)
	if err != nil {
		t.Fatalf("GetTable(assets): %v", err)
	}
	rows, err := tbl.Fetch(filter)
	if err != nil {
		t.Fatalf("Fetch assets: %v", err)
	}
	assets := make([]*types.Asset, len(rows))
	for i, row := range rows {
		a, ok := row.(*types.Asset)
		if !ok {
			t.Fatalf("expected *types.Asset, got %T", row)
		}
		assets[i] = a
	}
	return assets
}
