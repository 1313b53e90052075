package widget

import (
	"os"
	"path/filepath"
	"testing"
)

const catalogYAML = `
widgets:
  - id: standup
    name: Standup Notes
    icon: "🗒"
    body: note
    sizes: [small, medium]
    default_size: medium
    settings:
      text:
        type: string
        default: "Yesterday / Today / Blockers"
`

func TestRegisterCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widgets.yaml")
	if err := os.WriteFile(path, []byte(catalogYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	r := NewRegistry()
	r.MustRegister(noteDescriptor(), newStub)
	if err := r.RegisterCatalog(c); err != nil {
		t.Fatalf("RegisterCatalog() error = %v", err)
	}

	d, ok := r.Lookup("standup")
	if !ok {
		t.Fatal("catalog widget not registered")
	}
	if d.DefaultSize != SizeMedium || d.Name != "Standup Notes" {
		t.Errorf("descriptor = %+v", d)
	}

	inst, err := r.CreateInstance("standup")
	if err != nil {
		t.Fatalf("CreateInstance() error = %v", err)
	}
	if inst.Settings["text"] != "Yesterday / Today / Blockers" {
		t.Errorf("settings = %v", inst.Settings)
	}
	if inst.Width != 400 || inst.Height != 300 {
		t.Errorf("size = %dx%d", inst.Width, inst.Height)
	}
}

func TestRegisterCatalogUnknownBody(t *testing.T) {
	c, err := ParseCatalog([]byte(catalogYAML))
	if err != nil {
		t.Fatal(err)
	}
	if err := NewRegistry().RegisterCatalog(c); err == nil {
		t.Fatal("RegisterCatalog() should fail when the body widget is missing")
	}
}

func TestParseCatalogInvalid(t *testing.T) {
	if _, err := ParseCatalog([]byte("widgets: [")); err == nil {
		t.Fatal("ParseCatalog() should fail on malformed YAML")
	}
}
