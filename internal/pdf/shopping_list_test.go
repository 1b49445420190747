package pdf

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewShoppingListRenderer_MissingFont(t *testing.T) {
	_, err := NewShoppingListRenderer(filepath.Join(t.TempDir(), "nope.ttf"))
	if err == nil {
		t.Fatal("expected error for missing font file")
	}
}

func TestNewShoppingListRenderer_ExistingFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "font.ttf")
	if err := os.WriteFile(path, []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}

	renderer, err := NewShoppingListRenderer(path)
	if err != nil {
		t.Fatalf("NewShoppingListRenderer returned error: %v", err)
	}
	if renderer == nil {
		t.Fatal("renderer is nil")
	}
}

func TestRender_InvalidFontData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "font.ttf")
	if err := os.WriteFile(path, []byte("not a real ttf"), 0o644); err != nil {
		t.Fatal(err)
	}

	renderer, err := NewShoppingListRenderer(path)
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
	if _, err := renderer.Render(nil); err == nil {
		t.Error("expected render error for a corrupt font file")
	}
}
