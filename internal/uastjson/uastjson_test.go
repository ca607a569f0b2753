package uastjson

import (
	"testing"

	"glyph/internal/uast"
)

func TestDecodeMinimalPackage(t *testing.T) {
	raw := []byte(`{
		"files": [
			{
				"path": "root.glyph",
				"items": [
					{
						"kind": "type",
						"name": "Bool",
						"variants": [
							{ "name": "True" },
							{ "name": "False" }
						]
					},
					{
						"kind": "let",
						"name": "x",
						"value": { "kind": "name", "components": [ { "text": "True" } ] }
					}
				]
			}
		]
	}`)

	decoded, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(decoded.Files))
	}
	file := decoded.Files[0]
	if len(file.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(file.Items))
	}

	typeItem := file.Items[0]
	if typeItem.Kind != uast.ItemType {
		t.Errorf("items[0].Kind = %v, want ItemType", typeItem.Kind)
	}
	letItem := file.Items[1]
	if letItem.Kind != uast.ItemLet {
		t.Errorf("items[1].Kind = %v, want ItemLet", letItem.Kind)
	}

	nameData, ok := letItem.Value.Data.(uast.NameData)
	if !ok {
		t.Fatalf("let value Data = %T, want uast.NameData", letItem.Value.Data)
	}
	if len(nameData.Components) != 1 {
		t.Fatalf("expected 1 name component, got %d", len(nameData.Components))
	}
	text, ok := decoded.Strings.Lookup(nameData.Components[0].Text)
	if !ok || text != "True" {
		t.Errorf("name component text = %q (ok=%v), want \"True\"", text, ok)
	}
}

func TestDecodeRejectsEmptyPackage(t *testing.T) {
	if _, err := Decode([]byte(`{"files": []}`)); err == nil {
		t.Fatal("expected an error for a package with no files, got nil")
	}
}

func TestDecodeRejectsDuplicatePaths(t *testing.T) {
	raw := []byte(`{
		"files": [
			{ "path": "a.glyph", "items": [] },
			{ "path": "a.glyph", "items": [] }
		]
	}`)
	if _, err := Decode(raw); err == nil {
		t.Fatal("expected an error for duplicate file paths, got nil")
	}
}

func TestDecodeRejectsMultipleRootlessFiles(t *testing.T) {
	raw := []byte(`{
		"files": [
			{ "path": "a.glyph", "items": [] },
			{ "path": "b.glyph", "items": [] }
		]
	}`)
	if _, err := Decode(raw); err == nil {
		t.Fatal("expected an error when more than one file has no parent, got nil")
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	if _, err := Decode([]byte(`{not json`)); err == nil {
		t.Fatal("expected an error for malformed JSON, got nil")
	}
}

func TestDecodeRejectsUnknownExprKind(t *testing.T) {
	raw := []byte(`{
		"files": [
			{
				"path": "root.glyph",
				"items": [
					{ "kind": "let", "name": "x", "value": { "kind": "bogus" } }
				]
			}
		]
	}`)
	if _, err := Decode(raw); err == nil {
		t.Fatal("expected an error for an unrecognized expr kind, got nil")
	}
}
