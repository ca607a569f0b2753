package main

import (
	"fmt"
	"os"

	"glyph/internal/corepipeline"
	"glyph/internal/uastjson"
)

// loadPackage reads and decodes the JSON package description at path (see
// internal/uastjson): the file list, their items, and the mod-tree shape a
// real lexer/parser/AST-simplifier collaborator would otherwise hand the
// core.
func loadPackage(path string) (*uastjson.Decoded, error) {
	// #nosec G304 -- path is a CLI argument the operator supplies
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	decoded, err := uastjson.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return decoded, nil
}

// runPipeline decodes the package at path and pushes it through
// corepipeline.Run.
func runPipeline(path string) (*uastjson.Decoded, corepipeline.Result, error) {
	decoded, err := loadPackage(path)
	if err != nil {
		return nil, corepipeline.Result{}, err
	}
	result := corepipeline.Run(decoded.Strings, decoded.Tree, decoded.Files, decoded.ExtraDeps)
	return decoded, result, nil
}
