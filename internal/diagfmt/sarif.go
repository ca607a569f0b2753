package diagfmt

import (
	"glyph/internal/diag"
	"glyph/internal/source"
	"io"
)

// Sarif принимает те же входные данные, что Pretty и JSON, но ничего не
// пишет в w: SARIF-документ не формируется.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) {
	// TODO: реализовать SARIF форматирование
	_ = w
	_ = bag
	_ = fs
	_ = meta
}
