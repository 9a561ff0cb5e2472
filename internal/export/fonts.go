package export

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"hirescan/internal/errors"
)

// FontSet holds the parsed regular and bold faces used for both height
// measurement and rasterization. Faces are cached per size; the cache is
// safe for concurrent lookup, but a font.Face itself must only be drawn
// with by one goroutine at a time (the engine is single-flight).
type FontSet struct {
	regular *opentype.Font
	bold    *opentype.Font

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	sizePx float64
	bold   bool
}

// LoadFonts parses the configured font files. Empty paths fall back to
// the embedded Go fonts; a CJK-capable file must be configured for
// Chinese body text to render with real glyphs.
func LoadFonts(regularPath, boldPath string) (*FontSet, error) {
	regular, err := loadFont(regularPath, goregular.TTF)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeFontLoadFailed,
			fmt.Sprintf("Cannot load regular font %q", regularPath), err)
	}
	bold, err := loadFont(boldPath, gobold.TTF)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeFontLoadFailed,
			fmt.Sprintf("Cannot load bold font %q", boldPath), err)
	}

	return &FontSet{
		regular: regular,
		bold:    bold,
		faces:   make(map[faceKey]font.Face),
	}, nil
}

func loadFont(path string, fallback []byte) (*opentype.Font, error) {
	data := fallback
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
	}
	return opentype.Parse(data)
}

// Face returns a cached face at the given pixel size. Size is in pixels
// because all layout happens in the raster coordinate space (72 DPI makes
// point size equal pixel size).
func (fs *FontSet) Face(sizePx float64, bold bool) (font.Face, error) {
	key := faceKey{sizePx: sizePx, bold: bold}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if face, ok := fs.faces[key]; ok {
		return face, nil
	}

	src := fs.regular
	if bold {
		src = fs.bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	fs.faces[key] = face
	return face, nil
}
