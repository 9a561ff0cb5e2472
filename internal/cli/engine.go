package cli

import (
	"fmt"

	"hirescan/internal/config"
	"hirescan/internal/errors"
	"hirescan/internal/export"
)

// buildEngine assembles the export engine from the page and font
// configuration. Fonts without configured paths fall back to the
// builtin faces.
func buildEngine(cfg *config.Config, logger *errors.Logger) (*export.Engine, error) {
	fonts, err := export.LoadFonts(cfg.Export.Fonts.Regular, cfg.Export.Fonts.Bold)
	if err != nil {
		return nil, fmt.Errorf("failed to load fonts: %w", err)
	}

	engine, err := export.NewEngine(pageGeometry(cfg.Export.Page), fonts, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create export engine: %w", err)
	}
	return engine, nil
}

// pageGeometry maps the page configuration onto the engine geometry
func pageGeometry(p config.PageConfig) export.Geometry {
	return export.Geometry{
		PageWidthMm:    p.WidthMm,
		PageHeightMm:   p.HeightMm,
		TopMarginMm:    p.TopMarginMm,
		BottomMarginMm: p.BottomMarginMm,
		LeftMarginMm:   p.LeftMarginMm,
		RightMarginMm:  p.RightMarginMm,
		SafetyMarginMm: p.SafetyMarginMm,
		ContentWidthPx: p.ContentWidthPx,
		Scale:          p.Scale,
	}
}
