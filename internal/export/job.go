package export

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hirescan/internal/errors"
	"hirescan/internal/types"
)

// Engine runs the full export pipeline: enumerate, measure, paginate,
// rasterize, assemble, name. A single engine serializes jobs through its
// mutex; a second Export while one is running fails fast instead of
// queueing, because both jobs would contend for the staging canvas.
type Engine struct {
	mu     sync.Mutex
	geo    Geometry
	fonts  *FontSet
	meas   *TextMeasurer
	logger *errors.Logger
}

func NewEngine(geo Geometry, fonts *FontSet, logger *errors.Logger) (*Engine, error) {
	meas, err := NewMeasurer(fonts, geo.ContentWidthPx)
	if err != nil {
		return nil, err
	}
	return &Engine{geo: geo, fonts: fonts, meas: meas, logger: logger}, nil
}

// ReloadFonts swaps in freshly loaded font files. Blocks until any
// running export finishes so a job never measures with one set and
// renders with another.
func (e *Engine) ReloadFonts(regularPath, boldPath string) error {
	fonts, err := LoadFonts(regularPath, boldPath)
	if err != nil {
		return err
	}
	meas, err := NewMeasurer(fonts, e.geo.ContentWidthPx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.fonts = fonts
	e.meas = meas
	return nil
}

// Ready reports whether the engine has usable font faces and can
// accept export jobs.
func (e *Engine) Ready() bool {
	return e != nil && e.fonts != nil && e.meas != nil
}

// Export produces the finished PDF for one request. The subject's name
// appears in failure logs so operators can retry the right candidate.
func (e *Engine) Export(ctx context.Context, req types.ExportRequest) (*types.ExportResult, error) {
	if !e.mu.TryLock() {
		return nil, errors.NewValidationError(errors.ErrCodeExportInFlight,
			"an export is already running, retry when it completes", nil)
	}
	defer e.mu.Unlock()

	start := time.Now()
	res, err := e.run(ctx, req)
	if err != nil {
		e.logger.LogError(err, "export failed",
			"kind", string(req.Kind),
			"candidate", req.Candidate.Name)
		return nil, err
	}

	e.logger.Info("export complete",
		"kind", string(req.Kind),
		"file", res.FileName,
		"pages", res.Pages,
		"duration_ms", time.Since(start).Milliseconds())
	return res, nil
}

func (e *Engine) run(ctx context.Context, req types.ExportRequest) (*types.ExportResult, error) {
	blocks := EnumerateRequest(req)
	if len(blocks) == 0 {
		return nil, errors.NewValidationError(errors.ErrCodeEmptyDocument,
			"nothing to export: the request produced no content", nil)
	}

	if err := MeasureAll(e.meas, blocks); err != nil {
		return nil, err
	}

	budget := e.geo.BudgetPx()
	pages := Paginate(blocks, budget)

	overflow := 0
	for i, p := range pages {
		if p.Overflow {
			overflow++
			e.logger.Warn("page content exceeds the printable area",
				"page", i+1,
				"height_px", p.CumulativeHeight,
				"budget_px", budget)
		}
	}

	raster := NewRasterizer(e.fonts, e.geo)
	defer raster.Close()

	images := make([]*PageImage, 0, len(pages))
	for i, p := range pages {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewInternalError(errors.ErrCodeRasterFailed,
				fmt.Sprintf("export canceled before page %d", i+1), err)
		}
		img, err := raster.RenderPage(p, i > 0)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}

	pdf, err := NewAssembler(e.geo).Assemble(images, req.Kind)
	if err != nil {
		return nil, err
	}

	return &types.ExportResult{
		FileName:      FileName(req),
		Pages:         len(pages),
		OverflowPages: overflow,
		PDF:           pdf,
	}, nil
}
