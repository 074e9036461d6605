package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"mediaconverter/converter/image/format"
	"mediaconverter/operation"
	"mediaconverter/shared/log"
)

var tracer = otel.Tracer("mediaconverter/converter")

// Job is one conversion: the input file, where outputs go, and typed parameters.
type Job struct {
	Kind   operation.Kind
	Input  string
	OutDir string
	Params Params
}

// Routine produces one or more output files, in order, inside job.OutDir.
type Routine interface {
	Run(ctx context.Context, job Job) ([]string, error)
}

// Artifact is the single file handed back for a successful conversion.
type Artifact struct {
	Path        string
	Name        string
	ContentType string
}

type route struct {
	parse func(RawParams) (Params, error)
	run   Routine
}

type Options struct {
	Timeout     time.Duration
	RasterDPI   float64
	SofficePath string
	JpegQuality int
	AvifQuality int
	// MaxPixels bounds decoded, rendered and resized images. Zero disables the check.
	MaxPixels int64
}

// abandonGrace is how long a timed out routine gets to notice cancellation
// before its output directory is cleared underneath it.
const abandonGrace = 5 * time.Second

type Dispatcher struct {
	routes  map[operation.Kind]route
	timeout time.Duration
	logger  *zap.Logger
}

// MustDispatcher builds the route table and panics if an operation in the
// registry has no route.
func MustDispatcher(opts Options, logger *zap.Logger) *Dispatcher {
	d, err := newDispatcher(opts, logger, osExecutor{})
	if err != nil {
		panic(err)
	}
	return d
}

func newDispatcher(opts Options, logger *zap.Logger, ex executor) (*Dispatcher, error) {
	formats := format.MustStrategy(format.Options{JpegQuality: opts.JpegQuality, AvifQuality: opts.AvifQuality}, logger)
	png, err := formats.Apply(format.PNG)
	if err != nil {
		return nil, err
	}

	encode := func(f format.Format) route {
		return route{parse: parseNoParams, run: &imageRoute{formats: formats, format: f, maxPixels: opts.MaxPixels}}
	}

	routes := map[operation.Kind]route{
		operation.PdfToImage:  {parse: parseNoParams, run: &rasterizer{dpi: opts.RasterDPI, maxPixels: opts.MaxPixels, png: png, logger: logger}},
		operation.PdfToWord:   {parse: parseNoParams, run: newWordConverter(opts.SofficePath, ex, logger)},
		operation.ImageToJpg:  {parse: parseNoParams, run: &imageRoute{formats: formats, format: format.JPEG, maxPixels: opts.MaxPixels, transforms: flattenToRGB}},
		operation.ImageToPng:  encode(format.PNG),
		operation.ImageToBmp:  encode(format.BMP),
		operation.ImageToWbmp: {parse: parseNoParams, run: &imageRoute{formats: formats, format: format.WBMP, maxPixels: opts.MaxPixels, transforms: toMonochrome}},
		operation.ImageToIco:  encode(format.ICO),
		operation.ImageToSvg:  encode(format.SVG),
		operation.ResizeImage: {parse: resizeParser(opts.MaxPixels), run: &imageRoute{formats: formats, format: format.JPEG, suffix: resizedSuffix, maxPixels: opts.MaxPixels, transforms: resizeToRGB}},
		operation.ImageToWebp: encode(format.WEBP),
		operation.ImageToAvif: encode(format.AVIF),
	}

	for _, op := range operation.All() {
		if _, ok := routes[op.Kind]; !ok {
			return nil, fmt.Errorf("no conversion route for operation %s", op.Kind)
		}
	}

	return &Dispatcher{routes: routes, timeout: opts.Timeout, logger: logger}, nil
}

// Lookup validates an operation identifier against the registry.
func Lookup(id string) (operation.Operation, error) {
	op, err := operation.Lookup(id)
	if err != nil {
		return operation.Operation{}, UnknownOperation(id)
	}
	return op, nil
}

// Convert runs operation id on input, writing into outDir. It returns exactly
// one artifact or an *Error; on error outDir is left empty.
func (d *Dispatcher) Convert(ctx context.Context, id, input, outDir string, raw RawParams) (Artifact, error) {
	logger := log.LoggerWithTrace(ctx, d.logger)

	op, err := Lookup(id)
	if err != nil {
		logger.Debug("Rejected operation", zap.String("operation", id))
		return Artifact{}, err
	}

	r := d.routes[op.Kind]
	params, err := r.parse(raw)
	if err != nil {
		return Artifact{}, err
	}

	ctx, span := tracer.Start(ctx, "converter.convert", trace.WithAttributes(
		attribute.String("operation", id),
		attribute.String("input", filepath.Base(input)),
	))
	defer span.End()

	artifact, err := d.convert(ctx, r.run, Job{Kind: op.Kind, Input: input, OutDir: outDir, Params: params})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if cerr := emptyDir(outDir); cerr != nil {
			logger.Error("Error removing partial output", zap.Error(cerr))
		}
		logger.Warn("Conversion failed", zap.String("operation", id), zap.Error(err))
		return Artifact{}, err
	}

	logger.Debug("Conversion finished", zap.String("operation", id), zap.String("artifact", artifact.Name))
	return artifact, nil
}

func (d *Dispatcher) convert(ctx context.Context, run Routine, job Job) (Artifact, error) {
	paths, err := d.run(ctx, run, job)
	if err != nil {
		return Artifact{}, err
	}

	switch len(paths) {
	case 0:
		return Artifact{}, ConversionFailed(errors.New("conversion produced no output"))
	case 1:
		return Artifact{Path: paths[0], Name: filepath.Base(paths[0]), ContentType: contentTypeOf(paths[0])}, nil
	}

	archive := filepath.Join(job.OutDir, outputName(job.Input, "", archiveExtension))
	if err := zipFiles(archive, paths); err != nil {
		return Artifact{}, ConversionFailed(err)
	}
	for _, p := range paths {
		_ = os.Remove(p)
	}

	return Artifact{Path: archive, Name: filepath.Base(archive), ContentType: contentTypeOf(archive)}, nil
}

type outcome struct {
	paths []string
	err   error
}

// run is the failure boundary: routine errors and panics become *Error values
// and the routine is abandoned once the timeout expires.
func (d *Dispatcher) run(ctx context.Context, run Routine, job Job) ([]string, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				d.logger.Error("Conversion panicked", zap.Any("panic", p), zap.ByteString("stack", debug.Stack()))
				done <- outcome{err: fmt.Errorf("internal error: %v", p)}
			}
		}()
		paths, err := run.Run(ctx, job)
		done <- outcome{paths: paths, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			return nil, asError(o.err)
		}
		return o.paths, nil
	case <-ctx.Done():
		select {
		case <-done:
		case <-time.After(abandonGrace):
			d.logger.Warn("Conversion still running after cancellation", zap.String("input", filepath.Base(job.Input)))
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ConversionFailed(fmt.Errorf("timed out after %s", d.timeout))
		}
		return nil, ConversionFailed(ctx.Err())
	}
}

func asError(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ConversionFailed(err)
}

func emptyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

var contentTypes = map[string]string{
	archiveExtension: "application/zip",
	docxExtension:    "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func init() {
	for _, f := range format.All() {
		contentTypes[f.Extension()] = f.ContentType()
	}
}

func contentTypeOf(path string) string {
	if ct, ok := contentTypes[filepath.Ext(path)]; ok {
		return ct
	}
	return "application/octet-stream"
}
