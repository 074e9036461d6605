package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"

	"mediaconverter/shared/log"
)

const docxExtension = ".docx"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
}

type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// wordConverter turns a PDF into a .docx with headless LibreOffice.
type wordConverter struct {
	bin    string
	exec   executor
	logger *zap.Logger
}

func newWordConverter(bin string, ex executor, logger *zap.Logger) *wordConverter {
	if bin == "" {
		return &wordConverter{exec: ex, logger: logger}
	}

	path, err := ex.LookPath(bin)
	if err != nil {
		logger.Warn("LibreOffice not found, pdf_to_word disabled", zap.String("soffice", bin), zap.Error(err))
		return &wordConverter{exec: ex, logger: logger}
	}

	return &wordConverter{bin: path, exec: ex, logger: logger}
}

func (w *wordConverter) Available() bool {
	return w.bin != ""
}

func (w *wordConverter) Run(ctx context.Context, job Job) ([]string, error) {
	if !w.Available() {
		return nil, UnsupportedConversion("PDF to Word conversion is not available on this server.")
	}
	logger := log.LoggerWithTrace(ctx, w.logger)

	// Each run gets its own profile so concurrent instances do not fight over the lock file.
	profile := filepath.Join(job.OutDir, ".soffice-profile")
	defer os.RemoveAll(profile)

	args := []string{
		"-env:UserInstallation=file://" + filepath.ToSlash(profile),
		"--headless",
		"--infilter=writer_pdf_import",
		"--convert-to", "docx:MS Word 2007 XML",
		"--outdir", job.OutDir,
		job.Input,
	}

	logger.Debug("Running LibreOffice", zap.String("bin", w.bin), zap.Strings("args", args))
	output, err := w.exec.CombinedOutput(ctx, w.bin, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("LibreOffice failed: %w, output: %s", err, output)
	}

	out := filepath.Join(job.OutDir, outputName(job.Input, "", docxExtension))
	if _, err := os.Stat(out); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("LibreOffice produced no document, output: %s", output)
		}
		return nil, err
	}

	return []string{out}, nil
}
