package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"mediaconverter/api/model"
	"mediaconverter/converter"
	img "mediaconverter/converter/image"
	"mediaconverter/journal"
	"mediaconverter/mirror"
	"mediaconverter/operation"
	"mediaconverter/shared/log"
	"mediaconverter/shared/workspace"
)

const (
	sniffLen     = 512
	fallbackName = "upload"
)

type Dispatcher interface {
	Convert(ctx context.Context, id, input, outDir string, raw converter.RawParams) (converter.Artifact, error)
}

type ConvertService struct {
	workspaces *workspace.Manager
	dispatcher Dispatcher
	journal    journal.Journal
	mirror     mirror.Mirror
	logger     *zap.Logger
}

func NewConvertService(ws *workspace.Manager, d Dispatcher, j journal.Journal, m mirror.Mirror, logger *zap.Logger) *ConvertService {
	if j == nil {
		j = journal.Nop{}
	}
	if m == nil {
		m = mirror.Nop{}
	}
	return &ConvertService{workspaces: ws, dispatcher: d, journal: j, mirror: m, logger: logger}
}

// Convert persists the upload into a fresh workspace, runs the operation and
// returns the artifact as a stream. The workspace lives until the stream is closed.
func (s *ConvertService) Convert(ctx context.Context, req model.ConvertRequest) (*model.ConvertResponse, error) {
	logger := log.LoggerWithTrace(ctx, s.logger)

	op, err := converter.Lookup(req.Operation)
	if err != nil {
		return nil, err
	}
	if req.File == nil {
		return nil, converter.NoFileUploaded()
	}

	name := SanitizeFilename(req.Filename)
	upload := bufio.NewReaderSize(req.File, sniffLen)
	head, err := upload.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(head) == 0 {
		return nil, converter.NoFileUploaded()
	}
	if !accepts(op, name, head) {
		return nil, converter.UnsupportedConversion(fmt.Sprintf("%s expects %s input", op.Title, describeAccept(op)))
	}

	ws, err := s.workspaces.Acquire()
	if err != nil {
		return nil, err
	}
	handedOff := false
	defer func() {
		if handedOff {
			return
		}
		if err := ws.Release(); err != nil {
			logger.Warn("Error releasing workspace", zap.String("workspace", ws.ID), zap.Error(err))
		}
	}()

	entry := journal.Entry{RequestID: ws.ID, Operation: req.Operation, InputName: name}
	started := time.Now()

	input := filepath.Join(ws.InputDir(), name)
	entry.InputSize, err = saveUpload(input, upload)
	if err != nil {
		return nil, err
	}

	logger.Debug("Converting upload",
		zap.String("workspace", ws.ID),
		zap.String("operation", req.Operation),
		zap.String("input", name),
		zap.Int64("size", entry.InputSize),
	)

	artifact, err := s.dispatcher.Convert(ctx, req.Operation, input, ws.OutputDir(), converter.RawParams{
		"width":  req.Width,
		"height": req.Height,
	})
	entry.DurationMs = time.Since(started).Milliseconds()
	if err != nil {
		entry.Error = err.Error()
		var cerr *converter.Error
		if errors.As(err, &cerr) {
			entry.ErrorType = string(cerr.Type)
		}
		s.record(ctx, logger, entry)
		return nil, err
	}

	f, err := os.Open(artifact.Path)
	if err != nil {
		return nil, fmt.Errorf("opening artifact: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat artifact: %w", err)
	}

	if _, err := s.mirror.Put(ctx, ws.ID, artifact.Path, artifact.ContentType); err != nil {
		logger.Warn("Error mirroring artifact", zap.String("workspace", ws.ID), zap.Error(err))
	}

	entry.Artifact = artifact.Name
	entry.ArtifactSize = info.Size()
	s.record(ctx, logger, entry)

	handedOff = true
	return &model.ConvertResponse{
		Type:               artifact.ContentType,
		ContentLength:      info.Size(),
		ContentDisposition: contentDisposition(artifact.Name),
		Body:               &artifactBody{File: f, ws: ws, logger: logger},
	}, nil
}

func (s *ConvertService) record(ctx context.Context, logger *zap.Logger, e journal.Entry) {
	if err := s.journal.Record(ctx, e); err != nil {
		logger.Warn("Error recording conversion", zap.String("workspace", e.RequestID), zap.Error(err))
	}
}

// artifactBody closes the artifact and then removes the workspace holding it.
type artifactBody struct {
	*os.File
	ws     *workspace.Workspace
	logger *zap.Logger
}

func (b *artifactBody) Close() error {
	err := b.File.Close()
	if rerr := b.ws.Release(); rerr != nil {
		b.logger.Warn("Error releasing workspace", zap.String("workspace", b.ws.ID), zap.Error(rerr))
	}
	return err
}

func saveUpload(path string, r io.Reader) (int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("saving upload: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("saving upload: %w", err)
	}
	return n, nil
}

// SanitizeFilename keeps the base name of an uploaded file, turns spaces into
// underscores and drops everything except letters, digits and "._-".
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	out := b.String()
	if out == "" || out == "." || out == ".." {
		return fallbackName
	}
	return out
}

// contentDisposition quotes ASCII names directly and uses the RFC 2231
// extended form for anything else.
func contentDisposition(name string) string {
	for _, r := range name {
		if r > unicode.MaxASCII {
			return mime.FormatMediaType("attachment", map[string]string{"filename": name})
		}
	}
	return fmt.Sprintf("attachment; filename=%q", name)
}

func accepts(op operation.Operation, name string, head []byte) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if op.AcceptsPDF() {
		return ext == operation.AcceptPDF
	}

	if img.IsImage(head) {
		return true
	}
	return strings.HasPrefix(mime.TypeByExtension(ext), "image/")
}

func describeAccept(op operation.Operation) string {
	if op.AcceptsPDF() {
		return "a PDF"
	}
	return "an image"
}
