package qrbatch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/prasetyowira/qrbatch/constant"
	"github.com/prasetyowira/qrbatch/infrastructure/cache"
	"github.com/prasetyowira/qrbatch/infrastructure/logger"
)

var ErrHistoryDisabled = errors.New(constant.ErrHistoryDisabled)

// Artifact describes one written QR image
type Artifact struct {
	Page     Page   `json:"page"`
	URL      string `json:"url"`
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
	Bytes    int    `json:"bytes"`
}

// GenerationRecord is a persisted Artifact tagged with the run that wrote it
type GenerationRecord struct {
	ID        uint      `json:"id"`
	RunID     string    `json:"run_id"`
	Page      Page      `json:"page"`
	URL       string    `json:"url"`
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	Bytes     int       `json:"bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Encoder turns content into PNG bytes
type Encoder interface {
	Encode(content string) ([]byte, error)
}

// History defines the persistence operations for generation records
type History interface {
	Record(ctx context.Context, rec *GenerationRecord) error
	Recent(ctx context.Context, limit int) ([]GenerationRecord, error)
}

// Service generates the page QR codes
type Service struct {
	encoder   Encoder
	history   History
	cache     *cache.ImageLRU
	outputDir string
	out       io.Writer
}

// NewService creates a new generator service. history and lru may be nil to
// disable recording and render caching. Status lines are written to out.
func NewService(encoder Encoder, history History, lru *cache.ImageLRU, outputDir string, out io.Writer) *Service {
	logger.Debug("Creating QR batch service", logger.LoggerInfo{
		ContextFunction: constant.CtxDomain,
		Data: map[string]interface{}{
			constant.DataService: "qrbatch",
			constant.DataDir:     outputDir,
		},
	})

	if out == nil {
		out = io.Discard
	}
	return &Service{
		encoder:   encoder,
		history:   history,
		cache:     lru,
		outputDir: outputDir,
		out:       out,
	}
}

// Generate writes one QR image per page into the output directory, creating
// it first if needed. Existing images are overwritten. The first failure
// aborts the batch; artifacts written so far are returned with the error.
func (s *Service) Generate(ctx context.Context, baseURL string) ([]Artifact, error) {
	if logger.RequestID(ctx) == "" {
		ctx = logger.NewRunContext(ctx)
	}

	logger.CtxDebug(ctx, "Generating page QR codes", logger.LoggerInfo{
		ContextFunction: constant.CtxGenerate,
		Data: map[string]interface{}{
			constant.DataBaseURL: baseURL,
			constant.DataDir:     s.outputDir,
		},
	})

	if err := s.ensureOutputDir(ctx); err != nil {
		return nil, err
	}

	artifacts := make([]Artifact, 0, len(pages))
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return artifacts, err
		}

		artifact, err := s.writePage(ctx, baseURL, page)
		if err != nil {
			return artifacts, err
		}
		artifacts = append(artifacts, artifact)
		fmt.Fprintf(s.out, constant.MsgCreatedFile, artifact.Path, artifact.URL)

		if err := s.record(ctx, artifact); err != nil {
			return artifacts, err
		}
	}

	fmt.Fprint(s.out, constant.MsgGeneratedSuccess)
	fmt.Fprint(s.out, constant.MsgUsageHeader)
	fmt.Fprint(s.out, constant.MsgUsageStep1)
	fmt.Fprint(s.out, constant.MsgUsageStep2)
	fmt.Fprint(s.out, constant.MsgUsageStep3)

	logger.CtxInfo(ctx, "Page QR codes generated", logger.LoggerInfo{
		ContextFunction: constant.CtxGenerate,
		Data: map[string]interface{}{
			constant.DataBaseURL: baseURL,
			constant.DataPages:   len(artifacts),
		},
	})

	return artifacts, nil
}

// Render returns the PNG for a single page without touching the output
// directory. Results are cached per base URL when a cache is configured.
func (s *Service) Render(ctx context.Context, baseURL, pageID string) ([]byte, error) {
	page, err := LookupPage(pageID)
	if err != nil {
		logger.CtxWarn(ctx, "Unknown page requested", logger.LoggerInfo{
			ContextFunction: constant.CtxRender,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeUnknownPage,
				Message: err.Error(),
				Type:    constant.ErrTypeValidation,
			},
			Data: map[string]interface{}{
				constant.DataPage: pageID,
			},
		})
		return nil, err
	}

	namespace := constant.PageImageNamespace + "|" + baseURL
	if s.cache != nil {
		if data, ok := s.cache.Get(namespace, string(page)); ok {
			logger.CtxDebug(ctx, "Page QR code served from cache", logger.LoggerInfo{
				ContextFunction: constant.CtxRender,
				Data: map[string]interface{}{
					constant.DataPage:     page,
					constant.DataCacheHit: true,
				},
			})
			return data, nil
		}
	}

	data, err := s.encode(ctx, page.URL(baseURL))
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(namespace, string(page), data)
	}
	return data, nil
}

// Recent returns the latest generation records, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]GenerationRecord, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.Recent(ctx, limit)
}

func (s *Service) ensureOutputDir(ctx context.Context) error {
	if _, err := os.Stat(s.outputDir); err == nil {
		return nil
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		logger.CtxError(ctx, "Failed to create output directory", logger.LoggerInfo{
			ContextFunction: constant.CtxGenerate,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeCreateOutputDir,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
			Data: map[string]interface{}{
				constant.DataDir: s.outputDir,
			},
		})
		return fmt.Errorf("creating output directory %s: %w", s.outputDir, err)
	}

	fmt.Fprintf(s.out, constant.MsgCreatedDir, s.outputDir)
	return nil
}

func (s *Service) writePage(ctx context.Context, baseURL string, page Page) (Artifact, error) {
	url := page.URL(baseURL)
	data, err := s.encode(ctx, url)
	if err != nil {
		return Artifact{}, err
	}

	path := filepath.Join(s.outputDir, page.ImageName())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.CtxError(ctx, "Failed to write QR image", logger.LoggerInfo{
			ContextFunction: constant.CtxGenerate,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeWriteImage,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
			Data: map[string]interface{}{
				constant.DataPage: page,
				constant.DataFile: path,
			},
		})
		return Artifact{}, fmt.Errorf("writing %s: %w", path, err)
	}

	sum := sha256.Sum256(data)
	artifact := Artifact{
		Page:     page,
		URL:      url,
		Path:     path,
		Checksum: hex.EncodeToString(sum[:]),
		Bytes:    len(data),
	}

	logger.CtxDebug(ctx, "QR image written", logger.LoggerInfo{
		ContextFunction: constant.CtxGenerate,
		Data: map[string]interface{}{
			constant.DataPage:     page,
			constant.DataURL:      url,
			constant.DataFile:     path,
			constant.DataChecksum: artifact.Checksum,
			constant.DataBytes:    artifact.Bytes,
		},
	})

	return artifact, nil
}

func (s *Service) encode(ctx context.Context, url string) ([]byte, error) {
	data, err := s.encoder.Encode(url)
	if err != nil {
		logger.CtxError(ctx, "Failed to encode QR code", logger.LoggerInfo{
			ContextFunction: constant.CtxGenerate,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeEncodeSymbol,
				Message: err.Error(),
				Type:    constant.ErrTypeEncoding,
			},
			Data: map[string]interface{}{
				constant.DataURL: url,
			},
		})
		return nil, fmt.Errorf("encoding %q: %w", url, err)
	}
	return data, nil
}

func (s *Service) record(ctx context.Context, artifact Artifact) error {
	if s.history == nil {
		return nil
	}

	rec := &GenerationRecord{
		RunID:     logger.RequestID(ctx),
		Page:      artifact.Page,
		URL:       artifact.URL,
		Path:      artifact.Path,
		Checksum:  artifact.Checksum,
		Bytes:     artifact.Bytes,
		CreatedAt: time.Now(),
	}
	if err := s.history.Record(ctx, rec); err != nil {
		logger.CtxError(ctx, "Failed to record generation", logger.LoggerInfo{
			ContextFunction: constant.CtxGenerate,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeRecordHistory,
				Message: err.Error(),
				Type:    constant.ErrTypeStorage,
			},
			Data: map[string]interface{}{
				constant.DataPage: artifact.Page,
			},
		})
		return fmt.Errorf("recording %s: %w", artifact.Page, err)
	}
	return nil
}
