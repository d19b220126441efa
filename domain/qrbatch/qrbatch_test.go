package qrbatch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prasetyowira/qrbatch/infrastructure/cache"
	"github.com/prasetyowira/qrbatch/infrastructure/logger"
	"github.com/prasetyowira/qrbatch/infrastructure/qrcode"
	"github.com/prasetyowira/qrbatch/internal/qrtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock encoder for testing
type MockEncoder struct {
	mock.Mock
}

func (m *MockEncoder) Encode(content string) ([]byte, error) {
	args := m.Called(content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Mock history for testing
type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) Record(ctx context.Context, rec *GenerationRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockHistory) Recent(ctx context.Context, limit int) ([]GenerationRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]GenerationRecord), args.Error(1)
}

func newEncoder(t *testing.T) *qrcode.Encoder {
	t.Helper()
	enc, err := qrcode.NewEncoder(qrcode.DefaultOptions())
	require.NoError(t, err)
	return enc
}

func newTestService(t *testing.T, enc Encoder, history History) (*Service, string, *bytes.Buffer) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "qr_codes")
	out := &bytes.Buffer{}
	return NewService(enc, history, nil, dir, out), dir, out
}

func TestGenerate_DefaultBaseURL(t *testing.T) {
	// Arrange
	service, dir, out := newTestService(t, newEncoder(t), nil)

	// Act
	artifacts, err := service.Generate(context.Background(), "http://localhost:8000")

	// Assert
	require.NoError(t, err)
	require.Len(t, artifacts, 4)
	for i, page := range Pages() {
		path := filepath.Join(dir, string(page)+"_qr.png")
		want := "http://localhost:8000/" + string(page) + ".html"
		assert.Equal(t, page, artifacts[i].Page)
		assert.Equal(t, path, artifacts[i].Path)
		assert.Equal(t, want, artifacts[i].URL)
		assert.Len(t, artifacts[i].Checksum, 64)
		assert.Equal(t, want, qrtest.DecodeFile(t, path))
		assert.Equal(t, "H", qrtest.ECLevelFile(t, path))
	}
	assert.Contains(t, out.String(), "Created directory: "+dir)
	assert.Contains(t, out.String(), "✓ Created: "+filepath.Join(dir, "methods_qr.png")+" -> http://localhost:8000/methods.html")
	assert.Contains(t, out.String(), "QR codes generated successfully!")
}

func TestGenerate_CustomBaseURL(t *testing.T) {
	service, dir, _ := newTestService(t, newEncoder(t), nil)

	_, err := service.Generate(context.Background(), "http://example.com")

	require.NoError(t, err)
	assert.Equal(t, "http://example.com/background.html", qrtest.DecodeFile(t, filepath.Join(dir, "background_qr.png")))
}

func TestGenerate_EmptyBaseURL(t *testing.T) {
	service, dir, _ := newTestService(t, newEncoder(t), nil)

	_, err := service.Generate(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, "/background.html", qrtest.DecodeFile(t, filepath.Join(dir, "background_qr.png")))
	assert.Equal(t, "/future.html", qrtest.DecodeFile(t, filepath.Join(dir, "future_qr.png")))
}

func TestGenerate_Idempotent(t *testing.T) {
	// Arrange
	service, dir, out := newTestService(t, newEncoder(t), nil)
	first, err := service.Generate(context.Background(), "http://example.com")
	require.NoError(t, err)
	firstBytes, err := os.ReadFile(filepath.Join(dir, "results_qr.png"))
	require.NoError(t, err)
	out.Reset()

	// Act
	second, err := service.Generate(context.Background(), "http://example.com")

	// Assert
	require.NoError(t, err)
	secondBytes, err := os.ReadFile(filepath.Join(dir, "results_qr.png"))
	require.NoError(t, err)
	assert.Equal(t, firstBytes, secondBytes)
	assert.Equal(t, first, second)
	assert.NotContains(t, out.String(), "Created directory")
}

func TestGenerate_ExistingDirectoryAndOverwrite(t *testing.T) {
	// Arrange
	service, dir, _ := newTestService(t, newEncoder(t), nil)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	stale := filepath.Join(dir, "future_qr.png")
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o644))

	// Act
	_, err := service.Generate(context.Background(), "http://example.com")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/future.html", qrtest.DecodeFile(t, stale))
}

func TestGenerate_EncodeErrorAborts(t *testing.T) {
	// Arrange
	mockEncoder := new(MockEncoder)
	mockEncoder.On("Encode", "http://x/background.html").Return([]byte("png"), nil)
	mockEncoder.On("Encode", "http://x/methods.html").Return(nil, errors.New("boom"))
	service, dir, out := newTestService(t, mockEncoder, nil)

	// Act
	artifacts, err := service.Generate(context.Background(), "http://x")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Len(t, artifacts, 1)
	assert.NoFileExists(t, filepath.Join(dir, "methods_qr.png"))
	assert.NotContains(t, out.String(), "successfully")
	mockEncoder.AssertNotCalled(t, "Encode", "http://x/results.html")
}

func TestGenerate_OutputDirIsFile(t *testing.T) {
	// Arrange
	mockEncoder := new(MockEncoder)
	mockEncoder.On("Encode", mock.Anything).Return([]byte("png"), nil)
	path := filepath.Join(t.TempDir(), "qr_codes")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	service := NewService(mockEncoder, nil, nil, path, nil)

	// Act
	artifacts, err := service.Generate(context.Background(), "http://x")

	// Assert
	assert.Error(t, err)
	assert.Empty(t, artifacts)
}

func TestGenerate_CreatesNestedDirectory(t *testing.T) {
	mockEncoder := new(MockEncoder)
	mockEncoder.On("Encode", mock.Anything).Return([]byte("png"), nil)
	dir := filepath.Join(t.TempDir(), "site", "qr_codes")
	service := NewService(mockEncoder, nil, nil, dir, nil)

	_, err := service.Generate(context.Background(), "http://x")

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "background_qr.png"))
}

func TestGenerate_CanceledContext(t *testing.T) {
	mockEncoder := new(MockEncoder)
	service, _, _ := newTestService(t, mockEncoder, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Generate(ctx, "http://x")

	assert.ErrorIs(t, err, context.Canceled)
	mockEncoder.AssertNotCalled(t, "Encode", mock.Anything)
}

func TestGenerate_RecordsHistory(t *testing.T) {
	// Arrange
	mockEncoder := new(MockEncoder)
	mockEncoder.On("Encode", mock.Anything).Return([]byte("png"), nil)
	mockHistory := new(MockHistory)
	var runIDs []string
	mockHistory.On("Record", mock.Anything, mock.AnythingOfType("*qrbatch.GenerationRecord")).
		Run(func(args mock.Arguments) {
			runIDs = append(runIDs, args.Get(1).(*GenerationRecord).RunID)
		}).
		Return(nil)
	service, _, _ := newTestService(t, mockEncoder, mockHistory)
	ctx := logger.WithRequestID(context.Background(), "run-42")

	// Act
	_, err := service.Generate(ctx, "http://x")

	// Assert
	require.NoError(t, err)
	mockHistory.AssertNumberOfCalls(t, "Record", 4)
	assert.Equal(t, []string{"run-42", "run-42", "run-42", "run-42"}, runIDs)
	mockHistory.AssertCalled(t, "Record", mock.Anything, mock.MatchedBy(func(rec *GenerationRecord) bool {
		return rec.Page == PageResults && rec.URL == "http://x/results.html" && rec.Bytes == 3
	}))
}

func TestGenerate_AssignsRunID(t *testing.T) {
	mockEncoder := new(MockEncoder)
	mockEncoder.On("Encode", mock.Anything).Return([]byte("png"), nil)
	mockHistory := new(MockHistory)
	mockHistory.On("Record", mock.Anything, mock.MatchedBy(func(rec *GenerationRecord) bool {
		return rec.RunID != ""
	})).Return(nil)
	service, _, _ := newTestService(t, mockEncoder, mockHistory)

	_, err := service.Generate(context.Background(), "http://x")

	require.NoError(t, err)
	mockHistory.AssertExpectations(t)
}

func TestGenerate_HistoryError(t *testing.T) {
	mockEncoder := new(MockEncoder)
	mockEncoder.On("Encode", mock.Anything).Return([]byte("png"), nil)
	mockHistory := new(MockHistory)
	mockHistory.On("Record", mock.Anything, mock.Anything).Return(errors.New("db locked"))
	service, _, _ := newTestService(t, mockEncoder, mockHistory)

	artifacts, err := service.Generate(context.Background(), "http://x")

	require.Error(t, err)
	assert.Len(t, artifacts, 1)
}

func TestRender_UsesCache(t *testing.T) {
	// Arrange
	mockEncoder := new(MockEncoder)
	mockEncoder.On("Encode", "http://x/methods.html").Return([]byte("png"), nil).Once()
	service := NewService(mockEncoder, nil, cache.NewImageLRU(8), t.TempDir(), nil)

	// Act
	first, err1 := service.Render(context.Background(), "http://x", "methods")
	second, err2 := service.Render(context.Background(), "http://x", "methods")

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
	mockEncoder.AssertNumberOfCalls(t, "Encode", 1)
}

func TestRender_DecodesToPageURL(t *testing.T) {
	service := NewService(newEncoder(t), nil, nil, t.TempDir(), nil)

	data, err := service.Render(context.Background(), "http://example.com", "results")

	require.NoError(t, err)
	assert.Equal(t, "http://example.com/results.html", qrtest.DecodePNG(t, data))
}

func TestRender_UnknownPage(t *testing.T) {
	mockEncoder := new(MockEncoder)
	service := NewService(mockEncoder, nil, nil, t.TempDir(), nil)

	_, err := service.Render(context.Background(), "http://x", "index")

	assert.ErrorIs(t, err, ErrUnknownPage)
	mockEncoder.AssertNotCalled(t, "Encode", mock.Anything)
}

func TestRecent(t *testing.T) {
	service := NewService(new(MockEncoder), nil, nil, t.TempDir(), nil)
	_, err := service.Recent(context.Background(), 10)
	assert.ErrorIs(t, err, ErrHistoryDisabled)

	mockHistory := new(MockHistory)
	records := []GenerationRecord{{ID: 1, Page: PageMethods}}
	mockHistory.On("Recent", mock.Anything, 10).Return(records, nil)
	service = NewService(new(MockEncoder), mockHistory, nil, t.TempDir(), nil)

	got, err := service.Recent(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestWriteIndex(t *testing.T) {
	// Arrange
	service, dir, out := newTestService(t, newEncoder(t), nil)
	artifacts, err := service.Generate(context.Background(), "http://example.com")
	require.NoError(t, err)

	// Act
	path, err := service.WriteIndex(context.Background(), "http://example.com", artifacts)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "index.md"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "# Page QR Codes"))
	assert.Contains(t, content, "http://example.com/methods.html")
	assert.Contains(t, content, "![background](background_qr.png)")
	assert.Contains(t, out.String(), "✓ Index: "+path)
}

func TestWriteIndex_MissingDirectory(t *testing.T) {
	service := NewService(new(MockEncoder), nil, nil, filepath.Join(t.TempDir(), "missing"), nil)

	_, err := service.WriteIndex(context.Background(), "http://x", nil)

	assert.Error(t, err)
}
