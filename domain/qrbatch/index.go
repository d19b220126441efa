package qrbatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/markdown"
	"github.com/prasetyowira/qrbatch/constant"
	"github.com/prasetyowira/qrbatch/infrastructure/logger"
)

// WriteIndex writes index.md next to the images, listing every artifact with
// its URL and an embedded preview. It returns the index path.
func (s *Service) WriteIndex(ctx context.Context, baseURL string, artifacts []Artifact) (string, error) {
	path := filepath.Join(s.outputDir, constant.IndexFileName)

	f, err := os.Create(path)
	if err != nil {
		s.logIndexError(ctx, path, err)
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	rows := make([][]string, 0, len(artifacts))
	for _, a := range artifacts {
		rows = append(rows, []string{string(a.Page), a.URL, "`" + filepath.Base(a.Path) + "`"})
	}

	md := markdown.NewMarkdown(f)
	md.H1("Page QR Codes")
	md.PlainText("")
	md.PlainTextf("Base URL: `%s`", baseURL)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Page", "URL", "File"},
		Rows:   rows,
	})
	md.PlainText("")
	for _, a := range artifacts {
		md.H2(string(a.Page))
		md.PlainText("")
		md.PlainTextf("![%s](%s)", a.Page, filepath.Base(a.Path))
		md.PlainText("")
	}
	md.HorizontalRule()
	md.PlainText("")
	md.BulletList(
		"Update the base URL if deploying to a different host",
		"Re-run the generator with your final URL",
	)

	if err := md.Build(); err != nil {
		s.logIndexError(ctx, path, err)
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(s.out, constant.MsgWroteIndex, path)
	return path, nil
}

func (s *Service) logIndexError(ctx context.Context, path string, err error) {
	logger.CtxError(ctx, "Failed to write index", logger.LoggerInfo{
		ContextFunction: constant.CtxIndex,
		Error: &logger.CustomError{
			Code:    constant.ErrCodeWriteIndex,
			Message: err.Error(),
			Type:    constant.ErrTypeStorage,
		},
		Data: map[string]interface{}{
			constant.DataFile: path,
		},
	})
}
