package qrcode

import (
	"bytes"
	"errors"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/prasetyowira/qrbatch/constant"
	"github.com/prasetyowira/qrbatch/infrastructure/logger"
	goqrcode "github.com/skip2/go-qrcode"
)

var (
	ErrInvalidBoxSize = errors.New(constant.ErrInvalidBoxSize)
	ErrInvalidBorder  = errors.New(constant.ErrInvalidBorder)
)

// Options controls symbol construction and rasterisation.
type Options struct {
	// Level is the error-correction level. goqrcode.Highest is level H.
	Level goqrcode.RecoveryLevel
	// BoxSize is the number of pixels per module.
	BoxSize int
	// Border is the quiet zone width in modules.
	Border     int
	Foreground color.Color
	Background color.Color
}

// DefaultOptions returns level H, 10 pixels per module, a 2 module border,
// black on white.
func DefaultOptions() Options {
	return Options{
		Level:      goqrcode.Highest,
		BoxSize:    10,
		Border:     2,
		Foreground: color.Black,
		Background: color.White,
	}
}

// Encoder renders QR symbols as PNG images
type Encoder struct {
	opts Options
}

// NewEncoder creates a new QR code encoder
func NewEncoder(opts Options) (*Encoder, error) {
	if opts.BoxSize <= 0 {
		return nil, ErrInvalidBoxSize
	}
	if opts.Border < 0 {
		return nil, ErrInvalidBorder
	}
	if opts.Foreground == nil {
		opts.Foreground = color.Black
	}
	if opts.Background == nil {
		opts.Background = color.White
	}
	return &Encoder{opts: opts}, nil
}

// Options returns the options the encoder was built with.
func (e *Encoder) Options() Options {
	return e.opts
}

// Image builds the symbol for content and rasterises it. The smallest
// version that fits content is used.
func (e *Encoder) Image(content string) (image.Image, error) {
	q, err := goqrcode.New(content, e.opts.Level)
	if err != nil {
		logger.Warn("Failed to build QR symbol", logger.LoggerInfo{
			ContextFunction: constant.CtxEncoder,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeRenderEncode,
				Message: err.Error(),
				Type:    constant.ErrTypeEncoding,
			},
			Data: map[string]interface{}{
				constant.DataURL: content,
			},
		})
		return nil, err
	}
	// skip2 always pads with a 4 module quiet zone; the border is drawn here instead.
	q.DisableBorder = true
	modules := q.Bitmap()

	border := e.opts.Border
	side := len(modules) + 2*border
	palette := color.Palette{e.opts.Background, e.opts.Foreground}
	src := image.NewPaletted(image.Rect(0, 0, side, side), palette)
	for y, row := range modules {
		for x, dark := range row {
			if dark {
				src.SetColorIndex(x+border, y+border, 1)
			}
		}
	}

	logger.Debug("QR symbol built", logger.LoggerInfo{
		ContextFunction: constant.CtxEncoder,
		Data: map[string]interface{}{
			constant.DataURL:     content,
			constant.DataVersion: q.VersionNumber,
			constant.DataBoxSize: e.opts.BoxSize,
			constant.DataBorder:  border,
		},
	})

	if e.opts.BoxSize == 1 {
		return src, nil
	}
	return imaging.Resize(src, side*e.opts.BoxSize, side*e.opts.BoxSize, imaging.NearestNeighbor), nil
}

// Encode renders content as PNG bytes. Identical content and options always
// produce identical bytes.
func (e *Encoder) Encode(content string) ([]byte, error) {
	img, err := e.Image(content)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		logger.Error("Failed to encode PNG", logger.LoggerInfo{
			ContextFunction: constant.CtxEncoder,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeRenderPNG,
				Message: err.Error(),
				Type:    constant.ErrTypeEncoding,
			},
		})
		return nil, err
	}
	return buf.Bytes(), nil
}
