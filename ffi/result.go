// Package ffi implements the operations exported across the C boundary. It
// works on plain Go values; cmd/zxingffi flattens them into C structs.
package ffi

import (
	"bytes"
	"strings"

	"github.com/ericlevine/zxingffi"
)

// Pos is the geometry of a decoded symbol in source image pixels.
type Pos struct {
	ImageWidth   int
	ImageHeight  int
	TopLeftX     int
	TopLeftY     int
	TopRightX    int
	TopRightY    int
	BottomLeftX  int
	BottomLeftY  int
	BottomRightX int
	BottomRightY int
}

// CodeResult is the outcome of one decode. When IsValid is false, Error is
// non-empty and the payload fields carry whatever the engine produced.
type CodeResult struct {
	Text       string
	IsValid    bool
	Error      string
	Bytes      []byte
	Format     int
	Pos        *Pos
	IsInverted bool
	IsMirrored bool
	Duration   int
}

// CodeResults holds the valid symbols of a multi decode. Every entry shares
// the batch Duration.
type CodeResults struct {
	Count    int
	Results  []CodeResult
	Duration int
}

// EncodeResult is the outcome of an encode. On success Data holds
// Width*Height row-major cells, 1 for dark and 0 for light.
type EncodeResult struct {
	IsValid bool
	Text    string
	Format  int
	Data    []int8
	Length  int
	Width   int
	Height  int
	Error   string
}

// ConvertResult flattens an engine result. Every variable-length field is
// copied, so the CodeResult does not alias engine storage. The image size on
// Pos is left for the calling operation to fill in.
func ConvertResult(r *zxingffi.Result) CodeResult {
	p := r.Position
	code := CodeResult{
		Text:    strings.Clone(r.Text),
		IsValid: r.IsValid(),
		Error:   strings.Clone(r.ErrorMessage()),
		Bytes:   bytes.Clone(r.Bytes()),
		Format:  int(r.Format),
		Pos: &Pos{
			TopLeftX:     p.TopLeft.X,
			TopLeftY:     p.TopLeft.Y,
			TopRightX:    p.TopRight.X,
			TopRightY:    p.TopRight.Y,
			BottomLeftX:  p.BottomLeft.X,
			BottomLeftY:  p.BottomLeft.Y,
			BottomRightX: p.BottomRight.X,
			BottomRightY: p.BottomRight.Y,
		},
		IsInverted: r.Inverted,
		IsMirrored: r.Mirrored,
	}
	if !code.IsValid && code.Error == "" {
		code.Error = zxingffi.ErrNotFound.Error()
	}
	return code
}
