//go:build cgo

package main

/*
#include <stdlib.h>
#include "zxingffi.h"
*/
import "C"

import (
	"unsafe"

	"github.com/ericlevine/zxingffi/ffi"
)

// versionString is allocated once and never freed; version() hands out the
// same static string on every call.
var versionString = C.CString(ffi.Version)

//export setLogEnabled
func setLogEnabled(enable C.int) {
	ffi.SetLogEnabled(enable != 0)
}

//export version
func version() *C.char {
	return versionString
}

// readBarcode decodes at most one symbol. bytes is a malloc'ed buffer of
// width*height luminance bytes; it is freed before returning.
//
//export readBarcode
func readBarcode(bytes *C.char, format, width, height, cropWidth, cropHeight, tryHarder, tryRotate, tryInvert C.int) C.struct_CodeResult {
	defer C.free(unsafe.Pointer(bytes))
	p := readParams(format, width, height, cropWidth, cropHeight, tryHarder, tryRotate, tryInvert)
	return cCodeResult(ffi.ReadBarcode(goBuffer(bytes, width*height), p))
}

// readBarcodes decodes every valid symbol. bytes is freed before returning.
//
//export readBarcodes
func readBarcodes(bytes *C.char, format, width, height, cropWidth, cropHeight, tryHarder, tryRotate, tryInvert C.int) C.struct_CodeResults {
	defer C.free(unsafe.Pointer(bytes))
	p := readParams(format, width, height, cropWidth, cropHeight, tryHarder, tryRotate, tryInvert)
	return cCodeResults(ffi.ReadBarcodes(goBuffer(bytes, width*height), p))
}

// encodeBarcode renders contents, a NUL terminated UTF-8 string owned by the
// caller.
//
//export encodeBarcode
func encodeBarcode(contents *C.char, width, height, format, margin, eccLevel C.int) C.struct_EncodeResult {
	var text string
	if contents != nil {
		text = C.GoString(contents)
	}
	return cEncodeResult(ffi.EncodeBarcode(text, ffi.EncodeParams{
		Width:    int(width),
		Height:   int(height),
		Format:   int(format),
		Margin:   int(margin),
		ECCLevel: int(eccLevel),
	}))
}

//export freeCodeResult
func freeCodeResult(r *C.struct_CodeResult) {
	if r != nil {
		releaseCodeResult(r)
	}
}

//export freeCodeResults
func freeCodeResults(r *C.struct_CodeResults) {
	if r == nil {
		return
	}
	if r.results != nil {
		codes := unsafe.Slice(r.results, int(r.count))
		for i := range codes {
			releaseCodeResult(&codes[i])
		}
		C.free(unsafe.Pointer(r.results))
	}
	r.results = nil
	r.count = 0
}

//export freeEncodeResult
func freeEncodeResult(r *C.struct_EncodeResult) {
	if r == nil {
		return
	}
	C.free(unsafe.Pointer(r.text))
	C.free(unsafe.Pointer(r.data))
	C.free(unsafe.Pointer(r.error))
	r.text, r.data, r.error = nil, nil, nil
	r.length = 0
}

func releaseCodeResult(r *C.struct_CodeResult) {
	C.free(unsafe.Pointer(r.text))
	C.free(unsafe.Pointer(r.error))
	C.free(unsafe.Pointer(r.bytes))
	C.free(unsafe.Pointer(r.pos))
	r.text, r.error, r.bytes, r.pos = nil, nil, nil, nil
	r.length = 0
}

func readParams(format, width, height, cropWidth, cropHeight, tryHarder, tryRotate, tryInvert C.int) ffi.ReadParams {
	return ffi.ReadParams{
		Format:     int(format),
		Width:      int(width),
		Height:     int(height),
		CropWidth:  int(cropWidth),
		CropHeight: int(cropHeight),
		TryHarder:  tryHarder != 0,
		TryRotate:  tryRotate != 0,
		TryInvert:  tryInvert != 0,
	}
}

// goBuffer views n bytes of C memory without copying. ffi copies before use.
func goBuffer(p *C.char, n C.int) []byte {
	if p == nil || n <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), int(n))
}

// cBuffer copies b into malloc'ed memory, the form in which readBarcode and
// readBarcodes take ownership of their input.
func cBuffer(b []byte) *C.char {
	return (*C.char)(C.CBytes(b))
}

func cBool(v bool) C.int {
	if v {
		return 1
	}
	return 0
}

// cBytes copies b into malloc'ed memory, or returns nil for an empty slice.
func cBytes(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return C.CBytes(b)
}

func cPos(p *ffi.Pos) *C.struct_Pos {
	pos := (*C.struct_Pos)(C.calloc(1, C.size_t(unsafe.Sizeof(C.struct_Pos{}))))
	if p == nil {
		return pos
	}
	pos.imageWidth = C.int(p.ImageWidth)
	pos.imageHeight = C.int(p.ImageHeight)
	pos.topLeftX = C.int(p.TopLeftX)
	pos.topLeftY = C.int(p.TopLeftY)
	pos.topRightX = C.int(p.TopRightX)
	pos.topRightY = C.int(p.TopRightY)
	pos.bottomLeftX = C.int(p.BottomLeftX)
	pos.bottomLeftY = C.int(p.BottomLeftY)
	pos.bottomRightX = C.int(p.BottomRightX)
	pos.bottomRightY = C.int(p.BottomRightY)
	return pos
}

func fillCodeResult(code *C.struct_CodeResult, r ffi.CodeResult) {
	code.text = C.CString(r.Text)
	code.isValid = cBool(r.IsValid)
	code.error = C.CString(r.Error)
	code.bytes = (*C.uchar)(cBytes(r.Bytes))
	code.length = C.int(len(r.Bytes))
	code.format = C.int(r.Format)
	code.pos = cPos(r.Pos)
	code.isInverted = cBool(r.IsInverted)
	code.isMirrored = cBool(r.IsMirrored)
	code.duration = C.int(r.Duration)
}

func cCodeResult(r ffi.CodeResult) C.struct_CodeResult {
	var code C.struct_CodeResult
	fillCodeResult(&code, r)
	return code
}

func cCodeResults(rs ffi.CodeResults) C.struct_CodeResults {
	out := C.struct_CodeResults{
		count:    C.int(rs.Count),
		duration: C.int(rs.Duration),
	}
	if rs.Count == 0 {
		return out
	}
	size := C.size_t(unsafe.Sizeof(C.struct_CodeResult{}))
	out.results = (*C.struct_CodeResult)(C.calloc(C.size_t(rs.Count), size))
	codes := unsafe.Slice(out.results, rs.Count)
	for i, r := range rs.Results {
		fillCodeResult(&codes[i], r)
	}
	return out
}

func cEncodeResult(r ffi.EncodeResult) C.struct_EncodeResult {
	out := C.struct_EncodeResult{
		isValid: cBool(r.IsValid),
		text:    C.CString(r.Text),
		format:  C.int(r.Format),
		length:  C.int(r.Length),
		width:   C.int(r.Width),
		height:  C.int(r.Height),
	}
	if r.IsValid {
		cells := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(r.Data))), len(r.Data))
		out.data = (*C.schar)(cBytes(cells))
	} else {
		out.error = C.CString(r.Error)
	}
	return out
}
