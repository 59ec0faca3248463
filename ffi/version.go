package ffi

import "github.com/ericlevine/zxingffi/internal/instrument"

// Version is the library version reported to the host. It may be overridden
// at build time with -ldflags "-X github.com/ericlevine/zxingffi/ffi.Version=...".
var Version = "2.0.0"

// SetLogEnabled turns diagnostic logging on or off for every operation.
func SetLogEnabled(enabled bool) {
	instrument.SetLogEnabled(enabled)
}
