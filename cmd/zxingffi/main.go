// Command zxingffi is built with -buildmode=c-shared to expose barcode
// decoding and encoding to C callers. See zxingffi.h for the struct layouts.
//
//	go build -buildmode=c-shared -o libzxingffi.so ./cmd/zxingffi
package main

func main() {}
