// Command ffi builds blockzap as a C shared library for editor hosts that
// embed the engine in-process.
//
// Build with:
//
//	CGO_ENABLED=1 go build -buildmode=c-shared -o libblockzap.so ./pkg/ffi/
//
// All inputs and outputs are C strings carrying JSON. Callers must free
// results with blockzap_result_free.
package main

// #include "blockzap.h"
import "C"
import (
	"unsafe"
)

//export blockzap_zap
func blockzap_zap(request *C.char) C.BlockzapResult {
	return toResult(zapJSON(C.GoString(request)))
}

//export blockzap_inspect
func blockzap_inspect(request *C.char) C.BlockzapResult {
	return toResult(inspectJSON(C.GoString(request)))
}

//export blockzap_categories
func blockzap_categories() C.BlockzapResult {
	return toResult(categoriesJSON())
}

// === Memory Management ===

//export blockzap_result_free
func blockzap_result_free(result C.BlockzapResult) {
	if result.data != nil {
		C.free(unsafe.Pointer(result.data))
	}
	if result.error != nil {
		C.free(unsafe.Pointer(result.error))
	}
}

func toResult(data string, err error) C.BlockzapResult {
	if err != nil {
		return C.BlockzapResult{error: C.CString(err.Error())}
	}
	return C.BlockzapResult{
		data: C.CString(data),
		len:  C.int(len(data)),
	}
}

// main is required for c-shared build mode but is never called.
func main() {}
