// Package wasm defines the contract between the hello guest module and the
// host that runs it.
//
// The wasip1 build of the guest is a reactor (-buildmode=c-shared). The host
// runs _initialize once per instance, then calls the exports below.
//
// NOTE: uint32 is used for pointers and lengths because WebAssembly uses a 32-bit
// linear memory model.
// See: https://github.com/golang/go/issues/59156
package wasm

// Guest exports.
const (
	// ExportGreet returns the greeting as a packed (ptr, len) pair.
	// Signature: greet() -> i64
	ExportGreet = "greet"

	// ExportInitialize is emitted by the Go toolchain for reactor builds.
	ExportInitialize = "_initialize"
)

// Host imports.
const (
	// HostModule is the import module name for host functions.
	HostModule = "host"

	// HostLogMessage writes a guest message to the host log.
	// Signature: log_message(level, ptr, length)
	HostLogMessage = "log_message"
)

// LogLevel is the level argument of log_message.
type LogLevel uint32

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// Pack encodes a memory range as a single i64 result: ptr in the high 32
// bits, length in the low 32 bits.
func Pack(ptr, length uint32) uint64 {
	return uint64(ptr)<<32 | uint64(length)
}

// Unpack reverses Pack.
func Unpack(v uint64) (ptr, length uint32) {
	return uint32(v >> 32), uint32(v)
}
