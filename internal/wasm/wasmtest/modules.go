// Package wasmtest provides hand-assembled guest binaries for tests.
//
// They follow the ABI in api/wasm without needing a Go toolchain that
// targets wasip1, so host tests stay hermetic.
package wasmtest

// Greeting is the text GreetModule returns.
const Greeting = "Hello, world!"

// GreetModule exports memory and greet() -> i64, returning Pack(16, 13)
// for the 13-byte string "Hello, world!" stored at offset 16.
var GreetModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // Magic
	0x01, 0x00, 0x00, 0x00, // Version
	// Type section: () -> i64
	0x01, 0x05, 0x01, 0x60, 0x00, 0x01, 0x7e,
	// Function section: func 0 has type 0
	0x03, 0x02, 0x01, 0x00,
	// Memory section: 1 page
	0x05, 0x03, 0x01, 0x00, 0x01,
	// Export section: "memory" (memory 0), "greet" (func 0)
	0x07, 0x12, 0x02,
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00,
	0x05, 0x67, 0x72, 0x65, 0x65, 0x74, 0x00, 0x00,
	// Code section: i64.const 0x100000000d
	0x0a, 0x0b, 0x01, 0x09, 0x00,
	0x42, 0x8d, 0x80, 0x80, 0x80, 0x80, 0x02,
	0x0b,
	// Data section: "Hello, world!" at offset 16
	0x0b, 0x13, 0x01, 0x00, 0x41, 0x10, 0x0b, 0x0d,
	0x48, 0x65, 0x6c, 0x6c, 0x6f, 0x2c, 0x20, 0x77, 0x6f, 0x72, 0x6c, 0x64, 0x21,
}

// ReactorModule is a reactor-style GreetModule: _initialize stores
// Pack(16, 13) in a mutable global and greet() returns that global, so greet
// yields 0 unless _initialize ran first.
var ReactorModule = []byte{
	0x00, 0x61, 0x73, 0x6d,
	0x01, 0x00, 0x00, 0x00,
	// Type section: () -> (), () -> i64
	0x01, 0x08, 0x02, 0x60, 0x00, 0x00, 0x60, 0x00, 0x01, 0x7e,
	// Function section: func 0 has type 0, func 1 has type 1
	0x03, 0x03, 0x02, 0x00, 0x01,
	0x05, 0x03, 0x01, 0x00, 0x01,
	// Global section: mutable i64 = 0
	0x06, 0x06, 0x01, 0x7e, 0x01, 0x42, 0x00, 0x0b,
	// Export section: "memory", "_initialize" (func 0), "greet" (func 1)
	0x07, 0x20, 0x03,
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00,
	0x0b, 0x5f, 0x69, 0x6e, 0x69, 0x74, 0x69, 0x61, 0x6c, 0x69, 0x7a, 0x65, 0x00, 0x00,
	0x05, 0x67, 0x72, 0x65, 0x65, 0x74, 0x00, 0x01,
	// Code section: global.set 0 (i64.const 0x100000000d); global.get 0
	0x0a, 0x12, 0x02,
	0x0b, 0x00, 0x42, 0x8d, 0x80, 0x80, 0x80, 0x80, 0x02, 0x24, 0x00, 0x0b,
	0x04, 0x00, 0x23, 0x00, 0x0b,
	// Data section: "Hello, world!" at offset 16
	0x0b, 0x13, 0x01, 0x00, 0x41, 0x10, 0x0b, 0x0d,
	0x48, 0x65, 0x6c, 0x6c, 0x6f, 0x2c, 0x20, 0x77, 0x6f, 0x72, 0x6c, 0x64, 0x21,
}

// SpinModule exports spin(), which never returns.
var SpinModule = []byte{
	0x00, 0x61, 0x73, 0x6d,
	0x01, 0x00, 0x00, 0x00,
	// Type section: () -> ()
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	0x03, 0x02, 0x01, 0x00,
	// Export section: "spin" (func 0)
	0x07, 0x08, 0x01, 0x04, 0x73, 0x70, 0x69, 0x6e, 0x00, 0x00,
	// Code section: loop br 0 end
	0x0a, 0x09, 0x01, 0x07, 0x00, 0x03, 0x40, 0x0c, 0x00, 0x0b, 0x0b,
}

// LogModule imports host.log_message and exports run(), which logs "hello"
// at info level.
var LogModule = []byte{
	0x00, 0x61, 0x73, 0x6d,
	0x01, 0x00, 0x00, 0x00,
	// Type section: (i32, i32, i32) -> (), () -> ()
	0x01, 0x0a, 0x02,
	0x60, 0x03, 0x7f, 0x7f, 0x7f, 0x00,
	0x60, 0x00, 0x00,
	// Import section: host.log_message, type 0
	0x02, 0x14, 0x01,
	0x04, 0x68, 0x6f, 0x73, 0x74,
	0x0b, 0x6c, 0x6f, 0x67, 0x5f, 0x6d, 0x65, 0x73, 0x73, 0x61, 0x67, 0x65,
	0x00, 0x00,
	// Function section: func 1 has type 1
	0x03, 0x02, 0x01, 0x01,
	0x05, 0x03, 0x01, 0x00, 0x01,
	// Export section: "memory", "run" (func 1)
	0x07, 0x10, 0x02,
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00,
	0x03, 0x72, 0x75, 0x6e, 0x00, 0x01,
	// Code section: log_message(1, 0, 5)
	0x0a, 0x0c, 0x01, 0x0a, 0x00,
	0x41, 0x01, 0x41, 0x00, 0x41, 0x05, 0x10, 0x00,
	0x0b,
	// Data section: "hello" at offset 0
	0x0b, 0x0b, 0x01, 0x00, 0x41, 0x00, 0x0b, 0x05, 0x68, 0x65, 0x6c, 0x6c, 0x6f,
}

// MemoryModule exports one page of memory and nothing else.
var MemoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d,
	0x01, 0x00, 0x00, 0x00,
	0x05, 0x03, 0x01, 0x00, 0x01,
	0x07, 0x0a, 0x01, 0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00,
}

// EmptyModule is the smallest valid module.
var EmptyModule = []byte{
	0x00, 0x61, 0x73, 0x6d,
	0x01, 0x00, 0x00, 0x00,
}
