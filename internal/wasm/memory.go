package wasm

import (
	"github.com/tetratelabs/wazero/api"

	wasmapi "github.com/woxQAQ/hello-wasm/api/wasm"
)

// Memory provides bounds-checked reads from a guest's linear memory.
//
// Guest memory is separate from Go memory and every address comes from the
// guest, so each read is checked against the current memory size.
type Memory struct {
	mem api.Memory
}

// NewMemory creates a memory helper.
func NewMemory(module api.Module) *Memory {
	return &Memory{mem: module.Memory()}
}

// ReadBytes reads raw bytes from Wasm memory.
// The returned slice aliases guest memory.
func (m *Memory) ReadBytes(ptr uint32, length uint32) ([]byte, error) {
	if m.mem == nil {
		return nil, &MemoryAccessError{Operation: "read", Address: ptr, Length: length}
	}
	buf, ok := m.mem.Read(ptr, length)
	if !ok {
		return nil, &MemoryAccessError{Operation: "read", Address: ptr, Length: length}
	}
	return buf, nil
}

// ReadString copies length bytes at ptr into a Go string.
func (m *Memory) ReadString(ptr uint32, length uint32) (string, error) {
	buf, err := m.ReadBytes(ptr, length)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadPacked reads the string described by a value built with wasmapi.Pack.
func (m *Memory) ReadPacked(packed uint64) (string, error) {
	ptr, length := wasmapi.Unpack(packed)
	return m.ReadString(ptr, length)
}
