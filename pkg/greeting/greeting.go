// Package greeting holds the one function shared by every build target.
package greeting

// Message is the text every target displays.
const Message = "Hello, world!"

// Greet returns Message. It takes no input and has no side effects, so the
// native binary and both Wasm builds can call it the same way.
func Greet() string {
	return Message
}
