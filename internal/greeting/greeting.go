// Package greeting produces the service greeting.
package greeting

// Message is the greeting returned by Greet.
const Message = "Hello World!"

// Greet returns Message. It reads no state and is safe for concurrent use.
func Greet() string {
	return Message
}
