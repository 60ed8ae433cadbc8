package ui

import "fmt"

const (
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	Gray    = "\033[90m" // Bright black, often appears as gray

	ResetColor = "\033[0m" // Reset to default color
)

var MethodColors = map[string]string{
	"GET":    Green,
	"POST":   Blue,
	"PUT":    Cyan,
	"DELETE": Yellow,
	"PATCH":  Magenta,
}

// Method pads method and colours it for terminal output.
func Method(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := MethodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}

// Status colours HTTP error statuses red. Zero means no response.
func Status(status int) string {
	s := fmt.Sprintf("%d", status)
	if status >= 400 || status == 0 {
		return Red + s + ResetColor
	}
	return s
}
