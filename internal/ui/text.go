package ui

import "fmt"

// ItemCounter is the footer text for n active tasks.
func ItemCounter(n int) string {
	if n == 1 {
		return "1 item left"
	}
	return fmt.Sprintf("%d items left", n)
}

// ClearCompletedLabel is the clear-completed control text, empty when there is
// nothing to clear.
func ClearCompletedLabel(completed int) string {
	if completed > 0 {
		return "Clear completed"
	}
	return ""
}
