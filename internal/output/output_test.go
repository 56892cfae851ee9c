package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, f func()) string {
	t.Helper()
	var buf bytes.Buffer
	prev := SetWriter(&buf)
	t.Cleanup(func() { SetWriter(prev) })
	f()
	return buf.String()
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name  string
		print func(string)
		mark  string
	}{
		{"success", Success, "🔥"},
		{"error", Error, "❌"},
		{"info", Info, "ℹ️"},
		{"step", Step, "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := capture(t, func() { tt.print("hello") })
			assert.Contains(t, out, tt.mark)
			assert.Contains(t, out, "hello")
		})
	}
}

func TestVerbose(t *testing.T) {
	t.Cleanup(func() { SetVerbose(false) })

	SetVerbose(false)
	assert.Empty(t, capture(t, func() { Verbose("hidden") }))

	SetVerbose(true)
	out := capture(t, func() { Verbose("shown") })
	assert.Contains(t, out, "🔍")
	assert.Contains(t, out, "shown")
}

func TestStepResult(t *testing.T) {
	out := capture(t, func() {
		StepResult("Install typescript", nil)
		StepResult("Install express", errors.New("exit status 1"))
	})
	assert.Contains(t, out, "🟢 Install typescript")
	assert.Contains(t, out, "🔴 Install express")
	assert.NotContains(t, out, "exit status 1")
}

func TestFailedList(t *testing.T) {
	assert.Empty(t, capture(t, func() { FailedList(nil) }))

	out := capture(t, func() { FailedList([]string{"express", "mongodb"}) })
	assert.Contains(t, out, "Failed:")
	assert.Contains(t, out, "- express")
	assert.Contains(t, out, "- mongodb")
}
