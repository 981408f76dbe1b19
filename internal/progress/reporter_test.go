package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf}
	r.Start(2)
	r.Update(1, "/us/en/a.html")
	r.Update(2, "/us/en/b.html")
	r.Finish()

	assert.Equal(t, "Importing 2 pages\n[1/2] /us/en/a.html\n[2/2] /us/en/b.html\nImport complete\n", buf.String())
}

func TestNewReporterUnderCI(t *testing.T) {
	t.Setenv("CI", "true")
	_, ok := NewReporter().(*CIReporter)
	assert.True(t, ok)
}

func TestNewReporterTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	_, ok := NewReporter().(*TerminalReporter)
	assert.True(t, ok)
}
