package progressbar

import (
	"bytes"
	"strings"
	"testing"
)

func TestManualProgressBar(t *testing.T) {
	var out bytes.Buffer
	p := NewManualProgressBar(&out, 10, 4)

	for i := 0; i < 6; i++ {
		p.Increment()
	}
	if p.Fraction() != 1 {
		t.Errorf("progress should saturate: have(%v)", p.Fraction())
	}

	p = NewManualProgressBar(&out, 10, 4)
	p.Increment()
	p.SetLabel("ε = 0.5")
	p.Display()

	line := out.String()
	if n := strings.Count(line, "█"); n != 2 {
		t.Errorf("filled cells: want(2) have(%v) in %q", n, line)
	}
	if !strings.Contains(line, "25.00%") || !strings.Contains(line, "ε = 0.5") {
		t.Errorf("unexpected bar %q", line)
	}
}
