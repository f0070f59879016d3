// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ManualProgressBar implement progress bar functionality that must
// be manually managed. That is, the Display() function must be called
// whenever an updated progress bar should be printed.
//
// ManualProgressBar does not use concurrency.
type ManualProgressBar struct {
	out             io.Writer
	width           int
	maxProgress     int
	currentProgress int
	label           string
	startTime       time.Time
}

// NewManualProgressBar returns a new ManualProgressBar that is full
// after total increments and is drawn width characters wide to out
func NewManualProgressBar(out io.Writer, width, total int) *ManualProgressBar {
	return &ManualProgressBar{
		out:         out,
		width:       width,
		maxProgress: max(total, 1),
		startTime:   time.Now(),
	}
}

// Increment increments the interal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ManualProgressBar) Increment() {
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// SetLabel sets a short status string shown after the bar
func (p *ManualProgressBar) SetLabel(label string) {
	p.label = label
}

// Fraction returns the fraction of progress completed
func (p *ManualProgressBar) Fraction() float64 {
	return float64(p.currentProgress) / float64(p.maxProgress)
}

// String returns the progress bar as a single line
func (p *ManualProgressBar) String() string {
	var bar strings.Builder
	bar.WriteString("|")

	filled := int(p.Fraction() * float64(p.width))
	bar.WriteString(strings.Repeat("█", filled))
	bar.WriteString(strings.Repeat(" ", p.width-filled))

	fmt.Fprintf(&bar, "| [%.2f%% | elapsed: %v]", p.Fraction()*100,
		time.Since(p.startTime).Truncate(time.Second))
	if p.label != "" {
		fmt.Fprintf(&bar, " %v", p.label)
	}
	return bar.String()
}

// Display redraws the progress bar in place on the current line
func (p *ManualProgressBar) Display() {
	fmt.Fprintf(p.out, "\r\033[K%v", p)
}

// Close finishes the progress bar line
func (p *ManualProgressBar) Close() {
	fmt.Fprintln(p.out)
}
