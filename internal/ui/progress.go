// Package ui renders terminal feedback for the command line client.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const barWidth = 40

// ProgressReader wraps an upload body and redraws a progress bar on Out as
// bytes are read.
type ProgressReader struct {
	Label   string
	Total   int64
	Current int64
	Reader  io.Reader
	Out     io.Writer

	now        func() time.Time
	startTime  time.Time
	lastUpdate time.Time
	done       bool
}

func NewProgressReader(label string, total int64, r io.Reader, out io.Writer) *ProgressReader {
	return &ProgressReader{
		Label:     label,
		Total:     total,
		Reader:    r,
		Out:       out,
		now:       time.Now,
		startTime: time.Now(),
	}
}

func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.Reader.Read(p)
	pr.Current += int64(n)
	pr.printProgress()
	return n, err
}

// Bar renders the bar for current of total bytes.
func Bar(current, total int64) string {
	completed := barWidth
	if total > 0 && current < total {
		completed = int(float64(barWidth) * float64(current) / float64(total))
	}
	return strings.Repeat("█", completed) + strings.Repeat("░", barWidth-completed)
}

func (pr *ProgressReader) printProgress() {
	if pr.done {
		return
	}
	now := pr.now()
	// Redraw at most every 100ms unless finished.
	if pr.Current < pr.Total && now.Sub(pr.lastUpdate) < 100*time.Millisecond {
		return
	}
	pr.lastUpdate = now

	percent := 100.0
	if pr.Total > 0 {
		percent = float64(pr.Current) / float64(pr.Total) * 100
	}
	duration := now.Sub(pr.startTime).Seconds()
	if duration <= 0 {
		duration = 0.0001
	}
	speed := float64(pr.Current) / (1024 * 1024) / duration

	fmt.Fprintf(pr.Out, "\r%s [%s] %.1f%% (%.2f MB/s)", pr.Label, Bar(pr.Current, pr.Total), percent, speed)
	if pr.Current >= pr.Total {
		fmt.Fprintln(pr.Out)
		pr.done = true
	}
}
