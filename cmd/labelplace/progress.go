package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/tdewolff/labelplace"
)

// progress shows a spinner with the state of the current cooling stage, the number of stages is not known in advance.
type progress struct {
	bar *progressbar.ProgressBar
}

func newProgress(w io.Writer) *progress {
	return &progress{
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("placing labels"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		),
	}
}

func describe(s labelplace.Stage) string {
	return fmt.Sprintf("stage %d: T=%.3g E=%.3g obstructed=%d accepted=%d rejected=%d", s.Stage, s.Temperature, s.Energy, s.Obstructed, s.Accepted, s.Rejected)
}

// Stage is called at the end of every cooling stage.
func (p *progress) Stage(s labelplace.Stage) {
	p.bar.Describe(describe(s))
	_ = p.bar.Add(1)
}

func (p *progress) Finish() {
	_ = p.bar.Finish()
}
