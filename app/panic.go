package app

import (
	"fmt"
	"strings"

	"clockface/hal"
	"clockface/looper"
)

// installPanicHandler turns a panicking callback into a logged fault: the
// stack goes to the HAL logger, the screen is blanked white and the next
// Step returns the fault so the runner exits.
func installPanicHandler(a *App) {
	a.lp.SetPanicHandler(func(info looper.PanicInfo) {
		if a.fault != nil {
			return
		}
		a.fault = fmt.Errorf("app: panic: %v", info.Value)

		if l := a.log; l != nil {
			l.WriteLineString(fmt.Sprintf("clockface panic: %v", info.Value))
			if len(info.Stack) == 0 {
				l.WriteLineString("stack: unavailable")
			}
			for _, line := range strings.Split(string(info.Stack), "\n") {
				if line == "" {
					continue
				}
				l.WriteLineString(line)
			}
		}

		if a.fb != nil && a.fb.Format() == hal.PixelFormatRGB565 {
			a.fb.ClearRGB(255, 255, 255)
			_ = a.fb.Present()
		}
	})
}
