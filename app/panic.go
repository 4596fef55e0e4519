package app

import (
	"fmt"
	"strings"

	"csgview/hal"
	"csgview/viewer/kernel"
	"csgview/viewer/services/status"
)

// installPanicHandler logs recovered task panics with their stack and puts a
// short notice in the status bar. The viewer keeps running.
func installPanicHandler(log hal.Logger, bar *status.Bar) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		if log != nil {
			who := "posted"
			if info.TaskID != kernel.NoTask {
				who = fmt.Sprintf("task=%d", info.TaskID)
			}
			log.WriteLineString(fmt.Sprintf("csgview panic: %s panic=%v", who, info.Value))
			for _, line := range strings.Split(string(info.Stack), "\n") {
				if line == "" {
					continue
				}
				log.WriteLineString(line)
			}
		}
		if bar != nil {
			bar.SetStatusText(fmt.Sprintf("Internal error: %v", info.Value))
		}
	})
}
