package cmd

import (
	"fmt"
	"io"

	"github.com/alantheprice/siteforge/pkg/events"
	"github.com/alantheprice/siteforge/pkg/types"
)

// watchProgress subscribes a CLI progress printer to the bus so per-file
// outcomes show up as they complete. The returned stop function
// unsubscribes and waits for the printer to drain.
func watchProgress(bus *events.EventBus, w io.Writer) func() {
	ch := bus.Subscribe("cli")
	done := make(chan struct{})

	go func() {
		defer close(done)
		for evt := range ch {
			if line := renderProgressEvent(evt); line != "" {
				fmt.Fprintln(w, line)
			}
		}
	}()

	return func() {
		bus.Unsubscribe("cli")
		<-done
	}
}

// renderProgressEvent formats one progress event as a console line. The
// run summary is printed separately, so run completion renders nothing.
func renderProgressEvent(evt events.Event) string {
	switch evt.Type {
	case events.EventTypeRunStarted:
		if data, ok := evt.Data.(map[string]any); ok {
			return fmt.Sprintf("Run %s: generating %v files", evt.RunID, data["files"])
		}
		return fmt.Sprintf("Run %s started", evt.RunID)
	case events.EventTypeFileStarted:
		if data, ok := evt.Data.(map[string]any); ok {
			return fmt.Sprintf("  generating %v", data["filename"])
		}
	case events.EventTypeFileCompleted:
		if result, ok := evt.Data.(types.GenerationResult); ok {
			if result.Status == types.StatusSuccess {
				return fmt.Sprintf("  [SUCCESS] %s", result.Filename)
			}
			return fmt.Sprintf("  [FAILED] %s: %s", result.Filename, result.Error)
		}
	}
	return ""
}
