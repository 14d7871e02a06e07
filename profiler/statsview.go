package profiler

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// DefaultStatsviewAddr is the address the runtime charts are served on.
const DefaultStatsviewAddr = "localhost:12600"

const statsviewPath = "/debug/statsview"

// LaunchStatsview serves live Go runtime charts (heap, GC, goroutines) on
// addr in a new goroutine and reports the URL to output. The returned
// function stops the server.
func LaunchStatsview(addr string, output io.Writer) (stop func()) {
	if addr == "" {
		addr = DefaultStatsviewAddr
	}
	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()
	go mgr.Start()

	fmt.Fprintf(output, "stats server available at http://%s%s\n", addr, statsviewPath)
	return mgr.Stop
}
