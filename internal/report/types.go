package report

import (
	"runtime"

	"github.com/teftimov/IOHanalyzer/internal/experiment"
)

// Report wraps an experiment result with provenance for on-disk output.
type Report struct {
	Environment EnvironmentInfo    `json:"environment"`
	Result      *experiment.Result `json:"result"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

// Environment captures the runtime the report was produced on.
func Environment() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}
