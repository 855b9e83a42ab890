// Package deps reports the availability of external binaries framegate can
// use at runtime. All framegate dependencies are optional capabilities; a
// missing binary degrades behaviour instead of failing startup.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary framegate can take advantage of.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Default returns the requirements for a framegate deployment. The OpenJPEG
// decoder enables JPEG 2000 to PNG transcoding; without it JP2 frames are
// served in their original encoding.
func Default(transcodeBinary string) []Requirement {
	if strings.TrimSpace(transcodeBinary) == "" {
		transcodeBinary = "opj_decompress"
	}
	return []Requirement{
		{
			Name:        "OpenJPEG decoder",
			Command:     transcodeBinary,
			Description: "decodes JPEG 2000 frames for browser display",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
