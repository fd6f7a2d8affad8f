// Package affinity validates the optional CPU_AFFINITY core specification
// against the host topology before a launch is allowed to proceed.
package affinity

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/SourceServerManager/srcds-agent/app/utils"
	"github.com/SourceServerManager/srcds-agent/app/vars"
	"github.com/shirou/gopsutil/cpu"
)

// Grammar: digit+ ( [,-] digit+ )*
var corePattern = regexp.MustCompile(`^[0-9]+([,-][0-9]+)*$`)

// Swappable in tests
var (
	lookPath     = exec.LookPath
	logicalCores = func() (int, error) { return cpu.Counts(true) }
)

type ToolMissingError struct {
	Tool   string
	Source string
}

func (e *ToolMissingError) Error() string {
	return fmt.Sprintf("CPU affinity is configured but %q was not found in PATH - install it (part of %s) or unset CPU_AFFINITY", e.Tool, e.Source)
}

type InvalidFormatError struct {
	Spec string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid CPU_AFFINITY value %q - expected a core range such as \"0-3\" or \"0,1,2,3\"", e.Spec)
}

// Validate checks an affinity specification. An empty spec means the feature
// is disabled and always passes. A missing pinning tool or a malformed spec
// fails and aborts the launch; a core index beyond the host topology only
// warns, since the server may still refuse to start on its own.
func Validate(spec string) error {

	if spec == "" {
		return nil
	}

	if _, err := lookPath(vars.PinTool); err != nil {
		return &ToolMissingError{Tool: vars.PinTool, Source: vars.PinToolSource}
	}

	if !corePattern.MatchString(spec) {
		return &InvalidFormatError{Spec: spec}
	}

	cores, err := logicalCores()
	if err != nil {
		utils.WarnLogger.Printf("Could not determine host core count: %s\r\n", err.Error())
		return nil
	}

	maxCPU := cores - 1
	if highest := MaxCoreIndex(spec); highest > maxCPU {
		utils.WarnLogger.Printf("CPU_AFFINITY %q references core %d but the highest core on this host is %d - the server may fail to start\r\n", spec, highest, maxCPU)
	}

	utils.InfoLogger.Printf("Validated CPU affinity %q against %d host cores\r\n", spec, cores)

	return nil
}

// HostCores returns the logical core count, or 0 when it cannot be
// determined.
func HostCores() int {
	cores, err := logicalCores()
	if err != nil {
		return 0
	}

	return cores
}

// MaxCoreIndex returns the highest core index referenced by a syntactically
// valid specification.
func MaxCoreIndex(spec string) int {
	highest := 0
	for _, part := range strings.FieldsFunc(spec, func(r rune) bool { return r == ',' || r == '-' }) {
		index, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		if index > highest {
			highest = index
		}
	}

	return highest
}
