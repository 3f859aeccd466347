package deps

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

// versionTimeout bounds how long a version probe may run.
const versionTimeout = 5 * time.Second

// VersionRunner executes a binary and returns its combined output.
type VersionRunner func(ctx context.Context, binary string, args ...string) ([]byte, error)

func defaultVersionRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).CombinedOutput()
}

// Probe runs `<command> <flag>` for each available status and stores the
// first non-empty output line in Version. Unavailable entries are left
// untouched. A nil runner executes the real binary.
func Probe(ctx context.Context, statuses []Status, flags map[string]string, runner VersionRunner) []Status {
	if runner == nil {
		runner = defaultVersionRunner
	}
	out := make([]Status, len(statuses))
	copy(out, statuses)
	for i := range out {
		if !out[i].Available {
			continue
		}
		flag := flags[out[i].Name]
		if flag == "" {
			flag = "--version"
		}
		probeCtx, cancel := context.WithTimeout(ctx, versionTimeout)
		output, err := runner(probeCtx, out[i].Command, flag)
		cancel()
		if err != nil {
			out[i].Detail = "version probe failed: " + err.Error()
			continue
		}
		out[i].Version = firstLine(output)
	}
	return out
}

func firstLine(output []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line
		}
	}
	return ""
}
