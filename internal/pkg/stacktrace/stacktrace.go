package stacktrace

import "strings"

// InternalPaths extracts the "internal/..../file.go:line" frames of a
// debug.Stack dump, dropping runtime and third-party frames.
func InternalPaths(stack []byte) []string {
	var paths []string
	for line := range strings.Lines(string(stack)) {
		line = strings.TrimSpace(line)
		i := strings.Index(line, "/internal/")
		if i == -1 || !strings.Contains(line, ".go:") {
			continue
		}
		frame := line[i+1:]
		if sp := strings.IndexByte(frame, ' '); sp != -1 {
			frame = frame[:sp]
		}
		paths = append(paths, frame)
	}
	return paths
}
