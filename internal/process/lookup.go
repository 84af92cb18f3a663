package process

import "os/exec"

// FindExecutable returns the first of names found on PATH. An explicit
// path (containing a separator) is checked as-is.
func FindExecutable(names ...string) (string, bool) {
	for _, name := range names {
		if name == "" {
			continue
		}
		if path, err := exec.LookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}
