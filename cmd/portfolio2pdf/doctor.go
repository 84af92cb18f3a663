package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// Doctor status values.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Wkhtml   programInfo `json:"wkhtmltopdf"`
	Chrome   chromeInfo  `json:"chrome"`
	Env      envInfo     `json:"environment"`
	System   systemInfo  `json:"system"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// programInfo holds executable detection results.
type programInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	programInfo
	Sandbox    bool `json:"sandbox"`
	Downloaded bool `json:"downloaded,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
	WkhtmlPath    string `json:"wkhtmltopdf_path"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args)
	if err != nil {
		return handleParseError(err, env, printDoctorUsage)
	}

	result := runDoctor(ctx, flags, env)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, flags *doctorFlags, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  env.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: env.Getenv("ROD_BROWSER_BIN"),
			WkhtmlPath: env.Getenv("WKHTMLTOPDF_PATH"),
		},
	}

	checkWkhtml(ctx, result, env)
	checkChrome(ctx, result, flags.downloadBrowser, env)
	checkEnvironment(result, env)
	checkSystem(result)

	if !result.Wkhtml.Found && !result.Chrome.Found {
		result.Errors = append(result.Errors,
			"No renderer available. Install wkhtmltopdf or run 'portfolio2pdf doctor --download-browser'")
	}

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkWkhtml detects the wkhtmltopdf executable.
func checkWkhtml(ctx context.Context, result *doctorResult, env *Environment) {
	if p := result.Env.WkhtmlPath; p != "" {
		if _, err := os.Stat(p); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("WKHTMLTOPDF_PATH points to a missing file: %s", p))
			return
		}
	}

	path, found := env.FindWkhtml()
	if !found {
		result.Warnings = append(result.Warnings,
			"wkhtmltopdf not found. Install it from https://wkhtmltopdf.org/downloads.html to use 'portfolio2pdf wkhtml'")
		return
	}

	result.Wkhtml.Found = true
	result.Wkhtml.Path = path
	if v, err := env.ProgramVersion(ctx, path); err == nil {
		result.Wkhtml.Version = v
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get wkhtmltopdf version: %v", err))
	}
}

// checkChrome detects Chrome/Chromium, downloading it first when asked.
func checkChrome(ctx context.Context, result *doctorResult, download bool, env *Environment) {
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"

	chromePath := result.Env.BrowserBin
	if download {
		path, err := env.DownloadBrowser()
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Chromium download failed: %v", err))
		} else {
			result.Chrome.Downloaded = true
			if chromePath == "" {
				chromePath = path
			}
		}
	}

	if chromePath == "" {
		var found bool
		chromePath, found = env.FindBrowser()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found. 'portfolio2pdf browser' downloads Chromium on first use, or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
	if v, err := env.ProgramVersion(ctx, chromePath); err == nil {
		result.Chrome.Version = v
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, env *Environment) {
	result.Env.Container, result.Env.ContainerHint = isContainer(env.Getenv)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if env.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1 or use --no-sandbox")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(getenv func(string) string) (bool, string) {
	if getenv("PORTFOLIO2PDF_CONTAINER") == "1" {
		return true, "PORTFOLIO2PDF_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory is writable. The browser engines
// keep their profiles there.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	f, err := os.CreateTemp(tmpDir, "portfolio2pdf-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(filepath.Clean(name))
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "portfolio2pdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "wkhtmltopdf")
	printProgram(w, r.Wkhtml)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Downloaded {
		fmt.Fprintln(w, "  [OK] Managed Chromium downloaded")
	}
	printProgram(w, r.Chrome.programInfo)
	if r.Chrome.Found {
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func printProgram(w io.Writer, p programInfo) {
	if !p.Found {
		fmt.Fprintln(w, "  [WARN] Not found")
		return
	}
	fmt.Fprintf(w, "  [OK] Found at %s\n", p.Path)
	if p.Version != "" {
		fmt.Fprintf(w, "  [OK] Version: %s\n", p.Version)
	}
}

