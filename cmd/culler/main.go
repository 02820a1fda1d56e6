package main

import (
	"os"
	"strings"

	"culler-cli/internal/cli"
	"culler-cli/internal/library"

	"k8s.io/klog/v2"
)

func isPhotoArg(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && library.IsMedia(s)
}

func rewriteDirectPhotoLookupArgs(argv []string) []string {
	// Convenience: `culler IMG_0001.jpg` works like `culler photos show IMG_0001.jpg`.
	//
	// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before
	// parsing. Persistent flags may come first, so look for the first positional token.
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without consuming a value so the photo is never eaten.
	valueFlags := map[string]bool{
		"--library":  true,
		"-L":         true,
		"--config":   true,
		"--format":   true,
		"--log-file": true,
		"--view":     true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	rewrite := func(at int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:at]...)
		out = append(out, "photos", "show")
		return append(out, argv[at:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isPhotoArg(argv[i+1]) {
				return rewrite(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && !boolFlags[a] && valueFlags[a] {
				i++
			}
			continue
		}
		if isPhotoArg(a) {
			return rewrite(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectPhotoLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	err := cmd.Execute()
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
