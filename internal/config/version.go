package config

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultVersion = "0.1.0"

// GetVersion returns the version from APP_VERSION, or VERSION plus git commit count
func GetVersion() string {
	if envVersion := os.Getenv("APP_VERSION"); envVersion != "" {
		return envVersion
	}

	base := readVersionFile()
	if count := gitCommitCount(); count > 0 {
		return base + "." + strconv.Itoa(count)
	}
	return base
}

// readVersionFile looks for a VERSION file in the working directory and its parents
func readVersionFile() string {
	for _, dir := range []string{".", "..", filepath.Join("..", "..")} {
		content, err := os.ReadFile(filepath.Join(dir, "VERSION"))
		if err == nil {
			if v := strings.TrimSpace(string(content)); v != "" {
				return v
			}
		}
	}
	return defaultVersion
}

func gitCommitCount() int {
	output, err := exec.Command("git", "rev-list", "--count", "HEAD").Output()
	if err != nil {
		return 0
	}
	count, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		return 0
	}
	return count
}
