package deps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// MP3EncoderName is the ffmpeg encoder used for merged output.
const MP3EncoderName = "libmp3lame"

var commandContext = exec.CommandContext

// ResolveFFmpeg reports the ffmpeg binary a merge run will execute.
//
// A bare "ffmpeg" setting prefers a copy shipped next to the pairmerge
// executable in exeDir and falls back to PATH. Any other setting is looked up
// as given.
func ResolveFFmpeg(configured, exeDir string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Encodes merged clips to MP3",
	}

	command := strings.TrimSpace(configured)
	if command == "" {
		command = "ffmpeg"
	}
	result.Command = command

	if command == "ffmpeg" && exeDir != "" {
		candidate := filepath.Join(exeDir, executableName("ffmpeg"))
		if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
			result.Path = candidate
			result.Available = true
			return result
		}
	}

	resolved, err := exec.LookPath(command)
	if err != nil {
		result.Detail = fmt.Sprintf("binary %q not found", command)
		return result
	}
	result.Path = resolved
	result.Available = true
	return result
}

// CheckMP3Encoder asks ffmpeg for its encoder list and reports whether
// libmp3lame is built in.
func CheckMP3Encoder(ctx context.Context, binary string) Status {
	result := Status{
		Name:        "libmp3lame",
		Command:     binary,
		Description: "MP3 encoder inside FFmpeg",
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := commandContext(ctx, binary, "-hide_banner", "-encoders")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		result.Detail = "ffmpeg -encoders failed: " + detail
		return result
	}
	for _, line := range strings.Split(stdout.String(), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == MP3EncoderName {
			result.Available = true
			return result
		}
	}
	result.Detail = "ffmpeg built without " + MP3EncoderName
	return result
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
