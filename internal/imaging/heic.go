package imaging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrHEICConversion is shown to the user as is.
var ErrHEICConversion = errors.New("Unable to convert HEIC image. Please convert it to JPEG manually before uploading.")

const (
	DefaultHEICCommand = "heif-convert"
	HEICQuality        = 90
)

// HEICConverter turns a HEIC/HEIF file into a JPEG.
type HEICConverter interface {
	Convert(ctx context.Context, data []byte) ([]byte, error)
}

// IsHEIC reports whether a file is HEIC/HEIF, by content type or by extension
// since browsers and some OSes report an empty type for these files.
func IsHEIC(filename, contentType string) bool {
	switch strings.ToLower(contentType) {
	case "image/heic", "image/heif":
		return true
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".heic", ".heif":
		return true
	}
	return false
}

// CommandConverter runs a heif-convert compatible binary: `<cmd> -q <quality> <in> <out>`.
type CommandConverter struct {
	Command string
	Quality int
}

var _ HEICConverter = (*CommandConverter)(nil)

func NewCommandConverter(command string) *CommandConverter {
	if command == "" {
		command = DefaultHEICCommand
	}
	return &CommandConverter{Command: command, Quality: HEICQuality}
}

func (c *CommandConverter) Convert(ctx context.Context, data []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "heic-*")
	if err != nil {
		return nil, fmt.Errorf("could not create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "in.heic")
	out := filepath.Join(dir, "out.jpg")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return nil, fmt.Errorf("could not write temp input: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.Command, "-q", strconv.Itoa(c.Quality), in, out)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s failed: %w: %s", c.Command, err, strings.TrimSpace(string(output)))
	}

	converted, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("could not read converted image: %w", err)
	}
	return converted, nil
}
