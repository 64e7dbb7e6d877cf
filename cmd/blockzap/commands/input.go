package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/blockzap/pkg/block"
	"github.com/jmylchreest/blockzap/pkg/zap"
)

// parseSize parses a human size such as "10MB". Empty or "0" means
// unlimited and returns 0.
func parseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return int64(n), nil
}

// readDocument loads a block document from path, or from stdin when path is
// empty or "-". Stdin is decoded as stdinFormat. The returned int is the
// encoded size in bytes.
func readDocument(path string, stdin io.Reader, stdinFormat block.Format, maxBytes int64) (block.Document, int, error) {
	var (
		r      io.Reader
		format block.Format
		name   string
	)

	if path == "" || path == "-" {
		r, format, name = stdin, stdinFormat, "stdin"
	} else {
		f, err := block.FormatFromPath(path)
		if err != nil {
			return block.Document{}, 0, err
		}
		file, err := os.Open(path) //#nosec G304
		if err != nil {
			return block.Document{}, 0, fmt.Errorf("failed to open document: %w", err)
		}
		defer file.Close()
		r, format, name = file, f, path
	}

	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return block.Document{}, 0, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return block.Document{}, 0, fmt.Errorf("%s exceeds max size %s", name, humanize.Bytes(uint64(maxBytes)))
	}

	doc, err := block.Decode(data, format)
	if err != nil {
		return block.Document{}, 0, fmt.Errorf("%s: %w", name, err)
	}
	return doc, len(data), nil
}

// resolveOptions turns CLI/config settings into a mode and options. Without
// explicit categories the default selection is used.
func resolveOptions(modeName string, remove []string, keepMedia bool) (zap.Mode, zap.Options, error) {
	mode, err := zap.ParseMode(modeName)
	if err != nil {
		return "", zap.Options{}, err
	}

	var names []string
	for _, r := range remove {
		for _, part := range strings.Split(r, ",") {
			if part = strings.TrimSpace(part); part != "" {
				names = append(names, part)
			}
		}
	}

	if len(names) == 0 {
		opts := zap.DefaultOptions()
		opts.KeepMedia = keepMedia
		return mode, opts, nil
	}

	opts, err := zap.OptionsFromNames(names, keepMedia)
	if err != nil {
		return "", zap.Options{}, err
	}
	return mode, opts, nil
}
