package player

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/h2non/filetype"
	"github.com/mitchellh/go-homedir"
)

// preflight rejects local paths that are missing or clearly not media
// and returns the location to hand to the engine. Streams and anything
// the sniffer does not know are left to the engine.
func preflight(url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("%w: empty url", ErrLoad)
	}
	if strings.Contains(url, "://") {
		return url, nil
	}

	path, err := homedir.Expand(url)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrLoad, url, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer f.Close()

	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("%w: %s: %v", ErrLoad, url, err)
	}
	kind, _ := filetype.Match(head[:n])
	if kind == filetype.Unknown {
		return path, nil
	}
	switch kind.MIME.Type {
	case "video", "audio", "image":
		return path, nil
	}
	return "", fmt.Errorf("%w: %s is %s, not media", ErrLoad, url, kind.MIME.Value)
}
