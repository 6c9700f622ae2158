package capture

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

var audioTypes = map[string]string{
	".wav":  "audio/wav",
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".opus": "audio/ogg",
	".mp3":  "audio/mp3",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
	".aac":  "audio/aac",
}

// LoadFile reads an existing recording into a clip.
func LoadFile(path string) (Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Clip{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return Clip{}, fmt.Errorf("read %s: file is empty", path)
	}
	return Clip{Data: data, MIMEType: MIMEType(path)}, nil
}

func MIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := audioTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); strings.HasPrefix(t, "audio/") {
		return t
	}
	return "audio/webm"
}
