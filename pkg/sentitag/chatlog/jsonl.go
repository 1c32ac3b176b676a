package chatlog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// JSONLSource reads a transcript of one JSON message per line:
//
//	{"index": 3, "role": "bot", "text": "I'm so happy!"}
//
// Only messages with Role are considered; an empty Role accepts all.
type JSONLSource struct {
	Path string
	Role string
}

// NewJSONLSource creates a source for bot messages in path.
func NewJSONLSource(path string) *JSONLSource {
	return &JSONLSource{Path: path, Role: "bot"}
}

// Latest implements Source.
func (s *JSONLSource) Latest(ctx context.Context) (Message, bool, error) {
	if err := ctx.Err(); err != nil {
		return Message{}, false, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return Message{}, false, err
	}
	defer f.Close()

	return ReadLatest(f, s.Role)
}

// ReadLatest scans a JSONL transcript and returns the message with the
// greatest index whose role matches (empty role matches all).
func ReadLatest(r io.Reader, role string) (Message, bool, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var latest Message
	found := false
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var msg Message
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			return Message{}, false, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if role != "" && !strings.EqualFold(msg.Role, role) {
			continue
		}
		if !found || msg.Index > latest.Index {
			latest = msg
			found = true
		}
	}
	if err := scanner.Err(); err != nil {
		return Message{}, false, err
	}

	return latest, found, nil
}
