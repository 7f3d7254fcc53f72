package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	ErrParseFailed = errors.New("parse failed")
	ErrNoDocument  = errors.New("no document loaded")
)

// ParseFunc is the external JWW parser: raw file bytes in, parser JSON out.
type ParseFunc func(data []byte) ([]byte, error)

// ParseError is a parser rejection reported to the user. It always carries a
// readable message.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return "parse failed: " + e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes every ParseError match ErrParseFailed.
func (e *ParseError) Is(target error) bool {
	return target == ErrParseFailed
}

const crashMessage = "the parser crashed; the file is unsupported or corrupt"

// Load runs parse on data and decodes the result.
func Load(parse ParseFunc, data []byte) (*Document, error) {
	out, err := Run(parse, data)
	if err != nil {
		return nil, err
	}
	return Decode(out)
}

// Run calls the parser and returns its raw JSON output. A panic inside the
// parser or an error with an empty message is reported as a generic crash.
func Run(parse ParseFunc, data []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("parser panic", "panic", r)
			out = nil
			err = &ParseError{Message: crashMessage}
		}
	}()

	out, perr := parse(data)
	if perr != nil {
		msg := strings.TrimSpace(perr.Error())
		if msg == "" {
			return nil, &ParseError{Message: crashMessage, Err: perr}
		}
		return nil, &ParseError{Message: msg, Err: perr}
	}
	return out, nil
}

// PassThrough is the ParseFunc for input that is already parser JSON.
func PassThrough(data []byte) ([]byte, error) { return data, nil }

type rawDocument struct {
	Version       int               `json:"version"`
	Memo          string            `json:"memo"`
	PaperSize     int               `json:"paper_size"`
	Bounds        *Bounds           `json:"bounds"`
	Layers        []Layer           `json:"layers"`
	Entities      []json.RawMessage `json:"entities"`
	PrintSettings *PrintSettings    `json:"print_settings"`
	EntityCounts  *EntityCounts     `json:"entity_counts"`
}

// Decode converts parser JSON output into a Document, classifying every
// entity. A malformed entity becomes KindUnknown instead of failing the
// whole document.
func Decode(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, &ParseError{Message: "empty parser output"}
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("invalid parser output: %v", err), Err: err}
	}

	doc := &Document{
		Version:       raw.Version,
		Memo:          raw.Memo,
		PaperSize:     raw.PaperSize,
		Bounds:        raw.Bounds,
		Layers:        raw.Layers,
		PrintSettings: raw.PrintSettings,
		Entities:      make([]Entity, 0, len(raw.Entities)),
	}

	for i, re := range raw.Entities {
		attrs, err := parseAttributes(re)
		if err != nil {
			slog.Warn("skip malformed entity", "index", i, "error", err)
			doc.Entities = append(doc.Entities, Entity{Kind: KindUnknown})
			continue
		}
		doc.Entities = append(doc.Entities, newEntity(attrs))
	}

	if raw.EntityCounts != nil && !raw.EntityCounts.IsZero() {
		doc.EntityCounts = *raw.EntityCounts
	} else {
		doc.EntityCounts = CountEntities(doc.Entities)
	}

	return doc, nil
}
