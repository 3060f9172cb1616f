// Package corpus reads SMS backup exports into raw messages for ingestion.
package corpus

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/momo-ledger/internal/common"
	"github.com/Veraticus/momo-ledger/internal/config"
	"github.com/Veraticus/momo-ledger/internal/model"
)

const smsElement = "sms"

// Reader parses the SMS Backup & Restore XML layout:
//
//	<smses><sms body="..." address="..." date="..." readable_date="..."/></smses>
//
// Only direct children of the root named sms are read.
type Reader struct{}

// NewReader creates a new corpus reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadFile opens path and parses it.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]model.RawMessage, error) {
	f, err := os.Open(config.ExpandPath(path)) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer func() { _ = f.Close() }()

	return r.Parse(ctx, f)
}

// Parse streams the document and returns messages in document order. The
// Index of each message is its position among the returned messages.
func (r *Reader) Parse(ctx context.Context, src io.Reader) ([]model.RawMessage, error) {
	dec := xml.NewDecoder(src)

	var (
		messages []model.RawMessage
		depth    int
		skipped  int
		sawRoot  bool
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrBadCorpus, err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				sawRoot = true
				continue
			}
			if depth != 2 || el.Name.Local != smsElement {
				continue
			}

			msg, ok := messageFrom(el)
			if !ok {
				skipped++
				slog.Debug("Skipping sms element without body", "position", len(messages)+skipped)
				continue
			}
			msg.Index = len(messages)
			messages = append(messages, msg)
		case xml.EndElement:
			depth--
		}
	}

	if !sawRoot {
		return nil, fmt.Errorf("%w: no root element", common.ErrBadCorpus)
	}

	slog.Debug("Parsed sms corpus", "messages", len(messages), "skipped", skipped)
	return messages, nil
}

func messageFrom(el xml.StartElement) (model.RawMessage, bool) {
	var msg model.RawMessage
	hasBody := false

	for _, attr := range el.Attr {
		switch attr.Name.Local {
		case "body":
			msg.Body = attr.Value
			hasBody = true
		case "address":
			msg.Address = attr.Value
		case "date":
			msg.Date = attr.Value
		case "readable_date":
			msg.ReadableDate = attr.Value
		}
	}

	return msg, hasBody
}
