package chatlog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Defaults for the chat page markup.
const (
	DefaultItemAttr     = "data-item-index"
	DefaultMessageClass = "css-ijnpk1"
)

// HTMLSource reads the latest bot message from a saved chat page.
//
// Every element carrying ItemAttr is a chat item; the item with the greatest
// integer index wins, and its first descendant whose class list contains
// MessageClass holds the message text.
type HTMLSource struct {
	Path         string
	ItemAttr     string
	MessageClass string
}

// NewHTMLSource creates a source for path using the default markup names.
func NewHTMLSource(path string) *HTMLSource {
	return &HTMLSource{Path: path, ItemAttr: DefaultItemAttr, MessageClass: DefaultMessageClass}
}

// Latest implements Source.
func (s *HTMLSource) Latest(ctx context.Context) (Message, bool, error) {
	if err := ctx.Err(); err != nil {
		return Message{}, false, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return Message{}, false, err
	}
	defer f.Close()

	return ExtractLatest(f, s.ItemAttr, s.MessageClass)
}

// ExtractLatest parses an HTML document and returns its latest bot message.
// Empty itemAttr or messageClass select the defaults.
func ExtractLatest(r io.Reader, itemAttr, messageClass string) (Message, bool, error) {
	if itemAttr == "" {
		itemAttr = DefaultItemAttr
	}
	if messageClass == "" {
		messageClass = DefaultMessageClass
	}

	root, err := html.Parse(r)
	if err != nil {
		return Message{}, false, fmt.Errorf("parse html: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	var latest *goquery.Selection
	maxIndex := 0
	doc.Find("[" + itemAttr + "]").Each(func(_ int, s *goquery.Selection) {
		v, _ := s.Attr(itemAttr)
		idx, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return
		}
		if latest == nil || idx > maxIndex {
			latest = s
			maxIndex = idx
		}
	})

	if latest == nil {
		return Message{}, false, nil
	}

	// Find matches whole entries of the class list, depth first.
	body := latest.Find("." + messageClass).First()
	if body.Length() == 0 {
		return Message{}, false, nil
	}

	text := strings.TrimSpace(body.Text())
	return Message{Index: maxIndex, Role: "bot", Text: &text}, true, nil
}
