package action

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"i18n-extract/internal/interpolation"
	"i18n-extract/internal/textutil"
)

var (
	// ErrCancelled means the user dismissed the key prompt. Callers stay silent.
	ErrCancelled = errors.New("key request cancelled")
	// ErrNoKey means no valid key was supplied.
	ErrNoKey = errors.New("no valid key")
	// ErrNotExtractable means no strategy accepts the node.
	ErrNotExtractable = errors.New("node cannot be extracted")
)

// suggestionWords caps the number of words a suggested key is built from.
const suggestionWords = 5

// KeyRequester asks for the translation key of an extracted text.
type KeyRequester interface {
	RequestKey(ctx context.Context, text, suggestion string) (string, error)
}

// SuggestKey derives a key from text: placeholders are dropped, the rest is
// slugged and placed in the default namespace.
func SuggestKey(text, defaultNs, nsSep, keySep string) string {
	sep := "_"
	if keySep == sep {
		sep = "-"
	}
	slug := textutil.Slug(interpolation.Strip(text), sep, suggestionWords)
	if slug == "" {
		return ""
	}
	if defaultNs == "" {
		return slug
	}
	return defaultNs + nsSep + slug
}

// StaticRequester returns a key fixed up front, e.g. from a command line flag.
type StaticRequester struct {
	Key string
}

func (r StaticRequester) RequestKey(ctx context.Context, _, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", ErrCancelled
	}
	if strings.TrimSpace(r.Key) == "" {
		return "", ErrNoKey
	}
	return r.Key, nil
}

// PromptRequester reads the key interactively. An empty answer accepts the
// suggestion and end of input cancels. It is not safe for concurrent use.
type PromptRequester struct {
	in  *bufio.Reader
	out io.Writer
	// pending holds the read still in flight after a cancelled request; the
	// next request waits on it instead of starting a second reader.
	pending chan line
}

// NewPromptRequester creates a PromptRequester reading from in and prompting on out.
func NewPromptRequester(in io.Reader, out io.Writer) *PromptRequester {
	return &PromptRequester{in: bufio.NewReader(in), out: out}
}

type line struct {
	text string
	err  error
}

func (r *PromptRequester) RequestKey(ctx context.Context, text, suggestion string) (string, error) {
	prompt := fmt.Sprintf("Key for %q", textutil.Truncate(text, 40))
	if suggestion != "" {
		prompt += fmt.Sprintf(" [%s]", suggestion)
	}
	if _, err := fmt.Fprint(r.out, prompt+": "); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	if r.pending == nil {
		ch := make(chan line, 1)
		go func() {
			s, err := r.in.ReadString('\n')
			ch <- line{text: s, err: err}
		}()
		r.pending = ch
	}

	var l line
	select {
	case <-ctx.Done():
		return "", ErrCancelled
	case l = <-r.pending:
		r.pending = nil
	}

	if l.err != nil && !errors.Is(l.err, io.EOF) {
		return "", fmt.Errorf("read key: %w", l.err)
	}
	if errors.Is(l.err, io.EOF) && l.text == "" {
		return "", ErrCancelled
	}

	key := strings.TrimSpace(l.text)
	if key == "" {
		if suggestion == "" {
			return "", ErrNoKey
		}
		return suggestion, nil
	}
	return key, nil
}
