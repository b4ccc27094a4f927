// Package action runs the extract command: it asks the extraction strategies
// about a node, requests a key, plans the resource changes and applies them
// together with the source rewrite in one transaction.
package action

import (
	"context"
	"fmt"
	"os"
	"strings"

	"i18n-extract/internal/extract"
	"i18n-extract/internal/keytree"
	"i18n-extract/internal/resource"
	"i18n-extract/internal/textutil"

	"github.com/rs/zerolog/log"
)

// Options configures an Extractor.
type Options struct {
	Vue          bool
	NsSeparator  string
	KeySeparator string
	DefaultNs    string
	// DryRun computes everything but writes nothing.
	DryRun bool
}

// Extractor turns a string literal into a lookup call.
type Extractor struct {
	store *resource.Store
	keys  KeyRequester
	opts  Options
}

// NewExtractor creates an Extractor recording keys in store.
func NewExtractor(store *resource.Store, keys KeyRequester, opts Options) *Extractor {
	if opts.NsSeparator == "" {
		opts.NsSeparator = ":"
	}
	if opts.KeySeparator == "" {
		opts.KeySeparator = "."
	}
	return &Extractor{store: store, keys: keys, opts: opts}
}

// Result describes a completed (or, in dry-run mode, planned) extraction.
type Result struct {
	Dialect     extract.Dialect
	Text        string
	Key         string
	Range       extract.Range
	Replacement string
	Source      []byte
	Plan        *resource.Plan
	// Written lists the files changed, empty in dry-run mode.
	Written []string
}

// Run extracts node from the file at sourcePath. Nothing is written unless a
// valid key was obtained and every change could be computed.
func (e *Extractor) Run(ctx context.Context, node extract.Node, sourcePath string) (*Result, error) {
	res := extract.Extract(node, e.opts.Vue)
	if !res.CanExtract {
		return nil, fmt.Errorf("%s node: %w", node.Kind(), ErrNotExtractable)
	}

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	if res.Range.Start < 0 || res.Range.End > len(source) || res.Range.Len() < 0 {
		return nil, fmt.Errorf("replacement range [%d, %d) outside %s (%d bytes)",
			res.Range.Start, res.Range.End, sourcePath, len(source))
	}

	suggestion := SuggestKey(res.Text, e.opts.DefaultNs, e.opts.NsSeparator, e.opts.KeySeparator)
	raw, err := e.keys.RequestKey(ctx, res.Text, suggestion)
	if err != nil {
		return nil, err
	}
	tree, err := keytree.Parse(raw, e.opts.NsSeparator, e.opts.KeySeparator)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoKey, err)
	}

	key := keytree.Compose(tree, e.opts.NsSeparator, e.opts.KeySeparator)
	replacement := res.Template(Quote(key))

	plan, err := e.store.Plan(ctx, tree, res.Text)
	if err != nil {
		return nil, fmt.Errorf("plan resources: %w", err)
	}

	result := &Result{
		Dialect:     res.Dialect,
		Text:        res.Text,
		Key:         key,
		Range:       res.Range,
		Replacement: replacement,
		Source:      Splice(source, res.Range, replacement),
		Plan:        plan,
	}

	if ctx.Err() != nil {
		return nil, ErrCancelled
	}
	if e.opts.DryRun {
		log.Info().Str("key", key).Str("text", textutil.Truncate(res.Text, 30)).Msg("Dry run, nothing written")
		return result, nil
	}

	txn := resource.NewTxn()
	defer txn.Rollback()
	txn.Write(sourcePath, result.Source)
	plan.Stage(txn)
	if err := txn.Commit(); err != nil {
		return nil, fmt.Errorf("apply changes: %w", err)
	}
	result.Written = txn.Paths()

	log.Info().
		Str("key", key).
		Str("dialect", res.Dialect.String()).
		Int("files", len(result.Written)).
		Msg("Extracted string")
	return result, nil
}

// Quote renders key as a single-quoted string literal.
func Quote(key string) string {
	key = strings.ReplaceAll(key, `\`, `\\`)
	return "'" + strings.ReplaceAll(key, "'", `\'`) + "'"
}

// Splice returns a copy of source with r replaced by s.
func Splice(source []byte, r extract.Range, s string) []byte {
	out := make([]byte, 0, len(source)-r.Len()+len(s))
	out = append(out, source[:r.Start]...)
	out = append(out, s...)
	return append(out, source[r.End:]...)
}
