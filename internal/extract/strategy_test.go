package extract_test

import (
	"testing"

	"i18n-extract/internal/extract"
	"i18n-extract/internal/syntaxtree"
)

// buildTree decodes an inline snapshot against source.
func buildTree(t *testing.T, source, doc string) *syntaxtree.Node {
	t.Helper()
	snap, err := syntaxtree.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	root, err := snap.Build([]byte(source))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return root
}

func nodeAt(t *testing.T, root *syntaxtree.Node, offset int) extract.Node {
	t.Helper()
	n := root.At(offset)
	if n == nil {
		t.Fatalf("no node at offset %d", offset)
	}
	return n
}

const jsCall = `
fileType: js
language: javascript
root:
  kind: FILE
  start: 0
  end: 21
  children:
    - kind: CALL
      name: greet
      children:
        - {kind: IDENTIFIER, start: 0, end: 5}
        - kind: ARGUMENTS
          children:
            - {kind: PUNCTUATION, start: 5, end: 6}
            - kind: EXPRESSION
              children:
                - {kind: "JS:STRING_LITERAL", start: 6, end: 19}
            - {kind: PUNCTUATION, start: 19, end: 20}
    - {kind: PUNCTUATION, start: 20, end: 21}
`

const jsWrapped = `
fileType: js
language: javascript
root:
  kind: CALL
  name: t
  children:
    - {kind: IDENTIFIER, start: 0, end: 1}
    - kind: ARGUMENTS
      children:
        - {kind: PUNCTUATION, start: 1, end: 2}
        - kind: EXPRESSION
          children:
            - {kind: "JS:STRING_LITERAL", start: 2, end: 5}
        - {kind: PUNCTUATION, start: 5, end: 7}
        - kind: EXPRESSION
          children:
            - {kind: "JS:STRING_LITERAL", start: 7, end: 10}
        - {kind: PUNCTUATION, start: 10, end: 11}
`

func TestScriptStrategy(t *testing.T) {
	root := buildTree(t, `greet("Hello world");`, jsCall)
	node := nodeAt(t, root, 7)

	res := extract.Extract(node, false)
	if res.Dialect != extract.DialectScript || !res.CanExtract {
		t.Fatalf("Extract() = %v/%v, want script/true", res.Dialect, res.CanExtract)
	}
	if res.Text != "Hello world" {
		t.Errorf("Text = %q, want %q", res.Text, "Hello world")
	}
	if want := (extract.Range{Start: 6, End: 19}); res.Range != want {
		t.Errorf("Range = %+v, want %+v", res.Range, want)
	}
	if got := res.Template("'greeting:hello'"); got != "i18n.t('greeting:hello')" {
		t.Errorf("Template = %q", got)
	}
}

func TestScriptStrategyAlreadyWrapped(t *testing.T) {
	source := `t("a", "b")`
	root := buildTree(t, source, jsWrapped)

	first := nodeAt(t, root, 3)
	if res := extract.Extract(first, false); res.CanExtract {
		t.Errorf("first argument of t() reported extractable as %v", res.Dialect)
	}

	second := nodeAt(t, root, 8)
	res := extract.Extract(second, false)
	if !res.CanExtract || res.Dialect != extract.DialectScript {
		t.Errorf("second argument of t() = %v/%v, want script/true", res.Dialect, res.CanExtract)
	}
	if res.Text != "b" {
		t.Errorf("Text = %q, want b", res.Text)
	}
}

func TestPHPStrategy(t *testing.T) {
	source := `<?php echo "Sign in";`
	doc := `
fileType: php
language: php
root:
  kind: FILE
  start: 0
  end: 21
  children:
    - kind: EXPRESSION
      children:
        - {kind: double quoted string, start: 11, end: 20}
`
	root := buildTree(t, source, doc)
	res := extract.Extract(nodeAt(t, root, 12), false)
	if res.Dialect != extract.DialectPHP || !res.CanExtract {
		t.Fatalf("Extract() = %v/%v, want php/true", res.Dialect, res.CanExtract)
	}
	if res.Text != "Sign in" {
		t.Errorf("Text = %q, want Sign in", res.Text)
	}
	if got := res.Template("'auth.signin'"); got != "t('auth.signin')" {
		t.Errorf("Template = %q, want t('auth.signin')", got)
	}
}

func TestPHPStrategyAlreadyWrapped(t *testing.T) {
	source := `t('Sign in')`
	doc := `
fileType: php
language: php
root:
  kind: CALL
  name: t
  children:
    - {kind: IDENTIFIER, start: 0, end: 1}
    - kind: ARGUMENTS
      children:
        - {kind: PUNCTUATION, start: 1, end: 2}
        - kind: EXPRESSION
          children:
            - {kind: single quoted string, start: 2, end: 11}
        - {kind: PUNCTUATION, start: 11, end: 12}
`
	root := buildTree(t, source, doc)
	if res := extract.Extract(nodeAt(t, root, 3), false); res.CanExtract {
		t.Errorf("t('Sign in') reported extractable as %v", res.Dialect)
	}
}

func TestJSXStrategy(t *testing.T) {
	t.Run("single text element", func(t *testing.T) {
		source := `<button>Save changes</button>`
		doc := `
fileType: jsx
language: javascript
root:
  kind: XML_TAG
  name: button
  start: 0
  end: 29
  children:
    - kind: XML_TEXT
      children:
        - {kind: XML_TOKEN, start: 8, end: 12}
        - {kind: WHITE_SPACE, start: 12, end: 13}
        - {kind: XML_TOKEN, start: 13, end: 20}
`
		root := buildTree(t, source, doc)
		res := extract.Extract(nodeAt(t, root, 9), false)
		if res.Dialect != extract.DialectJSX || !res.CanExtract {
			t.Fatalf("Extract() = %v/%v, want jsx/true", res.Dialect, res.CanExtract)
		}
		if res.Text != "Save changes" {
			t.Errorf("Text = %q, want Save changes", res.Text)
		}
		if want := (extract.Range{Start: 8, End: 20}); res.Range != want {
			t.Errorf("Range = %+v, want %+v", res.Range, want)
		}
		if got := res.Template("'save'"); got != "i18n.t('save')" {
			t.Errorf("Template = %q", got)
		}
	})

	t.Run("text elements around an expression", func(t *testing.T) {
		source := `<p>Hello {name} world</p>`
		doc := `
fileType: tsx
language: javascript
root:
  kind: XML_TAG
  name: p
  start: 0
  end: 25
  children:
    - {kind: XML_TEXT, start: 3, end: 8}
    - {kind: EXPRESSION, start: 9, end: 15}
    - {kind: XML_TEXT, start: 16, end: 21}
`
		root := buildTree(t, source, doc)
		res := extract.Extract(nodeAt(t, root, 4), false)
		if !res.CanExtract {
			t.Fatalf("Extract() not extractable, dialect %v", res.Dialect)
		}
		if res.Text != "Hello world" {
			t.Errorf("Text = %q, want Hello world", res.Text)
		}
		if want := (extract.Range{Start: 3, End: 21}); res.Range != want {
			t.Errorf("Range = %+v, want %+v", res.Range, want)
		}
	})

	t.Run("nested tag", func(t *testing.T) {
		source := `<p>Hi <b>there</b></p>`
		doc := `
fileType: jsx
language: javascript
root:
  kind: XML_TAG
  name: p
  start: 0
  end: 22
  children:
    - {kind: XML_TEXT, start: 3, end: 6}
    - kind: XML_TAG
      name: b
      start: 6
      end: 18
      children:
        - {kind: XML_TEXT, start: 9, end: 14}
`
		root := buildTree(t, source, doc)
		if res := extract.Extract(nodeAt(t, root, 4), false); res.CanExtract {
			t.Errorf("text beside a nested tag reported extractable as %v", res.Dialect)
		}
		res := extract.Extract(nodeAt(t, root, 10), false)
		if !res.CanExtract || res.Text != "there" {
			t.Errorf("innermost tag text = %v/%q, want true/there", res.CanExtract, res.Text)
		}
	})

	t.Run("no enclosing tag", func(t *testing.T) {
		source := `label`
		doc := `
fileType: jsx
language: javascript
root:
  kind: EXPRESSION
  start: 0
  end: 5
  children:
    - {kind: IDENTIFIER, start: 0, end: 5}
`
		root := buildTree(t, source, doc)
		res := extract.Extract(nodeAt(t, root, 1), false)
		if res.Dialect != extract.DialectJSX || !res.CanExtract {
			t.Fatalf("Extract() = %v/%v, want jsx/true", res.Dialect, res.CanExtract)
		}
		if res.Text != "label" {
			t.Errorf("Text = %q, want parent text", res.Text)
		}
		if want := (extract.Range{Start: 0, End: 5}); res.Range != want {
			t.Errorf("Range = %+v, want parent range %+v", res.Range, want)
		}
	})

	t.Run("already extracted", func(t *testing.T) {
		source := `<p>{i18n.t('x')}</p>`
		doc := `
fileType: jsx
language: javascript
root:
  kind: XML_TAG
  name: p
  start: 0
  end: 20
  children:
    - {kind: EXPRESSION, start: 4, end: 15}
`
		root := buildTree(t, source, doc)
		if res := extract.Extract(nodeAt(t, root, 5), false); res.CanExtract {
			t.Errorf("i18n.t call reported extractable as %v", res.Dialect)
		}
	})

	t.Run("not a jsx file", func(t *testing.T) {
		source := `<p>Hi</p>`
		doc := `
fileType: js
root:
  kind: XML_TAG
  start: 0
  end: 9
  children:
    - {kind: XML_TEXT, start: 3, end: 5}
`
		root := buildTree(t, source, doc)
		if res := extract.Extract(nodeAt(t, root, 3), false); res.CanExtract {
			t.Errorf("markup in a .js file reported extractable as %v", res.Dialect)
		}
	})
}

func TestVueStrategy(t *testing.T) {
	t.Run("template text", func(t *testing.T) {
		source := `<template><button>Submit</button></template>`
		doc := `
fileType: vue
language: html
root:
  kind: XML_TAG
  name: template
  start: 0
  end: 44
  children:
    - kind: XML_TAG
      name: button
      start: 10
      end: 33
      children:
        - kind: XML_TEXT
          children:
            - {kind: XML_TOKEN, start: 18, end: 24}
`
		root := buildTree(t, source, doc)
		res := extract.Extract(nodeAt(t, root, 19), true)
		if res.Dialect != extract.DialectVue || !res.CanExtract {
			t.Fatalf("Extract() = %v/%v, want vue/true", res.Dialect, res.CanExtract)
		}
		if res.Text != "Submit" {
			t.Errorf("Text = %q, want Submit", res.Text)
		}
		if want := (extract.Range{Start: 18, End: 24}); res.Range != want {
			t.Errorf("Range = %+v, want %+v", res.Range, want)
		}
		if got := res.Template("'form.submit'"); got != "{{ $t('form.submit') }}" {
			t.Errorf("Template = %q", got)
		}
	})

	t.Run("script literal", func(t *testing.T) {
		source := `<script>const label = 'Save'</script>`
		doc := `
fileType: vue
language: html
root:
  kind: XML_TAG
  name: script
  start: 0
  end: 37
  children:
    - kind: EXPRESSION
      language: javascript
      children:
        - {kind: "JS:STRING_LITERAL", start: 22, end: 28}
`
		root := buildTree(t, source, doc)
		res := extract.Extract(nodeAt(t, root, 23), true)
		if !res.CanExtract {
			t.Fatalf("Extract() not extractable, dialect %v", res.Dialect)
		}
		if res.Text != "Save" {
			t.Errorf("Text = %q, want Save", res.Text)
		}
		if want := (extract.Range{Start: 22, End: 28}); res.Range != want {
			t.Errorf("Range = %+v, want %+v", res.Range, want)
		}
		if got := res.Template("'form.save'"); got != "this.$t('form.save')" {
			t.Errorf("Template = %q", got)
		}
	})

	t.Run("script literal already wrapped", func(t *testing.T) {
		source := `<script>this.$t('save')</script>`
		doc := `
fileType: vue
language: html
root:
  kind: XML_TAG
  name: script
  start: 0
  end: 32
  children:
    - kind: CALL
      name: $t
      language: vuejs
      children:
        - {kind: IDENTIFIER, start: 13, end: 15}
        - kind: ARGUMENTS
          children:
            - {kind: PUNCTUATION, start: 15, end: 16}
            - kind: EXPRESSION
              children:
                - {kind: "JS:STRING_LITERAL", start: 16, end: 22}
            - {kind: PUNCTUATION, start: 22, end: 23}
`
		root := buildTree(t, source, doc)
		if res := extract.Extract(nodeAt(t, root, 17), true); res.CanExtract {
			t.Errorf("$t argument reported extractable as %v", res.Dialect)
		}
	})

	t.Run("template call already present", func(t *testing.T) {
		source := `{{ $t('x') }}`
		doc := `
fileType: vue
language: html
root:
  kind: XML_TEXT
  start: 0
  end: 13
  children:
    - {kind: XML_TOKEN, start: 3, end: 10}
`
		root := buildTree(t, source, doc)
		if res := extract.Extract(nodeAt(t, root, 4), true); res.CanExtract {
			t.Errorf("$t text reported extractable as %v", res.Dialect)
		}
	})

	t.Run("plain script in vue project", func(t *testing.T) {
		source := `notify("Saved")`
		doc := `
fileType: js
language: javascript
root:
  kind: CALL
  name: notify
  children:
    - {kind: IDENTIFIER, start: 0, end: 6}
    - kind: ARGUMENTS
      children:
        - {kind: PUNCTUATION, start: 6, end: 7}
        - kind: EXPRESSION
          children:
            - {kind: "JS:STRING_LITERAL", start: 7, end: 14}
        - {kind: PUNCTUATION, start: 14, end: 15}
`
		root := buildTree(t, source, doc)
		res := extract.Extract(nodeAt(t, root, 8), true)
		if !res.CanExtract || res.Dialect != extract.DialectVue {
			t.Fatalf("Extract() = %v/%v, want vue/true", res.Dialect, res.CanExtract)
		}
		if got := res.Template("'saved'"); got != "$t('saved')" {
			t.Errorf("Template = %q, want $t('saved')", got)
		}
	})
}

func TestNoopStrategy(t *testing.T) {
	source := `<?php echo "Sign in";`
	doc := `
fileType: php
language: php
root:
  kind: FILE
  start: 0
  end: 21
  children:
    - kind: EXPRESSION
      children:
        - {kind: double quoted string, start: 11, end: 20}
`
	root := buildTree(t, source, doc)
	node := nodeAt(t, root, 12)

	// Vue mode only considers the Vue strategy.
	s := extract.Select(node, true)
	if s.Dialect() != extract.DialectNone || s.CanExtract(node) {
		t.Errorf("Select(vue) = %v, want none", s.Dialect())
	}
	res := extract.Extract(node, true)
	if res.CanExtract || res.Template != nil || res.Text != "" {
		t.Errorf("Extract() on noop = %+v, want zero result", res)
	}
}

func TestSelectPriority(t *testing.T) {
	// A string literal in a JSX file matches both the script and JSX rules.
	source := `f("Hi")`
	doc := `
fileType: jsx
language: javascript
root:
  kind: CALL
  name: f
  children:
    - {kind: IDENTIFIER, start: 0, end: 1}
    - kind: ARGUMENTS
      children:
        - {kind: PUNCTUATION, start: 1, end: 2}
        - kind: EXPRESSION
          children:
            - {kind: "JS:STRING_LITERAL", start: 2, end: 6}
        - {kind: PUNCTUATION, start: 6, end: 7}
`
	root := buildTree(t, source, doc)
	node := nodeAt(t, root, 3)
	for i := 0; i < 10; i++ {
		if got := extract.Select(node, false).Dialect(); got != extract.DialectScript {
			t.Fatalf("run %d: Select() = %v, want script", i, got)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"Hello"`, "Hello"},
		{`'Hello'`, "Hello"},
		{"`Hello`", "Hello"},
		{`""`, ""},
		{`"`, `"`},
		{`Hello`, "Hello"},
		{`"Hello'`, `"Hello'`},
		{`""nested""`, `"nested"`},
		{``, ``},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := extract.Unquote(tc.input); got != tc.want {
				t.Errorf("Unquote(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestUnquoteRequote(t *testing.T) {
	for _, lit := range []string{`"Hello world"`, `'a'`, "`x y`", `""`} {
		q := lit[:1]
		if got := q + extract.Unquote(lit) + q; got != lit {
			t.Errorf("requoted %q = %q", lit, got)
		}
	}
}

func TestDialectString(t *testing.T) {
	tests := map[extract.Dialect]string{
		extract.DialectNone:   "none",
		extract.DialectScript: "script",
		extract.DialectJSX:    "jsx",
		extract.DialectPHP:    "php",
		extract.DialectVue:    "vue",
	}
	for d, want := range tests {
		if got := d.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(d), got, want)
		}
	}
}
