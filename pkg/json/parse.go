package json

import (
	"strconv"
	"time"

	"github.com/jsonkit/ecmason/pkg/errors"
	"github.com/jsonkit/ecmason/pkg/hostval"
	"github.com/jsonkit/ecmason/pkg/observability"
	"github.com/jsonkit/ecmason/pkg/scanner"
)

// TextParser is the tokenizer collaborator that turns raw JSON text into a
// value tree. The engine treats it as a black box; pkg/scanner provides the
// default implementation.
type TextParser interface {
	ParseText(text string) (*hostval.Value, error)
}

// scannerParser adapts pkg/scanner to the TextParser seam.
type scannerParser struct{}

func (scannerParser) ParseText(text string) (*hostval.Value, error) {
	return scanner.Parse(text)
}

// Parse parses JSON text per the ECMA-262 algorithm using the default
// scanner. reviver may be nil; when callable it is applied bottom-up to every
// parsed value before the result is returned.
func Parse(text string, reviver *hostval.Value) (*hostval.Value, error) {
	return ParseWith(scannerParser{}, text, reviver)
}

// ParseWith is Parse with an explicit tokenizer.
func ParseWith(p TextParser, text string, reviver *hostval.Value) (*hostval.Value, error) {
	start := time.Now()
	observability.Engine().OnParseStart(len(text))

	root, err := p.ParseText(text)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeSyntax, err, "invalid JSON text")
		observability.Engine().OnParseComplete(time.Since(start), err)
		return nil, err
	}

	if reviver != nil && reviver.IsCallable() {
		// The root is revived through the same holder/key protocol as nested
		// members: a synthetic wrapper object under the empty-string key.
		wrapper := hostval.NewObject()
		wrapper.Set("", root)
		w := &walker{reviver: reviver}
		root, err = w.walk(wrapper, "")
	}

	observability.Engine().OnParseComplete(time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// walker performs the ECMA-262 Walk routine: post-order revival of the parsed
// tree. Depth is bounded because a reviver may graft fresh deep (or cyclic)
// structures back into the tree being walked.
type walker struct {
	reviver *hostval.Value
	depth   int
}

func (w *walker) walk(holder *hostval.Value, key string) (*hostval.Value, error) {
	if w.depth >= maxDepth {
		return nil, errors.New(errors.ErrCodeDepth, "maximum nesting depth of %d exceeded", maxDepth)
	}
	w.depth++
	defer func() { w.depth-- }()

	val, err := holder.Get(key)
	if err != nil {
		return nil, err
	}

	switch {
	case val.Kind() == hostval.KindArray:
		// Walk a snapshot of the length in ascending index order. Elements
		// revived to undefined are deleted; the array compacts afterwards so
		// its length adjusts.
		length := val.Length()
		kept := make([]*hostval.Value, 0, length)
		for i := 0; i < length; i++ {
			elem, err := w.walk(val, strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			if elem.Kind() == hostval.KindUndefined {
				val.SetElem(i, nil)
				continue
			}
			val.SetElem(i, elem)
			kept = append(kept, elem)
		}
		val.ReplaceElements(kept)

	case val.IsObjectLike() && !val.IsCallable():
		// Snapshot the key list before iterating so a reviver mutating the
		// object cannot perturb the walk.
		for _, k := range val.OwnEnumerableKeys() {
			child, err := w.walk(val, k)
			if err != nil {
				return nil, err
			}
			if child.Kind() == hostval.KindUndefined {
				val.Delete(k)
				continue
			}
			val.Set(k, child)
		}
	}

	return w.reviver.Invoke(holder, []*hostval.Value{hostval.String(key), val})
}
