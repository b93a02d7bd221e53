// Package template expands {path:to:value} placeholders against a project document.
//
// "{{" and "}}" in literal text produce single braces. Inside a placeholder a
// doubled "}}" contributes a literal "}" to the path.
package template

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/spachava753/packtool/internal/config"
	"github.com/spachava753/packtool/internal/models"
)

type state int

const (
	stateAppend state = iota
	stateBracket
	stateReplacement
	stateReplacementEndQ
	stateReplacementEnd
)

// Expand replaces every placeholder in input with the stringified value found
// by walking root along the placeholder's colon-separated path.
func Expand(input string, root config.Tree) (string, error) {
	var out, name strings.Builder
	st := stateAppend

	// Braces and colons are ASCII, so walking bytes keeps UTF-8 text intact.
	for i := 0; i < len(input); {
		c := input[i]
		switch st {
		case stateAppend:
			switch {
			case c == '{':
				st = stateBracket
			case c == '}' && i+1 < len(input) && input[i+1] == '}':
				out.WriteByte('}')
				i++
			default:
				out.WriteByte(c)
			}
			i++

		case stateBracket:
			if c == '{' {
				out.WriteByte('{')
				st = stateAppend
				i++
				continue
			}
			name.Reset()
			st = stateReplacement

		case stateReplacement:
			if c == '}' {
				st = stateReplacementEndQ
			} else {
				name.WriteByte(c)
			}
			i++

		case stateReplacementEndQ:
			if c == '}' {
				name.WriteByte('}')
				st = stateReplacement
				i++
				continue
			}
			st = stateReplacementEnd

		case stateReplacementEnd:
			value, err := Lookup(root, name.String())
			if err != nil {
				return "", err
			}
			out.WriteString(value)
			st = stateAppend
		}
	}

	switch st {
	case stateBracket, stateReplacement:
		return "", models.Errorf(models.ErrTypeUnresolvedPlaceholder, input, "unterminated placeholder in %q", input)
	case stateReplacementEndQ:
		value, err := Lookup(root, name.String())
		if err != nil {
			return "", err
		}
		out.WriteString(value)
	}

	return out.String(), nil
}

// Lookup resolves a colon-separated path. The first segment is a top-level key;
// later segments descend into mappings, or into lists by index or by the
// "name" field of their elements.
func Lookup(root config.Tree, path string) (string, error) {
	var cur any = map[string]any(root)
	for _, seg := range strings.Split(path, ":") {
		next, ok := descend(cur, seg)
		if !ok {
			return "", models.Errorf(models.ErrTypeUnresolvedPlaceholder, path, "placeholder {%s}: segment %q not found", path, seg)
		}
		cur = next
	}
	return config.Stringify(cur), nil
}

func descend(cur any, seg string) (any, bool) {
	switch v := cur.(type) {
	case map[string]any:
		next, ok := v[seg]
		return next, ok
	case config.Tree:
		next, ok := v[seg]
		return next, ok
	case []any:
		if idx, err := strconv.Atoi(seg); err == nil {
			if idx < 0 || idx >= len(v) {
				return nil, false
			}
			return v[idx], true
		}
		for _, item := range v {
			if m, ok := item.(map[string]any); ok && m["name"] == seg {
				return m, true
			}
		}
	}
	return nil, false
}

const cacheSize = 512

// Resolver expands templates against a fixed tree, memoising results.
// The tree must not be modified after the Resolver is created.
type Resolver struct {
	root  config.Tree
	cache *lru.Cache[string, string]
}

// NewResolver creates a Resolver over root.
func NewResolver(root config.Tree) *Resolver {
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, string](cacheSize)
	return &Resolver{root: root, cache: cache}
}

// Expand expands input against the resolver's tree.
func (r *Resolver) Expand(input string) (string, error) {
	if !strings.ContainsAny(input, "{}") {
		return input, nil
	}
	if out, ok := r.cache.Get(input); ok {
		return out, nil
	}
	out, err := Expand(input, r.root)
	if err != nil {
		return "", err
	}
	r.cache.Add(input, out)
	return out, nil
}

// Root returns the tree placeholders are resolved against.
func (r *Resolver) Root() config.Tree {
	return r.root
}
