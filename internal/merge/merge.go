// Package merge implements the deep merge engine that layers an incoming
// configuration tree onto an existing one.
//
// Merge rules, applied key by key in the incoming tree's insertion order:
//
//   - index keys are appended to the existing tree at its next free index,
//     so lists are concatenated and existing indices are never overwritten
//   - a key that is missing (or NULL) in the existing tree is inserted as is
//   - two nested trees (mappings or lists) are merged recursively
//   - a nested tree meeting a scalar, in either direction, is a conflict
//   - two scalars of the same type: the incoming value wins
//   - two scalars of different types are a conflict
//
// The first conflict aborts the whole merge and is returned as a
// *model.MergeError carrying the dotted path of the offending key. Inputs
// are never modified; the result is a fresh tree.
package merge

import (
	"github.com/shinji-kodama/layerconf/internal/model"
	"github.com/shinji-kodama/layerconf/internal/tree"
)

// Merge deep-merges override onto base and returns the merged tree.
// path is the dotted location of base within the enclosing configuration
// and prefixes every path reported in a *model.MergeError; pass "" for a
// root tree.
func Merge(base, override *tree.Tree, path string) (*tree.Tree, error) {
	result := base.Clone()
	if result == nil {
		result = tree.New()
	}
	if override == nil {
		return result, nil
	}

	for _, key := range override.Keys() {
		incoming, _ := override.Get(key)

		// Integer-indexed entries are list items: append, never replace.
		if key.IsIndex() {
			result.Append(incoming.Clone())
			continue
		}

		existing, ok := result.Get(key)
		if !ok || existing.IsNull() {
			result.Set(key, incoming.Clone())
			continue
		}

		merged, err := Value(existing, incoming, Join(path, key.String()))
		if err != nil {
			return nil, err
		}
		result.Set(key, merged)
	}

	return result, nil
}

// Value merges a single incoming node onto an existing one found at path.
// A NULL existing value is replaced by the incoming value without any type
// check.
func Value(existing, incoming tree.Node, path string) (tree.Node, error) {
	if existing.IsNull() {
		return incoming.Clone(), nil
	}

	switch existing.Kind() {
	case tree.KindMapping, tree.KindList:
		switch incoming.Kind() {
		case tree.KindMapping, tree.KindList:
			merged, err := Merge(existing.Tree(), incoming.Tree(), path)
			if err != nil {
				return tree.Node{}, err
			}
			return tree.Of(merged), nil
		case tree.KindScalar:
			return tree.Node{}, conflict(path, existing, incoming)
		}

	case tree.KindScalar:
		switch incoming.Kind() {
		case tree.KindMapping, tree.KindList:
			return tree.Node{}, conflict(path, existing, incoming)
		case tree.KindScalar:
			if existing.TypeName() != incoming.TypeName() {
				return tree.Node{}, conflict(path, existing, incoming)
			}
			return incoming, nil
		}
	}

	return tree.Node{}, conflict(path, existing, incoming)
}

// Join appends key to a dotted path.
func Join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func conflict(path string, existing, incoming tree.Node) *model.MergeError {
	return &model.MergeError{
		Path: path,
		From: existing.TypeName(),
		To:   incoming.TypeName(),
	}
}
