// Package tree defines the configuration tree used by every layer of
// layerconf.
//
// A configuration tree is an ordered mapping whose values are one of a closed
// set of node kinds:
//
//   - Scalar: a single value (string, integer, double, boolean or NULL)
//   - Mapping: a nested tree with at least one named key
//   - List: a nested tree whose keys are all integer indices
//
// Insertion order is preserved everywhere. The deep merge engine reports the
// first type conflict it finds, so the order in which keys are visited is
// observable and must be deterministic.
//
// Trees can be built programmatically, converted from native Go values
// (FromValue) or decoded from YAML documents (the Tree type implements
// yaml.Unmarshaler and yaml.Marshaler).
package tree
