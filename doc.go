// Package yangbind provides:
//
// - A lazily built codec tree that converts data and paths between the
// normalized tree (package data) and the bound representation (package binding)
// - Scalar value codecs with exact numeric and identifier semantics (package codec)
// - A schema-only, choice-aware path index that drives a caller-owned
// schema inference stack (package dataschema)
// - A stable error model via Issues (code, message, structured params)
//
// Design policy:
// - Keep only public API surface (errors, codes) in the root package; put the
// implementations under sub-packages.
// - The effective schema and the generated-type metadata are inputs; nothing
// here parses schema source text or generates types.
// - Everything derived from one schema generation is immutable apart from
// memo cells, and a schema reload builds a new, disjoint tree.
//
// Typical usage:
//
//	sc, err := schema.LoadYAML(f)
//	rt := binding.NewRuntime(sc)
//	_ = rt.Bind(sc.Find(topQName), binding.TypeOf[Top]())
//	tree, err := bindingcodec.New(sc, rt, bindingcodec.Options{})
//
//	np, node, err := tree.ToNormalizedNode(bp, top, bindingcodec.NewMemoCache())
//	bp2, ok, err := tree.ToBindingPath(np)
package yangbind
