// Package dsl offers builders for effective schema trees, the in-code
// counterpart of schema.LoadYAML and schema.LoadJSON.
//
// Example:
//
//	mod := dsl.Module("example", "urn:example",
//	    dsl.Container("top",
//	        dsl.Leaf("name", dsl.String()),
//	        dsl.List("item", []string{"id"},
//	            dsl.Leaf("id", dsl.Uint32()),
//	        ),
//	        dsl.Choice("shape",
//	            dsl.Case("circle", dsl.Leaf("radius", dsl.Decimal(2))),
//	            dsl.Case("square", dsl.Leaf("side", dsl.Uint16())),
//	        ),
//	    ),
//	)
//	ctx, err := schema.NewContext(mod)
//
// Names are local; namespaces are assigned when the module is built, with
// Namespace overriding the inherited namespace for a subtree.
package dsl
