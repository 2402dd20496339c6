package dataschema_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	yangbind "github.com/reoring/yangbind"
	"github.com/reoring/yangbind/data"
	"github.com/reoring/yangbind/dataschema"
	"github.com/reoring/yangbind/dsl"
	"github.com/reoring/yangbind/schema"
)

const (
	ns    = "urn:t"
	extNS = "urn:t:ext"
)

func q(local string) schema.QName { return schema.QName{Namespace: ns, Local: local} }
func e(local string) schema.QName { return schema.QName{Namespace: extNS, Local: local} }
func id(local string) data.NodeIdentifier {
	return data.NodeIdentifier{Name: q(local)}
}

func newTree(t *testing.T) *dataschema.Tree {
	t.Helper()
	ctx, err := schema.NewContext(dsl.Module("t", ns,
		dsl.Container("top",
			dsl.Leaf("name", dsl.String()),
			dsl.LeafList("tags", dsl.String()),
			dsl.List("item", []string{"id"},
				dsl.Leaf("id", dsl.Uint32()),
				dsl.Leaf("weight", dsl.Uint8()),
			),
			dsl.List("log", nil, dsl.Leaf("msg", dsl.String())),
			dsl.Choice("shape",
				dsl.Case("circle", dsl.Leaf("radius", dsl.Uint16())),
				dsl.Case("square", dsl.Leaf("side", dsl.Uint16())),
			),
			dsl.Choice("outer",
				dsl.Case("a", dsl.Choice("inner",
					dsl.Case("b", dsl.Leaf("deep", dsl.String())),
				)),
			),
		).Augmented(
			dsl.Augment("top-ext", dsl.Leaf("color", dsl.String())).Namespace(extNS),
		),
		dsl.Container("tunnel",
			dsl.Leaf("endpoint", dsl.String()).Mandatory(),
			dsl.Container("auth", dsl.Leaf("secret", dsl.String()).Mandatory()),
			dsl.Leaf("status", dsl.String()).Mandatory().State(),
			dsl.List("hop", nil, dsl.Leaf("addr", dsl.String())).MinElements(1),
			dsl.Container("opt", dsl.Leaf("level", dsl.Uint8()).Mandatory()).Presence(),
			dsl.Leaf("comment", dsl.String()),
		).Presence(),
		dsl.Container("plain", dsl.Leaf("x", dsl.String())).Presence(),
		dsl.RPC("reset", dsl.Input(dsl.Leaf("delay", dsl.Uint32())), nil),
		dsl.Notification("alarm", dsl.Leaf("text", dsl.String())),
	))
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	return dataschema.NewTree(ctx)
}

func TestFind_LevelsMirrorNormalizedTree(t *testing.T) {
	tree := newTree(t)
	entry := data.NodeIdentifierWithPredicates{Name: q("item"), Keys: []data.KeyValue{{Name: q("id"), Value: uint32(1)}}}

	tests := []struct {
		name string
		path data.Path
		want string // %T of the level
		stmt schema.QName
	}{
		{"container", data.Path{id("top")}, "*dataschema.Container", q("top")},
		{"keyed list", data.Path{id("top"), id("item")}, "*dataschema.List", q("item")},
		{"list entry", data.Path{id("top"), id("item"), entry}, "*dataschema.ListItem", q("item")},
		{"entry leaf", data.Path{id("top"), id("item"), entry, id("weight")}, "*dataschema.Leaf", q("weight")},
		{"keyless entry", data.Path{id("top"), id("log"), id("log"), id("msg")}, "*dataschema.Leaf", q("msg")},
		{"leaf-list", data.Path{id("top"), id("tags")}, "*dataschema.LeafList", q("tags")},
		{"leaf-list entry", data.Path{id("top"), id("tags"), data.NodeWithValue{Name: q("tags"), Value: "a"}}, "*dataschema.LeafListEntry", q("tags")},
		{"choice", data.Path{id("top"), id("shape")}, "*dataschema.Choice", q("shape")},
		{"case content", data.Path{id("top"), id("shape"), id("side")}, "*dataschema.Leaf", q("side")},
		{"nested choice", data.Path{id("top"), id("outer"), id("inner"), id("deep")}, "*dataschema.Leaf", q("deep")},
		{"augmentation child", data.Path{id("top"), data.NodeIdentifier{Name: e("color")}}, "*dataschema.Leaf", e("color")},
		{"rpc input", data.Path{id("reset"), id("input"), id("delay")}, "*dataschema.Leaf", q("delay")},
		{"notification", data.Path{id("alarm")}, "*dataschema.Container", q("alarm")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tree.Find(tc.path)
			if err != nil {
				t.Fatalf("Find(%s) error = %v", tc.path, err)
			}
			if typeName(got) != tc.want || got.Statement().Name != tc.stmt {
				t.Fatalf("Find(%s) = %s %s, want %s %s", tc.path, typeName(got), got.Statement().Name, tc.want, tc.stmt)
			}
			again, _ := tree.Find(tc.path)
			if again != got {
				t.Fatalf("Find(%s) returned a different level on second lookup", tc.path)
			}
		})
	}
}

func typeName(n dataschema.Node) string {
	switch n.(type) {
	case *dataschema.Container:
		return "*dataschema.Container"
	case *dataschema.List:
		return "*dataschema.List"
	case *dataschema.ListItem:
		return "*dataschema.ListItem"
	case *dataschema.LeafList:
		return "*dataschema.LeafList"
	case *dataschema.LeafListEntry:
		return "*dataschema.LeafListEntry"
	case *dataschema.Choice:
		return "*dataschema.Choice"
	case *dataschema.Leaf:
		return "*dataschema.Leaf"
	case *dataschema.AnyData:
		return "*dataschema.AnyData"
	}
	return "unknown"
}

func TestFind_SchemaMismatch(t *testing.T) {
	tree := newTree(t)
	for _, p := range []data.Path{
		{id("nope")},
		{id("top"), id("nope")},
		{id("top"), id("name"), id("x")},
		{id("top"), id("item"), id("log")},
		{id("top"), id("shape"), id("deep")},
	} {
		if _, err := tree.Find(p); !errors.Is(err, yangbind.ErrSchemaMismatch) {
			t.Fatalf("Find(%s) error = %v, want schema mismatch", p, err)
		}
	}
}

func TestEnterPath_PushesGrammarLevels(t *testing.T) {
	tree := newTree(t)
	entry := data.NodeIdentifierWithPredicates{Name: q("item"), Keys: []data.KeyValue{{Name: q("id"), Value: uint32(1)}}}

	tests := []struct {
		name string
		path data.Path
		want []schema.QName
	}{
		{
			name: "entry level pushes nothing",
			path: data.Path{id("top"), id("item"), entry, id("weight")},
			want: []schema.QName{q("top"), q("item"), q("weight")},
		},
		{
			name: "choice pushes its case",
			path: data.Path{id("top"), id("shape"), id("side")},
			want: []schema.QName{q("top"), q("shape"), q("square"), q("side")},
		},
		{
			name: "nested choices",
			path: data.Path{id("top"), id("outer"), id("inner"), id("deep")},
			want: []schema.QName{q("top"), q("outer"), q("a"), q("inner"), q("b"), q("deep")},
		},
		{
			name: "augmentation child",
			path: data.Path{id("top"), data.NodeIdentifier{Name: e("color")}},
			want: []schema.QName{q("top"), e("color")},
		},
		{
			name: "rpc input",
			path: data.Path{id("reset"), id("input"), id("delay")},
			want: []schema.QName{q("reset"), q("input"), q("delay")},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stack := schema.NewInferenceStack(tree.Schema())
			n, err := tree.EnterPath(stack, tc.path)
			if err != nil {
				t.Fatalf("EnterPath(%s) error = %v", tc.path, err)
			}
			if diff := cmp.Diff(tc.want, stack.Path()); diff != "" {
				t.Fatalf("stack mismatch (-want +got):\n%s", diff)
			}
			cur, _ := stack.Current()
			if cur != n.Statement() {
				t.Fatalf("stack top %s, level %s", cur, n)
			}
		})
	}
}

func TestEnterPath_RequiresRootStack(t *testing.T) {
	tree := newTree(t)
	stack := schema.NewInferenceStack(tree.Schema())
	if _, err := stack.EnterSchemaTree(q("top")); err != nil {
		t.Fatalf("EnterSchemaTree() error = %v", err)
	}
	_, err := tree.EnterPath(stack, data.Path{id("top")})
	if yangbind.FirstCode(err) != yangbind.CodeInvalidArgument {
		t.Fatalf("EnterPath() error = %v, want invalid argument", err)
	}
}

func TestComposite_Names(t *testing.T) {
	tree := newTree(t)
	top, err := tree.Root().Child(q("top"))
	if err != nil {
		t.Fatalf("Child(top) error = %v", err)
	}
	want := []schema.QName{q("name"), q("tags"), q("item"), q("log"), q("shape"), q("outer"), e("color")}
	if diff := cmp.Diff(want, top.(dataschema.Composite).Names()); diff != "" {
		t.Fatalf("Names() mismatch (-want +got):\n%s", diff)
	}
	shape, _ := top.(dataschema.Composite).Child(q("shape"))
	if diff := cmp.Diff([]schema.QName{q("radius"), q("side")}, shape.(dataschema.Composite).Names()); diff != "" {
		t.Fatalf("choice Names() mismatch (-want +got):\n%s", diff)
	}
	cs, ok := shape.(*dataschema.Choice).CaseOf(q("radius"))
	if !ok || cs.Name != q("circle") {
		t.Fatalf("CaseOf(radius) = %v, %v", cs, ok)
	}
	root := tree.Root().Names()
	if diff := cmp.Diff([]schema.QName{q("top"), q("tunnel"), q("plain"), q("reset"), q("alarm")}, root); diff != "" {
		t.Fatalf("root Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestFind_ConcurrentFirstUse(t *testing.T) {
	tree := newTree(t)
	path := data.Path{id("top"), id("shape"), id("radius")}

	const workers = 32
	got := make([]dataschema.Node, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range workers {
		go func() {
			defer wg.Done()
			got[i], _ = tree.Find(path)
		}()
	}
	wg.Wait()
	for i := range workers {
		if got[i] == nil || got[i] != got[0] {
			t.Fatalf("worker %d observed %v, want %v", i, got[i], got[0])
		}
	}
}

func paths(e *dataschema.Enforcer) []string {
	var out []string
	for _, p := range e.Paths() {
		out = append(out, p.String())
	}
	return out
}

func TestEnforcer_CollectsMandatoryDescendants(t *testing.T) {
	tree := newTree(t)
	n, _ := tree.Find(data.Path{id("tunnel")})
	tunnel := n.(*dataschema.Container)
	if !tunnel.Presence() {
		t.Fatalf("tunnel must be a presence container")
	}

	cfg, ok := tunnel.Enforcer(dataschema.Configuration)
	if !ok {
		t.Fatalf("missing configuration enforcer")
	}
	want := []string{"/(urn:t)endpoint", "/(urn:t)auth/(urn:t)secret", "/(urn:t)hop"}
	if diff := cmp.Diff(want, paths(cfg)); diff != "" {
		t.Fatalf("configuration paths mismatch (-want +got):\n%s", diff)
	}

	oper, ok := tunnel.Enforcer(dataschema.Operational)
	if !ok {
		t.Fatalf("missing operational enforcer")
	}
	want = []string{"/(urn:t)endpoint", "/(urn:t)auth/(urn:t)secret", "/(urn:t)status", "/(urn:t)hop"}
	if diff := cmp.Diff(want, paths(oper)); diff != "" {
		t.Fatalf("operational paths mismatch (-want +got):\n%s", diff)
	}
	if again, _ := tunnel.Enforcer(dataschema.Configuration); again != cfg {
		t.Fatalf("Enforcer() rebuilt the configuration check")
	}

	for _, p := range []data.Path{{id("top")}, {id("plain")}} {
		n, _ := tree.Find(p)
		if _, ok := n.(*dataschema.Container).Enforcer(dataschema.Configuration); ok {
			t.Fatalf("%s must not carry an enforcer", p)
		}
	}
}

func TestEnforcer_Enforce(t *testing.T) {
	tree := newTree(t)
	n, _ := tree.Find(data.Path{id("tunnel")})
	cfg, _ := n.(*dataschema.Container).Enforcer(dataschema.Configuration)

	complete := data.NewContainer(q("tunnel"),
		data.NewLeaf(q("endpoint"), "10.0.0.1"),
		data.NewContainer(q("auth"), data.NewLeaf(q("secret"), "s")),
		data.NewUnkeyedList(q("hop"), data.NewUnkeyedEntry(q("hop"), data.NewLeaf(q("addr"), "10.0.0.2"))),
	)
	if err := cfg.Enforce(complete); err != nil {
		t.Fatalf("Enforce(complete) error = %v", err)
	}

	partial := data.NewContainer(q("tunnel"), data.NewLeaf(q("endpoint"), "10.0.0.1"))
	err := cfg.Enforce(partial)
	iss, ok := yangbind.AsIssues(err)
	if !ok || len(iss) != 2 {
		t.Fatalf("Enforce(partial) error = %v, want two issues", err)
	}
	var steps []any
	for _, it := range iss {
		if it.Code != yangbind.CodeMissingMandatory || it.Path != "/(urn:t)tunnel" {
			t.Fatalf("unexpected issue %+v", it)
		}
		steps = append(steps, it.Params["step"])
	}
	if diff := cmp.Diff([]any{"/(urn:t)auth/(urn:t)secret", "/(urn:t)hop"}, steps); diff != "" {
		t.Fatalf("missing steps mismatch (-want +got):\n%s", diff)
	}

	if err := cfg.Enforce(data.NewContainer(q("top"))); yangbind.FirstCode(err) != yangbind.CodeInvalidArgument {
		t.Fatalf("Enforce(top) error = %v, want invalid argument", err)
	}
}
