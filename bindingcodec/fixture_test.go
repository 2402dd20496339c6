package bindingcodec_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	hookstest "github.com/sirupsen/logrus/hooks/test"

	"github.com/reoring/yangbind/binding"
	"github.com/reoring/yangbind/bindingcodec"
	"github.com/reoring/yangbind/codec"
	"github.com/reoring/yangbind/dsl"
	"github.com/reoring/yangbind/schema"
)

const (
	ns      = "urn:t"
	extNS   = "urn:t:ext"
	otherNS = "urn:t:other"
)

func q(local string) schema.QName { return schema.QName{Namespace: ns, Local: local} }
func e(local string) schema.QName { return schema.QName{Namespace: extNS, Local: local} }
func o(local string) schema.QName { return schema.QName{Namespace: otherNS, Local: local} }

func ptr[T any](v T) *T { return &v }

type Shape interface{ isShape() }

type Circle struct {
	Radius *uint16 `yang:"radius"`
}

type Square struct {
	Side   *uint16 `yang:"side"`
	Radius *uint16 `yang:"radius"`
}

func (*Circle) isShape() {}
func (*Square) isShape() {}

type Kind interface{ isKind() }

type Local struct {
	Detail *Detail `yang:"detail"`
}

type Remote struct {
	Detail *Detail `yang:"detail"`
}

func (*Local) isKind()  {}
func (*Remote) isKind() {}

type Detail struct {
	Text *string `yang:"text"`
}

type Mode int32

const (
	ModeAuto Mode = iota
	ModeManual
)

type Top struct {
	Name  *string         `yang:"name"`
	Mode  *Mode           `yang:"mode"`
	Flags codec.Bits      `yang:"flags"`
	Tags  []string        `yang:"tags"`
	Items []*Item         `yang:"item"`
	Log   []Log           `yang:"log"`
	Shape Shape           `yang:"shape"`
	Kind  Kind            `yang:"kind"`
	Extra *binding.Opaque `yang:"extra"`
	binding.Augmentations
}

type Item struct {
	ID     *uint32          `yang:"id"`
	Weight *codec.Decimal64 `yang:"weight"`
}

type ItemKey struct {
	ID uint32 `yang:"id"`
}

type Log struct {
	Msg *string `yang:"msg"`
}

type TopExt struct {
	Color   *string  `yang:"color"`
	ExtInfo *ExtInfo `yang:"ext-info"`
}

type ExtInfo struct {
	Note *string `yang:"note"`
}

type ResetInput struct {
	Delay *uint32 `yang:"delay"`
}

type Alarm struct {
	Text *string `yang:"text"`
}

type Cfg struct {
	Enabled   bool          `yang:"enabled"`
	Count     int32         `yang:"count"`
	Transport *schema.QName `yang:"transport"`
	Port      any           `yang:"port"`
}

func testSchema(t *testing.T) *schema.Context {
	t.Helper()
	mod := dsl.Module("t", ns,
		dsl.Container("top",
			dsl.Leaf("name", dsl.String()),
			dsl.Leaf("mode", dsl.Enumeration("auto", "manual")),
			dsl.Leaf("flags", dsl.Bits("up", "running")),
			dsl.LeafList("tags", dsl.String()),
			dsl.List("item", []string{"id"},
				dsl.Leaf("id", dsl.Uint32()),
				dsl.Leaf("weight", dsl.Decimal(2, dsl.Range("0.00", "100.00"))),
			),
			dsl.List("log", nil, dsl.Leaf("msg", dsl.String())),
			dsl.Choice("shape",
				dsl.Case("circle", dsl.Leaf("radius", dsl.Uint16())),
				dsl.Case("square",
					dsl.Leaf("side", dsl.Uint16()),
					dsl.Leaf("radius", dsl.Uint16()).Namespace(otherNS),
				),
			),
			dsl.Choice("kind",
				dsl.Case("local", dsl.Container("detail", dsl.Leaf("text", dsl.String()))),
				dsl.Case("remote", dsl.Container("detail", dsl.Leaf("text", dsl.String())).Namespace(otherNS)),
			),
			dsl.AnyData("extra"),
		).Augmented(
			dsl.Augment("top-ext",
				dsl.Leaf("color", dsl.String()),
				dsl.Container("ext-info", dsl.Leaf("note", dsl.String())),
			).Namespace(extNS),
		),
		dsl.RPC("reset", dsl.Input(dsl.Leaf("delay", dsl.Uint32())), nil),
		dsl.Notification("alarm", dsl.Leaf("text", dsl.String())),
		dsl.Container("cfg",
			dsl.Leaf("enabled", dsl.Boolean()),
			dsl.Leaf("count", dsl.Int32()),
			dsl.Leaf("transport", dsl.IdentityRef(q("transport"))),
			dsl.Leaf("port", dsl.Union(dsl.Uint16(), dsl.Enumeration("any"), dsl.IdentityRef(q("tcp")))),
		),
	)
	dsl.Identities(mod,
		dsl.Identity("transport"),
		dsl.Identity("tcp", q("transport")),
		dsl.Identity("tls", q("tcp")),
		dsl.Identity("udp", q("transport")),
	)
	ctx, err := schema.NewContext(mod)
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	return ctx
}

func testRuntime(t *testing.T, ctx *schema.Context) *binding.Runtime {
	t.Helper()
	rt := binding.NewRuntime(ctx)
	binding.MustRegister[Top](rt, q("top"))
	binding.MustRegister[Item](rt, q("top"), q("item"))
	binding.MustRegister[Log](rt, q("top"), q("log"))
	binding.MustRegister[Shape](rt, q("top"), q("shape"))
	binding.MustRegister[Circle](rt, q("top"), q("shape"), q("circle"))
	binding.MustRegister[Square](rt, q("top"), q("shape"), q("square"))
	binding.MustRegister[Kind](rt, q("top"), q("kind"))
	binding.MustRegister[Local](rt, q("top"), q("kind"), q("local"))
	binding.MustRegister[Remote](rt, q("top"), q("kind"), q("remote"))
	binding.MustRegister[Detail](rt, q("top"), q("kind"), q("local"), q("detail"))
	binding.MustRegister[Detail](rt, q("top"), q("kind"), q("remote"), o("detail"))
	binding.MustRegister[TopExt](rt, q("top"), e("top-ext"))
	binding.MustRegister[ExtInfo](rt, q("top"), e("ext-info"))
	binding.MustRegister[ResetInput](rt, q("reset"), q("input"))
	binding.MustRegister[Alarm](rt, q("alarm"))
	binding.MustRegister[Cfg](rt, q("cfg"))
	if err := binding.RegisterKey[ItemKey](rt, q("top"), q("item")); err != nil {
		t.Fatalf("RegisterKey() error = %v", err)
	}
	return rt
}

// newTree returns a tree over the test schema whose log entries land in the
// returned hook.
func newTree(t *testing.T, opt bindingcodec.Options) (*bindingcodec.Tree, *hookstest.Hook) {
	t.Helper()
	logger, hook := hookstest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	opt.Logger = logger
	ctx := testSchema(t)
	tree, err := bindingcodec.New(ctx, testRuntime(t, ctx), opt)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return tree, hook
}

func countEntries(hook *hookstest.Hook, level logrus.Level, msg string, node string) int {
	n := 0
	for _, en := range hook.AllEntries() {
		if en.Level != level || en.Message != msg {
			continue
		}
		if node != "" && en.Data["node"] != node {
			continue
		}
		n++
	}
	return n
}
