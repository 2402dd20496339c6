package bindingcodec_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sirupsen/logrus"

	yangbind "github.com/reoring/yangbind"
	"github.com/reoring/yangbind/binding"
	"github.com/reoring/yangbind/bindingcodec"
	"github.com/reoring/yangbind/codec"
	"github.com/reoring/yangbind/data"
	"github.com/reoring/yangbind/dsl"
)

func sampleTop(t *testing.T) *Top {
	t.Helper()
	bits, err := codec.NewBits(dsl.Bits("up", "running").Bits)
	if err != nil {
		t.Fatalf("NewBits() error = %v", err)
	}
	flags, err := bits.FromNames([]string{"up"})
	if err != nil {
		t.Fatalf("FromNames() error = %v", err)
	}
	weight, err := codec.ParseDecimal64("50.5")
	if err != nil {
		t.Fatalf("ParseDecimal64() error = %v", err)
	}
	top := &Top{
		Name:  ptr("n"),
		Mode:  ptr(ModeManual),
		Flags: flags,
		Tags:  []string{"a", "b"},
		Items: []*Item{{ID: ptr(uint32(7)), Weight: &weight}},
		Log:   []Log{{Msg: ptr("hello")}},
		Shape: &Square{Side: ptr(uint16(4)), Radius: ptr(uint16(9))},
		Kind:  &Remote{Detail: &Detail{Text: ptr("r")}},
		Extra: &binding.Opaque{Model: data.DocumentModel, Body: data.MustParseDocument(`{"a":[1,2]}`)},
	}
	binding.Augment(&top.Augmentations, &TopExt{Color: ptr("blue"), ExtInfo: &ExtInfo{Note: ptr("hi")}})
	return top
}

func sampleTopNode() data.Node {
	return data.NewContainer(q("top"),
		data.NewLeaf(q("name"), "n"),
		data.NewLeaf(q("mode"), "manual"),
		data.NewLeaf(q("flags"), []string{"up"}),
		data.NewLeafSet(q("tags"), "a", "b"),
		data.NewMapNode(q("item"),
			data.NewMapEntry(q("item"), []data.KeyValue{{Name: q("id"), Value: uint32(7)}},
				data.NewLeaf(q("id"), uint32(7)),
				data.NewLeaf(q("weight"), codec.NewDecimal64(5050, 2)),
			),
		),
		data.NewUnkeyedList(q("log"), data.NewUnkeyedEntry(q("log"), data.NewLeaf(q("msg"), "hello"))),
		data.NewChoice(q("shape"), data.NewLeaf(q("side"), uint16(4)), data.NewLeaf(o("radius"), uint16(9))),
		data.NewChoice(q("kind"), data.NewContainer(o("detail"), data.NewLeaf(o("text"), "r"))),
		data.NewAnyData(q("extra"), data.DocumentModel, data.MustParseDocument(`{"a":[1,2]}`)),
		data.NewLeaf(e("color"), "blue"),
		data.NewContainer(e("ext-info"), data.NewLeaf(e("note"), "hi")),
	)
}

func TestDataCodec_RoundTrip(t *testing.T) {
	tree, _ := newTree(t, bindingcodec.Options{})
	in := sampleTop(t)
	path := binding.PathOf(binding.Of[Top]())

	npath, node, err := tree.ToNormalizedNode(path, in, nil)
	if err != nil {
		t.Fatalf("ToNormalizedNode() error = %v", err)
	}
	if !npath.Equal(data.Path{id("top")}) {
		t.Fatalf("normalized path = %s", npath)
	}
	if diff := cmp.Diff(sampleTopNode(), node); diff != "" {
		t.Fatalf("normalized node mismatch (-want +got):\n%s", diff)
	}

	bpath, obj, ok, err := tree.FromNormalizedNode(npath, node)
	if err != nil || !ok {
		t.Fatalf("FromNormalizedNode() = %v, %v", ok, err)
	}
	if !bpath.Equal(path) {
		t.Fatalf("bound path = %s, want %s", bpath, path)
	}
	got, isTop := obj.(*Top)
	if !isTop {
		t.Fatalf("FromNormalizedNode() object = %T", obj)
	}
	if diff := cmp.Diff(in, got, cmpopts.IgnoreFields(Top{}, "Augmentations")); diff != "" {
		t.Fatalf("bound object mismatch (-want +got):\n%s", diff)
	}
	ext, ok := binding.Augmentation[TopExt](got.Augmentations)
	if !ok {
		t.Fatalf("augmentation missing")
	}
	if diff := cmp.Diff(&TopExt{Color: ptr("blue"), ExtInfo: &ExtInfo{Note: ptr("hi")}}, ext); diff != "" {
		t.Fatalf("augmentation mismatch (-want +got):\n%s", diff)
	}
}

func TestDataCodec_CaseLevelAppearsInNormalizedForm(t *testing.T) {
	tree, _ := newTree(t, bindingcodec.Options{})
	_, node, err := tree.ToNormalizedNode(binding.PathOf(binding.Of[Top]()), &Top{Shape: &Circle{Radius: ptr(uint16(3))}}, nil)
	if err != nil {
		t.Fatalf("ToNormalizedNode() error = %v", err)
	}
	leaf, ok := data.Find(node, data.Path{id("shape"), id("radius")})
	if !ok {
		t.Fatalf("radius not found below the choice level in %#v", node)
	}
	if diff := cmp.Diff(data.NewLeaf(q("radius"), uint16(3)), leaf); diff != "" {
		t.Fatalf("leaf mismatch (-want +got):\n%s", diff)
	}

	_, obj, _, err := tree.FromNormalizedNode(data.Path{id("top")}, node)
	if err != nil {
		t.Fatalf("FromNormalizedNode() error = %v", err)
	}
	if c, ok := obj.(*Top).Shape.(*Circle); !ok || *c.Radius != 3 {
		t.Fatalf("shape = %#v", obj.(*Top).Shape)
	}
}

func TestDataCodec_ListEntryAndOperations(t *testing.T) {
	tree, _ := newTree(t, bindingcodec.Options{})

	entryPath := binding.PathOf(binding.Of[Top](), binding.Of[Item]().WithKey(ItemKey{ID: 3}))
	npath, node, err := tree.ToNormalizedNode(entryPath, &Item{ID: ptr(uint32(3))}, nil)
	if err != nil {
		t.Fatalf("ToNormalizedNode(entry) error = %v", err)
	}
	want := data.NewMapEntry(q("item"), []data.KeyValue{{Name: q("id"), Value: uint32(3)}}, data.NewLeaf(q("id"), uint32(3)))
	if diff := cmp.Diff(want, node); diff != "" {
		t.Fatalf("entry mismatch (-want +got):\n%s", diff)
	}
	if len(npath) != 3 || !data.ArgumentsEqual(npath.Last(), want.ID) {
		t.Fatalf("entry path = %s", npath)
	}
	if _, _, err := tree.ToNormalizedNode(entryPath, &Item{ID: ptr(uint32(4))}, nil); yangbind.FirstCode(err) != yangbind.CodeInvalidArgument {
		t.Fatalf("key mismatch error = %v", err)
	}

	npath, node, err = tree.ToNormalizedNode(binding.PathOf(binding.Of[ResetInput]()), &ResetInput{Delay: ptr(uint32(5))}, nil)
	if err != nil {
		t.Fatalf("ToNormalizedNode(input) error = %v", err)
	}
	if !npath.Equal(data.Path{id("reset"), id("input")}) {
		t.Fatalf("input path = %s", npath)
	}
	bpath, obj, ok, err := tree.FromNormalizedNode(npath, node)
	if err != nil || !ok || !bpath.Equal(binding.PathOf(binding.Of[ResetInput]())) {
		t.Fatalf("FromNormalizedNode(input) = %s, %v, %v", bpath, ok, err)
	}
	if diff := cmp.Diff(&ResetInput{Delay: ptr(uint32(5))}, obj); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}

	_, node, err = tree.ToNormalizedNode(binding.PathOf(binding.Of[Alarm]()), &Alarm{Text: ptr("x")}, nil)
	if err != nil {
		t.Fatalf("ToNormalizedNode(alarm) error = %v", err)
	}
	if diff := cmp.Diff(data.NewContainer(q("alarm"), data.NewLeaf(q("text"), "x")), node); diff != "" {
		t.Fatalf("notification mismatch (-want +got):\n%s", diff)
	}
}

func TestDataCodec_NotRepresentableNode(t *testing.T) {
	tree, _ := newTree(t, bindingcodec.Options{})
	entry := data.NewUnkeyedEntry(q("log"), data.NewLeaf(q("msg"), "m"))
	_, obj, ok, err := tree.FromNormalizedNode(data.Path{id("top"), id("log"), id("log")}, entry)
	if err != nil || ok || obj != nil {
		t.Fatalf("FromNormalizedNode(keyless entry) = %v, %v, %v", obj, ok, err)
	}
}

func TestDataCodec_UnsupportedObjectModel(t *testing.T) {
	tree, hook := newTree(t, bindingcodec.Options{})
	top := &Top{Extra: &binding.Opaque{Model: "dom-source", Body: "<a/>"}}
	_, _, err := tree.ToNormalizedNode(binding.PathOf(binding.Of[Top]()), top, nil)
	if !errors.Is(err, yangbind.ErrUnsupportedObjectModel) {
		t.Fatalf("ToNormalizedNode() error = %v", err)
	}
	if n := countEntries(hook, logrus.WarnLevel, "rejected opaque payload", "/(urn:t)top/(urn:t)extra"); n != 1 {
		t.Fatalf("logged %d rejections", n)
	}

	node := data.NewContainer(q("top"), data.NewAnyData(q("extra"), "dom-source", "<a/>"))
	if _, _, _, err := tree.FromNormalizedNode(data.Path{id("top")}, node); !errors.Is(err, yangbind.ErrUnsupportedObjectModel) {
		t.Fatalf("FromNormalizedNode() error = %v", err)
	}
}

func TestDataCodec_InvalidValues(t *testing.T) {
	tree, _ := newTree(t, bindingcodec.Options{})
	tooHeavy := codec.NewDecimal64(150, 0)
	top := &Top{Items: []*Item{{ID: ptr(uint32(1)), Weight: &tooHeavy}}}
	_, _, err := tree.ToNormalizedNode(binding.PathOf(binding.Of[Top]()), top, nil)
	iss, ok := yangbind.AsIssues(err)
	if !ok || iss[0].Code != yangbind.CodeOutOfRange {
		t.Fatalf("ToNormalizedNode() error = %v, want out of range", err)
	}
	if iss[0].Path != "/(urn:t)top/(urn:t)item/(urn:t)weight" {
		t.Fatalf("issue path = %q", iss[0].Path)
	}

	badMode := Mode(9)
	if _, _, err := tree.ToNormalizedNode(binding.PathOf(binding.Of[Top]()), &Top{Mode: &badMode}, nil); yangbind.FirstCode(err) != yangbind.CodeUnknownName {
		t.Fatalf("enum error = %v", err)
	}

	node := data.NewContainer(q("top"), data.NewLeaf(q("mode"), "turbo"))
	if _, _, _, err := tree.FromNormalizedNode(data.Path{id("top")}, node); !errors.Is(err, yangbind.ErrInvalidValue) {
		t.Fatalf("FromNormalizedNode(turbo) error = %v", err)
	}

	mixed := data.NewContainer(q("top"), data.NewChoice(q("shape"),
		data.NewLeaf(q("radius"), uint16(1)),
		data.NewLeaf(q("side"), uint16(2)),
	))
	if _, _, _, err := tree.FromNormalizedNode(data.Path{id("top")}, mixed); yangbind.FirstCode(err) != yangbind.CodeInvalidArgument {
		t.Fatalf("mixed cases error = %v", err)
	}
}

func TestDataCodec_RejectsZeroInValueField(t *testing.T) {
	tree, _ := newTree(t, bindingcodec.Options{})
	path := data.Path{id("cfg")}
	for _, leaf := range []*data.Leaf{
		data.NewLeaf(q("enabled"), false),
		data.NewLeaf(q("count"), int32(0)),
	} {
		_, _, _, err := tree.FromNormalizedNode(path, data.NewContainer(q("cfg"), leaf))
		if !errors.Is(err, yangbind.ErrInvalidValue) {
			t.Fatalf("FromNormalizedNode(%s = %v) error = %v, want invalid value", leaf.ID.Name.Local, leaf.Value, err)
		}
		iss, _ := yangbind.AsIssues(err)
		if want := "/(urn:t)cfg/" + leaf.ID.Name.String(); iss[0].Path != want {
			t.Fatalf("issue path = %q, want %q", iss[0].Path, want)
		}
	}

	node := data.NewContainer(q("cfg"), data.NewLeaf(q("enabled"), true), data.NewLeaf(q("count"), int32(5)))
	bpath, obj, ok, err := tree.FromNormalizedNode(path, node)
	if err != nil || !ok {
		t.Fatalf("FromNormalizedNode() = %v, %v", ok, err)
	}
	if diff := cmp.Diff(&Cfg{Enabled: true, Count: 5}, obj); diff != "" {
		t.Fatalf("bound object mismatch (-want +got):\n%s", diff)
	}
	_, back, err := tree.ToNormalizedNode(bpath, obj, nil)
	if err != nil {
		t.Fatalf("ToNormalizedNode() error = %v", err)
	}
	if diff := cmp.Diff(node, back); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDataCodec_IdentityRefAndUnion(t *testing.T) {
	tree, _ := newTree(t, bindingcodec.Options{})
	path := binding.PathOf(binding.Of[Cfg]())
	tls := q("tls")
	for _, port := range []any{uint16(8080), "any", q("tls")} {
		in := &Cfg{Transport: &tls, Port: port}
		_, node, err := tree.ToNormalizedNode(path, in, nil)
		if err != nil {
			t.Fatalf("ToNormalizedNode(port %v) error = %v", port, err)
		}
		want := data.NewContainer(q("cfg"), data.NewLeaf(q("transport"), tls), data.NewLeaf(q("port"), port))
		if diff := cmp.Diff(want, node); diff != "" {
			t.Fatalf("normalized node mismatch (-want +got):\n%s", diff)
		}
		_, obj, _, err := tree.FromNormalizedNode(data.Path{id("cfg")}, node)
		if err != nil {
			t.Fatalf("FromNormalizedNode(port %v) error = %v", port, err)
		}
		if diff := cmp.Diff(in, obj); diff != "" {
			t.Fatalf("bound object mismatch (-want +got):\n%s", diff)
		}
	}

	base := q("transport")
	if _, _, err := tree.ToNormalizedNode(path, &Cfg{Transport: &base}, nil); yangbind.FirstCode(err) != yangbind.CodeUnknownName {
		t.Fatalf("base identity error = %v, want unknown name", err)
	}
	for _, port := range []any{q("udp"), int32(1)} {
		if _, _, err := tree.ToNormalizedNode(path, &Cfg{Port: port}, nil); !errors.Is(err, yangbind.ErrInvalidValue) {
			t.Fatalf("port %v error = %v, want invalid value", port, err)
		}
	}
	bad := data.NewContainer(q("cfg"), data.NewLeaf(q("port"), "none"))
	if _, _, _, err := tree.FromNormalizedNode(data.Path{id("cfg")}, bad); !errors.Is(err, yangbind.ErrInvalidValue) {
		t.Fatalf("FromNormalizedNode(port none) error = %v", err)
	}
}

func TestDataCodec_RejectsForeignAugmentation(t *testing.T) {
	tree, _ := newTree(t, bindingcodec.Options{})
	top := &Top{}
	binding.Augment(&top.Augmentations, &Alarm{Text: ptr("x")})
	if _, _, err := tree.ToNormalizedNode(binding.PathOf(binding.Of[Top]()), top, nil); yangbind.FirstCode(err) != yangbind.CodeInvalidArgument {
		t.Fatalf("ToNormalizedNode() error = %v", err)
	}
	if _, _, err := tree.ToNormalizedNode(binding.PathOf(binding.Of[Top]()), Top{}, nil); yangbind.FirstCode(err) != yangbind.CodeInvalidArgument {
		t.Fatalf("non-pointer object error = %v", err)
	}
}

func TestMemoCache_ComputesOncePerObject(t *testing.T) {
	tree, _ := newTree(t, bindingcodec.Options{Cache: bindingcodec.CacheMemo})
	cache, ok := tree.NewCache().(*bindingcodec.MemoCache)
	if !ok {
		t.Fatalf("NewCache() = %T, want *MemoCache", tree.NewCache())
	}
	top := sampleTop(t)
	path := binding.PathOf(binding.Of[Top]())

	const workers = 32
	nodes := make([]data.Node, workers)
	errs := make([]error, workers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range workers {
		go func() {
			defer wg.Done()
			<-start
			_, nodes[i], errs[i] = tree.ToNormalizedNode(path, top, cache)
		}()
	}
	close(start)
	wg.Wait()
	for i := range workers {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if nodes[i] != nodes[0] {
			t.Fatalf("worker %d observed a different subtree", i)
		}
	}
	// top, the item entry, the log entry, the square case, the remote case,
	// its detail and ext-info
	if n := cache.Len(); n != 7 {
		t.Fatalf("Len() = %d, want 7", n)
	}
	if n := cache.Builds(); n != 7 {
		t.Fatalf("Builds() = %d, want each subtree computed once", n)
	}

	_, fresh, err := tree.ToNormalizedNode(path, top, bindingcodec.NoopCache())
	if err != nil {
		t.Fatalf("ToNormalizedNode() error = %v", err)
	}
	if fresh == nodes[0] {
		t.Fatalf("NoopCache returned a memoized subtree")
	}
	if diff := cmp.Diff(nodes[0], fresh); diff != "" {
		t.Fatalf("memoized subtree differs (-memo +fresh):\n%s", diff)
	}
}

func TestMemoCache_FailedBuildIsRetried(t *testing.T) {
	tree, _ := newTree(t, bindingcodec.Options{})
	cache := bindingcodec.NewMemoCache()
	tooHeavy := codec.NewDecimal64(150, 0)
	item := &Item{ID: ptr(uint32(1)), Weight: &tooHeavy}
	top := &Top{Items: []*Item{item}}
	path := binding.PathOf(binding.Of[Top]())

	if _, _, err := tree.ToNormalizedNode(path, top, cache); yangbind.FirstCode(err) != yangbind.CodeOutOfRange {
		t.Fatalf("ToNormalizedNode() error = %v, want out of range", err)
	}
	if cache.Len() != 0 {
		t.Fatalf("Len() = %d after a failure, want 0", cache.Len())
	}
	if cache.Builds() != 2 {
		t.Fatalf("Builds() = %d, want top and the item entry", cache.Builds())
	}

	fixed := codec.NewDecimal64(50, 0)
	item.Weight = &fixed
	_, node, err := tree.ToNormalizedNode(path, top, cache)
	if err != nil {
		t.Fatalf("retry error = %v", err)
	}
	if cache.Len() != 2 || cache.Builds() != 4 {
		t.Fatalf("Len() = %d, Builds() = %d, want 2 and 4", cache.Len(), cache.Builds())
	}
	m, _ := data.Find(node, data.Path{id("item")})
	leaf, ok := data.Find(m.(*data.MapNode).Entries[0], data.Path{id("weight")})
	if !ok {
		t.Fatalf("retried entry has no weight")
	}
	if w, _ := leaf.(*data.Leaf).Value.(codec.Decimal64); !w.Equal(fixed) {
		t.Fatalf("weight = %v, want %v", leaf.(*data.Leaf).Value, fixed)
	}

	_, again, err := tree.ToNormalizedNode(path, top, cache)
	if err != nil {
		t.Fatalf("ToNormalizedNode() error = %v", err)
	}
	if again != node || cache.Builds() != 4 {
		t.Fatalf("third call recomputed: Builds() = %d", cache.Builds())
	}
}

func TestMemoCache_RestrictedToTypes(t *testing.T) {
	tree, _ := newTree(t, bindingcodec.Options{})
	cache := bindingcodec.NewMemoCache(binding.TypeOf[Item]())
	top := sampleTop(t)
	path := binding.PathOf(binding.Of[Top]())

	_, a, err := tree.ToNormalizedNode(path, top, cache)
	if err != nil {
		t.Fatalf("ToNormalizedNode() error = %v", err)
	}
	_, b, err := tree.ToNormalizedNode(path, top, cache)
	if err != nil {
		t.Fatalf("ToNormalizedNode() error = %v", err)
	}
	if a == b {
		t.Fatalf("top must not be memoized")
	}
	entry := func(n data.Node) data.Node {
		m, _ := data.Find(n, data.Path{id("item")})
		return m.(*data.MapNode).Entries[0]
	}
	if entry(a) != entry(b) {
		t.Fatalf("item entry must be memoized")
	}
	if cache.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", cache.Len())
	}
}
