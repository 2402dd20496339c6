package schema

// Kind identifies the statement kind of a schema node.
type Kind uint8

const (
	KindRoot Kind = iota
	KindContainer
	KindList
	KindLeaf
	KindLeafList
	KindChoice
	KindCase
	KindAnyData
	KindAnyXML
	KindAugmentation
	KindNotification
	KindRPC
	KindAction
	KindInput
	KindOutput
)

var kindNames = [...]string{
	KindRoot:         "root",
	KindContainer:    "container",
	KindList:         "list",
	KindLeaf:         "leaf",
	KindLeafList:     "leaf-list",
	KindChoice:       "choice",
	KindCase:         "case",
	KindAnyData:      "anydata",
	KindAnyXML:       "anyxml",
	KindAugmentation: "augment",
	KindNotification: "notification",
	KindRPC:          "rpc",
	KindAction:       "action",
	KindInput:        "input",
	KindOutput:       "output",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsData reports whether nodes of this kind instantiate data in the
// normalized tree.
func (k Kind) IsData() bool {
	switch k {
	case KindContainer, KindList, KindLeaf, KindLeafList, KindChoice, KindAnyData, KindAnyXML:
		return true
	}
	return false
}

// IsComposite reports whether nodes of this kind have child statements that
// carry data.
func (k Kind) IsComposite() bool {
	switch k {
	case KindRoot, KindContainer, KindList, KindChoice, KindCase, KindAugmentation,
		KindNotification, KindRPC, KindAction, KindInput, KindOutput:
		return true
	}
	return false
}
