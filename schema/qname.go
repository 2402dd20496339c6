package schema

import "strings"

// QName is a namespace-qualified statement name.
type QName struct {
	Namespace string
	Local     string
}

// String renders the QName as (namespace)local.
func (q QName) String() string {
	if q.Namespace == "" {
		return q.Local
	}
	return "(" + q.Namespace + ")" + q.Local
}

// IsZero reports whether q is the zero QName.
func (q QName) IsZero() bool { return q.Namespace == "" && q.Local == "" }

// Sibling returns a QName in the same namespace with a different local name.
func (q QName) Sibling(local string) QName { return QName{Namespace: q.Namespace, Local: local} }

// Compare orders QNames by namespace, then local name.
func Compare(a, b QName) int {
	if c := strings.Compare(a.Namespace, b.Namespace); c != 0 {
		return c
	}
	return strings.Compare(a.Local, b.Local)
}
