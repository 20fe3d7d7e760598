// Package pathname implements the Path value object from spec.md section
// 3: an immutable, forward-slash-delimited sequence of non-empty
// components, ordered so that hierarchical locking (spec.md section 4.3)
// can walk ancestors top-down without risking deadlock.
package pathname

import (
	"strings"

	"github.com/distfs/naming/errs"
)

// Path is an immutable sequence of path components. The zero value is the
// root path. Path values are comparable with == and safe for use as map
// keys, which the naming package relies on heavily.
type Path struct {
	// joined is the canonical internal form: "" for root, "/c1/c2/..."
	// otherwise. It alone determines equality and hashing, since it is a
	// lossless encoding of the component sequence (components may not
	// contain "/"). String() maps "" to the external "/" spelling.
	joined string
}

// Root is the empty path, the root of the directory tree.
var Root = Path{}

// New parses s into a Path. s must start with "/"; empty segments between
// slashes are dropped. Fails with *errs.BadPath if s does not start with
// "/" or contains ":".
func New(s string) (Path, error) {
	if !strings.HasPrefix(s, "/") {
		return Path{}, &errs.BadPath{Path: s, Err: errNoLeadingSlash}
	}
	if strings.Contains(s, ":") {
		return Path{}, &errs.BadPath{Path: s, Err: errContainsColon}
	}

	comps := splitNonEmpty(s)
	return Path{joined: join(comps)}, nil
}

// MustNew is New, panicking on error. Intended for tests and for
// compile-time-constant paths.
func MustNew(s string) Path {
	p, err := New(s)
	if err != nil {
		panic(err)
	}
	return p
}

var (
	errNoLeadingSlash = pathErr("path must start with '/'")
	errContainsColon  = pathErr("path must not contain ':'")
	errEmptyComponent = pathErr("component must not be empty")
	errSlashInComp    = pathErr("component must not contain '/'")
	errColonInComp    = pathErr("component must not contain ':'")
)

type pathErr string

func (e pathErr) Error() string { return string(e) }

func splitNonEmpty(s string) []string {
	raw := strings.Split(s, "/")
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// join encodes comps into their canonical joined form. The empty sequence
// (root) encodes as "", the same as the Path{} zero value, so that
// New("/"), any top-level path's Parent(), and pathname.Root are all the
// same map key; String() maps "" back to "/" via IsRoot.
func join(comps []string) string {
	if len(comps) == 0 {
		return ""
	}
	return "/" + strings.Join(comps, "/")
}

// Append returns the path formed by adding component as a new last element
// of parent. Fails with *errs.BadPath if component is empty or contains
// "/" or ":".
func Append(parent Path, component string) (Path, error) {
	if component == "" {
		return Path{}, &errs.BadPath{Path: component, Err: errEmptyComponent}
	}
	if strings.Contains(component, "/") {
		return Path{}, &errs.BadPath{Path: component, Err: errSlashInComp}
	}
	if strings.Contains(component, ":") {
		return Path{}, &errs.BadPath{Path: component, Err: errColonInComp}
	}

	if parent.IsRoot() {
		return Path{joined: "/" + component}, nil
	}
	return Path{joined: parent.joined + "/" + component}, nil
}

// IsRoot reports whether p is the root path.
func (p Path) IsRoot() bool {
	return p.joined == ""
}

// String returns the canonical string form of p.
func (p Path) String() string {
	if p.IsRoot() {
		return "/"
	}
	return p.joined
}

// components returns p's component list, empty for root.
func (p Path) components() []string {
	if p.IsRoot() {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p.joined, "/"), "/")
}

// NumComponents returns the number of components in p (0 for root).
func (p Path) NumComponents() int {
	return len(p.components())
}

// Parent returns p's parent. Fails with *errs.BadPath on root.
func (p Path) Parent() (Path, error) {
	comps := p.components()
	if len(comps) == 0 {
		return Path{}, &errs.BadPath{Path: p.String(), Err: pathErr("root has no parent")}
	}
	return Path{joined: join(comps[:len(comps)-1])}, nil
}

// Last returns p's final component. Fails with *errs.BadPath on root.
func (p Path) Last() (string, error) {
	comps := p.components()
	if len(comps) == 0 {
		return "", &errs.BadPath{Path: p.String(), Err: pathErr("root has no last component")}
	}
	return comps[len(comps)-1], nil
}

// IsSubpath reports whether other is a (non-strict) prefix of p; root is a
// subpath of every path, and every path is a subpath of itself.
func (p Path) IsSubpath(other Path) bool {
	if other.IsRoot() {
		return true
	}
	if p.joined == other.joined {
		return true
	}
	return strings.HasPrefix(p.joined, other.joined+"/")
}

// CompareTo implements the total order from spec.md section 3: first by
// component count ascending, then lexicographically on the canonical
// string. This order is what makes locking a set of paths in increasing
// order deadlock-free (spec.md section 4.3).
func (p Path) CompareTo(other Path) int {
	pn, on := p.NumComponents(), other.NumComponents()
	if pn != on {
		if pn < on {
			return -1
		}
		return 1
	}
	return strings.Compare(p.String(), other.String())
}

// Equal reports whether p and other denote the same path.
func (p Path) Equal(other Path) bool {
	return p.joined == other.joined
}

// Less reports whether p sorts before other in the total order.
func (p Path) Less(other Path) bool {
	return p.CompareTo(other) < 0
}

// GobEncode implements gob.GobEncoder so Path can cross the rpcwire
// envelope despite joined being unexported: it encodes the canonical
// string form and reparses on the other end.
func (p Path) GobEncode() ([]byte, error) {
	return []byte(p.String()), nil
}

// GobDecode implements gob.GobDecoder, the inverse of GobEncode.
func (p *Path) GobDecode(data []byte) error {
	parsed, err := New(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Subpaths returns the subpath chain for p: root, then every non-empty
// prefix, ending with p itself. This is exactly the sequence that must be
// locked, in order, to acquire p (spec.md section 4.3).
func (p Path) Subpaths() []Path {
	comps := p.components()
	chain := make([]Path, 0, len(comps)+1)
	chain = append(chain, Root)
	for i := 1; i <= len(comps); i++ {
		chain = append(chain, Path{joined: join(comps[:i])})
	}
	return chain
}
