// ABOUTME: Render class registry with single-inheritance hierarchy
// ABOUTME: Namespace association and inheritance rules validated at registration

package render

import (
	"fmt"
	"sort"
	"sync"
)

// Class identifies a family of renderable values sharing one encoding
// strategy. Classes form a single-inheritance tree rooted at Base and
// are defined once, at package init time, via NewClass; violations of
// the declaration rules are programmer errors and panic there.
type Class struct {
	name    string
	parent  *Class
	args    *ArgsSpec // non-nil only when this class declares its own spec
	inherit bool      // explicitly reuses the nearest ancestor's spec
	newData DataFunc
	encode  EncodeFunc
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*Class{}
	baseClass  *Class
)

func init() {
	baseClass = &Class{name: "renderable"}
	registry[baseClass.name] = baseClass
}

// Base returns the root render class. It declares no arguments, no
// working data, and no encoder.
func Base() *Class { return baseClass }

// ClassOption configures a class at registration.
type ClassOption func(*Class)

// WithArgs associates an argument namespace spec with the class. A spec
// belongs to exactly one class; re-association panics.
func WithArgs(spec *ArgsSpec) ClassOption {
	return func(c *Class) { c.args = spec }
}

// WithInheritedArgs makes the class reuse the nearest ancestor's
// argument spec verbatim. Combining this with WithArgs panics: a class
// defines its own fields or inherits, never both.
func WithInheritedArgs() ClassOption {
	return func(c *Class) { c.inherit = true }
}

// WithData declares per-render working data and its constructor.
func WithData(fn DataFunc) ClassOption {
	return func(c *Class) { c.newData = fn }
}

// WithEncoder sets the style encoder invoked by the pipeline.
func WithEncoder(fn EncodeFunc) ClassOption {
	return func(c *Class) { c.encode = fn }
}

// NewClass registers a render class under parent (Base if nil).
func NewClass(name string, parent *Class, opts ...ClassOption) *Class {
	if name == "" {
		panic("render: class name must not be empty")
	}
	if parent == nil {
		parent = baseClass
	}

	c := &Class{name: name, parent: parent}
	for _, o := range opts {
		o(c)
	}

	if c.args != nil && c.inherit {
		panic(fmt.Sprintf("render: class %s cannot both declare and inherit arguments", name))
	}
	if c.inherit && parent.argsDeclarer() == nil {
		panic(fmt.Sprintf("render: class %s inherits arguments but no ancestor declares any", name))
	}
	if c.args != nil {
		if c.args.class != nil {
			panic(fmt.Sprintf("render: args spec already associated with class %s", c.args.class.name))
		}
		c.args.class = c
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("render: class %s already registered", name))
	}
	registry[name] = c
	return c
}

// Lookup finds a registered class by name.
func Lookup(name string) (*Class, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[name]
	return c, ok
}

// ClassNames returns the sorted names of all registered classes.
func ClassNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Parent returns the superclass, nil for Base.
func (c *Class) Parent() *Class { return c.parent }

// IsSubclassOf reports whether c is other or a descendant of other.
func (c *Class) IsSubclassOf(other *Class) bool {
	for cur := c; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

// chain returns the classes from Base down to c.
func (c *Class) chain() []*Class {
	var out []*Class
	for cur := c; cur != nil; cur = cur.parent {
		out = append(out, cur)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// argsDeclarer returns the class whose argument spec c uses: c itself
// when it declares one, the nearest declaring ancestor when inheriting,
// nil when c has no arguments at all.
func (c *Class) argsDeclarer() *Class {
	if c.args != nil {
		return c
	}
	if c.inherit {
		return c.parent.argsDeclarer()
	}
	return nil
}

// encoder returns the nearest encode hook up the chain.
func (c *Class) encoder() EncodeFunc {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.encode != nil {
			return cur.encode
		}
	}
	return nil
}
