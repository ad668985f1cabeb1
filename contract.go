package outcome

import (
	"fmt"
	"net/http"
	"reflect"
)

// Tag discriminates the result variants of one operation.
type Tag string

// Tags shared by convention across operations.
const (
	TagValidationFailed Tag = "ValidationFailed"
)

// Requiredness states whether a header must be supplied by the handler.
type Requiredness int

const (
	Required Requiredness = iota + 1
	Optional
)

func (r Requiredness) String() string {
	switch r {
	case Required:
		return "required"
	case Optional:
		return "optional"
	default:
		return fmt.Sprintf("Requiredness(%d)", int(r))
	}
}

// HeaderType is the value type a header carries on the wire.
type HeaderType int

const (
	HeaderString HeaderType = iota + 1
	HeaderInteger
	// HeaderLink is an RFC 5988 Link header value. It is opaque to the dispatcher.
	HeaderLink
)

func (t HeaderType) String() string {
	switch t {
	case HeaderString:
		return "string"
	case HeaderInteger:
		return "integer"
	case HeaderLink:
		return "link"
	default:
		return fmt.Sprintf("HeaderType(%d)", int(t))
	}
}

// HeaderRule declares one header a contract may or must carry.
type HeaderRule struct {
	Name         string
	Requiredness Requiredness
	Type         HeaderType
	Description  string
}

// RequiredHeader declares a header the handler must always supply.
func RequiredHeader(name string, typ HeaderType) HeaderRule {
	return HeaderRule{Name: http.CanonicalHeaderKey(name), Requiredness: Required, Type: typ}
}

// OptionalHeader declares a header emitted only when the handler supplies it.
func OptionalHeader(name string, typ HeaderType) HeaderRule {
	return HeaderRule{Name: http.CanonicalHeaderKey(name), Requiredness: Optional, Type: typ}
}

// Describe returns a copy of the rule with a human-readable description.
func (h HeaderRule) Describe(desc string) HeaderRule {
	h.Description = desc
	return h
}

// Schema references the body shape of a contract.
// The zero value is the empty body.
type Schema struct {
	typ reflect.Type
}

// EmptyBody is the schema of contracts that never carry a body.
var EmptyBody = Schema{}

// BodyOf returns the schema of values shaped like example.
// Pointers are dereferenced; a nil example yields the empty body.
func BodyOf(example any) Schema {
	t := reflect.TypeOf(example)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return Schema{typ: t}
}

// IsEmpty reports whether the schema describes a zero-length body.
func (s Schema) IsEmpty() bool {
	return s.typ == nil
}

// Type returns the Go type of the body, or nil for the empty body.
func (s Schema) Type() reflect.Type {
	return s.typ
}

func (s Schema) String() string {
	if s.typ == nil {
		return "empty"
	}
	return s.typ.String()
}

// Contract is one legal result of an operation and its wire shape.
type Contract struct {
	Tag         Tag
	Status      int
	Body        Schema
	Headers     []HeaderRule
	Description string
}

// RequiredHeaders returns the required rules in declared order.
func (c Contract) RequiredHeaders() []HeaderRule {
	return c.headers(Required)
}

// OptionalHeaders returns the optional rules in declared order.
func (c Contract) OptionalHeaders() []HeaderRule {
	return c.headers(Optional)
}

func (c Contract) headers(r Requiredness) []HeaderRule {
	var out []HeaderRule
	for _, h := range c.Headers {
		if h.Requiredness == r {
			out = append(out, h)
		}
	}
	return out
}

// Operation is one API action and the closed set of its outcomes.
// Method and Path are used by the App router and by OpenAPI generation;
// the dispatcher only needs Name and Contracts.
type Operation struct {
	Name      string
	Method    string
	Path      string
	Summary   string
	Contracts []Contract
}

// Contract returns the contract declared for tag.
func (o *Operation) Contract(tag Tag) (Contract, bool) {
	for _, c := range o.Contracts {
		if c.Tag == tag {
			return c, true
		}
	}
	return Contract{}, false
}

// Tags returns the declared tags in declaration order.
func (o *Operation) Tags() []Tag {
	tags := make([]Tag, len(o.Contracts))
	for i, c := range o.Contracts {
		tags[i] = c.Tag
	}
	return tags
}

// validate checks the static invariants of an operation.
func (o *Operation) validate() error {
	if o.Name == "" {
		return invalidContract("", "", "operation name is empty")
	}
	if len(o.Contracts) == 0 {
		return invalidContract(o.Name, "", "no outcome contracts declared")
	}
	tags := make(map[Tag]bool, len(o.Contracts))
	statuses := make(map[int]Tag, len(o.Contracts))
	for _, c := range o.Contracts {
		if c.Tag == "" {
			return invalidContract(o.Name, c.Tag, "empty tag")
		}
		if tags[c.Tag] {
			return invalidContract(o.Name, c.Tag, "duplicate tag")
		}
		tags[c.Tag] = true
		if c.Status < 100 || c.Status > 599 {
			return invalidContract(o.Name, c.Tag, fmt.Sprintf("status %d out of range", c.Status))
		}
		if prev, ok := statuses[c.Status]; ok {
			return invalidContract(o.Name, c.Tag, fmt.Sprintf("status %d already used by %q", c.Status, prev))
		}
		statuses[c.Status] = c.Tag
		if c.Status == http.StatusNoContent && !c.Body.IsEmpty() {
			return invalidContract(o.Name, c.Tag, "204 contract declares a body")
		}
		seen := make(map[string]bool, len(c.Headers))
		for _, h := range c.Headers {
			if h.Name == "" {
				return invalidContract(o.Name, c.Tag, "header rule without name")
			}
			key := http.CanonicalHeaderKey(h.Name)
			if seen[key] {
				return invalidContract(o.Name, c.Tag, fmt.Sprintf("duplicate header rule %q", key))
			}
			seen[key] = true
			if h.Requiredness != Required && h.Requiredness != Optional {
				return invalidContract(o.Name, c.Tag, fmt.Sprintf("header %q has invalid requiredness", key))
			}
			switch h.Type {
			case HeaderString, HeaderInteger, HeaderLink:
			default:
				return invalidContract(o.Name, c.Tag, fmt.Sprintf("header %q has invalid type", key))
			}
		}
	}
	return nil
}

// clone deep-copies the operation so the registry owns its contracts.
func (o Operation) clone() *Operation {
	cp := o
	cp.Contracts = make([]Contract, len(o.Contracts))
	for i, c := range o.Contracts {
		c.Headers = append([]HeaderRule(nil), c.Headers...)
		for j := range c.Headers {
			c.Headers[j].Name = http.CanonicalHeaderKey(c.Headers[j].Name)
		}
		cp.Contracts[i] = c
	}
	return &cp
}
