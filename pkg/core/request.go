package core

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/apd/v3"
)

// Param is a single rendered query parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of query parameters. Order is preserved on
// encoding so that the signed string and the sent string are identical.
type Params []Param

// Add appends key with the rendered value. Undefined values are skipped:
// nil, nil pointers, empty strings, empty slices and zero times.
func (p *Params) Add(key string, value any) *Params {
	if s, ok := formatParam(value); ok {
		*p = append(*p, Param{Key: key, Value: s})
	}
	return p
}

// Get returns the rendered value of the first parameter named key.
func (p Params) Get(key string) (string, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Encode renders the parameters as key=value pairs joined by '&', values query-escaped.
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for i, param := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(param.Key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(param.Value))
	}
	return b.String()
}

func formatParam(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case apd.Decimal:
		return v.Text('f'), true
	case *apd.Decimal:
		if v == nil {
			return "", false
		}
		return v.Text('f'), true
	case time.Time:
		if v.IsZero() {
			return "", false
		}
		return strconv.FormatInt(v.UnixMilli(), 10), true
	case *time.Time:
		if v == nil {
			return "", false
		}
		return formatParam(*v)
	case []string:
		if len(v) == 0 {
			return "", false
		}
		data, err := sonic.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(data), true
	case fmt.Stringer:
		// Pointers to values with their own format are dereferenced first.
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return "", false
			}
			return formatParam(rv.Elem().Interface())
		}
		s := v.String()
		return s, s != ""
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return "", false
		}
		return formatParam(rv.Elem().Interface())
	case reflect.String:
		return rv.String(), rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true
	}
	return fmt.Sprint(value), true
}

// Security is the authentication level an endpoint requires.
type Security int

const (
	// SecurityNone endpoints are public.
	SecurityNone Security = iota
	// SecurityAPIKey endpoints need the X-MBX-APIKEY header only.
	SecurityAPIKey
	// SecuritySigned endpoints need the API key header, a timestamp and a signature.
	SecuritySigned
)

// String returns the string representation of the security level.
func (s Security) String() string {
	return [...]string{"NONE", "API_KEY", "SIGNED"}[s]
}

// Request describes one REST call before it is signed and sent.
type Request struct {
	Operation Operation         `json:"operation"`
	Method    string            `json:"method"`
	Path      string            `json:"path"`
	Query     Params            `json:"query,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	Weight    int               `json:"weight"`
	Security  Security          `json:"security"`
	// CountsOrder marks requests that consume the order placement budget.
	CountsOrder bool `json:"counts_order"`
}

func NewRequest(op Operation) *Request {
	ep := op.Endpoint()
	return &Request{
		Operation:   op,
		Method:      ep.Method,
		Path:        ep.Path,
		Headers:     make(map[string]string),
		Weight:      ep.Weight,
		Security:    ep.Security,
		CountsOrder: ep.CountsOrder,
	}
}

func (r *Request) SetQuery(key string, value any) *Request {
	r.Query.Add(key, value)
	return r
}

func (r *Request) SetHeader(key, value string) *Request {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

func (r *Request) SetWeight(weight int) *Request {
	r.Weight = weight
	return r
}

// URL returns the path followed by the encoded query, if any.
func (r *Request) URL() string {
	if q := r.Query.Encode(); q != "" {
		return r.Path + "?" + q
	}
	return r.Path
}
