package chunk

// Known attribute keys. A concrete extractor populates a subset of these;
// values are raw source slices except where noted.
const (
	AttrParameters        = "parameters"
	AttrReturnType        = "return_type"
	AttrModifiers         = "modifiers"
	AttrBaseList          = "base_list"
	AttrExtends           = "extends"
	AttrHeritage          = "heritage"
	AttrSuperclass        = "superclass"
	AttrBases             = "bases"
	AttrTemplateParameters = "template_parameters"
	AttrTypeParameters    = "type_parameters"
	AttrGenericParameters = "generic_parameters"
	AttrInheritance       = "inheritance"
	AttrImports           = "imports"
	AttrPackage           = "package"
	AttrNamespace         = "namespace"
	AttrEnclosingType     = "enclosing_type"
	AttrType              = "type"
	AttrObject            = "object"
	AttrReceiver          = "receiver"
	AttrAsync             = "async"
	AttrDecorators        = "decorators"
	AttrDocstring         = "docstring"
	AttrValue             = "value"
	AttrSignature         = "signature"
	AttrParent            = "parent"
	AttrKind              = "kind"
	AttrExtendedType      = "extended_type"
	AttrAnnotations       = "annotations"
	AttrReturnTypeJava    = "returnType"
	AttrFieldType         = "fieldType"
	AttrIdentifier        = "identifier"
	AttrThrows            = "throws"
	AttrInterfaces        = "interfaces"
)

// AttributeMap is an insertion-ordered string-to-string map. Tree-sitter
// extractors populate it in the order attributes are discovered, and that
// order is preserved for any downstream consumer that renders attributes.
type AttributeMap struct {
	keys   []string
	values map[string]string
}

// NewAttributeMap returns an empty, insertion-ordered attribute map.
func NewAttributeMap() *AttributeMap {
	return &AttributeMap{values: make(map[string]string)}
}

// Set inserts or overwrites a key. Overwriting an existing key does not
// change its position in iteration order.
func (m *AttributeMap) Set(key, value string) *AttributeMap {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

// Get returns the value for key and whether it was present.
func (m *AttributeMap) Get(key string) (string, bool) {
	if m == nil || m.values == nil {
		return "", false
	}
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *AttributeMap) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of attributes.
func (m *AttributeMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Clone returns a deep, independent copy.
func (m *AttributeMap) Clone() *AttributeMap {
	out := NewAttributeMap()
	if m == nil {
		return out
	}
	for _, k := range m.keys {
		out.Set(k, m.values[k])
	}
	return out
}

// Equal reports whether two attribute maps have identical key/value pairs
// in the same order.
func (m *AttributeMap) Equal(other *AttributeMap) bool {
	mKeys := m.Keys()
	oKeys := other.Keys()
	if len(mKeys) != len(oKeys) {
		return false
	}
	for i, k := range mKeys {
		if oKeys[i] != k {
			return false
		}
		mv, _ := m.Get(k)
		ov, _ := other.Get(k)
		if mv != ov {
			return false
		}
	}
	return true
}
