// Package chunk defines the canonical semantic-chunk value type shared by
// every language extractor in the parsing engine.
package chunk

import (
	"github.com/pkg/errors"
)

// EntityType is a closed per-language vocabulary of chunk kinds.
type EntityType string

const (
	EntityClass          EntityType = "class"
	EntityInterface      EntityType = "interface"
	EntityStruct         EntityType = "struct"
	EntityEnum           EntityType = "enum"
	EntityRecord         EntityType = "record"
	EntityTrait          EntityType = "trait"
	EntityObject         EntityType = "object"
	EntityModule         EntityType = "module"
	EntityNamespace      EntityType = "namespace"
	EntityProtocol       EntityType = "protocol"
	EntityExtension      EntityType = "extension"
	EntityFunction       EntityType = "function"
	EntityMethod         EntityType = "method"
	EntityConstructor    EntityType = "constructor"
	EntityField          EntityType = "field"
	EntityProperty       EntityType = "property"
	EntityConstant       EntityType = "constant"
	EntityTypeAlias      EntityType = "type_alias"
	EntitySingletonMethod EntityType = "singleton_method"
	EntityAnnotation     EntityType = "annotation"
	EntitySealedClass    EntityType = "sealed_class"
	EntityDataClass      EntityType = "data_class"
	EntityAnonymousClass EntityType = "anonymous_class"
	EntityType_          EntityType = "type"
)

// ErrInvalidChunk is returned (wrapped) when a chunk would violate one of
// the structural invariants enforced by New.
var ErrInvalidChunk = errors.New("invalid chunk")

// Chunk represents one named code entity: a class, method, function, field,
// module, etc. It is a plain, immutable value once constructed.
type Chunk struct {
	Content    string
	Language   string
	EntityType EntityType
	EntityName string
	SourceFile string
	StartLine  int
	EndLine    int
	StartByte  int
	EndByte    int
	Attributes *AttributeMap
}

// New validates and constructs a Chunk. Attributes is defensively copied;
// a nil map is treated as empty.
func New(content, language string, entityType EntityType, entityName, sourceFile string,
	startLine, endLine, startByte, endByte int, attributes *AttributeMap) (Chunk, error) {

	c := Chunk{
		Content:    content,
		Language:   language,
		EntityType: entityType,
		EntityName: entityName,
		SourceFile: sourceFile,
		StartLine:  startLine,
		EndLine:    endLine,
		StartByte:  startByte,
		EndByte:    endByte,
	}

	if attributes == nil {
		c.Attributes = NewAttributeMap()
	} else {
		c.Attributes = attributes.Clone()
	}

	if err := c.validate(); err != nil {
		return Chunk{}, err
	}
	return c, nil
}

func (c Chunk) validate() error {
	if c.StartLine < 1 {
		return errors.Wrapf(ErrInvalidChunk, "start_line %d < 1", c.StartLine)
	}
	if c.EndLine < c.StartLine {
		return errors.Wrapf(ErrInvalidChunk, "end_line %d < start_line %d", c.EndLine, c.StartLine)
	}
	if c.StartByte < 0 {
		return errors.Wrapf(ErrInvalidChunk, "start_byte %d < 0", c.StartByte)
	}
	if c.EndByte < c.StartByte {
		return errors.Wrapf(ErrInvalidChunk, "end_byte %d < start_byte %d", c.EndByte, c.StartByte)
	}
	return nil
}

// Equal reports structural equality between two chunks.
func (c Chunk) Equal(other Chunk) bool {
	if c.Content != other.Content ||
		c.Language != other.Language ||
		c.EntityType != other.EntityType ||
		c.EntityName != other.EntityName ||
		c.SourceFile != other.SourceFile ||
		c.StartLine != other.StartLine ||
		c.EndLine != other.EndLine ||
		c.StartByte != other.StartByte ||
		c.EndByte != other.EndByte {
		return false
	}
	return c.Attributes.Equal(other.Attributes)
}

// DedupKey is the triple used to suppress duplicate chunk emission within a
// single parse call: entity_name | start_byte | end_byte.
func (c Chunk) DedupKey() string {
	return dedupKey(string(c.EntityName), c.StartByte, c.EndByte)
}

func dedupKey(name string, startByte, endByte int) string {
	return name + "|" + itoa(startByte) + "|" + itoa(endByte)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
