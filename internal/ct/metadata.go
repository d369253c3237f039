package ct

import (
	"sort"

	"ktbridge/internal/kt"
)

// MetaKind enumerates the metadata slots a node may carry.
type MetaKind uint8

const (
	MetaModifiers MetaKind = iota + 1
	MetaBinaryOperatorKind
	MetaLabel
	MetaDestructured
	MetaComponents
	MetaPropertyDelegate
	MetaPropertyGetter
	MetaPropertySetter
	MetaExtensionReceiver
	MetaNamedArgument
	MetaInfix
	MetaInvokeOperator
	MetaSetAsOperator
	MetaSafeAccess
	MetaCheckedNotNull
	MetaSpread
	MetaStatementType
	MetaPrimaryConstructor
	MetaAnonymousFunction
	MetaSafeCast
	MetaStringTemplate
	MetaScientificLiteral
	MetaMultilineString
)

// Key is a typed handle on one metadata slot.
type Key[T any] struct {
	kind MetaKind
	name string
}

func (k Key[T]) Kind() MetaKind { return k.kind }
func (k Key[T]) Name() string   { return k.name }

var (
	KeyModifiers          = Key[[]kt.Modifier]{MetaModifiers, "modifiers"}
	KeyBinaryOperatorKind = Key[kt.BinaryOperatorKind]{MetaBinaryOperatorKind, "binaryOperatorKind"}
	KeyLabel              = Key[string]{MetaLabel, "label"}
	KeyDestructured       = Key[bool]{MetaDestructured, "destructured"}
	KeyComponents         = Key[[]*LocalVariable]{MetaComponents, "components"}
	KeyPropertyDelegate   = Key[Expression]{MetaPropertyDelegate, "propertyDelegate"}
	KeyPropertyGetter     = Key[*Method]{MetaPropertyGetter, "propertyGetter"}
	KeyPropertySetter     = Key[*Method]{MetaPropertySetter, "propertySetter"}
	KeyExtensionReceiver  = Key[*TypeReference]{MetaExtensionReceiver, "extensionReceiver"}
	KeyNamedArgument      = Key[string]{MetaNamedArgument, "namedArgument"}
	KeyInfix              = Key[bool]{MetaInfix, "infix"}
	KeyInvokeOperator     = Key[bool]{MetaInvokeOperator, "invokeOperator"}
	KeySetAsOperator      = Key[bool]{MetaSetAsOperator, "setAsOperator"}
	KeySafeAccess         = Key[bool]{MetaSafeAccess, "safeAccess"}
	KeyCheckedNotNull     = Key[bool]{MetaCheckedNotNull, "checkedNotNull"}
	KeySpread             = Key[bool]{MetaSpread, "spread"}
	KeyStatementType      = Key[*TypeReference]{MetaStatementType, "statementType"}
	KeyPrimaryConstructor = Key[bool]{MetaPrimaryConstructor, "primaryConstructor"}
	KeyAnonymousFunction  = Key[bool]{MetaAnonymousFunction, "anonymousFunction"}
	KeySafeCast           = Key[bool]{MetaSafeCast, "safeCast"}
	KeyStringTemplate     = Key[bool]{MetaStringTemplate, "stringTemplate"}
	KeyScientificLiteral  = Key[bool]{MetaScientificLiteral, "scientificLiteral"}
	KeyMultilineString    = Key[bool]{MetaMultilineString, "multilineString"}
)

var metaNames = map[MetaKind]string{}

func init() {
	for _, n := range []struct {
		k MetaKind
		s string
	}{
		{KeyModifiers.kind, KeyModifiers.name},
		{KeyBinaryOperatorKind.kind, KeyBinaryOperatorKind.name},
		{KeyLabel.kind, KeyLabel.name},
		{KeyDestructured.kind, KeyDestructured.name},
		{KeyComponents.kind, KeyComponents.name},
		{KeyPropertyDelegate.kind, KeyPropertyDelegate.name},
		{KeyPropertyGetter.kind, KeyPropertyGetter.name},
		{KeyPropertySetter.kind, KeyPropertySetter.name},
		{KeyExtensionReceiver.kind, KeyExtensionReceiver.name},
		{KeyNamedArgument.kind, KeyNamedArgument.name},
		{KeyInfix.kind, KeyInfix.name},
		{KeyInvokeOperator.kind, KeyInvokeOperator.name},
		{KeySetAsOperator.kind, KeySetAsOperator.name},
		{KeySafeAccess.kind, KeySafeAccess.name},
		{KeyCheckedNotNull.kind, KeyCheckedNotNull.name},
		{KeySpread.kind, KeySpread.name},
		{KeyStatementType.kind, KeyStatementType.name},
		{KeyPrimaryConstructor.kind, KeyPrimaryConstructor.name},
		{KeyAnonymousFunction.kind, KeyAnonymousFunction.name},
		{KeySafeCast.kind, KeySafeCast.name},
		{KeyStringTemplate.kind, KeyStringTemplate.name},
		{KeyScientificLiteral.kind, KeyScientificLiteral.name},
		{KeyMultilineString.kind, KeyMultilineString.name},
	} {
		metaNames[n.k] = n.s
	}
}

func (k MetaKind) String() string { return metaNames[k] }

// Metadata is the side-table attached to every element. The zero value is
// empty and ready to use.
type Metadata struct {
	values map[MetaKind]any
}

// Kinds returns the populated slots in ascending order.
func (m *Metadata) Kinds() []MetaKind {
	out := make([]MetaKind, 0, len(m.values))
	for k := range m.values {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Value returns the raw value stored under k.
func (m *Metadata) Value(k MetaKind) (any, bool) {
	v, ok := m.values[k]
	return v, ok
}

// Len reports the number of populated slots.
func (m *Metadata) Len() int { return len(m.values) }

// Get reads a typed metadata value from e.
func Get[T any](e Element, k Key[T]) (T, bool) {
	var zero T
	if isNil(e) {
		return zero, false
	}
	v, ok := e.Metadata().values[k.kind]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Flag reads a boolean slot, defaulting to false.
func Flag(e Element, k Key[bool]) bool {
	v, _ := Get(e, k)
	return v
}

// Put stores v on e. Element values are adopted by e.
func Put[T any](e Element, k Key[T], v T) {
	m := e.Metadata()
	if m.values == nil {
		m.values = make(map[MetaKind]any)
	}
	m.values[k.kind] = v
	switch x := any(v).(type) {
	case Element:
		adopt(e, x)
	case []*LocalVariable:
		adoptAll(e, x)
	}
}

// Delete clears the slot k on e.
func Delete[T any](e Element, k Key[T]) {
	delete(e.Metadata().values, k.kind)
}
