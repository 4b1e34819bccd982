package schemas

import "fmt"

// -- Error Taxonomy --
//
// Every malformed-input condition maps to exactly one typed error. All of
// them are terminal for the enclosing top-level normalization call: nothing
// is retried and no partial tree is returned. Callers match with errors.As.

// InvalidColorError reports a color expression no grammar matched.
type InvalidColorError struct {
	Value string
}

func (e *InvalidColorError) Error() string {
	return fmt.Sprintf("invalid color expression %q", e.Value)
}

// InvalidPositionError reports a coordinate that is neither a number nor a
// valid percentage string.
type InvalidPositionError struct {
	Value string
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("invalid position value %q", e.Value)
}

// MissingStyleError reports a positioned node authored without a style block.
type MissingStyleError struct {
	NodeKind Kind
}

func (e *MissingStyleError) Error() string {
	return fmt.Sprintf("%s node is missing its style block", e.NodeKind)
}

// InvalidTextChildError reports a text child of an unsupported type
// (boolean, plain object, ...).
type InvalidTextChildError struct {
	Value any
}

func (e *InvalidTextChildError) Error() string {
	return fmt.Sprintf("invalid text child of type %T", e.Value)
}

// UnsupportedNodeError reports a node kind that is valid elsewhere but not
// in its current context, e.g. a line inside a flex container.
type UnsupportedNodeError struct {
	NodeKind Kind
	Context  string
}

func (e *UnsupportedNodeError) Error() string {
	return fmt.Sprintf("%s node is not supported inside %s", e.NodeKind, e.Context)
}

// UnsupportedMasterSlideObjectError reports a node kind that cannot appear
// as a direct master-slide child.
type UnsupportedMasterSlideObjectError struct {
	NodeKind Kind
}

func (e *UnsupportedMasterSlideObjectError) Error() string {
	return fmt.Sprintf("%s node is not supported on a master slide", e.NodeKind)
}

// UnknownNodeKindError reports a kind tag outside the closed union.
type UnknownNodeKindError struct {
	NodeKind string
}

func (e *UnknownNodeKindError) Error() string {
	return fmt.Sprintf("unknown node kind %q", e.NodeKind)
}

// DuplicateMasterSlideError reports two master slides sharing a name. The
// engine fails fast by default instead of silently letting the later one
// win; AllowMasterOverride restores the legacy behavior.
type DuplicateMasterSlideError struct {
	Name string
}

func (e *DuplicateMasterSlideError) Error() string {
	return fmt.Sprintf("duplicate master slide name %q", e.Name)
}
