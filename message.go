/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package gettext

import (
	"strings"
)

// EOT separates a message context from a message ID in catalog lookup keys.
// The byte is the same one GNU gettext uses in compiled MO files.
const EOT = '\x04'

// MessageKey identifies a message inside a catalog.
// Messages with the same ID but different contexts are distinct.
type MessageKey struct {
	Context string
	ID      string
}

// NewMessageKey constructs a MessageKey without a context.
func NewMessageKey(id string) MessageKey {
	return MessageKey{ID: id}
}

// NewMessageKeyC constructs a context-qualified MessageKey.
func NewMessageKeyC(ctx, id string) MessageKey {
	return MessageKey{Context: ctx, ID: id}
}

// String returns the flat lookup form of the key.
// A context-qualified key is rendered as "<context>\x04<id>".
func (k MessageKey) String() string {
	if k.Context == "" {
		return k.ID
	}
	var b strings.Builder
	b.Grow(len(k.Context) + 1 + len(k.ID))
	b.WriteString(k.Context)
	b.WriteByte(EOT)
	b.WriteString(k.ID)
	return b.String()
}

// ParseMessageKey splits a flat lookup form back into a MessageKey.
func ParseMessageKey(s string) MessageKey {
	if i := strings.IndexByte(s, EOT); i >= 0 {
		return MessageKey{Context: s[:i], ID: s[i+1:]}
	}
	return MessageKey{ID: s}
}

// Message is a single translatable message of a catalog.
type Message struct {
	// Context disambiguates messages that share the same ID.
	Context string

	// ID is the untranslated message in the source language.
	ID string

	// IDPlural is the untranslated plural message.
	// A message with a non-empty IDPlural is a plural message.
	IDPlural string

	// Str holds the translations. A singular message carries one element,
	// a plural message carries one element per plural form of the target
	// language, in declaration order.
	Str []string
}

// Key returns the lookup key of the message.
func (m *Message) Key() MessageKey {
	return MessageKey{Context: m.Context, ID: m.ID}
}

// IsPlural returns true if the message has a plural form.
func (m *Message) IsPlural() bool {
	return m.IDPlural != ""
}

// IsTranslated returns true if every form of the message has a non-empty translation.
func (m *Message) IsTranslated() bool {
	if len(m.Str) == 0 {
		return false
	}
	for _, s := range m.Str {
		if s == "" {
			return false
		}
	}
	return true
}
