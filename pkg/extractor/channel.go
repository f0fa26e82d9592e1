package extractor

import (
	"github.com/gnana997/sfcdoc/pkg/entry"
)

type dedupKey struct {
	kind entry.Kind
	name string
}

// Channel is the append-only, ordered stream of entries and diagnostics
// produced while extracting one component.
//
// Events and slots are deduplicated by name: the first entry wins and later
// entries with the same name are dropped.
type Channel struct {
	messages []Message
	seen     map[dedupKey]struct{}
}

// NewChannel returns an empty channel.
func NewChannel() *Channel {
	return &Channel{seen: make(map[dedupKey]struct{})}
}

// Emit pushes an entry. It reports false when the entry was suppressed as a
// duplicate.
func (c *Channel) Emit(e entry.Entry) bool {
	switch e.EntryKind() {
	case entry.KindEvent, entry.KindSlot:
		key := dedupKey{kind: e.EntryKind(), name: e.EntryName()}
		if _, dup := c.seen[key]; dup {
			return false
		}
		c.seen[key] = struct{}{}
	}
	c.push(Message{Entry: e})
	return true
}

// Diagnose pushes a recoverable diagnostic.
func (c *Channel) Diagnose(level Level, line uint, msg string) {
	c.push(Message{Diagnostic: &Diagnostic{Level: level, Message: msg, Line: line}})
}

func (c *Channel) push(m Message) {
	c.messages = append(c.messages, m)
}

// Messages returns every message in emission order.
func (c *Channel) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Entries returns the emitted entries in order.
func (c *Channel) Entries() []entry.Entry {
	var out []entry.Entry
	for _, m := range c.messages {
		if m.Entry != nil {
			out = append(out, m.Entry)
		}
	}
	return out
}

// Diagnostics returns the emitted diagnostics in order.
func (c *Channel) Diagnostics() []Diagnostic {
	var out []Diagnostic
	for _, m := range c.messages {
		if m.Diagnostic != nil {
			out = append(out, *m.Diagnostic)
		}
	}
	return out
}
