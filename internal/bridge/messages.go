package bridge

import (
	"fmt"

	"go.uber.org/zap"

	"ktbridge/internal/ir"
)

type Severity uint8

const (
	SeverityWarning Severity = iota + 1
	SeverityInfo
)

func (s Severity) String() string {
	if s == SeverityInfo {
		return "info"
	}
	return "warning"
}

// Message is a non-fatal diagnostic raised while converting a file.
type Message struct {
	Severity Severity
	Text     string
	Span     ir.Span
}

func (m Message) String() string {
	return fmt.Sprintf("%s at %d..%d: %s", m.Severity, m.Span.Start, m.Span.End, m.Text)
}

// MessageCollector gathers diagnostics for one conversion and mirrors them to
// the logger.
type MessageCollector struct {
	logger *zap.Logger
	msgs   []Message
}

func NewMessageCollector(logger *zap.Logger) *MessageCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageCollector{logger: logger}
}

func (c *MessageCollector) Report(m Message) {
	c.msgs = append(c.msgs, m)
	fields := []zap.Field{zap.Int("start", m.Span.Start), zap.Int("end", m.Span.End)}
	if m.Severity == SeverityInfo {
		c.logger.Debug(m.Text, fields...)
		return
	}
	c.logger.Warn(m.Text, fields...)
}

func (c *MessageCollector) Warn(span ir.Span, format string, args ...any) {
	c.Report(Message{Severity: SeverityWarning, Text: fmt.Sprintf(format, args...), Span: span})
}

// Messages returns the diagnostics in the order they were reported.
func (c *MessageCollector) Messages() []Message { return c.msgs }

// Warnings counts the warning-level messages.
func (c *MessageCollector) Warnings() int {
	n := 0
	for _, m := range c.msgs {
		if m.Severity == SeverityWarning {
			n++
		}
	}
	return n
}
