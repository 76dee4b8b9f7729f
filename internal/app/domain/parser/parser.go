// Package parser classifies assistant text as structured or plain and extracts
// the intro and components of structured answers. It is re-run on the whole
// buffer for every streamed token, so it must accept partial input.
package parser

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-travelchat/internal/app/models"
)

// DefaultStrategies returns the dialects in priority order. The explicit
// marker format always wins over the emphasis format.
func DefaultStrategies() []Strategy {
	return []Strategy{markerStrategy{}, emphasisStrategy{}}
}

type Parser struct {
	strategies []Strategy
	logger     *zap.Logger
}

// New builds a Parser. With no strategies the default dialects are used.
func New(logger *zap.Logger, strategies ...Strategy) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Parser{strategies: strategies, logger: logger}
}

// Parse returns the first successful strategy result, or the text as plain
// content. A failing strategy never propagates; the text degrades to plain.
func (p *Parser) Parse(text string) (result models.ParsedMessage) {
	var current string
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Structured parse failed, treating text as plain",
				zap.String("strategy", current),
				zap.Int("text_length", len(text)),
				zap.Error(fmt.Errorf("panic: %v", r)))
			result = Plain(text)
		}
	}()

	for _, s := range p.strategies {
		current = s.Name()
		if parsed, ok := s.Parse(text); ok {
			return parsed
		}
	}
	return Plain(text)
}

// Plain is the unstructured result for text.
func Plain(text string) models.ParsedMessage {
	return models.ParsedMessage{IsStructured: false, OriginalText: text}
}

var defaultParser = New(nil)

// Parse runs the default dialects without logging.
func Parse(text string) models.ParsedMessage {
	return defaultParser.Parse(text)
}
