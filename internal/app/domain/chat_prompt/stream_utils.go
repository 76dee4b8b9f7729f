package llmchat

import (
	"context"
	"iter"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// StreamProcessor adapts model response streams into plain text deltas.
type StreamProcessor struct {
	logger *zap.Logger
}

func NewStreamProcessor(logger *zap.Logger) *StreamProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamProcessor{logger: logger}
}

// TextPartIterator yields the text of every candidate part in arrival order.
// The first stream error is yielded once and ends the iteration. observe, when
// set, sees every raw response (usage metadata arrives on the last one).
func (sp *StreamProcessor) TextPartIterator(
	ctx context.Context,
	responses iter.Seq2[*genai.GenerateContentResponse, error],
	contextName string,
	observe func(*genai.GenerateContentResponse),
) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for resp, err := range responses {
			if err != nil {
				sp.logger.Error("Stream error occurred",
					zap.String("context", contextName),
					zap.Error(err))
				yield("", err)
				return
			}
			if resp == nil {
				continue
			}
			if observe != nil {
				observe(resp)
			}

			for _, cand := range resp.Candidates {
				if cand.Content == nil {
					continue
				}
				for _, part := range cand.Content.Parts {
					if part == nil || part.Text == "" {
						continue
					}
					if !yield(part.Text, nil) {
						return
					}
				}
			}

			if ctx.Err() != nil {
				yield("", ctx.Err())
				return
			}
		}
	}
}
