package debugger

import (
	"bytes"
	"encoding/json"

	"go.uber.org/zap"
)

// DebugPrintEvents logs an outgoing stream event in indented form. It does
// nothing unless the logger has debug level enabled, so it is safe to call on
// every event.
func DebugPrintEvents(logger *zap.Logger, eventData []byte) {
	if logger == nil || !logger.Core().Enabled(zap.DebugLevel) {
		return
	}

	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, eventData, "", "  "); err != nil {
		logger.Debug("Stream event", zap.ByteString("event", eventData), zap.NamedError("indent_error", err))
		return
	}
	logger.Debug("Stream event", zap.String("event", prettyJSON.String()))
}
