package sink

import (
	"go.uber.org/zap"

	"github.com/toanth/monitors/internal/oracle"
)

// ZapLog records every match event as a structured log line, grounded on
// the logging-pool style used throughout the pack's engine-server
// examples: one logger field per concern, never string-formatted
// messages.
type ZapLog struct {
	log *zap.Logger
}

// NewZapLog wraps log as an OutputSink.
func NewZapLog(log *zap.Logger) *ZapLog { return &ZapLog{log: log} }

func (z *ZapLog) Show(board oracle.Board) {
	z.log.Info("position", zap.String("fen", board.FEN()))
}

func (z *ZapLog) DisplayMessage(message string) {
	z.log.Info("message", zap.String("text", message))
}

func (z *ZapLog) UpdateEngineInfo(engineName, line string) {
	z.log.Debug("engine info", zap.String("engine", engineName), zap.String("line", line))
}

func (z *ZapLog) InformGameOver(result, reason string) {
	z.log.Info("game over", zap.String("result", result), zap.String("reason", reason))
}

func (z *ZapLog) WriteUgiInput(engineName, line string) {
	z.log.Debug("ugi <", zap.String("engine", engineName), zap.String("line", line))
}

func (z *ZapLog) WriteUgiOutput(engineName, line string) {
	z.log.Debug("ugi >", zap.String("engine", engineName), zap.String("line", line))
}
