package llm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/venari/internal/models"
)

// AuditWriter appends every raw model request and response to flat log
// files so a bad analysis can always be traced back to exactly what the
// model was sent. Failures to write never interrupt an analysis.
type AuditWriter struct {
	requestPath  string
	responsePath string
	logger       arbor.ILogger
}

func NewAuditWriter(requestPath, responsePath string, logger arbor.ILogger) *AuditWriter {
	return &AuditWriter{
		requestPath:  requestPath,
		responsePath: responsePath,
		logger:       logger,
	}
}

func (a *AuditWriter) header(jobLabel string, promptID int64, promptTitle, model string) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 80) + "\n")
	b.WriteString("Timestamp : " + time.Now().UTC().Format(models.TimestampFormat) + "\n")
	b.WriteString("Job       : " + jobLabel + "\n")
	b.WriteString(fmt.Sprintf("Prompt    : #%d - %s\n", promptID, promptTitle))
	b.WriteString("Model     : " + model + "\n")
	b.WriteString(strings.Repeat("-", 80) + "\n")
	return b.String()
}

// LogRequest records the full message list sent to a provider
func (a *AuditWriter) LogRequest(jobLabel string, promptID int64, promptTitle, model string, messages []Message) {
	if a.requestPath == "" {
		return
	}
	var b strings.Builder
	b.WriteString(a.header(jobLabel, promptID, promptTitle, model))
	for _, message := range messages {
		b.WriteString("[" + strings.ToUpper(message.Role) + "]\n")
		b.WriteString(message.Content + "\n\n")
	}
	a.append(a.requestPath, b.String())
}

// LogResponse records the raw text a provider returned
func (a *AuditWriter) LogResponse(jobLabel string, promptID int64, promptTitle, model, response string) {
	if a.responsePath == "" {
		return
	}
	var b strings.Builder
	b.WriteString(a.header(jobLabel, promptID, promptTitle, model))
	b.WriteString(response + "\n\n")
	a.append(a.responsePath, b.String())
}

func (a *AuditWriter) append(path, entry string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		a.logger.Warn().Err(err).Str("path", path).Msg("Failed to create audit log directory")
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		a.logger.Warn().Err(err).Str("path", path).Msg("Failed to open audit log")
		return
	}
	defer f.Close()
	if _, err := f.WriteString(entry); err != nil {
		a.logger.Warn().Err(err).Str("path", path).Msg("Failed to append audit log entry")
	}
}
