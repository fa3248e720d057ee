// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/fast-break/internal/models"
)

// AuditLogger provides a dedicated audit trail for store mutations.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPull logs an initial full-history pull for a team.
func (al *AuditLogger) LogPull(teamID string, players int) {
	al.WithFields(logrus.Fields{
		"team":    teamID,
		"players": players,
	}).Info("Team history pulled")
}

// LogUpdateRun logs the outcome of one update run.
func (al *AuditLogger) LogUpdateRun(report *models.UpdateReport) {
	entry := al.WithFields(logrus.Fields{
		"run_id":         report.RunID,
		"team":           report.TeamID,
		"games_appended": report.GamesAppended,
		"errors":         len(report.Errors),
	})
	if len(report.Errors) > 0 {
		entry.Warn("Update run completed with errors")
		return
	}
	entry.Info("Update run completed")
}

// LogSimulation logs a completed matchup simulation.
func (al *AuditLogger) LogSimulation(homeID, awayID string, draws int, winProbability, meanSpread float64) {
	al.WithFields(logrus.Fields{
		"home":     homeID,
		"away":     awayID,
		"draws":    draws,
		"win_prob": winProbability,
		"spread":   meanSpread,
	}).Info("Simulation recorded")
}
