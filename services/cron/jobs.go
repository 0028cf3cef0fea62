package cron

import (
	"fmt"
	"time"

	"github.com/Niwatda/softwareshop/model"
)

// auditRetention is how long admin audit entries are kept.
const auditRetention = 90 * 24 * time.Hour

// CleanupResetTokens deletes password reset tokens that are expired or
// already used. Runs hourly.
func (m *CronManager) CleanupResetTokens() {
	jobName := "cleanup_reset_tokens"

	result := m.db.
		Unscoped().
		Where("expires_at < ? OR used_at IS NOT NULL", time.Now()).
		Delete(&model.PasswordResetToken{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to delete reset tokens: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d reset tokens", result.RowsAffected))
}

// CleanupTokenBlacklist deletes blacklist rows whose tokens have
// expired anyway; an expired token fails validation before the
// blacklist is ever consulted.
func (m *CronManager) CleanupTokenBlacklist() {
	jobName := "cleanup_token_blacklist"

	result := m.db.
		Unscoped().
		Where("expires_at < ?", time.Now()).
		Delete(&model.JWTTokenBlacklist{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to delete blacklist entries: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d blacklist entries", result.RowsAffected))
}

// CleanupAuditLogs trims admin audit entries past the retention window.
func (m *CronManager) CleanupAuditLogs() {
	jobName := "cleanup_audit_logs"

	cutoff := time.Now().Add(-auditRetention)
	result := m.db.
		Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&model.AdminAuditLog{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to delete audit logs: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d audit entries", result.RowsAffected))
}
