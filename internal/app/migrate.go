package app

import (
	"go-campus/internal/leave"
	"go-campus/internal/leavebalance"
	"go-campus/internal/leavepolicy"
	"go-campus/internal/messaging/kafka"
	"go-campus/internal/rbac"
	"go-campus/internal/shared/counter"
	"go-campus/internal/user"

	"gorm.io/gorm"
)

// Constraints gorm tags cannot express. Every statement is idempotent.
var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_leave_policies_active_scope
		ON leave_policies (user_type, department, academic_year) WHERE is_active`,
	`DO $$ BEGIN
		ALTER TABLE leave_balance_entries ADD CONSTRAINT chk_leave_balance_entries_remaining CHECK (remaining >= 0);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE leave_balance_entries ADD CONSTRAINT chk_leave_balance_entries_used CHECK (used >= 0);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`CREATE INDEX IF NOT EXISTS idx_leave_applications_user_period
		ON leave_applications (user_id, start_date, end_date) WHERE status IN ('PENDING', 'APPROVED')`,
}

// Migrate brings the schema up to date and seeds the default permissions.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(schemaStatements[0]).Error; err != nil {
		return err
	}

	err := db.AutoMigrate(
		&user.User{},
		&leavepolicy.LeavePolicy{},
		&leavebalance.LeaveBalance{},
		&leavebalance.LeaveBalanceEntry{},
		&leave.LeaveApplication{},
		&counter.Counter{},
		&rbac.RolePermissionRow{},
		&rbac.RoleInheritanceRow{},
		&kafka.OutboxRecord{},
	)
	if err != nil {
		return err
	}

	for _, stmt := range schemaStatements[1:] {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return rbac.NewRepository(db).SeedDefaults(rbac.DefaultPermissions(), rbac.DefaultInheritance())
}
