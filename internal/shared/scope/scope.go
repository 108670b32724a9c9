package scope

import "gorm.io/gorm"

// AllDepartments is the wildcard department used by policies and by
// administrators whose queries are not pinned to one department.
const AllDepartments = "ALL"

// Department filters on the department column unless dept is empty or the
// wildcard.
func Department(dept string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if dept == "" || dept == AllDepartments {
			return db
		}
		return db.Where("department = ?", dept)
	}
}

func AcademicYear(year string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if year == "" {
			return db
		}
		return db.Where("academic_year = ?", year)
	}
}

// Paginate applies LIMIT/OFFSET for 1-based pages. Non-positive sizes leave
// the query unbounded.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}
