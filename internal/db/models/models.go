package models

// All returns every model in migration order.
func All() []any {
	return []any{
		&AdminUser{},
		&Asset{},
		&Module{},
		&Content{},
		&Member{},
		&MemberPIInfo{},
		&Setting{},
	}
}
