package repository

import "errors"

// Representative driver errors for unique constraint violations.
var (
	errDuplicateKey = errors.New(`duplicate key value violates unique constraint "uni_users_email" (SQLSTATE 23505)`)
	errSqliteUnique = errors.New("UNIQUE constraint failed: users.email")
	errAdminUnique  = errors.New(`duplicate key value violates unique constraint "idx_users_single_admin" (SQLSTATE 23505)`)
)
