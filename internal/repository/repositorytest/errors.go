package repositorytest

import "github.com/jackc/pgx/v5/pgconn"

// ErrDuplicateEmail mimics the Postgres unique violation on users.email.
var ErrDuplicateEmail = &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key", Message: "duplicate key value violates unique constraint"}
