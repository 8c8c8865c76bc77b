package repositories

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/jackc/pgconn"
)

// IsUniqueViolation reports whether err is a Postgres unique_violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func itoa(i int) string { return strconv.Itoa(i) }

// jsonb marshals v for a JSONB parameter; nil slices become [].
func jsonb(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return "[]", nil
	}
	return string(b), nil
}

// unjsonb decodes a scanned JSONB column, ignoring NULL.
func unjsonb(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func like(s string) string { return "%" + s + "%" }

// nonNil keeps text[] columns NOT NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
