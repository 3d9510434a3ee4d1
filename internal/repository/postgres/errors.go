package postgres

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqInvalidText         = "22P02"
)

func isPQCode(err error, code pq.ErrorCode) bool {
	var perr *pq.Error
	return errors.As(err, &perr) && perr.Code == code
}

func isUniqueViolation(err error) bool { return isPQCode(err, pqUniqueViolation) }

func isForeignKeyViolation(err error) bool { return isPQCode(err, pqForeignKeyViolation) }

// isMalformedID reports an identifier that does not parse as a UUID. No row can carry it.
func isMalformedID(err error) bool { return isPQCode(err, pqInvalidText) }

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere, with s taken literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
