package postgres

import (
	"database/sql"
	stderrors "errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/jwalitptl/practice-api/pkg/errors"
)

// SQLSTATE codes the repositories translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
	codeExclusionViolation  = "23P01"
	codeInvalidText         = "22P02"
	codeNumericOutOfRange   = "22003"
)

// translate maps driver errors from lib/pq or pgx onto the application taxonomy.
// Errors that are already classified and unknown errors are returned unchanged.
func translate(resource string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NotFound(resource, err)
	}

	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return classify(resource, string(pqErr.Code), pqErr.Constraint, err)
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return classify(resource, pgErr.Code, pgErr.ConstraintName, err)
	}
	return err
}

func classify(resource, code, constraint string, err error) error {
	switch code {
	case codeUniqueViolation:
		return errors.Duplicate(resource, constraint, err)
	case codeForeignKeyViolation:
		return errors.Reference(resource, constraint, err)
	case codeCheckViolation, codeNotNullViolation, codeInvalidText, codeNumericOutOfRange:
		appErr := errors.Validation("invalid "+resource, err)
		if constraint != "" {
			appErr.WithDetail("constraint", constraint)
		}
		return appErr
	case codeExclusionViolation:
		return errors.Conflict(resource + " overlaps an existing booking")
	}
	return err
}

func notFound(resource string) error {
	return errors.NotFound(resource, nil)
}
