package infra

import (
	"errors"

	"flashsale/internal/pkg/errs"
)

type RepositoryErrorKind string

const (
	KindNotFound   RepositoryErrorKind = "not_found"
	KindConflict   RepositoryErrorKind = "conflict"
	KindUnexpected RepositoryErrorKind = "unexpected"
)

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

func WrapRepoErr(msg string, err error, kind ...RepositoryErrorKind) error {
	k := KindUnexpected
	if len(kind) > 0 {
		k = kind[0]
	}
	if err != nil {
		err = errs.Wrap(err, msg)
	}
	return RepositoryError{Kind: k, msg: msg, err: err}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.Kind == kind
}
