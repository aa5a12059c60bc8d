package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrDuplicateKey reports a unique-constraint violation on insert. The
	// identity and mission services translate it into the matching domain
	// conflict (duplicate email, already-active participation).
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrStaleParticipation reports that the guarded completion update
	// matched zero rows: the participation changed between the caller's
	// check and the write.
	ErrStaleParticipation = errors.New("participation state changed")
)

// translate maps GORM errors onto the repository sentinels. Requires the DB
// to be opened with TranslateError so driver duplicate-key errors surface as
// gorm.ErrDuplicatedKey.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}
