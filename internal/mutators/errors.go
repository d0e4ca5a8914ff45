package mutators

import "errors"

var (
	// ErrForbidden means the caller is authenticated but does not own the row
	// it is trying to change.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidParent means a message referenced a parent that does not
	// exist or belongs to a different chat.
	ErrInvalidParent = errors.New("parent message not in chat")

	// ErrUnknownMutator means the dispatch name matched no operation.
	ErrUnknownMutator = errors.New("unknown mutator")

	// ErrBadArgs means the mutation arguments failed to decode.
	ErrBadArgs = errors.New("malformed mutation arguments")
)
