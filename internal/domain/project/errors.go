package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrUserNotFound indicates a referenced account doesn't exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrMissingFields indicates name, description or type is empty.
	ErrMissingFields = errors.New("name, description and type are required")
	// ErrInvalidType indicates a type outside the known set.
	ErrInvalidType = errors.New("invalid project type")
	// ErrMissingMessage indicates a check-in without a message.
	ErrMissingMessage = errors.New("check-in message is required")
	// ErrUserIDRequired indicates a member operation without a target.
	ErrUserIDRequired = errors.New("user id is required")

	// ErrNotAMember indicates the actor is not in the member set.
	ErrNotAMember = errors.New("not a project member")
	// ErrNotOwner indicates an owner-only operation by someone else.
	ErrNotOwner = errors.New("not the project owner")
	// ErrNotLockHolder indicates a check-in by a member who does not hold the lock.
	ErrNotLockHolder = errors.New("not the lock holder")
	// ErrNotAuthorized indicates the actor is neither owner nor member.
	ErrNotAuthorized = errors.New("not authorized to add members")
	// ErrNotAFriend indicates a non-owner inviting someone outside their friends.
	ErrNotAFriend = errors.New("target is not a friend")

	// ErrAlreadyCheckedOut indicates the lock is already taken, even by the actor.
	ErrAlreadyCheckedOut = errors.New("project already checked out")
	// ErrNotCheckedOut indicates a check-in while the lock is free.
	ErrNotCheckedOut = errors.New("project not checked out")
	// ErrAlreadyMember indicates the target is already in the member set.
	ErrAlreadyMember = errors.New("user already a member")
	// ErrCannotRemoveOwner indicates an attempt to remove the owner.
	ErrCannotRemoveOwner = errors.New("cannot remove the project owner")
)
