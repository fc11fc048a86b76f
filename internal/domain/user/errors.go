package user

import "errors"

var (
	// ErrUserNotFound indicates the account doesn't exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrMissingSignUpFields indicates email, username or password is empty.
	ErrMissingSignUpFields = errors.New("email, username and password are required")
	// ErrPasswordTooShort indicates a password under MinPasswordLength.
	ErrPasswordTooShort = errors.New("password too short")
	// ErrUsernameTooShort indicates a username under MinUsernameLength.
	ErrUsernameTooShort = errors.New("username too short")
	// ErrUsernameInvalid indicates a username with characters outside [a-zA-Z0-9_].
	ErrUsernameInvalid = errors.New("username contains invalid characters")
	// ErrEmailInvalid indicates a malformed email address.
	ErrEmailInvalid = errors.New("invalid email address")
	// ErrEmailTaken indicates the email belongs to another account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUsernameTaken indicates the username belongs to another account.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrMissingSignInFields indicates email or password is empty.
	ErrMissingSignInFields = errors.New("email and password are required")
	// ErrAccountNotFound indicates no account matches the sign-in email.
	ErrAccountNotFound = errors.New("no account for email")
	// ErrWrongPassword indicates the password did not match.
	ErrWrongPassword = errors.New("incorrect password")

	// ErrBioTooLong indicates a bio over MaxBioLength characters.
	ErrBioTooLong = errors.New("bio too long")
	// ErrInvalidBirthday indicates a birthday that is not a date.
	ErrInvalidBirthday = errors.New("invalid birthday")

	// ErrUserIDRequired indicates a friend operation without a target.
	ErrUserIDRequired = errors.New("user id required")
	// ErrSelfFriendRequest indicates a request addressed to the sender.
	ErrSelfFriendRequest = errors.New("cannot send friend request to yourself")
	// ErrAlreadyFriends indicates the two accounts are already friends.
	ErrAlreadyFriends = errors.New("already friends")
	// ErrRequestAlreadySent indicates a pending request from the actor already exists.
	ErrRequestAlreadySent = errors.New("friend request already sent")
	// ErrRequestPending indicates the target already asked the actor.
	ErrRequestPending = errors.New("target already sent a friend request")
	// ErrNoPendingRequest indicates there is no request to accept.
	ErrNoPendingRequest = errors.New("no friend request from this user")
	// ErrNotFriends indicates removal of someone who is not a friend.
	ErrNotFriends = errors.New("not friends")
)
