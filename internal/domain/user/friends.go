package user

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/letzcode/letzcode-server/internal/domain/notification"
)

// SearchLimit caps the number of accounts Search returns.
const SearchLimit = 20

const minSearchQueryLength = 2

// SendFriendRequest records a pending request from actor to target and
// notifies the target.
func (s *Service) SendFriendRequest(ctx context.Context, actorID, targetID string) error {
	if targetID == "" {
		return ErrUserIDRequired
	}
	if targetID == actorID {
		return ErrSelfFriendRequest
	}

	var note *notification.Notification
	err := s.inTx(ctx, func(ctx context.Context) error {
		actor, err := s.Get(ctx, actorID)
		if err != nil {
			return err
		}
		if _, err := s.Get(ctx, targetID); err != nil {
			return err
		}

		friends, err := s.repo.AreFriends(ctx, actorID, targetID)
		if err != nil {
			return fmt.Errorf("checking friendship: %w", err)
		}
		if friends {
			return ErrAlreadyFriends
		}

		sent, err := s.repo.HasFriendRequest(ctx, actorID, targetID)
		if err != nil {
			return fmt.Errorf("checking friend request: %w", err)
		}
		if sent {
			return ErrRequestAlreadySent
		}

		received, err := s.repo.HasFriendRequest(ctx, targetID, actorID)
		if err != nil {
			return fmt.Errorf("checking friend request: %w", err)
		}
		if received {
			return ErrRequestPending
		}

		if err := s.repo.AddFriendRequest(ctx, actorID, targetID, time.Now().UTC()); err != nil {
			return fmt.Errorf("adding friend request: %w", err)
		}

		note = newNotification(actor, targetID, notification.TypeFriendRequest,
			fmt.Sprintf("%s sent you a friend request", actor.Name))
		return s.notify(ctx, note)
	})
	if err != nil {
		return err
	}

	s.announce(ctx, note)
	return nil
}

// AcceptFriendRequest turns a pending request from requester into a
// friendship and notifies the requester. It returns the new friend.
func (s *Service) AcceptFriendRequest(ctx context.Context, actorID, requesterID string) (*Summary, error) {
	if requesterID == "" {
		return nil, ErrUserIDRequired
	}

	var (
		friend Summary
		note   *notification.Notification
	)
	err := s.inTx(ctx, func(ctx context.Context) error {
		pending, err := s.repo.HasFriendRequest(ctx, requesterID, actorID)
		if err != nil {
			return fmt.Errorf("checking friend request: %w", err)
		}
		if !pending {
			return ErrNoPendingRequest
		}

		requester, err := s.Get(ctx, requesterID)
		if err != nil {
			return err
		}
		actor, err := s.Get(ctx, actorID)
		if err != nil {
			return err
		}

		if err := s.repo.DeleteFriendRequest(ctx, requesterID, actorID); err != nil {
			return fmt.Errorf("deleting friend request: %w", err)
		}
		if err := s.repo.AddFriendship(ctx, actorID, requesterID, time.Now().UTC()); err != nil {
			return fmt.Errorf("adding friendship: %w", err)
		}

		friend = requester.Summary()
		note = newNotification(actor, requesterID, notification.TypeFriendAccept,
			fmt.Sprintf("%s accepted your friend request", actor.Name))
		return s.notify(ctx, note)
	})
	if err != nil {
		return nil, err
	}

	s.announce(ctx, note)
	return &friend, nil
}

// RejectFriendRequest drops a pending request from requester. Rejecting a
// request that does not exist is not an error.
func (s *Service) RejectFriendRequest(ctx context.Context, actorID, requesterID string) error {
	if requesterID == "" {
		return ErrUserIDRequired
	}
	if err := s.repo.DeleteFriendRequest(ctx, requesterID, actorID); err != nil {
		return fmt.Errorf("deleting friend request: %w", err)
	}
	return nil
}

// CancelFriendRequest withdraws the actor's pending request to target.
func (s *Service) CancelFriendRequest(ctx context.Context, actorID, targetID string) error {
	if targetID == "" {
		return ErrUserIDRequired
	}
	return s.inTx(ctx, func(ctx context.Context) error {
		if _, err := s.Get(ctx, targetID); err != nil {
			return err
		}
		if err := s.repo.DeleteFriendRequest(ctx, actorID, targetID); err != nil {
			return fmt.Errorf("deleting friend request: %w", err)
		}
		return nil
	})
}

// RemoveFriend deletes the friendship in both directions.
func (s *Service) RemoveFriend(ctx context.Context, actorID, friendID string) error {
	return s.inTx(ctx, func(ctx context.Context) error {
		friends, err := s.repo.AreFriends(ctx, actorID, friendID)
		if err != nil {
			return fmt.Errorf("checking friendship: %w", err)
		}
		if !friends {
			return ErrNotFriends
		}
		if _, err := s.Get(ctx, friendID); err != nil {
			return err
		}
		if err := s.repo.DeleteFriendship(ctx, actorID, friendID); err != nil {
			return fmt.Errorf("deleting friendship: %w", err)
		}
		return nil
	})
}

// AreFriends reports whether the two accounts are friends.
func (s *Service) AreFriends(ctx context.Context, userID, otherID string) (bool, error) {
	return s.repo.AreFriends(ctx, userID, otherID)
}

// ListFriends returns friends, incoming requests and sent requests.
func (s *Service) ListFriends(ctx context.Context, actorID string) (*FriendLists, error) {
	friends, err := s.repo.ListFriends(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}
	incoming, err := s.repo.ListIncomingRequests(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("listing incoming requests: %w", err)
	}
	outgoing, err := s.repo.ListOutgoingRequests(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("listing sent requests: %w", err)
	}
	return &FriendLists{
		Friends:        nonNil(friends),
		FriendRequests: nonNil(incoming),
		SentRequests:   nonNil(outgoing),
	}, nil
}

// Search matches other accounts by name, username or email, case-insensitive.
// Queries shorter than two characters return no results.
func (s *Service) Search(ctx context.Context, actorID, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSearchQueryLength {
		return []SearchResult{}, nil
	}

	matches, err := s.repo.Search(ctx, actorID, query, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	if len(matches) == 0 {
		return []SearchResult{}, nil
	}

	lists, err := s.ListFriends(ctx, actorID)
	if err != nil {
		return nil, err
	}
	friends := idSet(lists.Friends)
	incoming := idSet(lists.FriendRequests)
	outgoing := idSet(lists.SentRequests)

	results := make([]SearchResult, 0, len(matches))
	for i := range matches {
		status := FriendStatusNone
		id := matches[i].ID
		switch {
		case friends[id]:
			status = FriendStatusFriends
		case incoming[id]:
			status = FriendStatusIncoming
		case outgoing[id]:
			status = FriendStatusOutgoing
		}
		results = append(results, SearchResult{Summary: matches[i].Summary(), FriendStatus: status})
	}
	return results, nil
}

// MutualFriends returns the friends the actor shares with other.
func (s *Service) MutualFriends(ctx context.Context, actorID, otherID string) ([]Summary, error) {
	if _, err := s.Get(ctx, otherID); err != nil {
		return nil, err
	}
	mutual, err := s.repo.ListMutualFriends(ctx, actorID, otherID)
	if err != nil {
		return nil, fmt.Errorf("listing mutual friends: %w", err)
	}
	return nonNil(mutual), nil
}

func (s *Service) notify(ctx context.Context, n *notification.Notification) error {
	if s.notifier == nil {
		return nil
	}
	return s.notifier.Notify(ctx, n)
}

func (s *Service) announce(ctx context.Context, n *notification.Notification) {
	if s.notifier == nil || n == nil {
		return
	}
	s.notifier.Announce(ctx, *n)
}

func newNotification(sender *User, recipientID string, typ notification.Type, message string) *notification.Notification {
	return &notification.Notification{
		RecipientID: recipientID,
		SenderID:    sender.ID,
		Sender: &notification.Sender{
			ID:           sender.ID,
			Name:         sender.Name,
			Username:     sender.Username,
			ProfileImage: sender.ProfileImage,
		},
		Type:    typ,
		Message: message,
		Link:    "/profile/" + sender.ID,
	}
}

func idSet(summaries []Summary) map[string]bool {
	set := make(map[string]bool, len(summaries))
	for _, s := range summaries {
		set[s.ID] = true
	}
	return set
}

func nonNil(list []Summary) []Summary {
	if list == nil {
		return []Summary{}
	}
	return list
}
