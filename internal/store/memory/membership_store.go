package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/internal/models"
	"github.com/taskdesk/taskdesk/internal/store"
)

type membershipKey struct {
	orgID  uuid.UUID
	userID uuid.UUID
}

type membershipRow struct {
	membership models.Membership
	seq        int // insertion order, used as the sort tie-breaker
}

// MembershipStore implements store.MembershipStore using in-memory storage.
// It resolves member projections through the sibling user store, standing in
// for the SQL join the postgres implementation performs.
type MembershipStore struct {
	mu sync.RWMutex

	memberships map[membershipKey]*membershipRow
	users       *UserStore
	nextSeq     int
}

// NewMembershipStore creates a new in-memory membership store backed by the
// given user store for member projections.
func NewMembershipStore(users *UserStore) *MembershipStore {
	return &MembershipStore{
		memberships: make(map[membershipKey]*membershipRow),
		users:       users,
	}
}

// Create adds a membership in memory.
func (s *MembershipStore) Create(ctx context.Context, membership *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := membershipKey{orgID: membership.OrganizationID, userID: membership.UserID}
	if _, exists := s.memberships[key]; exists {
		return store.ErrMembershipAlreadyExists
	}

	s.memberships[key] = &membershipRow{
		membership: *membership,
		seq:        s.nextSeq,
	}
	s.nextSeq++

	return nil
}

// FindRole returns the user's role within the organization.
func (s *MembershipStore) FindRole(ctx context.Context, orgID, userID uuid.UUID) (models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, exists := s.memberships[membershipKey{orgID: orgID, userID: userID}]
	if !exists {
		return "", store.ErrMembershipNotFound
	}

	return row.membership.Role, nil
}

// ListMembersByRole returns members with the given role sorted by name
// ascending, ties broken by insertion order.
func (s *MembershipStore) ListMembersByRole(ctx context.Context, orgID uuid.UUID, role models.Role) ([]models.MemberInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		info models.MemberInfo
		seq  int
	}

	var entries []entry
	for key, row := range s.memberships {
		if key.orgID != orgID || row.membership.Role != role {
			continue
		}

		user, exists := s.users.get(key.userID)
		if !exists {
			continue
		}

		entries = append(entries, entry{
			info: models.MemberInfo{
				UserID: user.UserID,
				Name:   user.Name,
				Email:  user.Email,
				Image:  user.Image,
			},
			seq: row.seq,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].info.Name != entries[j].info.Name {
			return entries[i].info.Name < entries[j].info.Name
		}
		return entries[i].seq < entries[j].seq
	})

	members := make([]models.MemberInfo, 0, len(entries))
	for _, e := range entries {
		members = append(members, e.info)
	}

	return members, nil
}

// ListByUser returns all memberships held by a user across organizations.
func (s *MembershipStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Membership
	for key, row := range s.memberships {
		if key.userID != userID {
			continue
		}
		clone := row.membership
		result = append(result, &clone)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// isMember is used by the sibling task store to derive a task's
// organization through its assignee.
func (s *MembershipStore) isMember(orgID, userID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.memberships[membershipKey{orgID: orgID, userID: userID}]
	return exists
}
