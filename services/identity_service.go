package services

import (
	"errors"
	"fmt"
	"time"

	"loyalty-mission-system/apperr"
	"loyalty-mission-system/models"
	"loyalty-mission-system/repository"
)

// IdentityService resolves a local or federated identity into exactly one
// member record.
//
// Re-signup policy: signing up with an email that is already registered is a
// hard failure (U001). The read-then-write check is race-prone, so the email
// unique constraint is the backstop: an insert that trips it reports the same
// error.
type IdentityService struct {
	members     repository.MemberRepository
	credentials *CredentialService
	tokens      *TokenService
	now         func() time.Time
}

func NewIdentityService(members repository.MemberRepository, credentials *CredentialService, tokens *TokenService) *IdentityService {
	return &IdentityService{
		members:     members,
		credentials: credentials,
		tokens:      tokens,
		now:         time.Now,
	}
}

type SignUpInput struct {
	Email       string
	Password    string
	Name        string
	Nickname    *string
	Gender      string
	Birthdate   *time.Time
	PhoneNumber string
	Preferences []string
}

// MemberResponse is the response-safe projection of a member. It never
// carries the credential digest.
type MemberResponse struct {
	ID          uint64     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Nickname    *string    `json:"nickname,omitempty"`
	Gender      string     `json:"gender"`
	Birthdate   *time.Time `json:"birthdate,omitempty"`
	PhoneNumber string     `json:"phone_number"`
	Point       int64      `json:"point"`
	Status      string     `json:"status"`
	Preferences []string   `json:"preferences"`
}

// ExternalProfile is what an OAuth provider asserts about the caller.
type ExternalProfile struct {
	Provider string
	Email    string
	Name     string
}

func (s *IdentityService) SignUp(in SignUpInput) (*MemberResponse, error) {
	if len(in.Preferences) == 0 {
		return nil, apperr.NoPreference()
	}

	existing, err := s.members.FindByEmail(in.Email)
	if err != nil {
		return nil, fmt.Errorf("signup: looking up member by email: %w", err)
	}
	if existing != nil {
		return nil, apperr.DuplicateEmail(in.Email)
	}

	digest, err := s.credentials.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("signup: hashing password: %w", err)
	}

	now := s.now()
	member := &models.Member{
		Email:       in.Email,
		Name:        in.Name,
		Nickname:    in.Nickname,
		Gender:      in.Gender,
		Birthdate:   in.Birthdate,
		PhoneNumber: in.PhoneNumber,
		Password:    &digest,
		Status:      "ACTIVE",
		Point:       0,
		LastLogin:   &now,
	}
	if err := s.members.Create(member); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperr.DuplicateEmail(in.Email)
		}
		return nil, fmt.Errorf("signup: creating member %q: %w", in.Email, err)
	}

	if err := s.members.UpsertPreferences(member.ID, in.Preferences); err != nil {
		return nil, fmt.Errorf("signup: saving preferences for member %d: %w", member.ID, err)
	}

	return projectMember(member, in.Preferences), nil
}

// Login verifies a local credential and mints a token pair. The failure is
// the same whether the email or the password is wrong.
func (s *IdentityService) Login(email, password string) (*TokenPair, error) {
	member, err := s.members.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("login: looking up member by email: %w", err)
	}
	if member == nil || member.Password == nil {
		return nil, apperr.InvalidCredentials()
	}
	if !s.credentials.Verify(password, *member.Password) {
		return nil, apperr.InvalidCredentials()
	}

	if err := s.members.UpdateLastLogin(member.ID, s.now()); err != nil {
		return nil, fmt.Errorf("login: updating last_login for member %d: %w", member.ID, err)
	}
	return s.tokens.IssuePair(member.ID, member.Email)
}

// Federate reconciles an external profile into exactly one member: merge by
// email when it exists, create a placeholder member when it does not. Either
// way the caller gets a fresh token pair.
func (s *IdentityService) Federate(profile ExternalProfile) (*TokenPair, error) {
	if profile.Email == "" {
		return nil, apperr.MissingEmailClaim(profile.Provider)
	}

	member, err := s.members.FindByEmail(profile.Email)
	if err != nil {
		return nil, fmt.Errorf("federate: looking up member by email: %w", err)
	}
	if member == nil {
		now := s.now()
		member = &models.Member{
			Email:     profile.Email,
			Name:      profile.Name,
			Status:    "ACTIVE",
			Point:     0,
			LastLogin: &now,
		}
		if err := s.members.Create(member); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				// Lost a race with a concurrent signup; that record is
				// the identity.
				member, err = s.members.FindByEmail(profile.Email)
				if err != nil || member == nil {
					return nil, fmt.Errorf("federate: re-reading member %q after insert race: %w", profile.Email, err)
				}
			} else {
				return nil, fmt.Errorf("federate: creating member %q: %w", profile.Email, err)
			}
		}
	}

	return s.tokens.IssuePair(member.ID, member.Email)
}

// Profile returns the response projection for an existing member.
func (s *IdentityService) Profile(memberID uint64) (*MemberResponse, error) {
	member, err := s.members.FindByID(memberID)
	if err != nil {
		return nil, fmt.Errorf("profile: loading member %d: %w", memberID, err)
	}
	if member == nil {
		return nil, apperr.New(404, "U004", "member not found", map[string]uint64{"member_id": memberID})
	}
	prefs, err := s.members.Preferences(memberID)
	if err != nil {
		return nil, fmt.Errorf("profile: loading preferences for member %d: %w", memberID, err)
	}
	categories := make([]string, 0, len(prefs))
	for _, p := range prefs {
		categories = append(categories, p.Category)
	}
	return projectMember(member, categories), nil
}

func projectMember(m *models.Member, preferences []string) *MemberResponse {
	if preferences == nil {
		preferences = []string{}
	}
	return &MemberResponse{
		ID:          m.ID,
		Email:       m.Email,
		Name:        m.Name,
		Nickname:    m.Nickname,
		Gender:      m.Gender,
		Birthdate:   m.Birthdate,
		PhoneNumber: m.PhoneNumber,
		Point:       m.Point,
		Status:      m.Status,
		Preferences: preferences,
	}
}
