package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdentityFixture() (*IdentityService, *fakeMemberRepo, *TokenService) {
	members := newFakeMemberRepo()
	tokens := NewTokenService([]byte("test-secret"))
	svc := NewIdentityService(members, NewCredentialService(), tokens)
	return svc, members, tokens
}

func signUpInput(email string) SignUpInput {
	return SignUpInput{
		Email:       email,
		Password:    "password123",
		Name:        "Kim",
		Gender:      "F",
		PhoneNumber: "010-1234-5678",
		Preferences: []string{"korean", "dessert"},
	}
}

func TestSignUp(t *testing.T) {
	assert := assert.New(t)

	svc, members, _ := newIdentityFixture()

	resp, err := svc.SignUp(signUpInput("kim@example.com"))
	require.NoError(t, err)
	assert.NotZero(resp.ID)
	assert.Equal("kim@example.com", resp.Email)
	assert.Equal("ACTIVE", resp.Status)
	assert.Equal([]string{"korean", "dessert"}, resp.Preferences)

	stored, err := members.FindByID(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Password)
	// The stored digest is bcrypt, never the plaintext.
	assert.NotEqual("password123", *stored.Password)
	assert.True(NewCredentialService().Verify("password123", *stored.Password))
	assert.NotNil(stored.LastLogin)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, _, _ := newIdentityFixture()

	_, err := svc.SignUp(signUpInput("kim@example.com"))
	require.NoError(t, err)

	_, err = svc.SignUp(signUpInput("kim@example.com"))
	assertCode(t, err, "U001")
}

func TestSignUpInsertRace(t *testing.T) {
	svc, members, _ := newIdentityFixture()

	// The pre-insert read missed a concurrent signup; the unique
	// constraint catches it and reports the same duplicate error.
	members.forceDup = true
	_, err := svc.SignUp(signUpInput("kim@example.com"))
	assertCode(t, err, "U001")
}

func TestSignUpRequiresPreference(t *testing.T) {
	svc, _, _ := newIdentityFixture()

	in := signUpInput("kim@example.com")
	in.Preferences = nil
	_, err := svc.SignUp(in)
	assertCode(t, err, "U002")
}

func TestLogin(t *testing.T) {
	assert := assert.New(t)

	svc, members, tokens := newIdentityFixture()
	resp, err := svc.SignUp(signUpInput("kim@example.com"))
	require.NoError(t, err)

	before, _ := members.FindByID(resp.ID)
	lastLogin := *before.LastLogin

	pair, err := svc.Login("kim@example.com", "password123")
	require.NoError(t, err)

	claims, err := tokens.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(resp.ID, claims.MemberID)
	assert.Equal("kim@example.com", claims.Email)

	after, _ := members.FindByID(resp.ID)
	assert.False(after.LastLogin.Before(lastLogin))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newIdentityFixture()
	_, err := svc.SignUp(signUpInput("kim@example.com"))
	require.NoError(t, err)

	_, err = svc.Login("kim@example.com", "wrong")
	assertCode(t, err, "U003")
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newIdentityFixture()

	// Unknown email and wrong password are indistinguishable.
	_, err := svc.Login("nobody@example.com", "password123")
	assertCode(t, err, "U003")
}

func TestLoginFederatedOnlyMember(t *testing.T) {
	svc, members, _ := newIdentityFixture()

	_, err := svc.Federate(ExternalProfile{Provider: "google", Email: "kim@example.com", Name: "Kim"})
	require.NoError(t, err)

	// A member created through federation has no local credential.
	stored, _ := members.FindByEmail("kim@example.com")
	require.NotNil(t, stored)
	assert.Nil(t, stored.Password)

	_, err = svc.Login("kim@example.com", "anything")
	assertCode(t, err, "U003")
}

func TestLoginLegacyDigest(t *testing.T) {
	svc, members, _ := newIdentityFixture()
	resp, err := svc.SignUp(signUpInput("kim@example.com"))
	require.NoError(t, err)

	// Rewrite the stored digest to the pre-bcrypt sha256 form.
	legacy := sha256Hex([]byte("password123"))
	members.rows[resp.ID].Password = &legacy

	_, err = svc.Login("kim@example.com", "password123")
	assert.NoError(t, err)
}

func TestFederateMergesByEmail(t *testing.T) {
	assert := assert.New(t)

	svc, members, tokens := newIdentityFixture()
	resp, err := svc.SignUp(signUpInput("kim@example.com"))
	require.NoError(t, err)

	pair, err := svc.Federate(ExternalProfile{Provider: "google", Email: "kim@example.com", Name: "Different Name"})
	require.NoError(t, err)

	claims, err := tokens.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(resp.ID, claims.MemberID)

	// The existing record wins; federation never overwrites it.
	stored, _ := members.FindByID(resp.ID)
	assert.Equal("Kim", stored.Name)
	assert.Len(members.rows, 1)
}

func TestFederateCreatesPlaceholder(t *testing.T) {
	assert := assert.New(t)

	svc, members, tokens := newIdentityFixture()

	pair, err := svc.Federate(ExternalProfile{Provider: "google", Email: "new@example.com", Name: "New Member"})
	require.NoError(t, err)

	claims, err := tokens.Verify(pair.AccessToken)
	require.NoError(t, err)

	stored, _ := members.FindByID(claims.MemberID)
	require.NotNil(t, stored)
	assert.Equal("new@example.com", stored.Email)
	assert.Equal("New Member", stored.Name)
	assert.Equal("ACTIVE", stored.Status)
	assert.Nil(stored.Password)
}

func TestFederateMissingEmail(t *testing.T) {
	svc, _, _ := newIdentityFixture()

	_, err := svc.Federate(ExternalProfile{Provider: "google", Name: "No Email"})
	assertCode(t, err, "AUTH004")
}

func TestProfile(t *testing.T) {
	assert := assert.New(t)

	svc, _, _ := newIdentityFixture()
	created, err := svc.SignUp(signUpInput("kim@example.com"))
	require.NoError(t, err)

	resp, err := svc.Profile(created.ID)
	require.NoError(t, err)
	assert.Equal(created.ID, resp.ID)
	assert.Equal([]string{"korean", "dessert"}, resp.Preferences)

	_, err = svc.Profile(999)
	assertCode(t, err, "U004")
}
