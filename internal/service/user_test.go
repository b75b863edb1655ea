package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"buzzline/internal/model"
)

// =============================================================================
// REGISTER TESTS
// =============================================================================

func TestUserService_Register_Success(t *testing.T) {
	users := newMemUserStore()
	svc := NewUserService(users)

	req := &model.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com",
		Password:  "securepassword123",
	}

	user, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if user.ID == 0 {
		t.Error("user should be assigned an ID")
	}
	if user.Email != "ada@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}
	if user.Followers.Len() != 0 || user.Following.Len() != 0 {
		t.Error("new user should have empty relationship sets")
	}

	// Password must be hashed, never stored plain
	if user.PasswordHashed == req.Password {
		t.Error("password should be hashed, not stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		t.Error("password hash should be valid bcrypt hash")
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     model.RegisterRequest
		wantErr error
	}{
		{
			name:    "missing first name",
			req:     model.RegisterRequest{Email: "a@b.com", Password: "pw12345"},
			wantErr: model.ErrFirstNameRequired,
		},
		{
			name:    "missing email",
			req:     model.RegisterRequest{FirstName: "Ada", Password: "pw12345"},
			wantErr: model.ErrEmailRequired,
		},
		{
			name:    "missing password",
			req:     model.RegisterRequest{FirstName: "Ada", Email: "a@b.com"},
			wantErr: model.ErrPasswordRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewUserService(newMemUserStore())

			_, err := svc.Register(context.Background(), &tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUserService_Register_EmailExists(t *testing.T) {
	users := newMemUserStore()
	users.add(&model.User{FirstName: "Ada", Email: "ada@example.com"})
	svc := NewUserService(users)

	req := &model.RegisterRequest{
		FirstName: "Other",
		Email:     "ada@example.com",
		Password:  "password123",
	}

	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, model.ErrEmailExists) {
		t.Errorf("error = %v, want %v", err, model.ErrEmailExists)
	}
}

// =============================================================================
// LOGIN TESTS
// =============================================================================

func TestUserService_Login(t *testing.T) {
	validPassword := "correctpassword"
	validHash, _ := bcrypt.GenerateFromPassword([]byte(validPassword), bcrypt.MinCost)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "successful login",
			email:    "ada@example.com",
			password: validPassword,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: validPassword,
			wantErr:  model.ErrInvalidCredentials, // Don't reveal the email doesn't exist
		},
		{
			name:     "wrong password",
			email:    "ada@example.com",
			password: "wrongpassword",
			wantErr:  model.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newMemUserStore()
			users.add(&model.User{
				FirstName:      "Ada",
				Email:          "ada@example.com",
				PasswordHashed: string(validHash),
			})
			svc := NewUserService(users)

			user, err := svc.Login(context.Background(), &model.LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if user != nil {
					t.Error("expected nil user on failed login")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user == nil || user.Email != tt.email {
				t.Errorf("user = %v, want record for %s", user, tt.email)
			}
		})
	}
}

// =============================================================================
// PROFILE TESTS
// =============================================================================

func TestUserService_GetProfile(t *testing.T) {
	users := newMemUserStore()
	seedUsers(users, 3)
	followSvc := NewFollowService(users, nil)
	svc := NewUserService(users)
	ctx := context.Background()

	// Users 2 and 3 follow user 1; user 1 follows user 2
	for _, followerID := range []int64{2, 3} {
		if err := followSvc.Follow(ctx, followerID, 1); err != nil {
			t.Fatalf("Follow failed: %v", err)
		}
	}
	if err := followSvc.Follow(ctx, 1, 2); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}

	viewer2 := int64(2)
	viewer3 := int64(3)
	self := int64(1)

	tests := []struct {
		name          string
		userID        int64
		viewerID      *int64
		wantFollowers int
		wantFollowing int
		wantIsFollow  bool
	}{
		{
			name:          "anonymous viewer",
			userID:        1,
			viewerID:      nil,
			wantFollowers: 2,
			wantFollowing: 1,
			wantIsFollow:  false,
		},
		{
			name:          "viewer follows",
			userID:        1,
			viewerID:      &viewer2,
			wantFollowers: 2,
			wantFollowing: 1,
			wantIsFollow:  true,
		},
		{
			name:          "viewing own profile",
			userID:        1,
			viewerID:      &self,
			wantFollowers: 2,
			wantFollowing: 1,
			wantIsFollow:  false,
		},
		{
			name:          "viewer does not follow",
			userID:        2,
			viewerID:      &viewer3,
			wantFollowers: 1,
			wantFollowing: 1,
			wantIsFollow:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := svc.GetProfile(ctx, tt.userID, tt.viewerID)
			if err != nil {
				t.Fatalf("GetProfile failed: %v", err)
			}

			if profile.FollowersCount != tt.wantFollowers {
				t.Errorf("FollowersCount = %d, want %d", profile.FollowersCount, tt.wantFollowers)
			}
			if profile.FollowingCount != tt.wantFollowing {
				t.Errorf("FollowingCount = %d, want %d", profile.FollowingCount, tt.wantFollowing)
			}
			if profile.IsFollowing != tt.wantIsFollow {
				t.Errorf("IsFollowing = %v, want %v", profile.IsFollowing, tt.wantIsFollow)
			}
		})
	}
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	svc := NewUserService(newMemUserStore())

	_, err := svc.GetProfile(context.Background(), 42, nil)
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
}

// =============================================================================
// UPDATE PROFILE TESTS
// =============================================================================

func TestUserService_UpdateProfile(t *testing.T) {
	users := newMemUserStore()
	seedUsers(users, 1)
	svc := NewUserService(users)
	ctx := context.Background()

	bio := "building things"
	newName := "Grace"
	user, err := svc.UpdateProfile(ctx, 1, &model.UpdateProfileRequest{
		FirstName: &newName,
		Bio:       &bio,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	if user.FirstName != "Grace" {
		t.Errorf("FirstName = %q, want %q", user.FirstName, "Grace")
	}
	if user.Bio == nil || *user.Bio != bio {
		t.Errorf("Bio = %v, want %q", user.Bio, bio)
	}
	// Untouched fields keep their values
	if user.LastName != "A" {
		t.Errorf("LastName = %q, want unchanged %q", user.LastName, "A")
	}

	stored, _ := users.GetByID(ctx, 1)
	if stored.FirstName != "Grace" {
		t.Error("update should be persisted")
	}
}

func TestUserService_UpdateProfile_EmptyFirstName(t *testing.T) {
	users := newMemUserStore()
	seedUsers(users, 1)
	svc := NewUserService(users)

	empty := "  "
	_, err := svc.UpdateProfile(context.Background(), 1, &model.UpdateProfileRequest{FirstName: &empty})
	if !errors.Is(err, model.ErrFirstNameRequired) {
		t.Errorf("error = %v, want %v", err, model.ErrFirstNameRequired)
	}
}
