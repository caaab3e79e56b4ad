package services

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Bilal-BS/PF-Tracker/internal/models"
	"github.com/Bilal-BS/PF-Tracker/internal/testutil"
)

func TestRegister(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db, bcrypt.MinCost)

		user, err := svc.Register("Alice", "alice@example.com", "password123")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected non-empty user ID")
		}
		if user.Name != "Alice" {
			t.Errorf("expected name Alice, got %s", user.Name)
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected email alice@example.com, got %s", user.Email)
		}
	})

	t.Run("seeds_default_categories", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db, bcrypt.MinCost)

		user, err := svc.Register("Alice", "alice@example.com", "password123")
		testutil.AssertNoError(t, err)

		var categories []models.Category
		if err := db.Where("user_id = ?", user.ID).Find(&categories).Error; err != nil {
			t.Fatalf("failed to load categories: %v", err)
		}
		if len(categories) != 14 {
			t.Fatalf("expected 14 categories, got %d", len(categories))
		}

		counts := map[models.EntryType]int{}
		for _, c := range categories {
			counts[c.Type]++
		}
		if counts[models.EntryTypeIncome] != 5 {
			t.Errorf("expected 5 income categories, got %d", counts[models.EntryTypeIncome])
		}
		if counts[models.EntryTypeExpense] != 9 {
			t.Errorf("expected 9 expense categories, got %d", counts[models.EntryTypeExpense])
		}
	})

	t.Run("seeding_is_per_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db, bcrypt.MinCost)

		_, err := svc.Register("Alice", "alice@example.com", "password123")
		testutil.AssertNoError(t, err)
		bob, err := svc.Register("Bob", "bob@example.com", "password123")
		testutil.AssertNoError(t, err)

		var count int64
		db.Model(&models.Category{}).Where("user_id = ?", bob.ID).Count(&count)
		if count != 14 {
			t.Errorf("expected 14 categories for second user, got %d", count)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db, bcrypt.MinCost)

		_, err := svc.Register("Alice", "dup@example.com", "password123")
		testutil.AssertNoError(t, err)

		_, err = svc.Register("Other", "DUP@example.com", "password456")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")

		var count int64
		db.Model(&models.Category{}).Count(&count)
		if count != 14 {
			t.Errorf("failed registration must not seed categories, got %d total", count)
		}
	})

	t.Run("empty_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db, bcrypt.MinCost)

		_, err := svc.Register("", "a@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.Register("Alice", "  ", "password123")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.Register("Alice", "a@example.com", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("email_normalized_to_lowercase", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db, bcrypt.MinCost)

		user, err := svc.Register("Alice", " Alice@EXAMPLE.COM ", "password123")
		testutil.AssertNoError(t, err)

		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
	})

	t.Run("password_is_hashed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db, bcrypt.MinCost)

		user, err := svc.Register("Alice", "hash@example.com", "password123")
		testutil.AssertNoError(t, err)

		if user.Password == "password123" {
			t.Fatal("password stored in plain text")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")); err != nil {
			t.Errorf("stored hash does not match password: %v", err)
		}
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db, bcrypt.MinCost)
		created := testutil.CreateTestUserWithEmail(t, db, "login@example.com")

		user, err := svc.Authenticate("login@example.com", testutil.TestPassword)
		testutil.AssertNoError(t, err)

		if user.ID != created.ID {
			t.Errorf("expected user %s, got %s", created.ID, user.ID)
		}
	})

	t.Run("case_insensitive_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db, bcrypt.MinCost)
		testutil.CreateTestUserWithEmail(t, db, "login@example.com")

		_, err := svc.Authenticate("LOGIN@example.com", testutil.TestPassword)
		testutil.AssertNoError(t, err)
	})

	t.Run("wrong_password_and_unknown_email_are_identical", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db, bcrypt.MinCost)
		testutil.CreateTestUserWithEmail(t, db, "login@example.com")

		_, wrongPassword := svc.Authenticate("login@example.com", "wrong-password")
		testutil.AssertAppError(t, wrongPassword, "INVALID_CREDENTIALS")

		_, unknownEmail := svc.Authenticate("nobody@example.com", testutil.TestPassword)
		testutil.AssertAppError(t, unknownEmail, "INVALID_CREDENTIALS")

		if wrongPassword.Error() != unknownEmail.Error() {
			t.Errorf("messages differ: %q vs %q", wrongPassword.Error(), unknownEmail.Error())
		}
	})
}

func TestGetUserByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db, bcrypt.MinCost)
		created := testutil.CreateTestUser(t, db)

		user, err := svc.GetUserByID(created.ID)
		testutil.AssertNoError(t, err)

		if user.Email != created.Email {
			t.Errorf("expected email %s, got %s", created.Email, user.Email)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewUserService(db, bcrypt.MinCost)

		_, err := svc.GetUserByID("0190a6f0-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
