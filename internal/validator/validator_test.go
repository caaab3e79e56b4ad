package validator

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"

	apperrors "github.com/Bilal-BS/PF-Tracker/internal/errors"
	"github.com/Bilal-BS/PF-Tracker/internal/models"
)

type sample struct {
	Name   string           `json:"name" binding:"required,notblank,max=5"`
	Type   models.EntryType `json:"type" binding:"required,entry_type"`
	Amount decimal.Decimal  `json:"amount" binding:"required,gte=0.01,lte=100"`
	Ratio  *decimal.Decimal `json:"ratio" binding:"omitempty,gte=0.01"`
}

func init() {
	Register()
}

func validSample() sample {
	return sample{Name: "Food", Type: models.EntryTypeExpense, Amount: decimal.RequireFromString("10.50")}
}

func detailFields(t *testing.T, err error) map[string]string {
	t.Helper()
	appErr := InvalidInput(err)
	if !errors.Is(appErr, apperrors.ErrInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	fields := make(map[string]string, len(appErr.Details))
	for _, d := range appErr.Details {
		fields[d.Field] = d.Message
	}
	return fields
}

func TestValidStruct(t *testing.T) {
	if err := binding.Validator.ValidateStruct(validSample()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRules(t *testing.T) {
	zero := decimal.Zero
	tests := []struct {
		name    string
		mutate  func(s *sample)
		field   string
		message string
	}{
		{"blank_name", func(s *sample) { s.Name = "   " }, "name", "name is required"},
		{"long_name", func(s *sample) { s.Name = "abcdef" }, "name", "name must not exceed 5 characters"},
		{"bad_type", func(s *sample) { s.Type = "TRANSFER" }, "type", "Type must be either INCOME or EXPENSE"},
		{"missing_amount", func(s *sample) { s.Amount = decimal.Zero }, "amount", "amount is required"},
		{"negative_amount", func(s *sample) { s.Amount = decimal.NewFromInt(-1) }, "amount", "amount must be a positive number"},
		{"tiny_amount", func(s *sample) { s.Amount = decimal.RequireFromString("0.001") }, "amount", "amount must be a positive number"},
		{"large_amount", func(s *sample) { s.Amount = decimal.NewFromInt(101) }, "amount", "amount must be at most 100"},
		{"zero_pointer", func(s *sample) { s.Ratio = &zero }, "ratio", "ratio must be a positive number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSample()
			tt.mutate(&s)

			err := binding.Validator.ValidateStruct(s)
			if err == nil {
				t.Fatal("expected validation error")
			}
			fields := detailFields(t, err)
			if len(fields) != 1 {
				t.Fatalf("expected one failing field, got %v", fields)
			}
			if got := fields[tt.field]; got != tt.message {
				t.Errorf("message = %q, want %q", got, tt.message)
			}
		})
	}
}

func TestNilPointerSkipped(t *testing.T) {
	s := validSample()
	s.Ratio = nil
	if err := binding.Validator.ValidateStruct(s); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInvalidInput_NonValidationError(t *testing.T) {
	appErr := InvalidInput(errors.New("unexpected EOF"))
	if appErr.Code != "INVALID_INPUT" || len(appErr.Details) != 0 {
		t.Errorf("unexpected error %+v", appErr)
	}
	if appErr.Message != "Invalid request body: unexpected EOF" {
		t.Errorf("unexpected message %q", appErr.Message)
	}
}
