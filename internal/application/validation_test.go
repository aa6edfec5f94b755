package application

import (
	"errors"
	"testing"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
	}{
		{
			name:      "valid value",
			fieldName: "boardID",
			value:     "5f1a2b3c",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "boardID",
			value:     "",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			fieldName: "boardID",
			value:     "   ",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.fieldName, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
				if valErr.Field != tt.fieldName {
					t.Errorf("expected field %s, got %s", tt.fieldName, valErr.Field)
				}
				if valErr.Message != "board ID is required" {
					t.Errorf("unexpected message: %s", valErr.Message)
				}
			}
		})
	}
}

func TestValidateShortID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "valid short link", id: "Xy12Ab", wantErr: false},
		{name: "empty", id: "", wantErr: true},
		{name: "with parentheses", id: "(Xy12Ab)", wantErr: true},
		{name: "with spaces", id: "Xy 12", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShortID("shortID", tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateShortID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestFormatFieldName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"boardID", "board ID"},
		{"cardID", "card ID"},
		{"apiToken", "API token"},
		{"unknownField", "unknownField"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := formatFieldName(tt.input); got != tt.expected {
				t.Errorf("formatFieldName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSyncError_Is(t *testing.T) {
	cause := errors.New("boom")
	err := &SyncError{Phase: "lists", Err: cause}

	if !errors.Is(err, ErrSyncFailed) {
		t.Error("expected SyncError to match ErrSyncFailed")
	}
	if !errors.Is(err, cause) {
		t.Error("expected SyncError to unwrap its cause")
	}
	if err.Error() != "lists sync failed: boom" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
