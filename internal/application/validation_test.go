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
		wantMsg   string
	}{
		{
			name:      "valid value",
			fieldName: "text",
			value:     "明日の会議",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "text",
			value:     "",
			wantErr:   true,
			wantMsg:   "text is required",
		},
		{
			name:      "whitespace only",
			fieldName: "name",
			value:     " \t\n　",
			wantErr:   true,
			wantMsg:   "name is required",
		},
		{
			name:      "camel case field name",
			fieldName: "noteID",
			value:     "",
			wantErr:   true,
			wantMsg:   "note ID is required",
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
				if valErr.Message != tt.wantMsg {
					t.Errorf("expected message %q, got %q", tt.wantMsg, valErr.Message)
				}
			}
		})
	}
}

func TestValidateSection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"people", "people", false},
		{"local", "local", false},
		{"manual", "manual", false},
		{"remote", "remote", false},
		{"other", "other", false},
		{"unknown", "memu", true},
		{"empty", "", true},
		{"case sensitive", "Local", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			section, err := ValidateSection("section", tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateSection(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && string(section) != tt.input {
				t.Errorf("ValidateSection(%q) = %q", tt.input, section)
			}
		})
	}
}

func TestValidateClusterID(t *testing.T) {
	if err := ValidateClusterID("clusterID", "local:work"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateClusterID("clusterID", "  "); err == nil {
		t.Error("expected error for blank id")
	}
	if err := ValidateClusterID("clusterID", "local:\nwork"); err == nil {
		t.Error("expected error for multi-line id")
	}
}

func TestServiceError(t *testing.T) {
	cause := errors.New("boom")
	err := error(&ServiceError{Op: "retrieve", StatusCode: 502, Err: cause})

	if !errors.Is(err, ErrService) {
		t.Error("expected ServiceError to match ErrService")
	}
	if !errors.Is(err, cause) {
		t.Error("expected ServiceError to unwrap to its cause")
	}
	if got, want := err.Error(), "memory service retrieve: status 502: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	noStatus := &ServiceError{Op: "submit", Err: cause}
	if got, want := noStatus.Error(), "memory service submit: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestNotFoundError(t *testing.T) {
	err := error(&NotFoundError{Kind: "note", ID: "n1"})
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected NotFoundError to match ErrNotFound")
	}
	if got, want := err.Error(), "note not found: n1"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
