package monitor

import (
	"strings"
	"testing"
)

const componentSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "ComponentSelection",
	"type": "object",
	"properties": {
		"kind": { "type": "string", "enum": ["flow", "card", "applePay"] },
		"methods": { "type": "array", "items": { "type": "string" } }
	},
	"required": ["kind"]
}`

const amountUpdateSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "AmountUpdate",
	"type": "object",
	"properties": {
		"amount": { "type": "string" },
		"currency": { "type": "string", "pattern": "^[A-Z]{3}$" },
		"email": { "type": "string", "format": "email" }
	},
	"required": ["amount"]
}`

func TestNewContractMonitorFromString(t *testing.T) {
	t.Run("SuccessfulLoad", func(t *testing.T) {
		cm, err := NewContractMonitorFromString("component", componentSchema)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cm == nil || cm.schema == nil {
			t.Fatal("Expected compiled schema, got nil")
		}
	})

	t.Run("InvalidSchemaSyntax", func(t *testing.T) {
		_, err := NewContractMonitorFromString("broken", "{invalid_json")
		if err == nil {
			t.Fatal("Expected error for invalid schema syntax, got nil")
		}
		if !strings.Contains(err.Error(), "error loading or compiling schema broken") {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("MustPanicsOnBrokenSchema", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("Expected panic")
			}
		}()
		MustContractMonitor("broken", "{")
	})
}

func TestContractMonitor_Validate(t *testing.T) {
	cm, err := NewContractMonitorFromString("amount update", amountUpdateSchema)
	if err != nil {
		t.Fatalf("Failed to create ContractMonitor: %v", err)
	}

	tests := []struct {
		name          string
		payload       string
		expectValid   bool
		expectErrors  bool
		errorContains []string
	}{
		{
			name:        "ValidPayload",
			payload:     `{"amount": "1200", "currency": "GBP", "email": "jane@example.com"}`,
			expectValid: true,
		},
		{
			name:          "MissingRequiredField",
			payload:       `{"currency": "GBP"}`,
			expectErrors:  true,
			errorContains: []string{"amount is required"},
		},
		{
			name:          "WrongType",
			payload:       `{"amount": 12}`,
			expectErrors:  true,
			errorContains: []string{"Invalid type. Expected: string, given: integer"},
		},
		{
			name:          "PatternViolation",
			payload:       `{"amount": "1", "currency": "gbp"}`,
			expectErrors:  true,
			errorContains: []string{"currency"},
		},
		{
			name:          "FormatViolation",
			payload:       `{"amount": "1", "email": "not-an-email"}`,
			expectErrors:  true,
			errorContains: []string{"Does not match format 'email'"},
		},
		{
			name:        "AdditionalPropertyAllowed",
			payload:     `{"amount": "1", "note": "x"}`,
			expectValid: true,
		},
		{
			name:         "MalformedJSON",
			payload:      `{"amount": "1",`,
			expectErrors: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, validationErrs, funcErr := cm.Validate([]byte(tt.payload))

			if tt.expectErrors {
				if funcErr == nil && len(validationErrs) == 0 {
					t.Errorf("Expected errors, but got none")
				}
			} else {
				if funcErr != nil {
					t.Errorf("Expected no functional error, got %v", funcErr)
				}
				if len(validationErrs) > 0 {
					t.Errorf("Expected no validation errors, got %v", validationErrs)
				}
			}

			if valid != tt.expectValid {
				t.Errorf("Expected valid=%v, got valid=%v. ValidationErrors: %v, FuncErr: %v", tt.expectValid, valid, validationErrs, funcErr)
			}

			combined := strings.Join(validationErrs, "; ")
			for _, ec := range tt.errorContains {
				if !strings.Contains(combined, ec) {
					t.Errorf("Expected errors to contain '%s', but got: %s", ec, combined)
				}
			}
		})
	}
}

func TestFormatErrors(t *testing.T) {
	tests := []struct {
		name           string
		errors         []string
		expectedOutput string
	}{
		{"NoErrors", []string{}, ""},
		{"SingleError", []string{"kind: kind is required"}, "Validation errors: kind: kind is required"},
		{"MultipleErrors", []string{"Error 1", "Error 2"}, "Validation errors: Error 1; Error 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if output := FormatErrors(tt.errors); output != tt.expectedOutput {
				t.Errorf("Expected '%s', got '%s'", tt.expectedOutput, output)
			}
		})
	}
}
