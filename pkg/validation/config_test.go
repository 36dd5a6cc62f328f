package validation

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestConfigValidator_Required(t *testing.T) {
	cv := NewConfigValidator("AuthConfig")
	cv.Required("Secret", "")

	if !cv.HasErrors() {
		t.Error("Expected error for empty required field")
	}

	cv2 := NewConfigValidator("AuthConfig")
	cv2.Required("Secret", "value")

	if cv2.HasErrors() {
		t.Error("Expected no error for non-empty required field")
	}
}

func TestConfigValidator_RangeInt(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"in range", 8080, false},
		{"at min", 1, false},
		{"at max", 65535, false},
		{"below min", 0, true},
		{"above max", 70000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := NewConfigValidator("ServerConfig")
			cv.RangeInt("Port", tt.value, 1, 65535)
			if cv.HasErrors() != tt.wantErr {
				t.Errorf("RangeInt(%d) HasErrors = %v, want %v", tt.value, cv.HasErrors(), tt.wantErr)
			}
		})
	}
}

func TestConfigValidator_Durations(t *testing.T) {
	cv := NewConfigValidator("ServerConfig")
	cv.RequiredDuration("ReadTimeout", 0).
		MinDuration("ShutdownTimeout", 500*time.Millisecond, time.Second)

	if len(cv.Errors()) != 2 {
		t.Errorf("Expected 2 errors, got %d: %v", len(cv.Errors()), cv.Errors())
	}
}

func TestConfigValidator_Positive(t *testing.T) {
	cv := NewConfigValidator("ServerConfig")
	cv.Positive("MaxBodyBytes", 0).Positive("BufferSize", -1)

	if len(cv.Errors()) != 2 {
		t.Errorf("Expected 2 errors, got %d", len(cv.Errors()))
	}

	cv2 := NewConfigValidator("ServerConfig")
	cv2.Positive("MaxBodyBytes", 1<<20)
	if cv2.HasErrors() {
		t.Errorf("Expected no errors, got %v", cv2.Errors())
	}
}

func TestConfigValidator_OneOf(t *testing.T) {
	levels := []string{"debug", "info", "warn", "error"}

	cv := NewConfigValidator("LogConfig")
	cv.OneOf("Level", "verbose", levels)
	if !cv.HasErrors() {
		t.Error("Expected error for value not in allowed list")
	}

	cv2 := NewConfigValidator("LogConfig")
	cv2.OneOf("Level", "warn", levels)
	if cv2.HasErrors() {
		t.Error("Expected no error for allowed value")
	}
}

func TestConfigValidator_Custom(t *testing.T) {
	sentinel := errors.New("must start with s3://")

	cv := NewConfigValidator("FacilityConfig")
	cv.Custom("Source", func() error { return sentinel })

	err := cv.Validate()
	if !errors.Is(err, sentinel) {
		t.Errorf("Expected wrapped custom error, got %v", err)
	}
	if !strings.Contains(err.Error(), "FacilityConfig.Source") {
		t.Errorf("Error %q does not name the field", err)
	}
}

func TestConfigValidator_When(t *testing.T) {
	cv := NewConfigValidator("AuthConfig")
	cv.When(true, func(v *ConfigValidator) {
		v.Required("OperatorPasswordHash", "")
	})
	if !cv.HasErrors() {
		t.Error("Expected error when condition is true")
	}

	cv2 := NewConfigValidator("AuthConfig")
	cv2.When(false, func(v *ConfigValidator) {
		v.Required("OperatorPasswordHash", "")
	})
	if cv2.HasErrors() {
		t.Error("Expected no error when condition is false")
	}
}

func TestConfigValidator_ValidateJoinsErrors(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	err := NewConfigValidator("Config").
		Custom("A", func() error { return first }).
		Custom("B", func() error { return second }).
		Validate()

	if err == nil {
		t.Fatal("Expected error from Validate()")
	}
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Errorf("Expected both errors to be reachable, got %v", err)
	}
	if !strings.Contains(err.Error(), "2 errors") || !strings.Contains(err.Error(), "Config.B: second") {
		t.Errorf("Unexpected message %q", err)
	}

	var many *ConfigErrors
	if !errors.As(err, &many) || len(many.Fields) != 2 {
		t.Errorf("Expected *ConfigErrors with 2 fields, got %T", err)
	}

	if err := NewConfigValidator("Config").Required("Name", "ok").Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestConfigValidator_SingleError(t *testing.T) {
	err := NewConfigValidator("AuthConfig").Required("Secret", "   ").Validate()

	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected *FieldError, got %T", err)
	}
	if fe.Field != "Secret" || err.Error() != "AuthConfig.Secret: is required" {
		t.Errorf("Unexpected error %q", err)
	}
}

func TestFieldNames(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"nil", nil, nil},
		{"plain", errors.New("boom"), nil},
		{"single", NewConfigValidator("C").Required("Host", "").Validate(), []string{"Host"}},
		{"many", NewConfigValidator("C").
			Required("Host", "").
			RangeInt("Port", 0, 1, 65535).
			Validate(), []string{"Host", "Port"}},
		{"wrapped", fmt.Errorf("load: %w", NewConfigValidator("C").Positive("Size", 0).Validate()), []string{"Size"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FieldNames(tt.err)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("FieldNames() = %v, want %v", got, tt.want)
			}
		})
	}
}
